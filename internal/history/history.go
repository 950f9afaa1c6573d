package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"bookbot/internal/domain"
)

// Store is an append-only record of chat turns keyed by session id. The
// RAG core only produces the bot response value; this store owns the
// persistence around it.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given DSN.
//
// WAL journal mode and a busy timeout keep the single-file database usable
// under concurrent chat requests; with WAL a single connection is optimal
// for the modernc driver.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}
	db, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return &Store{db: db}, nil
}

// Migrate creates the chat history table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS chat_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			user_message TEXT NOT NULL,
			bot_response TEXT NOT NULL,
			timestamp INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_chat_history_session ON chat_history (session_id);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to create chat_history table")
	}
	return nil
}

// Append records one exchange. A zero timestamp is filled with the current
// time.
func (s *Store) Append(ctx context.Context, turn domain.Turn) error {
	ts := turn.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_history (session_id, user_message, bot_response, timestamp) VALUES (?, ?, ?, ?)`,
		turn.SessionID, turn.UserMessage, turn.BotResponse, ts.Unix(),
	)
	return errors.Wrap(err, "failed to append chat turn")
}

// ListBySession returns the session's turns in insertion order.
func (s *Store) ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, user_message, bot_response, timestamp FROM chat_history WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query chat history")
	}
	defer rows.Close()
	var turns []domain.Turn
	for rows.Next() {
		var t domain.Turn
		var ts int64
		if err := rows.Scan(&t.ID, &t.SessionID, &t.UserMessage, &t.BotResponse, &ts); err != nil {
			return nil, errors.Wrap(err, "failed to scan chat turn")
		}
		t.Timestamp = time.Unix(ts, 0).UTC()
		turns = append(turns, t)
	}
	return turns, errors.Wrap(rows.Err(), "failed to read chat history")
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
