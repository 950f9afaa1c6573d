package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"bookbot/internal/domain"
)

// Answerer is the question-answering pipeline behind the chat endpoint.
type Answerer interface {
	Answer(ctx context.Context, query string) domain.Result
}

// History records chat turns and replays session transcripts.
type History interface {
	Append(ctx context.Context, turn domain.Turn) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.Turn, error)
}

// Server is the HTTP boundary of the chatbot. Pipeline internals never leak
// through it: the agent degrades its own failures to a generic answer text,
// and history problems only cost the transcript, not the response.
type Server struct {
	echo    *echo.Echo
	agent   Answerer
	history History
}

// New wires the routes onto a fresh echo instance.
func New(agent Answerer, history History) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	s := &Server{echo: e, agent: agent, history: history}
	e.GET("/", s.handleRoot)
	e.POST("/api/chat", s.handleChat)
	e.GET("/api/history/:session_id", s.handleHistory)
	return s
}

// Start begins serving on the given address and blocks until shutdown.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Answer    string `json:"answer"`
	SessionID string `json:"session_id"`
}

type turnResponse struct {
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Timestamp   time.Time `json:"timestamp"`
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Welcome to the BookBot API!"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Message) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message cannot be empty")
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx := c.Request().Context()
	result := s.agent.Answer(ctx, req.Message)
	if err := s.history.Append(ctx, domain.Turn{
		SessionID:   sessionID,
		UserMessage: req.Message,
		BotResponse: result.Text,
	}); err != nil {
		slog.Warn("failed to record chat turn", "session_id", sessionID, "error", err)
	}
	return c.JSON(http.StatusOK, chatResponse{Answer: result.Text, SessionID: sessionID})
}

func (s *Server) handleHistory(c echo.Context) error {
	sessionID := c.Param("session_id")
	turns, err := s.history.ListBySession(c.Request().Context(), sessionID)
	if err != nil {
		slog.Error("failed to load chat history", "session_id", sessionID, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "an internal error occurred")
	}
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, turnResponse{
			UserMessage: t.UserMessage,
			BotResponse: t.BotResponse,
			Timestamp:   t.Timestamp,
		})
	}
	return c.JSON(http.StatusOK, out)
}
