package domain

import "time"

// Turn is one recorded exchange in a chat session.
type Turn struct {
	ID          int64
	SessionID   string
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}

// Outcome tags how an answer was produced.
type Outcome int

const (
	// Answered means the model produced a grounded answer.
	Answered Outcome = iota
	// NotGrounded means retrieval found nothing to ground on; the fixed
	// fallback text was returned without calling the model.
	NotGrounded
	// Failed means some stage of the pipeline errored and a generic
	// degraded-answer text was returned instead.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Answered:
		return "answered"
	case NotGrounded:
		return "not_grounded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is an answer text together with how it came to be. Callers that
// only care about the text can ignore the tag; the HTTP layer renders
// Text either way.
type Result struct {
	Text    string
	Outcome Outcome
}
