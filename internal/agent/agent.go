package agent

import (
	"context"
	"log/slog"
	"strings"

	"bookbot/internal/domain"
	"bookbot/internal/llm"
	"bookbot/internal/prompt"
)

// ErrorReply is the generic degraded-answer text returned when any pipeline
// stage fails. It is deliberately distinct from prompt.Fallback so "no
// grounding found" and "pipeline error" stay tellable apart.
const ErrorReply = "Sorry, I encountered an error while generating a response."

const defaultTopK = 3

// Retriever is the passage lookup the agent grounds answers on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]string, error)
}

// Agent answers questions through the full retrieval-augmented pipeline:
// retrieve passages, assemble a grounding prompt, call the model. It never
// returns an error to its caller; failures degrade to ErrorReply and are
// logged with the failing stage.
type Agent struct {
	retriever Retriever
	generator llm.Generator
	topK      int
}

// New creates an agent. topK <= 0 selects the default of 3 passages.
func New(retriever Retriever, generator llm.Generator, topK int) *Agent {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Agent{retriever: retriever, generator: generator, topK: topK}
}

// Answer runs the pipeline for one query. When retrieval finds nothing
// there is provably no grounding, so the fixed fallback is returned without
// spending a model call.
func (a *Agent) Answer(ctx context.Context, query string) domain.Result {
	passages, err := a.retriever.Retrieve(ctx, query, a.topK)
	if err != nil {
		slog.Error("retrieval failed", "stage", "retrieve", "error", err)
		return domain.Result{Text: ErrorReply, Outcome: domain.Failed}
	}
	if len(passages) == 0 {
		return domain.Result{Text: prompt.Fallback, Outcome: domain.NotGrounded}
	}
	answer, err := a.generator.Generate(ctx, prompt.Assemble(passages, query))
	if err != nil {
		slog.Error("generation failed", "stage", "generate", "error", err)
		return domain.Result{Text: ErrorReply, Outcome: domain.Failed}
	}
	return domain.Result{Text: strings.TrimSpace(answer), Outcome: domain.Answered}
}
