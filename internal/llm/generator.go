package llm

import (
	"context"
	"fmt"
)

// Generator produces a text completion for a single prompt. No streaming;
// the answer pipeline consumes whole completions.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationError reports a failed call to the generative model.
type GenerationError struct {
	// Status is the HTTP status code, or 0 when the call never completed.
	Status  int
	Message string
}

func (e *GenerationError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("generation: %s", e.Message)
	}
	return fmt.Sprintf("generation: status %d: %s", e.Status, e.Message)
}
