package assistant

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a user question plus the system prompt into raw
// model text. Implementations own their transport; callers only see
// text, a *GenerationError, or ErrGenerationTimeout.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, question string) (string, error)
}

// ErrGenerationTimeout is returned when a polling-style backend does
// not finish within its attempt budget.
var ErrGenerationTimeout = errors.New("assistant: generation timed out")

// GenerationError carries the model endpoint's status and raw body.
// Generation is never retried; a failed call fails the turn.
type GenerationError struct {
	Status int
	Body   string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("model endpoint returned status %d: %s", e.Status, e.Body)
}
