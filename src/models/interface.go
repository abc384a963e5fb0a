// Package models binds the opaque text-generation services. Each
// provider takes a finished prompt and returns the completion text or a
// typed failure, so callers can tell a safety refusal from an empty
// completion from an unreachable service.
package models

import (
	"context"
	"errors"
	"fmt"
)

// Generator is a prompt-in/text-out completion provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrEmptyCompletion is returned when the service answered successfully
// but produced no text.
var ErrEmptyCompletion = errors.New("models: empty completion")

// FilteredError reports a completion refused on safety grounds. The
// provider's filter category is preserved for observability.
type FilteredError struct {
	Category string
}

func (e *FilteredError) Error() string {
	return fmt.Sprintf("models: completion blocked by safety filter (%s)", e.Category)
}
