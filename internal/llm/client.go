// Package llm talks to the language model backends used for OCR and categorization
package llm

import (
	"context"
	"errors"
)

// Client sends a prompt, optionally with an image, and returns the model's text
type Client interface {
	// Complete sends a text-only prompt
	Complete(ctx context.Context, prompt string) (string, error)
	// CompleteWithImage sends a prompt together with a receipt image or PDF
	CompleteWithImage(ctx context.Context, prompt string, data []byte, contentType string) (string, error)
	// Close releases the backend's resources
	Close() error
}

// ErrEmptyResponse is returned when a backend answers with no text
var ErrEmptyResponse = errors.New("empty response from model")
