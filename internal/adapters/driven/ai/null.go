package ai

import (
	"context"
	"fmt"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure NullLLM implements the interface.
var _ driven.LLMService = (*NullLLM)(nil)

// NullLLM stands in when no chat backend is configured. Document
// management keeps working; only generation fails, with guidance.
type NullLLM struct {
	// Reason explains why no backend is available.
	Reason error
}

// NewNullLLM creates a stand-in chat backend that fails with the
// given reason.
func NewNullLLM(reason error) *NullLLM {
	return &NullLLM{Reason: reason}
}

// Chat always fails with the configured reason.
func (n *NullLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	return "", n.err()
}

// ModelName identifies the stand-in.
func (n *NullLLM) ModelName() string {
	return "none"
}

// Ping always fails with the configured reason.
func (n *NullLLM) Ping(context.Context) error {
	return n.err()
}

// Close releases nothing.
func (n *NullLLM) Close() error {
	return nil
}

func (n *NullLLM) err() error {
	if n.Reason != nil {
		return n.Reason
	}
	return fmt.Errorf("%w: no chat backend configured", domain.ErrLLMUnavailable)
}
