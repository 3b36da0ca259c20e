// Package tui provides an interactive terminal user interface for DocuVerse.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/docuverse/docuverse/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversation manages chat sessions and answers questions.
	Conversation driving.ConversationService

	// Indexer rebuilds per-session indexes. Vectors live in memory
	// only, so a session's index is rebuilt when a chat is opened.
	Indexer driving.Indexer
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Conversation == nil {
		return ErrMissingConversationService
	}
	// Indexer is optional; without it, answers come from whatever is
	// already indexed in the running process.
	return nil
}
