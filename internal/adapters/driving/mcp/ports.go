package mcp

import (
	"github.com/docuverse/docuverse/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Conversation manages chat sessions and answers questions.
	Conversation driving.ConversationService

	// Uploader accepts raw file bytes for a session.
	Uploader driving.Uploader

	// Indexer rebuilds per-session indexes. Vectors live in memory
	// only, so a session's index must be rebuilt before it is queried.
	Indexer driving.Indexer
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Conversation == nil {
		return ErrMissingConversationService
	}
	// Uploader and Indexer are optional; tools that need them report
	// their absence per call.
	return nil
}
