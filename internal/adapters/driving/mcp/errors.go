// Package mcp provides an MCP (Model Context Protocol) server adapter
// for DocuVerse. It lets AI assistants manage conversations, upload
// documents and ask questions against them.
package mcp

import "errors"

// ErrMissingConversationService is returned when the conversation
// service is not provided.
var ErrMissingConversationService = errors.New("mcp: conversation service is required")
