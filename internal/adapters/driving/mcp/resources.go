package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for DocuVerse resources.
	uriScheme = "docuverse://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing conversations.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "conversations",
		Name:        "conversations",
		Description: "List of all conversations",
		MIMEType:    "application/json",
	}, s.handleConversationsResource)

	// Template for a conversation's documents.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{sessionId}/documents",
		Name:        "conversation-documents",
		Description: "Documents uploaded to a specific conversation",
		MIMEType:    "application/json",
	}, s.handleDocumentsResource)

	// Template for a conversation's chat history.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "conversations/{sessionId}/history",
		Name:        "conversation-history",
		Description: "Message history of a specific conversation",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)
}

// handleConversationsResource returns a list of all conversations.
func (s *Server) handleConversationsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	convs, err := s.ports.Conversation.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}

	infos := make([]ConversationOutput, len(convs))
	for i := range convs {
		infos[i] = conversationOutput(convs[i])
	}

	return jsonResource(req.Params.URI, infos)
}

// handleDocumentsResource returns documents for a specific conversation.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract sessionId from URI: docuverse://conversations/{sessionId}/documents
	sessionID := extractSessionID(req.Params.URI, "/documents")
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	docs, err := s.ports.Conversation.Files(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]DocumentOutput, len(docs))
	for i := range docs {
		infos[i] = DocumentOutput{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Format:   string(docs[i].Format),
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// handleHistoryResource returns the message history of a conversation.
func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract sessionId from URI: docuverse://conversations/{sessionId}/history
	sessionID := extractSessionID(req.Params.URI, "/history")
	if sessionID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	messages, err := s.ports.Conversation.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	type messageInfo struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	infos := make([]messageInfo, len(messages))
	for i := range messages {
		infos[i] = messageInfo{
			Role:    messages[i].Role,
			Content: messages[i].Content,
		}
	}

	return jsonResource(req.Params.URI, infos)
}

// jsonResource wraps a value as a JSON resource result.
func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSessionID extracts the session ID from a URI like
// docuverse://conversations/{sessionId}{suffix}.
func extractSessionID(uri, suffix string) string {
	const prefix = uriScheme + "conversations/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	return strings.TrimSuffix(uri, suffix)
}
