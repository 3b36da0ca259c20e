package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// readRequest creates a ReadResourceRequest with the given URI.
func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleConversationsResource(t *testing.T) {
	ctx := context.Background()

	conv := &mockConversationService{
		conversations: []domain.Conversation{
			{SessionID: "session-1", Name: "First", CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
	}
	server, err := NewServer(&Ports{Conversation: conv})
	require.NoError(t, err)

	result, err := server.handleConversationsResource(ctx, readRequest(uriScheme+"conversations"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"session-1"`)
	assert.Contains(t, result.Contents[0].Text, `"First"`)
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	conv := &mockConversationService{
		documents: []domain.Document{
			{ID: "doc-1", Filename: "report.pdf", Format: domain.FormatPDF},
		},
	}
	server, err := NewServer(&Ports{Conversation: conv})
	require.NoError(t, err)

	t.Run("returns the documents", func(t *testing.T) {
		uri := uriScheme + "conversations/session-1/documents"
		result, err := server.handleDocumentsResource(ctx, readRequest(uri))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"report.pdf"`)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		uri := uriScheme + "conversations/session-1"
		_, err := server.handleDocumentsResource(ctx, readRequest(uri))
		assert.Error(t, err)
	})
}

func TestServer_handleHistoryResource(t *testing.T) {
	ctx := context.Background()

	conv := &mockConversationService{
		messages: []domain.Message{
			{Role: domain.RoleUser, Content: "What is in the report?"},
			{Role: domain.RoleAssistant, Content: "Quarterly figures."},
		},
	}
	server, err := NewServer(&Ports{Conversation: conv})
	require.NoError(t, err)

	uri := uriScheme + "conversations/session-1/history"
	result, err := server.handleHistoryResource(ctx, readRequest(uri))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Contains(t, result.Contents[0].Text, `"user"`)
	assert.Contains(t, result.Contents[0].Text, "Quarterly figures.")
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		suffix string
		want   string
	}{
		{"documents URI", uriScheme + "conversations/abc/documents", "/documents", "abc"},
		{"history URI", uriScheme + "conversations/abc/history", "/history", "abc"},
		{"wrong scheme", "other://conversations/abc/documents", "/documents", ""},
		{"missing suffix", uriScheme + "conversations/abc", "/documents", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractSessionID(tt.uri, tt.suffix))
		})
	}
}
