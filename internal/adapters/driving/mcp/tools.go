package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// AskInput is the input schema for the ask_question tool.
type AskInput struct {
	SessionID string `json:"session_id" jsonschema:"the conversation to ask in"`
	Question  string `json:"question" jsonschema:"the question to answer from the conversation's documents"`
}

// AskOutput is the output schema for the ask_question tool.
type AskOutput struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources,omitempty"`
	UsedContext bool     `json:"used_context"`
	Cached      bool     `json:"cached"`
}

// NewConversationInput is the input schema for the new_conversation tool.
type NewConversationInput struct {
	Name string `json:"name,omitempty" jsonschema:"optional conversation title; a dated default is used when empty"`
}

// ConversationOutput describes one conversation.
type ConversationOutput struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// ListConversationsOutput is the output schema for the
// list_conversations tool.
type ListConversationsOutput struct {
	Conversations []ConversationOutput `json:"conversations"`
	Count         int                  `json:"count"`
}

// ListConversationsInput is the input schema for the
// list_conversations tool. The tool takes no arguments.
type ListConversationsInput struct{}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	SessionID string `json:"session_id" jsonschema:"the conversation whose documents to list"`
}

// DocumentOutput describes one uploaded document.
type DocumentOutput struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Format   string `json:"format"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	SessionID string `json:"session_id" jsonschema:"the conversation to upload into"`
	Filename  string `json:"filename" jsonschema:"the file name, including its extension"`
	Content   string `json:"content" jsonschema:"the file content as text"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Format     string `json:"format"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from a conversation's uploaded documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "new_conversation",
		Description: "Start a new conversation",
	}, s.handleNewConversation)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_conversations",
		Description: "List all conversations",
	}, s.handleListConversations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents uploaded to a conversation",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Upload a text document into a conversation and index it",
	}, s.handleUpload)
}

// handleAsk handles the ask_question tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	s.rebuild(ctx, input.SessionID)

	answer, err := s.ports.Conversation.Ask(ctx, input.SessionID, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:      answer.Text,
		Sources:     answer.Sources,
		UsedContext: answer.UsedContext,
		Cached:      answer.Cached,
	}, nil
}

// handleNewConversation handles the new_conversation tool invocation.
func (s *Server) handleNewConversation(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input NewConversationInput,
) (*mcp.CallToolResult, ConversationOutput, error) {
	conv, err := s.ports.Conversation.New(ctx, input.Name)
	if err != nil {
		return nil, ConversationOutput{}, err
	}
	return nil, conversationOutput(*conv), nil
}

// handleListConversations handles the list_conversations tool invocation.
func (s *Server) handleListConversations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListConversationsInput,
) (*mcp.CallToolResult, ListConversationsOutput, error) {
	convs, err := s.ports.Conversation.List(ctx)
	if err != nil {
		return nil, ListConversationsOutput{}, err
	}

	output := ListConversationsOutput{
		Conversations: make([]ConversationOutput, len(convs)),
		Count:         len(convs),
	}
	for i := range convs {
		output.Conversations[i] = conversationOutput(convs[i])
	}
	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs, err := s.ports.Conversation.Files(ctx, input.SessionID)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:       docs[i].ID,
			Filename: docs[i].Filename,
			Format:   string(docs[i].Format),
		}
	}
	return nil, output, nil
}

// handleUpload handles the upload_document tool invocation.
func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	if s.ports.Uploader == nil {
		return nil, UploadOutput{}, errors.New("uploads are not enabled on this server")
	}

	doc, err := s.ports.Uploader.Upload(ctx, input.SessionID, input.Filename, []byte(input.Content))
	if err != nil {
		return nil, UploadOutput{}, err
	}

	return nil, UploadOutput{
		DocumentID: doc.ID,
		Filename:   doc.Filename,
		Format:     string(doc.Format),
	}, nil
}

func conversationOutput(conv domain.Conversation) ConversationOutput {
	return ConversationOutput{
		SessionID: conv.SessionID,
		Name:      conv.Name,
		CreatedAt: conv.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
