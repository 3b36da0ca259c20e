package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storemem "github.com/docuverse/docuverse/internal/adapters/driven/storage/memory"
	"github.com/docuverse/docuverse/internal/core/domain"
)

func newTestUploader(t *testing.T, llm *fakeLLM) (*UploadService, *storemem.ConversationStore, *IndexManager, string) {
	t.Helper()
	store, indexer, query := newTestStack(llm)
	dir := t.TempDir()
	uploader := NewUploadService(store, indexer, query, dir, 0)
	return uploader, store, indexer, dir
}

func TestUploadService_Upload(t *testing.T) {
	uploader, store, indexer, dir := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	doc, err := uploader.Upload(ctx, conv.SessionID, "notes.txt",
		[]byte("Meeting notes about the launch plan."))
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.Equal(t, domain.FormatText, doc.Format)
	assert.Equal(t, filepath.Join(dir, conv.SessionID, "notes.txt"), doc.Path)

	// File on disk, record in the store, segments in the index.
	assert.FileExists(t, doc.Path)
	files, err := store.Files(ctx, conv.SessionID)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, doc.ID, files[0].ID)
	assert.Greater(t, indexer.Index(conv.SessionID).Len(), 0)
}

func TestUploadService_Upload_TooLarge(t *testing.T) {
	store, indexer, query := newTestStack(&fakeLLM{})
	uploader := NewUploadService(store, indexer, query, t.TempDir(), 10)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	_, err = uploader.Upload(ctx, conv.SessionID, "big.txt",
		[]byte("well over ten bytes of content"))
	assert.ErrorIs(t, err, domain.ErrTooLarge)

	files, err := store.Files(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestUploadService_Upload_UnsupportedFormat(t *testing.T) {
	uploader, store, _, _ := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	_, err = uploader.Upload(ctx, conv.SessionID, "binary.exe", []byte{0x4d, 0x5a})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.ErrorContains(t, err, ".exe")
}

func TestUploadService_Upload_MissingConversation(t *testing.T) {
	uploader, _, _, _ := newTestUploader(t, &fakeLLM{})

	_, err := uploader.Upload(context.Background(), "missing", "notes.txt", []byte("content"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUploadService_Upload_DuplicateName(t *testing.T) {
	uploader, store, _, _ := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	_, err = uploader.Upload(ctx, conv.SessionID, "notes.txt", []byte("first"))
	require.NoError(t, err)

	_, err = uploader.Upload(ctx, conv.SessionID, "notes.txt", []byte("second"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestUploadService_Upload_IndexFailureRollsBack(t *testing.T) {
	store := storemem.NewConversationStore()
	indexer := newTestIndexer(store, failingEmbedder{})
	llm := &fakeLLM{}
	query := NewQueryEngine(indexer, failingEmbedder{}, llm, store)
	dir := t.TempDir()
	uploader := NewUploadService(store, indexer, query, dir, 0)
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	_, err = uploader.Upload(ctx, conv.SessionID, "notes.txt", []byte("content"))
	require.Error(t, err)

	// Neither the record nor the file survives a failed indexing run.
	files, err := store.Files(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NoFileExists(t, filepath.Join(dir, conv.SessionID, "notes.txt"))
}

func TestUploadService_UploadBatch(t *testing.T) {
	uploader, store, _, _ := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	result, err := uploader.UploadBatch(ctx, conv.SessionID, []domain.RawFile{
		{Filename: "a.txt", Content: []byte("first file")},
		{Filename: "bad.exe", Content: []byte("unsupported")},
		{Filename: "c.txt", Content: []byte("third file")},
	})
	require.NoError(t, err)
	require.Len(t, result.Statuses, 3)
	assert.Equal(t, 2, result.Indexed())
	assert.Equal(t, 1, result.Failed())
	assert.ErrorIs(t, result.Statuses[1].Err, domain.ErrUnsupportedFormat)

	files, err := store.Files(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestUploadService_Remove(t *testing.T) {
	uploader, store, indexer, _ := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	doc, err := uploader.Upload(ctx, conv.SessionID, "notes.txt", []byte("content to remove"))
	require.NoError(t, err)
	require.Greater(t, indexer.Index(conv.SessionID).Len(), 0)

	require.NoError(t, uploader.Remove(ctx, conv.SessionID, doc.ID))

	files, err := store.Files(ctx, conv.SessionID)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Equal(t, 0, indexer.Index(conv.SessionID).Len())
	assert.NoFileExists(t, doc.Path)

	assert.ErrorIs(t, uploader.Remove(ctx, conv.SessionID, doc.ID), domain.ErrNotFound)
}

func TestUploadService_PathTraversalNeutralised(t *testing.T) {
	uploader, store, _, dir := newTestUploader(t, &fakeLLM{})
	ctx := context.Background()

	conv, err := store.CreateConversation(ctx, "test")
	require.NoError(t, err)

	doc, err := uploader.Upload(ctx, conv.SessionID, "../../escape.txt", []byte("content"))
	require.NoError(t, err)

	// Only the base name is used; the file stays inside the session dir.
	assert.Equal(t, "escape.txt", doc.Filename)
	assert.Equal(t, filepath.Join(dir, conv.SessionID, "escape.txt"), doc.Path)
	assert.NoFileExists(t, filepath.Join(dir, "..", "escape.txt"))

	_, err = os.Stat(doc.Path)
	assert.NoError(t, err)
}
