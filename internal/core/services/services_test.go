package services

import (
	"context"
	"errors"
	"sync"

	"github.com/docuverse/docuverse/internal/adapters/driven/embedding/local"
	indexmem "github.com/docuverse/docuverse/internal/adapters/driven/index/memory"
	storemem "github.com/docuverse/docuverse/internal/adapters/driven/storage/memory"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/extractors"
	"github.com/docuverse/docuverse/internal/extractors/csv"
	"github.com/docuverse/docuverse/internal/extractors/plaintext"
	"github.com/docuverse/docuverse/internal/segmenter"
)

// fakeLLM returns a canned reply and records what it was asked.
type fakeLLM struct {
	mu       sync.Mutex
	reply    string
	err      error
	calls    int
	messages []driven.ChatMessage
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) ModelName() string          { return "fake-model" }
func (f *fakeLLM) Ping(context.Context) error { return nil }
func (f *fakeLLM) Close() error               { return nil }

// failingEmbedder fails every call, for exercising pipeline error paths.
type failingEmbedder struct{}

func (failingEmbedder) Embed(context.Context, string) ([]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, errors.New("embedding backend down")
}

func (failingEmbedder) Dimensions() int            { return 8 }
func (failingEmbedder) ModelName() string          { return "failing" }
func (failingEmbedder) Ping(context.Context) error { return errors.New("down") }
func (failingEmbedder) Close() error               { return nil }

// newTestRegistry wires the extractors the service tests exercise.
func newTestRegistry() *extractors.Registry {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(csv.New())
	return registry
}

// newTestIndexer builds an index manager over real in-memory parts.
func newTestIndexer(store driven.ConversationStore, embedder driven.EmbeddingService) *IndexManager {
	if embedder == nil {
		embedder = local.New(32)
	}
	return NewIndexManager(
		newTestRegistry(),
		segmenter.New(),
		embedder,
		store,
		func(dims int) (driven.VectorIndex, error) {
			return indexmem.New(dims)
		},
	)
}

// newTestStack builds the full service stack used by most tests.
func newTestStack(llm driven.LLMService, opts ...QueryOption) (*storemem.ConversationStore, *IndexManager, *QueryEngine) {
	store := storemem.NewConversationStore()
	embedder := local.New(32)
	indexer := newTestIndexer(store, embedder)
	query := NewQueryEngine(indexer, embedder, llm, store, opts...)
	return store, indexer, query
}
