// Command docuverse is a CLI for chatting with uploaded documents.
// Files are extracted, segmented, embedded and indexed per
// conversation; questions are answered from the most relevant
// excerpts by a Groq-hosted model.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/docuverse/docuverse/internal/adapters/driven/ai"
	configfile "github.com/docuverse/docuverse/internal/adapters/driven/config/file"
	"github.com/docuverse/docuverse/internal/adapters/driven/embedding/local"
	"github.com/docuverse/docuverse/internal/adapters/driven/index/memory"
	"github.com/docuverse/docuverse/internal/adapters/driven/storage/sqlite"
	"github.com/docuverse/docuverse/internal/adapters/driving/cli"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/services"
	"github.com/docuverse/docuverse/internal/extractors"
	"github.com/docuverse/docuverse/internal/extractors/csv"
	"github.com/docuverse/docuverse/internal/extractors/docx"
	"github.com/docuverse/docuverse/internal/extractors/jsondoc"
	"github.com/docuverse/docuverse/internal/extractors/pdf"
	"github.com/docuverse/docuverse/internal/extractors/plaintext"
	"github.com/docuverse/docuverse/internal/extractors/pptx"
	"github.com/docuverse/docuverse/internal/logger"
	"github.com/docuverse/docuverse/internal/segmenter"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env file; real environment wins.
	_ = godotenv.Load()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".docuverse")

	configStore, err := configfile.NewConfigStore(baseDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	registry.Register(csv.New())
	registry.Register(jsondoc.New())
	registry.Register(pdf.New())
	registry.Register(docx.New())
	registry.Register(pptx.New())

	embedder, err := ai.NewEmbeddingService(configStore)
	if err != nil {
		logger.Warn("Embedding backend unavailable (%v), using local embedder", err)
		embedder = local.New(configStore.GetInt("embedding.dimensions"))
	}
	defer embedder.Close()

	llm, err := ai.NewLLMService(configStore)
	if err != nil {
		// Document management keeps working; only ask and chat fail.
		llm = ai.NewNullLLM(err)
	}
	defer llm.Close()

	indexer := services.NewIndexManager(
		registry,
		segmenterFromConfig(configStore),
		embedder,
		store,
		func(dims int) (driven.VectorIndex, error) {
			return memory.New(dims)
		},
	)

	queryOpts := []services.QueryOption{}
	if topK := configStore.GetInt("retrieval.top_k"); topK > 0 {
		queryOpts = append(queryOpts, services.WithTopK(topK))
	}
	query := services.NewQueryEngine(indexer, embedder, llm, store, queryOpts...)

	conversations := services.NewConversationManager(store, indexer, query)
	uploads := services.NewUploadService(store, indexer, query,
		filepath.Join(baseDir, "uploads"), int64(configStore.GetInt("upload.max_bytes")))

	cli.Configure(cli.Config{
		ConversationService: conversations,
		Uploader:            uploads,
		Indexer:             indexer,
		ConfigStore:         configStore,
	})
	return cli.Execute()
}

// segmenterFromConfig builds the segmenter with any configured
// overrides.
func segmenterFromConfig(cfg driven.ConfigStore) driven.Segmenter {
	opts := []segmenter.Option{}
	if size := cfg.GetInt("segmenter.size"); size > 0 {
		opts = append(opts, segmenter.WithSegmentSize(size))
	}
	if overlap := cfg.GetInt("segmenter.overlap"); overlap > 0 {
		opts = append(opts, segmenter.WithOverlap(overlap))
	}
	return segmenter.New(opts...)
}
