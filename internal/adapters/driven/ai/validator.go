package ai

import (
	"context"
	"time"

	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// ValidateEmbedding builds the configured embedding backend and pings
// it. Used by the status command to check credentials before any
// documents are uploaded.
func ValidateEmbedding(cfg driven.ConfigStore) error {
	svc, err := NewEmbeddingService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLM builds the configured chat backend and pings it.
func ValidateLLM(cfg driven.ConfigStore) error {
	svc, err := NewLLMService(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
