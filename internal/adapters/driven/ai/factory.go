// Package ai builds the embedding and chat backends from
// configuration. Providers are selected by the embedding.provider and
// llm.provider config keys; API keys come from the environment first,
// then from the config store.
package ai

import (
	"fmt"
	"os"

	"github.com/docuverse/docuverse/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/docuverse/docuverse/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docuverse/docuverse/internal/adapters/driven/embedding/openai"
	"github.com/docuverse/docuverse/internal/adapters/driven/llm/anthropic"
	"github.com/docuverse/docuverse/internal/adapters/driven/llm/groq"
	ollamallm "github.com/docuverse/docuverse/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docuverse/docuverse/internal/adapters/driven/llm/openai"
	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Embedding providers.
const (
	EmbeddingLocal  = "local"
	EmbeddingOpenAI = "openai"
	EmbeddingOllama = "ollama"
)

// Chat providers.
const (
	LLMGroq      = "groq"
	LLMOpenAI    = "openai"
	LLMAnthropic = "anthropic"
	LLMOllama    = "ollama"
)

// NewEmbeddingService builds the configured embedding backend.
// Defaults to the offline local embedder when no provider is set.
func NewEmbeddingService(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding.provider")
	if provider == "" {
		provider = EmbeddingLocal
	}

	switch provider {
	case EmbeddingLocal:
		return local.New(cfg.GetInt("embedding.dimensions")), nil

	case EmbeddingOpenAI:
		apiKey := resolveKey(cfg, "OPENAI_API_KEY", "embedding.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set",
				domain.ErrEmbeddingUnavailable)
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     apiKey,
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})

	case EmbeddingOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrInvalidArgument, provider)
	}
}

// NewLLMService builds the configured chat backend. Defaults to Groq.
func NewLLMService(cfg driven.ConfigStore) (driven.LLMService, error) {
	provider := cfg.GetString("llm.provider")
	if provider == "" {
		provider = LLMGroq
	}

	switch provider {
	case LLMGroq:
		apiKey := resolveKey(cfg, "GROQ_API_KEY", "llm.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: GROQ_API_KEY is not set",
				domain.ErrLLMUnavailable)
		}
		return groq.NewLLMService(groq.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})

	case LLMOpenAI:
		apiKey := resolveKey(cfg, "OPENAI_API_KEY", "llm.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set",
				domain.ErrLLMUnavailable)
		}
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})

	case LLMAnthropic:
		apiKey := resolveKey(cfg, "ANTHROPIC_API_KEY", "llm.api_key")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY is not set",
				domain.ErrLLMUnavailable)
		}
		return anthropic.NewLLMService(anthropic.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		})

	case LLMOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.GetString("llm.base_url"),
			Model:   cfg.GetString("llm.model"),
		}), nil

	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q",
			domain.ErrInvalidArgument, provider)
	}
}

// resolveKey returns the API key from the environment, falling back to
// the config store.
func resolveKey(cfg driven.ConfigStore, envVar, configKey string) string {
	if key := os.Getenv(envVar); key != "" {
		return key
	}
	return cfg.GetString(configKey)
}
