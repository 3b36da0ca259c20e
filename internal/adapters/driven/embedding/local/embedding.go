// Package local provides a deterministic embedding service that needs
// no network or API key. Texts are embedded as L2-normalised hashed
// bag-of-words vectors: useful for offline operation and as a stable
// baseline, not a substitute for a learned model.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size. Large enough to keep
// token collisions rare for document-sized vocabularies.
const DefaultDimensions = 384

// modelName identifies this embedder in stored metadata.
const modelName = "hashed-bow"

// EmbeddingService embeds text by hashing tokens into a fixed number
// of buckets. The same text always produces the same vector.
type EmbeddingService struct {
	dimensions int
}

// New creates a local embedding service. A non-positive dimensions
// value falls back to the default.
func New(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a vector embedding for the given text.
// An empty or tokenless text produces a zero vector.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec, nil
	}

	for _, tok := range tokens {
		vec[bucket(tok, s.dimensions)]++
	}

	normalise(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// Ping always succeeds: there is no remote service to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// tokenize splits text into lowercase word tokens. Letters and digits
// form tokens; everything else separates them.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// bucket maps a token to a vector index via FNV-1a.
func bucket(token string, dimensions int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dimensions))
}

// normalise scales vec to unit length in place. A zero vector is left
// unchanged.
func normalise(vec []float32) {
	var sum float64
	for _, x := range vec {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
