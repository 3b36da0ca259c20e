package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument indicates malformed or invalid input,
	// such as a non-positive k or an empty question.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat indicates the file's format tag is not
	// recognised by any extractor.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrCorruptDocument indicates the extractor could not decode the
	// file content. The document is skipped, never fatal to a batch.
	ErrCorruptDocument = errors.New("corrupt document")

	// ErrTooLarge indicates an upload exceeds the configured size cap.
	ErrTooLarge = errors.New("file too large")

	// ErrDimensionMismatch indicates a vector's dimension does not
	// match the dimension fixed at index creation.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrGenerationFailed indicates the LLM call failed (timeout,
	// rate limit, malformed response). The cause is wrapped.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Indexing and retrieval are disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")
)
