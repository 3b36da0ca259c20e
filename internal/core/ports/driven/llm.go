package driven

import "context"

// LLMService produces answers from an external chat-completion API.
//
// Implementations own bounded retry/backoff and rate limiting; callers
// surface failures to the user rather than retrying.
//
// Implementations may include:
//   - Groq (deepseek, llama)
//   - OpenAI-compatible endpoints
type LLMService interface {
	// Chat conducts a multi-turn conversation and returns the
	// generated text.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
