package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
	"github.com/docuverse/docuverse/internal/core/ports/driving"
	"github.com/docuverse/docuverse/internal/logger"
)

// Ensure QueryEngine implements the interface.
var _ driving.Query = (*QueryEngine)(nil)

// Retrieval and generation defaults.
const (
	// DefaultTopK is how many segments are retrieved per question.
	DefaultTopK = 5

	// DefaultMaxHistory bounds how many prior messages are replayed to
	// the LLM.
	DefaultMaxHistory = 10

	// answerMaxTokens caps the generated reply length.
	answerMaxTokens = 2048

	// answerTemperature keeps replies grounded in the retrieved context.
	answerTemperature = 0.3
)

// systemPrompt frames every conversation sent to the LLM.
const systemPrompt = `You are a helpful assistant that answers questions about the user's uploaded documents. Base your answers on the provided document excerpts. When the excerpts do not contain the answer, say so instead of guessing.`

// QueryEngine answers questions against a session's indexed documents:
// embed the question, retrieve the top-k segments, generate a reply.
// Answers are cached per session and question until the document set
// changes.
type QueryEngine struct {
	indexer  driving.Indexer
	embedder driven.EmbeddingService
	llm      driven.LLMService
	store    driven.ConversationStore

	topK       int
	maxHistory int

	mu    sync.Mutex
	cache map[string]map[string]domain.Answer // session -> question -> answer
}

// QueryOption configures the query engine.
type QueryOption func(*QueryEngine)

// WithTopK sets how many segments are retrieved per question.
func WithTopK(k int) QueryOption {
	return func(q *QueryEngine) {
		if k > 0 {
			q.topK = k
		}
	}
}

// WithMaxHistory sets how many prior messages are replayed to the LLM.
func WithMaxHistory(n int) QueryOption {
	return func(q *QueryEngine) {
		if n >= 0 {
			q.maxHistory = n
		}
	}
}

// NewQueryEngine creates a new query engine.
func NewQueryEngine(
	indexer driving.Indexer,
	embedder driven.EmbeddingService,
	llm driven.LLMService,
	store driven.ConversationStore,
	opts ...QueryOption,
) *QueryEngine {
	q := &QueryEngine{
		indexer:    indexer,
		embedder:   embedder,
		llm:        llm,
		store:      store,
		topK:       DefaultTopK,
		maxHistory: DefaultMaxHistory,
		cache:      make(map[string]map[string]domain.Answer),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Answer answers a question against the session's indexed documents.
// When the session has no indexed segments, retrieval is skipped and
// the LLM answers from conversation history alone.
func (q *QueryEngine) Answer(
	ctx context.Context, sessionID, question string, history []domain.Message,
) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidArgument)
	}

	logger.Section("Query")
	logger.Debug("Session %s: %q", sessionID, question)

	if cached, ok := q.cached(sessionID, question); ok {
		logger.Debug("Answer served from cache")
		cached.Cached = true
		return &cached, nil
	}

	hits, err := q.retrieve(ctx, sessionID, question)
	if err != nil {
		return nil, err
	}
	logger.Debug("Retrieved %d segment(s)", len(hits))

	sources, err := q.resolveSources(ctx, sessionID, hits)
	if err != nil {
		return nil, err
	}

	messages := q.buildMessages(question, history, hits, sources)

	// The LLM call runs outside any lock; a slow generation must not
	// block other sessions.
	reply, err := q.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   answerMaxTokens,
		Temperature: answerTemperature,
	})
	if err != nil {
		logger.Warn("Generation failed: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrGenerationFailed, err)
	}

	answer := domain.Answer{
		Text:        strings.TrimSpace(reply),
		UsedContext: len(hits) > 0,
		Sources:     uniqueSources(hits, sources),
	}
	q.storeCached(sessionID, question, answer)

	return &answer, nil
}

// Invalidate drops cached answers for a session.
func (q *QueryEngine) Invalidate(sessionID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.cache, sessionID)
}

// cached looks up a cached answer.
func (q *QueryEngine) cached(sessionID, question string) (domain.Answer, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	answers, ok := q.cache[sessionID]
	if !ok {
		return domain.Answer{}, false
	}
	answer, ok := answers[question]
	return answer, ok
}

// storeCached records an answer for reuse.
func (q *QueryEngine) storeCached(sessionID, question string, answer domain.Answer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	answers, ok := q.cache[sessionID]
	if !ok {
		answers = make(map[string]domain.Answer)
		q.cache[sessionID] = answers
	}
	answers[question] = answer
}

// retrieve embeds the question and searches the session's index.
// An empty index short-circuits to no hits.
func (q *QueryEngine) retrieve(
	ctx context.Context, sessionID, question string,
) ([]driven.SegmentHit, error) {
	index := q.indexer.Index(sessionID)
	if index.Len() == 0 {
		logger.Debug("Index empty, answering without document context")
		return nil, nil
	}

	embedding, err := q.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	hits, err := index.Search(ctx, embedding, q.topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	return hits, nil
}

// resolveSources maps the hit documents to their filenames.
func (q *QueryEngine) resolveSources(
	ctx context.Context, sessionID string, hits []driven.SegmentHit,
) (map[string]string, error) {
	if len(hits) == 0 {
		return nil, nil
	}

	docs, err := q.store.Files(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing session files: %w", err)
	}

	names := make(map[string]string, len(docs))
	for _, doc := range docs {
		names[doc.ID] = doc.Filename
	}
	return names, nil
}

// buildMessages assembles the chat transcript for the LLM: system
// prompt, bounded history, then the question with its retrieved
// context.
func (q *QueryEngine) buildMessages(
	question string, history []domain.Message, hits []driven.SegmentHit, sources map[string]string,
) []driven.ChatMessage {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    "system",
		Content: systemPrompt,
	})

	if len(history) > q.maxHistory {
		history = history[len(history)-q.maxHistory:]
	}
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, driven.ChatMessage{
		Role:    "user",
		Content: buildPrompt(question, hits, sources),
	})
	return messages
}

// buildPrompt renders the user turn: retrieved excerpts tagged with
// their source file, then the question.
func buildPrompt(question string, hits []driven.SegmentHit, sources map[string]string) string {
	if len(hits) == 0 {
		return question
	}

	var b strings.Builder
	b.WriteString("Here are relevant excerpts from the uploaded documents:\n\n")
	for _, hit := range hits {
		name := sources[hit.Segment.DocumentID]
		if name == "" {
			name = hit.Segment.DocumentID
		}
		fmt.Fprintf(&b, "[From %s]\n%s\n\n", name, hit.Segment.Text)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	return b.String()
}

// uniqueSources lists the distinct source filenames behind the hits,
// in retrieval order.
func uniqueSources(hits []driven.SegmentHit, sources map[string]string) []string {
	if len(hits) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(hits))
	names := make([]string, 0, len(hits))
	for _, hit := range hits {
		name := sources[hit.Segment.DocumentID]
		if name == "" {
			name = hit.Segment.DocumentID
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
