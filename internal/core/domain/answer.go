package domain

// Answer is the result of a question against a conversation.
type Answer struct {
	// Text is the generated answer.
	Text string

	// UsedContext is false when the session's index was empty and the
	// answer was produced without document context. The UI uses this
	// to indicate "no document context used".
	UsedContext bool

	// Sources lists the filenames of the documents whose segments
	// were retrieved for the answer, in descending relevance order.
	Sources []string

	// Cached is true when the answer was served from the per-session
	// response cache without calling the model.
	Cached bool
}
