// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): extraction, embedding, the vector index,
// the LLM client and conversation persistence.
package driven
