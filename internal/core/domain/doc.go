// Package domain defines the core business entities for DocuVerse.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded file owned by a conversation
//   - Segment: A bounded chunk of extracted text, the unit of retrieval
//   - RawFile: Opaque bytes received at the upload boundary
//   - Conversation / Message: Chat state persisted per session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
