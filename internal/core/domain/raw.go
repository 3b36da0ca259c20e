package domain

// RawFile represents opaque bytes received at the upload boundary
// before extraction.
type RawFile struct {
	// SessionID links to the conversation the upload belongs to.
	SessionID string

	// Filename is the original name of the file.
	Filename string

	// Format is the declared or sniffed format tag.
	Format Format

	// Content is the raw bytes.
	Content []byte
}
