package domain

import "time"

// Document represents one uploaded file owned by a conversation.
// It is created on successful upload and never mutated afterwards;
// deleting the owning conversation destroys it together with its
// segments and index entries.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SessionID links to the owning conversation.
	SessionID string

	// Filename is the original name of the uploaded file.
	Filename string

	// Path is where the raw bytes are stored on disk.
	Path string

	// Format is the file type tag that selected the extractor.
	Format Format

	// UploadedAt is when the file was received.
	UploadedAt time.Time
}

// Segment is a bounded chunk of a document's extracted text, the unit
// of embedding and retrieval. Segments from the same document,
// concatenated in Position order minus the configured overlap,
// reconstruct the extracted text.
type Segment struct {
	// ID is the unique identifier for the segment.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Text is the segment's extracted text.
	Text string

	// Start and End are rune offsets into the document's extracted
	// text, such that Text == extracted[Start:End].
	Start int
	End   int
}

// Table is the structured form of a tabular extraction. The flattened
// text feeds the index while Table is exposed to the visualization
// boundary unchanged.
type Table struct {
	// Columns holds the header row.
	Columns []string

	// Rows holds the data rows, each aligned with Columns.
	Rows [][]string
}
