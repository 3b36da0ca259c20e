package domain

import (
	"path/filepath"
	"strings"
)

// Format tags the file type of an uploaded document.
// It selects the extractor used during indexing.
type Format string

const (
	// FormatText covers plain text, Markdown and source code files.
	FormatText Format = "text"
	// FormatCSV covers comma-separated tabular data.
	FormatCSV Format = "csv"
	// FormatJSON covers structured JSON documents.
	FormatJSON Format = "json"
	// FormatPDF covers portable document format files.
	FormatPDF Format = "pdf"
	// FormatDocx covers word-processor documents (OOXML).
	FormatDocx Format = "docx"
	// FormatPptx covers presentation documents (OOXML).
	FormatPptx Format = "pptx"
)

// Valid reports whether f is one of the known format tags.
func (f Format) Valid() bool {
	switch f {
	case FormatText, FormatCSV, FormatJSON, FormatPDF, FormatDocx, FormatPptx:
		return true
	}
	return false
}

// formatsByExtension maps lowercase file extensions to format tags.
var formatsByExtension = map[string]Format{
	".txt":  FormatText,
	".md":   FormatText,
	".log":  FormatText,
	".csv":  FormatCSV,
	".json": FormatJSON,
	".pdf":  FormatPDF,
	".docx": FormatDocx,
	".pptx": FormatPptx,
}

// SniffFormat derives a format tag from a filename extension.
// The second return value is false when the extension is not recognised.
func SniffFormat(filename string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	f, ok := formatsByExtension[ext]
	return f, ok
}
