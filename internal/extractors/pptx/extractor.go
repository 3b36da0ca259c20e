package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/docuverse/docuverse/internal/core/domain"
	"github.com/docuverse/docuverse/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// slidePattern matches slide part names like ppt/slides/slide12.xml.
var slidePattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Extractor handles PPTX presentations.
type Extractor struct{}

// New creates a new PPTX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Formats returns the formats this extractor handles.
func (e *Extractor) Formats() []domain.Format {
	return []domain.Format{domain.FormatPptx}
}

// Extract pulls text runs from every slide, in slide order.
// Slides are separated by blank lines so slide boundaries survive
// segmenting.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawFile) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidArgument
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
	}

	slides, err := collectSlides(reader)
	if err != nil {
		return nil, err
	}

	var content strings.Builder
	for _, s := range slides {
		if s == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(s)
	}

	return &driven.ExtractResult{
		Text: content.String(),
	}, nil
}

// slideFile pairs a slide part with its ordinal for sorting.
type slideFile struct {
	number int
	file   *zip.File
}

// collectSlides extracts the text of each slide, ordered by slide
// number. Part order inside the archive is not meaningful.
func collectSlides(reader *zip.Reader) ([]string, error) {
	var files []slideFile
	for _, f := range reader.File {
		m := slidePattern.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		files = append(files, slideFile{number: n, file: f})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })

	slides := make([]string, 0, len(files))
	for _, sf := range files {
		rc, err := sf.file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
		}

		text, err := parseSlideXML(content)
		if err != nil {
			return nil, err
		}
		slides = append(slides, text)
	}
	return slides, nil
}

// parseSlideXML walks the slide XML and collects the character data of
// every text run ("a:t" element). Runs within one paragraph join with
// no separator; paragraphs join with newlines.
func parseSlideXML(content []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(content))

	var (
		result    strings.Builder
		paragraph strings.Builder
		inText    bool
	)

	flush := func() {
		text := strings.TrimSpace(paragraph.String())
		paragraph.Reset()
		if text == "" {
			return
		}
		if result.Len() > 0 {
			result.WriteString("\n")
		}
		result.WriteString(text)
	}

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrCorruptDocument, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				paragraph.Write(t)
			}
		}
	}
	flush()

	return result.String(), nil
}
