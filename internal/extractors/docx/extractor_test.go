package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverse/docuverse/internal/core/domain"
)

// createTestDOCX creates a minimal valid DOCX file in memory.
func createTestDOCX(documentXML string) []byte {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	contentTypes, _ := w.Create("[Content_Types].xml")
	contentTypes.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`))

	if documentXML != "" {
		doc, _ := w.Create("word/document.xml")
		doc.Write([]byte(documentXML))
	}

	w.Close()
	return buf.Bytes()
}

func TestExtractor_Formats(t *testing.T) {
	e := New()
	assert.Equal(t, []domain.Format{domain.FormatDocx}, e.Formats())
}

func TestExtractor_Extract(t *testing.T) {
	e := New()
	ctx := context.Background()

	t.Run("paragraph text", func(t *testing.T) {
		docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello World</w:t></w:r></w:p>
<w:p><w:r><w:t>Second paragraph</w:t><w:t> continues</w:t></w:r></w:p>
</w:body>
</w:document>`

		res, err := e.Extract(ctx, &domain.RawFile{
			Filename: "report.docx",
			Format:   domain.FormatDocx,
			Content:  createTestDOCX(docXML),
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello World\nSecond paragraph continues", res.Text)
	})

	t.Run("empty body", func(t *testing.T) {
		docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body></w:body>
</w:document>`

		res, err := e.Extract(ctx, &domain.RawFile{Content: createTestDOCX(docXML)})
		require.NoError(t, err)
		assert.Empty(t, res.Text)
	})

	t.Run("not a zip", func(t *testing.T) {
		_, err := e.Extract(ctx, &domain.RawFile{Content: []byte("plain text")})
		assert.ErrorIs(t, err, domain.ErrCorruptDocument)
	})

	t.Run("missing document.xml", func(t *testing.T) {
		_, err := e.Extract(ctx, &domain.RawFile{Content: createTestDOCX("")})
		assert.ErrorIs(t, err, domain.ErrCorruptDocument)
	})

	t.Run("malformed document.xml", func(t *testing.T) {
		_, err := e.Extract(ctx, &domain.RawFile{Content: createTestDOCX("<w:document><unclosed")})
		assert.ErrorIs(t, err, domain.ErrCorruptDocument)
	})

	t.Run("nil file", func(t *testing.T) {
		_, err := e.Extract(ctx, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
