package algorithms

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractText_PlainText(t *testing.T) {
	text, err := ExtractText([]byte("hello resume"), "text/plain", "resume.txt")

	require.NoError(t, err)
	assert.Equal(t, "hello resume", text)
}

func TestExtractText_ContentTypeWithCharset(t *testing.T) {
	text, err := ExtractText([]byte("data"), "text/plain; charset=utf-8", "resume.txt")

	require.NoError(t, err)
	assert.Equal(t, "data", text)
}

func TestExtractText_ExtensionFallback(t *testing.T) {
	// Browsers sometimes send application/octet-stream
	text, err := ExtractText([]byte("fallback"), "application/octet-stream", "resume.TXT")

	require.NoError(t, err)
	assert.Equal(t, "fallback", text)
}

func TestExtractText_Unsupported(t *testing.T) {
	_, err := ExtractText([]byte("x"), "image/png", "photo.png")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported content type")
}

func TestExtractText_DOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph</w:t></w:r></w:p>
  </w:body>
</w:document>`

	data := buildDOCX(t, doc)
	text, err := ExtractText(data, mimeDOCX, "resume.docx")

	require.NoError(t, err)
	assert.Equal(t, "First paragraph\nSecond paragraph", text)
}

func TestExtractText_DOCXWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte("<styles/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = ExtractText(buf.Bytes(), mimeDOCX, "resume.docx")
	assert.Error(t, err)
}

func TestExtractText_BrokenDOCX(t *testing.T) {
	_, err := ExtractText([]byte("not a zip archive"), mimeDOCX, "resume.docx")
	assert.Error(t, err)
}
