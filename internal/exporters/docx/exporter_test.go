package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/domain"
	docxreader "github.com/custodia-labs/matn/internal/normalisers/docx"
)

func scenarioRuns() []domain.AnnotatedRun {
	return []domain.AnnotatedRun{
		{Text: "Men maktabga bordim va ", Kind: domain.RunSame},
		{Text: "kitop", Kind: domain.RunRemoved},
		{Text: "kitob", Kind: domain.RunAdded},
		{Text: " ", Kind: domain.RunSame},
		{Text: "oqidim", Kind: domain.RunRemoved},
		{Text: "o'qidim", Kind: domain.RunAdded},
		{Text: ".", Kind: domain.RunSame},
	}
}

func readPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestExporter_Metadata(t *testing.T) {
	e := New()
	assert.Equal(t, domain.ExportRichText, e.Format())
	assert.Equal(t, ".docx", e.Extension())
	assert.Equal(t, ContentType, e.ContentType())
}

func TestExport_Package(t *testing.T) {
	out, err := New().Export(scenarioRuns())
	require.NoError(t, err)

	assert.Contains(t, readPart(t, out, "[Content_Types].xml"), "wordprocessingml.document.main+xml")
	assert.Contains(t, readPart(t, out, "_rels/.rels"), `Target="word/document.xml"`)

	doc := readPart(t, out, "word/document.xml")
	assert.Equal(t, 1, bytes.Count([]byte(doc), []byte("<w:p>")))
	assert.Contains(t, doc, `<w:r><w:rPr><w:strike/><w:color w:val="E11D48"/></w:rPr><w:t xml:space="preserve">kitop</w:t></w:r>`)
	assert.Contains(t, doc, `<w:r><w:rPr><w:b/><w:color w:val="047857"/></w:rPr><w:t xml:space="preserve">kitob</w:t></w:r>`)
	assert.Contains(t, doc, `<w:r><w:t xml:space="preserve">Men maktabga bordim va </w:t></w:r>`)
	assert.Contains(t, doc, `o&#39;qidim`)
}

func TestExport_NewlinesAndTabs(t *testing.T) {
	runs := []domain.AnnotatedRun{{Text: "bir\r\nikki\tuch <&>", Kind: domain.RunSame}}
	out, err := New().Export(runs)
	require.NoError(t, err)

	doc := readPart(t, out, "word/document.xml")
	assert.Contains(t, doc,
		`<w:t xml:space="preserve">bir</w:t><w:br/><w:t xml:space="preserve">ikki</w:t><w:tab/><w:t xml:space="preserve">uch &lt;&amp;&gt;</w:t>`)
}

func TestExport_ReadableByNormaliser(t *testing.T) {
	runs := []domain.AnnotatedRun{
		{Text: "Birinchi qator\nikkinchi ", Kind: domain.RunSame},
		{Text: "xato", Kind: domain.RunRemoved},
		{Text: "to‘g‘ri", Kind: domain.RunAdded},
	}
	out, err := New().Export(runs)
	require.NoError(t, err)

	res, err := docxreader.New().Normalise(context.Background(), &domain.RawDocument{Filename: "out.docx", Content: out})
	require.NoError(t, err)
	assert.Equal(t, "Birinchi qator\nikkinchi xatoto‘g‘ri\n\n", res.Document.RawText)
}

func TestExport_Deterministic(t *testing.T) {
	a, err := New().Export(scenarioRuns())
	require.NoError(t, err)
	b, err := New().Export(scenarioRuns())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExport_DoesNotMutateRuns(t *testing.T) {
	runs := scenarioRuns()
	before := append([]domain.AnnotatedRun(nil), runs...)
	_, err := New().Export(runs)
	require.NoError(t, err)
	assert.Equal(t, before, runs)
}

func TestExport_Empty(t *testing.T) {
	_, err := New().Export([]domain.AnnotatedRun{})
	assert.ErrorIs(t, err, domain.ErrEmptyExport)
}

func TestExport_UnknownKind(t *testing.T) {
	_, err := New().Export([]domain.AnnotatedRun{{Text: "x", Kind: "bold"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
