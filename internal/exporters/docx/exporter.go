// Package docx renders annotated runs as a WordprocessingML document.
//
// The document holds a single paragraph. Removed text is struck through in
// red, added text is bold green, unchanged text carries no formatting.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// Ensure Exporter implements the interface.
var _ driven.Exporter = (*Exporter)(nil)

// Highlight colours as hex RGB.
const (
	RemovedColor = "E11D48"
	AddedColor   = "047857"
)

// ContentType is the MIME type of .docx files.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

const documentHead = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p>`

const documentTail = `</w:p></w:body></w:document>`

// Exporter produces .docx documents.
type Exporter struct{}

// New creates a new docx exporter.
func New() *Exporter {
	return &Exporter{}
}

// Format returns the export format.
func (e *Exporter) Format() domain.ExportFormat {
	return domain.ExportRichText
}

// Extension returns the file extension.
func (e *Exporter) Extension() string {
	return ".docx"
}

// ContentType returns the MIME type.
func (e *Exporter) ContentType() string {
	return ContentType
}

// Export renders the runs into a .docx package.
func (e *Exporter) Export(runs []domain.AnnotatedRun) ([]byte, error) {
	if len(runs) == 0 {
		return nil, domain.ErrEmptyExport
	}

	body, err := documentXML(runs)
	if err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", body},
	}
	for _, p := range parts {
		f, err := w.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := f.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

// documentXML builds word/document.xml for runs.
func documentXML(runs []domain.AnnotatedRun) (string, error) {
	var b strings.Builder
	b.WriteString(documentHead)

	for _, r := range runs {
		var props string
		switch r.Kind {
		case domain.RunSame:
		case domain.RunRemoved:
			props = `<w:rPr><w:strike/><w:color w:val="` + RemovedColor + `"/></w:rPr>`
		case domain.RunAdded:
			props = `<w:rPr><w:b/><w:color w:val="` + AddedColor + `"/></w:rPr>`
		default:
			return "", fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, r.Kind)
		}
		if r.Text == "" {
			continue
		}

		b.WriteString("<w:r>")
		b.WriteString(props)
		writeText(&b, r.Text)
		b.WriteString("</w:r>")
	}

	b.WriteString(documentTail)
	return b.String(), nil
}

// writeText emits text elements, turning newlines into breaks and tabs
// into tab elements.
func writeText(b *strings.Builder, text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	start := 0
	flush := func(end int) {
		if end > start {
			b.WriteString(`<w:t xml:space="preserve">`)
			_ = xml.EscapeText(b, []byte(text[start:end]))
			b.WriteString(`</w:t>`)
		}
	}

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			flush(i)
			b.WriteString(`<w:br/>`)
			start = i + 1
		case '\t':
			flush(i)
			b.WriteString(`<w:tab/>`)
			start = i + 1
		case '\r':
			flush(i)
			start = i + 1
		}
	}
	flush(len(text))
}
