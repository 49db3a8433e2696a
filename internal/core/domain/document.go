package domain

import (
	"path/filepath"
	"strings"
)

// SourceFormat identifies how the document text was obtained.
type SourceFormat string

// Available source formats.
const (
	// SourceFormatPlain is text from a .txt upload or the text field.
	SourceFormatPlain SourceFormat = "plain"

	// SourceFormatRichText is text extracted from a word-processor file.
	SourceFormatRichText SourceFormat = "richText"
)

// InputKind is the ingestion channel reported back to clients.
type InputKind string

// Available input kinds.
const (
	InputTXT  InputKind = "txt"
	InputDOCX InputKind = "docx"
	InputText InputKind = "text"
)

// Document is text accepted for analysis.
// It is created at ingestion and must not change once analysis starts.
type Document struct {
	// ID correlates log lines for one analysis.
	ID string

	// RawText is the full text before chunking.
	RawText string

	// SourceFormat records whether the text came from plain or rich input.
	SourceFormat SourceFormat

	// DisplayName is the uploaded file name, empty for typed text.
	DisplayName string

	// Input is the ingestion channel.
	Input InputKind
}

// BaseName returns the display name without its extension.
func (d Document) BaseName() string {
	if d.DisplayName == "" {
		return ""
	}
	name := filepath.Base(d.DisplayName)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Chunk is a bounded slice of a document, the unit of work sent to the oracle.
type Chunk struct {
	// Index is the ordinal position within the document.
	Index int

	// Text is the chunk content.
	Text string

	// Separator is the original text that followed this chunk: a paragraph
	// break, or empty for the last chunk and for force-split slices.
	Separator string
}

// JoinChunks concatenates chunks with their recorded separators.
// For chunks produced from a text, the result equals that text.
func JoinChunks(chunks []Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
		b.WriteString(c.Separator)
	}
	return b.String()
}
