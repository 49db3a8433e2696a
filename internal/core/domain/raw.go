package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument is an uploaded file before text extraction.
type RawDocument struct {
	// Filename is the client-supplied file name.
	Filename string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lower-cased file extension including the dot.
func (r RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.Filename))
}

// ReaderVariant is the closed set of extraction branches.
type ReaderVariant int

const (
	// VariantUnsupported is any extension the service does not read.
	VariantUnsupported ReaderVariant = iota

	// VariantText is a UTF-8 plain text file.
	VariantText

	// VariantRichDocument is a .docx word-processor file.
	VariantRichDocument
)

// String returns the variant name.
func (v ReaderVariant) String() string {
	switch v {
	case VariantText:
		return "text"
	case VariantRichDocument:
		return "rich_document"
	default:
		return "unsupported"
	}
}

// ClassifyFilename maps a file name to its extraction variant.
func ClassifyFilename(name string) ReaderVariant {
	raw := RawDocument{Filename: name}
	switch raw.Extension() {
	case ".txt":
		return VariantText
	case ".docx":
		return VariantRichDocument
	default:
		return VariantUnsupported
	}
}
