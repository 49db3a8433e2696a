package driven

import (
	"context"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// Normaliser extracts plain text from an uploaded file.
// Each normaliser handles one reader variant.
type Normaliser interface {
	// Variant returns the reader variant this normaliser handles.
	Variant() domain.ReaderVariant

	// Normalise extracts the document text from the raw bytes.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Chunking is handled separately by the Chunker.
type NormaliseResult struct {
	// Document has RawText, SourceFormat, DisplayName and Input populated.
	Document domain.Document
}

// NormaliserRegistry dispatches raw documents by file extension.
type NormaliserRegistry interface {
	// Normalise transforms a raw document using the normaliser for its variant.
	// Unknown extensions return domain.ErrUnsupportedFormat.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*NormaliseResult, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns all file extensions that can be read.
	SupportedExtensions() []string
}
