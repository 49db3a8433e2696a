package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Variant returns the reader variant this normaliser handles.
func (n *Normaliser) Variant() domain.ReaderVariant {
	return domain.VariantText
}

// Normalise decodes a UTF-8 text file. A leading byte order mark is dropped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := bytes.TrimPrefix(raw.Content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: file is not valid UTF-8", domain.ErrInvalidInput)
	}

	return &driven.NormaliseResult{
		Document: domain.Document{
			RawText:      string(content),
			SourceFormat: domain.SourceFormatPlain,
			DisplayName:  raw.Filename,
			Input:        domain.InputTXT,
		},
	}, nil
}
