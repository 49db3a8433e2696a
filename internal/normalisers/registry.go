package normalisers

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/normalisers/docx"
	"github.com/custodia-labs/matn/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// extensions lists the file extensions of each reader variant.
var extensions = map[domain.ReaderVariant]string{
	domain.VariantText:         ".txt",
	domain.VariantRichDocument: ".docx",
}

// Registry dispatches uploads to the normaliser for their reader variant.
type Registry struct {
	mu          sync.RWMutex
	normalisers map[domain.ReaderVariant]driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		normalisers: make(map[domain.ReaderVariant]driven.Normaliser),
	}
}

// NewDefaultRegistry creates a registry with the plain text and DOCX normalisers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(docx.New())
	return r
}

// Register adds a normaliser to the registry.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers[n.Variant()] = n
}

// Normalise classifies the file name and extracts its text.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	variant := domain.ClassifyFilename(raw.Filename)
	if variant == domain.VariantUnsupported {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, raw.Extension())
	}

	r.mu.RLock()
	n, ok := r.normalisers[variant]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no reader for %s", domain.ErrUnsupportedFormat, variant)
	}

	return n.Normalise(ctx, raw)
}

// SupportedExtensions returns the extensions with a registered normaliser.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var exts []string
	for _, v := range []domain.ReaderVariant{domain.VariantText, domain.VariantRichDocument} {
		if _, ok := r.normalisers[v]; ok {
			exts = append(exts, extensions[v])
		}
	}
	return exts
}
