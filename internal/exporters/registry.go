package exporters

import (
	"sort"
	"sync"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/exporters/docx"
	"github.com/custodia-labs/matn/internal/exporters/plainmarked"
)

// Ensure Registry implements the interface.
var _ driven.ExporterRegistry = (*Registry)(nil)

// Registry maps export formats to their exporters.
type Registry struct {
	mu        sync.RWMutex
	exporters map[domain.ExportFormat]driven.Exporter
}

// NewRegistry creates a new, empty exporter registry.
func NewRegistry() *Registry {
	return &Registry{
		exporters: make(map[domain.ExportFormat]driven.Exporter),
	}
}

// Register adds an exporter to the registry.
// A later registration for the same format replaces the earlier one.
func (r *Registry) Register(exporter driven.Exporter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exporters[exporter.Format()] = exporter
}

// Get returns the exporter for format.
func (r *Registry) Get(format domain.ExportFormat) (driven.Exporter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.exporters[format]
	return e, ok
}

// Formats returns all registered formats in sorted order.
func (r *Registry) Formats() []domain.ExportFormat {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.ExportFormat, 0, len(r.exporters))
	for f := range r.exporters {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// RegisterDefaults registers the downloadable formats.
// The terminal exporter depends on the output stream and is registered by the CLI.
func RegisterDefaults(r *Registry) {
	r.Register(plainmarked.New())
	r.Register(plainmarked.NewCorrected())
	r.Register(docx.New())
}
