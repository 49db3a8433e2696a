package services

import (
	"fmt"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// Ensure ExportService implements the interface.
var _ driving.ExportService = (*ExportService)(nil)

// ExportService renders annotated runs through the registered exporters.
type ExportService struct {
	registry driven.ExporterRegistry
}

// NewExportService creates a new export service.
func NewExportService(registry driven.ExporterRegistry) *ExportService {
	return &ExportService{registry: registry}
}

// Export renders runs in the given format.
func (s *ExportService) Export(runs []domain.AnnotatedRun, format domain.ExportFormat) (*driving.ExportedFile, error) {
	if len(runs) == 0 {
		return nil, domain.ErrEmptyExport
	}

	exporter, ok := s.registry.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: export format %q", domain.ErrUnsupportedType, format)
	}

	for i, r := range runs {
		if !r.Kind.IsValid() {
			return nil, fmt.Errorf("%w: run %d has kind %q", domain.ErrInvalidInput, i, r.Kind)
		}
	}

	content, err := exporter.Export(runs)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", format, err)
	}

	return &driving.ExportedFile{
		Content:     content,
		Extension:   exporter.Extension(),
		ContentType: exporter.ContentType(),
	}, nil
}

// Formats lists the available formats.
func (s *ExportService) Formats() []domain.ExportFormat {
	return s.registry.Formats()
}
