package plainmarked

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

var _ driven.Exporter = (*CorrectedExporter)(nil)

// CorrectedExporter produces the corrected text with no markers.
type CorrectedExporter struct{}

// NewCorrected creates an exporter for the clean corrected text.
func NewCorrected() *CorrectedExporter {
	return &CorrectedExporter{}
}

// Format returns the export format.
func (e *CorrectedExporter) Format() domain.ExportFormat {
	return domain.ExportCorrected
}

// Extension returns the file extension.
func (e *CorrectedExporter) Extension() string {
	return ".txt"
}

// ContentType returns the MIME type.
func (e *CorrectedExporter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Export keeps same and added runs and drops removed ones.
func (e *CorrectedExporter) Export(runs []domain.AnnotatedRun) ([]byte, error) {
	if len(runs) == 0 {
		return nil, domain.ErrEmptyExport
	}

	var b strings.Builder
	for _, r := range runs {
		switch r.Kind {
		case domain.RunSame, domain.RunAdded:
			b.WriteString(r.Text)
		case domain.RunRemoved:
		default:
			return nil, fmt.Errorf("%w: unknown run kind %q", domain.ErrInvalidInput, r.Kind)
		}
	}
	return []byte(b.String()), nil
}
