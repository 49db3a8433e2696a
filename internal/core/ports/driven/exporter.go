package driven

import "github.com/custodia-labs/matn/internal/core/domain"

// Exporter serialises annotated runs into a downloadable document.
type Exporter interface {
	// Format returns the format this exporter produces.
	Format() domain.ExportFormat

	// Extension returns the file extension including the dot.
	Extension() string

	// ContentType returns the MIME type of the output.
	ContentType() string

	// Export renders the runs. An empty sequence returns domain.ErrEmptyExport.
	Export(runs []domain.AnnotatedRun) ([]byte, error)
}

// ExporterRegistry looks up exporters by format.
type ExporterRegistry interface {
	// Get returns the exporter for format.
	Get(format domain.ExportFormat) (Exporter, bool)

	// Register adds an exporter, replacing any existing one for the same format.
	Register(exporter Exporter)

	// Formats returns the registered formats.
	Formats() []domain.ExportFormat
}
