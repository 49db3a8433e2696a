package driving

import (
	"context"

	"github.com/custodia-labs/matn/internal/core/domain"
)

// AnalysisService runs the correction pipeline on one document.
type AnalysisService interface {
	// AnalyseText checks typed or pasted text.
	AnalyseText(ctx context.Context, text string) (*domain.AnalysisResult, error)

	// AnalyseFile extracts text from an uploaded file and checks it.
	// Unsupported extensions fail before any oracle call.
	AnalyseFile(ctx context.Context, raw *domain.RawDocument) (*domain.AnalysisResult, error)

	// Analyse checks an already ingested document.
	Analyse(ctx context.Context, doc *domain.Document) (*domain.AnalysisResult, error)
}

// ExportService renders annotated runs into downloadable documents.
type ExportService interface {
	// Export renders runs in the given format.
	Export(runs []domain.AnnotatedRun, format domain.ExportFormat) (*ExportedFile, error)

	// Formats lists the available formats.
	Formats() []domain.ExportFormat
}

// ExportedFile is the rendered output of an export.
type ExportedFile struct {
	// Content is the file body.
	Content []byte

	// Extension is the file extension including the dot.
	Extension string

	// ContentType is the MIME type.
	ContentType string
}
