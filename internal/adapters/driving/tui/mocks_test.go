package tui

import (
	"context"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// MockAnalysisService is a mock implementation of driving.AnalysisService.
type MockAnalysisService struct {
	Result   *domain.AnalysisResult
	Err      error
	LastText string
}

func (m *MockAnalysisService) AnalyseText(_ context.Context, text string) (*domain.AnalysisResult, error) {
	m.LastText = text
	return m.Result, m.Err
}

func (m *MockAnalysisService) AnalyseFile(_ context.Context, _ *domain.RawDocument) (*domain.AnalysisResult, error) {
	return m.Result, m.Err
}

func (m *MockAnalysisService) Analyse(_ context.Context, _ *domain.Document) (*domain.AnalysisResult, error) {
	return m.Result, m.Err
}

// MockExportService is a mock implementation of driving.ExportService.
type MockExportService struct {
	Err        error
	LastFormat domain.ExportFormat
}

func (m *MockExportService) Export(runs []domain.AnnotatedRun, format domain.ExportFormat) (*driving.ExportedFile, error) {
	m.LastFormat = format
	if m.Err != nil {
		return nil, m.Err
	}
	ext := ".txt"
	if format == domain.ExportRichText {
		ext = ".docx"
	}
	return &driving.ExportedFile{
		Content:     []byte(domain.CorrectedText(runs)),
		Extension:   ext,
		ContentType: "text/plain; charset=utf-8",
	}, nil
}

func (m *MockExportService) Formats() []domain.ExportFormat {
	return []domain.ExportFormat{domain.ExportPlainMarked, domain.ExportRichText}
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:        "res-1",
		Original:  "kitop oqidim",
		Corrected: "kitob oqidim",
		Runs: []domain.AnnotatedRun{
			{Text: "kitop", Kind: domain.RunRemoved},
			{Text: "kitob", Kind: domain.RunAdded},
			{Text: " oqidim", Kind: domain.RunSame},
		},
		Corrections: []domain.CorrectionRecord{
			{Wrong: "kitop", Correct: "kitob", Kind: domain.CorrectionSpelling},
		},
		Input: domain.InputText,
	}
}
