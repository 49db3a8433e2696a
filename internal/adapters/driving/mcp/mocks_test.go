package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result   *domain.AnalysisResult
	err      error
	lastText string
	lastRaw  *domain.RawDocument
}

func (m *mockAnalysisService) AnalyseText(_ context.Context, text string) (*domain.AnalysisResult, error) {
	m.lastText = text
	return m.result, m.err
}

func (m *mockAnalysisService) AnalyseFile(_ context.Context, raw *domain.RawDocument) (*domain.AnalysisResult, error) {
	m.lastRaw = raw
	return m.result, m.err
}

func (m *mockAnalysisService) Analyse(_ context.Context, _ *domain.Document) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

// mockExportService is a mock implementation of driving.ExportService.
type mockExportService struct {
	content string
	err     error
	formats []domain.ExportFormat
}

func (m *mockExportService) Export(_ []domain.AnnotatedRun, _ domain.ExportFormat) (*driving.ExportedFile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.ExportedFile{Content: []byte(m.content), Extension: ".txt", ContentType: "text/plain"}, nil
}

func (m *mockExportService) Formats() []domain.ExportFormat {
	return m.formats
}

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("not found")
}

func (m *mockPromptStore) Reload() {}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:        "doc-1",
		Original:  "kitop oqidim",
		Corrected: "kitob o'qidim",
		Runs: []domain.AnnotatedRun{
			{Text: "kitop", Kind: domain.RunRemoved},
			{Text: "kitob", Kind: domain.RunAdded},
			{Text: " ", Kind: domain.RunSame},
			{Text: "oqidim", Kind: domain.RunRemoved},
			{Text: "o'qidim", Kind: domain.RunAdded},
		},
		Corrections: []domain.CorrectionRecord{
			{Wrong: "kitop", Correct: "kitob", Kind: domain.CorrectionSpelling},
			{Wrong: "oqidim", Correct: "o'qidim", Kind: domain.CorrectionSpelling},
		},
	}
}
