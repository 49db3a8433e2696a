package cli

import (
	"context"
	"sync"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
	"github.com/custodia-labs/matn/internal/core/services"
	"github.com/custodia-labs/matn/internal/exporters"
	"github.com/custodia-labs/matn/internal/exporters/terminal"
)

// --- Mock implementations ---

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

type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	protocol    domain.Protocol
	provider    domain.AIProvider
	model       string
	apiKey      string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return nil
}

func (m *mockSettingsService) SetProtocol(protocol domain.Protocol) error {
	if !protocol.IsValid() {
		return domain.ErrInvalidInput
	}
	m.protocol = protocol
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }

type mockConfigStore struct {
	mu    sync.Mutex
	data  map[string]any
	saved bool
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *mockConfigStore) GetString(string) string        { return "" }
func (m *mockConfigStore) GetInt(string) int              { return 0 }
func (m *mockConfigStore) GetFloat(string) float64        { return 0 }
func (m *mockConfigStore) GetBool(string) bool            { return false }
func (m *mockConfigStore) GetStringSlice(string) []string { return nil }

func (m *mockConfigStore) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string]any)
	}
	m.data[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { m.saved = true; return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "/tmp/matn/config.toml" }

var (
	_ driving.AnalysisService = (*mockAnalysisService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
	_ driven.ConfigStore      = (*mockConfigStore)(nil)
)

type testServices struct {
	analysis *mockAnalysisService
	settings *mockSettingsService
	store    *mockConfigStore
}

// setupTestServices installs mocks and a plain export service.
// The returned cleanup restores the previous services and flag values.
func setupTestServices() (*testServices, func()) {
	oldStore, oldSettings, oldPrompts := configStore, settingsService, promptStore
	oldAnalysis, oldExport := analysisService, exportService

	ts := &testServices{
		analysis: &mockAnalysisService{result: sampleResult()},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
		store:    &mockConfigStore{},
	}

	registry := exporters.NewRegistry()
	exporters.RegisterDefaults(registry)
	registry.Register(terminal.New(terminal.WithColor(false)))

	configStore = ts.store
	settingsService = ts.settings
	analysisService = ts.analysis
	exportService = services.NewExportService(registry)

	return ts, func() {
		configStore, settingsService, promptStore = oldStore, oldSettings, oldPrompts
		analysisService, exportService = oldAnalysis, oldExport
		checkText, checkFormat, checkOut, checkJSON = "", "", "", false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ID:        "doc-1",
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
	}
}
