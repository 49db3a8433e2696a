package services

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerAddr        = "server.addr"
	keyServerPort        = "server.port"
	keyServerMaxUpload   = "server.max_upload_bytes"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyOracleProtocol    = "oracle.protocol"
	keyOracleFailure     = "oracle.failure_policy"
	keyOracleConcurrency = "oracle.concurrency"
	keyOracleRPS         = "oracle.requests_per_second"
	keyOracleBurst       = "oracle.burst"
	keyRetryAttempts     = "oracle.retry.max_attempts"
	keyRetryInitialMS    = "oracle.retry.initial_backoff_ms"
	keyRetryMaxMS        = "oracle.retry.max_backoff_ms"
	keyChunkMaxLength    = "chunking.max_length"
	keyAnalysisMinLength = "analysis.min_length"
)

// defaultOllamaURL is used when a local provider has no base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Provider API keys fall back to the provider's conventional environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	provider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)
	apiKey := s.configStore.GetString(keyLLMAPIKey)
	if apiKey == "" && provider.APIKeyEnv() != "" {
		apiKey = s.getenv(provider.APIKeyEnv())
	}

	retry := defaults.Oracle.Retry
	retry.MaxAttempts = s.getInt(keyRetryAttempts, retry.MaxAttempts)
	retry.InitialBackoff = s.getMillis(keyRetryInitialMS, retry.InitialBackoff)
	retry.MaxBackoff = s.getMillis(keyRetryMaxMS, retry.MaxBackoff)

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			Addr:           s.getAddr(defaults.Server.Addr),
			MaxUploadBytes: int64(s.getInt(keyServerMaxUpload, int(defaults.Server.MaxUploadBytes))),
		},
		LLM: domain.LLMSettings{
			Provider: provider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[provider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   apiKey,
		},
		Oracle: domain.OracleSettings{
			Protocol:          s.getProtocol(defaults.Oracle.Protocol),
			FailurePolicy:     s.getFailurePolicy(defaults.Oracle.FailurePolicy),
			Concurrency:       s.getInt(keyOracleConcurrency, defaults.Oracle.Concurrency),
			RequestsPerSecond: s.getFloat(keyOracleRPS, defaults.Oracle.RequestsPerSecond),
			Burst:             s.getInt(keyOracleBurst, defaults.Oracle.Burst),
			Retry:             retry,
		},
		Chunking: domain.ChunkingSettings{
			MaxLength: s.getInt(keyChunkMaxLength, defaults.Chunking.MaxLength),
		},
		Analysis: domain.AnalysisSettings{
			MinLength: s.getInt(keyAnalysisMinLength, defaults.Analysis.MinLength),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyServerAddr, settings.Server.Addr},
		{keyServerMaxUpload, settings.Server.MaxUploadBytes},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyOracleProtocol, string(settings.Oracle.Protocol)},
		{keyOracleFailure, string(settings.Oracle.FailurePolicy)},
		{keyOracleConcurrency, settings.Oracle.Concurrency},
		{keyOracleRPS, settings.Oracle.RequestsPerSecond},
		{keyOracleBurst, settings.Oracle.Burst},
		{keyRetryAttempts, settings.Oracle.Retry.MaxAttempts},
		{keyRetryInitialMS, settings.Oracle.Retry.InitialBackoff.Milliseconds()},
		{keyRetryMaxMS, settings.Oracle.Retry.MaxBackoff.Milliseconds()},
		{keyChunkMaxLength, settings.Chunking.MaxLength},
		{keyAnalysisMinLength, settings.Analysis.MinLength},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// Keys taken from the environment are not written back.
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
// An empty apiKey is accepted when the provider's environment variable is set.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && s.envAPIKey(provider) == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = defaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetProtocol selects the oracle protocol.
func (s *SettingsService) SetProtocol(protocol domain.Protocol) error {
	if !protocol.IsValid() {
		return fmt.Errorf("%w: invalid protocol: %s", domain.ErrInvalidInput, protocol)
	}
	return s.configStore.Set(keyOracleProtocol, string(protocol))
}

// Validate checks that the settings can drive an analysis.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		if env := settings.LLM.Provider.APIKeyEnv(); env != "" {
			return fmt.Errorf("%w: %s requires an API key (set %s or llm.api_key)",
				domain.ErrLLMUnavailable, settings.LLM.Provider, env)
		}
		return fmt.Errorf("%w: LLM provider %q is not configured",
			domain.ErrLLMUnavailable, settings.LLM.Provider)
	}
	if settings.Chunking.MaxLength < 1 {
		return fmt.Errorf("%w: chunking.max_length must be at least 1", domain.ErrInvalidInput)
	}
	if settings.Oracle.Concurrency < 1 {
		return fmt.Errorf("%w: oracle.concurrency must be at least 1", domain.ErrInvalidInput)
	}
	if settings.Server.MaxUploadBytes < 1 {
		return fmt.Errorf("%w: server.max_upload_bytes must be positive", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	if env := provider.APIKeyEnv(); env != "" {
		return s.getenv(env)
	}
	return ""
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getMillis(key string, defaultVal time.Duration) time.Duration {
	ms := s.configStore.GetInt(key)
	if ms <= 0 {
		return defaultVal
	}
	return time.Duration(ms) * time.Millisecond
}

// getAddr prefers server.addr, then a bare port (PORT in the environment).
func (s *SettingsService) getAddr(defaultVal string) string {
	if addr := s.configStore.GetString(keyServerAddr); addr != "" {
		return addr
	}
	if port := strings.TrimSpace(s.configStore.GetString(keyServerPort)); port != "" {
		return ":" + strings.TrimPrefix(port, ":")
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getProtocol(defaultVal domain.Protocol) domain.Protocol {
	p := domain.Protocol(s.configStore.GetString(keyOracleProtocol))
	if !p.IsValid() {
		return defaultVal
	}
	return p
}

func (s *SettingsService) getFailurePolicy(defaultVal domain.FailurePolicy) domain.FailurePolicy {
	f := domain.FailurePolicy(s.configStore.GetString(keyOracleFailure))
	if !f.IsValid() {
		return defaultVal
	}
	return f
}
