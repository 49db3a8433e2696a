package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider acting as the correction oracle.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the conventional environment variable holding this
// provider's API key, or "" if the provider needs none.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return ""
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama and compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic/Gemini).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Protocol selects how the oracle is asked to answer.
type Protocol string

// Available oracle protocols.
const (
	// ProtocolRewrite asks for the corrected chunk verbatim.
	ProtocolRewrite Protocol = "rewrite"

	// ProtocolStructured asks for a JSON list of correction records.
	ProtocolStructured Protocol = "structured"
)

// IsValid returns true if the protocol is recognised.
func (p Protocol) IsValid() bool {
	return p == ProtocolRewrite || p == ProtocolStructured
}

// FailurePolicy decides what happens when a chunk's oracle call fails.
type FailurePolicy string

// Available failure policies.
const (
	// FailureAbort aborts the whole analysis.
	FailureAbort FailurePolicy = "abort"

	// FailureKeepOriginal substitutes the original chunk unmodified.
	FailureKeepOriginal FailurePolicy = "keep_original"
)

// IsValid returns true if the policy is recognised.
func (f FailurePolicy) IsValid() bool {
	return f == FailureAbort || f == FailureKeepOriginal
}

// RetryPolicy controls retries around a single oracle call.
type RetryPolicy struct {
	// MaxAttempts is the total number of calls, including the first. Values below 1 mean 1.
	MaxAttempts int

	// InitialBackoff is the wait before the second attempt.
	InitialBackoff time.Duration

	// MaxBackoff caps the wait between attempts.
	MaxBackoff time.Duration

	// Multiplier grows the wait after each failed attempt.
	Multiplier float64

	// RetryOn lists the error kinds worth retrying.
	RetryOn []ErrorKind
}

// DefaultRetryPolicy retries transient failures three times with exponential backoff.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     8 * time.Second,
		Multiplier:     2,
		RetryOn:        []ErrorKind{ErrorKindNetwork, ErrorKindRateLimited, ErrorKindServer},
	}
}

// Retryable reports whether kind is listed in RetryOn.
func (p RetryPolicy) Retryable(kind ErrorKind) bool {
	for _, k := range p.RetryOn {
		if k == kind {
			return true
		}
	}
	return false
}

// Backoff returns the wait after the given failed attempt (1-based).
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if p.InitialBackoff <= 0 || attempt < 1 {
		return 0
	}
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	d := float64(p.InitialBackoff)
	for i := 1; i < attempt; i++ {
		d *= mult
		if p.MaxBackoff > 0 && d >= float64(p.MaxBackoff) {
			return p.MaxBackoff
		}
	}
	if p.MaxBackoff > 0 && time.Duration(d) > p.MaxBackoff {
		return p.MaxBackoff
	}
	return time.Duration(d)
}

// OracleSettings holds correction oracle behaviour.
type OracleSettings struct {
	// Protocol selects rewrite or structured responses.
	Protocol Protocol

	// FailurePolicy decides between aborting and keeping the original chunk.
	FailurePolicy FailurePolicy

	// Concurrency bounds parallel chunk calls. 1 means sequential.
	Concurrency int

	// RequestsPerSecond throttles calls across all analyses. Zero disables throttling.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int

	// Retry is the per-call retry policy.
	Retry RetryPolicy
}

// ChunkingSettings holds chunker configuration.
type ChunkingSettings struct {
	// MaxLength is the maximum chunk length in characters.
	MaxLength int
}

// AnalysisSettings holds ingestion limits.
type AnalysisSettings struct {
	// MinLength is the minimum number of characters after trimming.
	MinLength int
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// MaxUploadBytes caps uploaded files.
	MaxUploadBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server   ServerSettings
	LLM      LLMSettings
	Oracle   OracleSettings
	Chunking ChunkingSettings
	Analysis AnalysisSettings
}

// Defaults.
const (
	DefaultAddr           = ":10000"
	DefaultMaxUploadBytes = 10 << 20
	DefaultChunkLength    = 4000
	DefaultMinTextLength  = 5
	DefaultModel          = "gpt-4o-mini"
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM defaults to OpenAI; an API key must still be supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultModel,
		},
		Oracle: OracleSettings{
			Protocol:          ProtocolRewrite,
			FailurePolicy:     FailureAbort,
			Concurrency:       1,
			RequestsPerSecond: 2,
			Burst:             1,
			Retry:             DefaultRetryPolicy(),
		},
		Chunking: ChunkingSettings{MaxLength: DefaultChunkLength},
		Analysis: AnalysisSettings{MinLength: DefaultMinTextLength},
	}
}

// AllAIProviders returns all available AI providers.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini, AIProviderOllama}
}

// DefaultLLMModels returns the model used when none is configured for a provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    DefaultModel,
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-2.0-flash",
		AIProviderOllama:    "llama3.2",
	}
}
