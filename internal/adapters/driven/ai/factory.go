// Package ai builds the language model client selected in the settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/matn/internal/adapters/driven/llm/anthropic"
	"github.com/custodia-labs/matn/internal/adapters/driven/llm/gemini"
	"github.com/custodia-labs/matn/internal/adapters/driven/llm/ollama"
	"github.com/custodia-labs/matn/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/matn/internal/core/domain"
	"github.com/custodia-labs/matn/internal/core/ports/driven"
)

// pingTimeout bounds the connectivity check run before the first analysis.
const pingTimeout = 5 * time.Second

type builder func(s *domain.LLMSettings) (driven.LLMService, error)

var builders = map[domain.AIProvider]builder{
	domain.AIProviderOpenAI: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return openai.NewLLMService(openai.LLMConfig{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderAnthropic: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return anthropic.NewLLMService(anthropic.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderGemini: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return gemini.NewLLMService(context.Background(), gemini.Config{APIKey: s.APIKey, BaseURL: s.BaseURL, Model: s.Model})
	},
	domain.AIProviderOllama: func(s *domain.LLMSettings) (driven.LLMService, error) {
		return ollama.NewLLMService(ollama.LLMConfig{BaseURL: s.BaseURL, Model: s.Model}), nil
	},
}

// CreateLLMService creates the client for the configured provider.
// Unconfigured settings return domain.ErrLLMUnavailable.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrLLMUnavailable
	}

	build, ok := builders[settings.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: LLM provider %s", domain.ErrUnsupportedType, settings.Provider)
	}
	svc, err := build(settings)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// CreateAndValidateLLMService creates the client and pings it once.
// Every failure wraps domain.ErrLLMUnavailable.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider or API key missing", domain.ErrLLMUnavailable)
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	if err := ping(svc); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

// ValidateLLMConfig pings the configured provider.
// Unconfigured settings are not an error; callers decide whether a model is required.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()
	return ping(svc)
}

func ping(svc driven.LLMService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
