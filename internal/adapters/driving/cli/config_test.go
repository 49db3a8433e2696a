package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/matn/internal/core/domain"
)

func executeConfig(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append([]string{"config"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestConfigShow(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-1234567890abcdef",
	}

	out, err := executeConfig(t, "show")

	require.NoError(t, err)
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Protocol: rewrite")
	assert.Contains(t, out, "/tmp/matn/config.toml")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestConfigShow_InvalidWarns(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.validateErr = errors.New("no key")

	out, err := executeConfig(t)

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: no key")
	assert.Contains(t, out, "matn config llm")
}

func TestConfigProtocol(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeConfig(t, "protocol", "Structured")

	require.NoError(t, err)
	assert.Equal(t, domain.ProtocolStructured, ts.settings.protocol)
	assert.Contains(t, out, "Protocol set to: structured")

	_, err = executeConfig(t, "protocol", "json")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigSet(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := executeConfig(t, "set", "oracle.concurrency", "4")

	require.NoError(t, err)
	v, ok := ts.store.Get("oracle.concurrency")
	require.True(t, ok)
	assert.Equal(t, int64(4), v)
	assert.True(t, ts.store.saved)
	assert.Contains(t, out, "oracle.concurrency = 4")
}

func TestParseConfigValue(t *testing.T) {
	assert.Equal(t, int64(42), parseConfigValue("42"))
	assert.Equal(t, 1.5, parseConfigValue("1.5"))
	assert.Equal(t, true, parseConfigValue("true"))
	assert.Equal(t, "structured", parseConfigValue("structured"))
}

func TestConfigureLLMProvider(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	providers := domain.AllAIProviders()
	choice := 0
	for i, p := range providers {
		if p == domain.AIProviderOllama {
			choice = i + 1
		}
	}
	require.NotZero(t, choice)

	buf := new(bytes.Buffer)
	configLLMCmd.SetOut(buf)
	defer configLLMCmd.SetOut(nil)
	reader := bufio.NewReader(strings.NewReader(strconv.Itoa(choice) + "\nmistral\n"))

	err := configureLLMProvider(configLLMCmd, reader)

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, ts.settings.provider)
	assert.Equal(t, "mistral", ts.settings.model)
	assert.Contains(t, buf.String(), "OK")
}

// Test helper functions in config.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}
