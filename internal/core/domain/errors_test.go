package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
		{"ErrRateLimited", ErrRateLimited},
		{"ErrEmptyInput", ErrEmptyInput},
		{"ErrUnsupportedFormat", ErrUnsupportedFormat},
		{"ErrOversizedInput", ErrOversizedInput},
		{"ErrOracle", ErrOracle},
		{"ErrMalformedOracleResponse", ErrMalformedOracleResponse},
		{"ErrEmptyExport", ErrEmptyExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Uniqueness tests that no two sentinels match each other
func TestErrors_Uniqueness(t *testing.T) {
	all := []error{
		ErrInvalidInput, ErrUnsupportedType, ErrLLMUnavailable, ErrRateLimited,
		ErrEmptyInput, ErrUnsupportedFormat, ErrOversizedInput,
		ErrOracle, ErrMalformedOracleResponse, ErrEmptyExport,
	}

	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_WithWrapping(t *testing.T) {
	wrapped := fmt.Errorf("read insho.docx: %w", ErrEmptyInput)

	assert.True(t, errors.Is(wrapped, ErrEmptyInput))
	assert.Contains(t, wrapped.Error(), "no text found")
}

func TestOracleError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &OracleError{ChunkIndex: 3, Kind: ErrorKindNetwork, Err: cause}

	assert.True(t, errors.Is(err, ErrOracle))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrRateLimited))
	assert.Equal(t, "chunk 3: correction service failed (network): connection reset", err.Error())

	var oe *OracleError
	wrapped := fmt.Errorf("analyse: %w", err)
	assert.True(t, errors.As(wrapped, &oe))
	assert.Equal(t, 3, oe.ChunkIndex)
}

func TestUpstreamError(t *testing.T) {
	t.Run("429 is rate limited", func(t *testing.T) {
		err := &UpstreamError{Provider: "openai", StatusCode: 429, Message: "slow down", RetryAfter: 2 * time.Second}

		assert.True(t, errors.Is(err, ErrRateLimited))
		assert.Equal(t, "openai error (status 429): slow down", err.Error())
	})

	t.Run("500 is not rate limited", func(t *testing.T) {
		err := &UpstreamError{Provider: "anthropic", StatusCode: 500, Message: "overloaded"}

		assert.False(t, errors.Is(err, ErrRateLimited))
	})

	t.Run("rate limit survives oracle wrapping", func(t *testing.T) {
		err := &OracleError{
			ChunkIndex: 0,
			Kind:       ErrorKindRateLimited,
			Err:        &UpstreamError{Provider: "gemini", StatusCode: 429},
		}

		assert.True(t, errors.Is(err, ErrRateLimited))
		assert.True(t, errors.Is(err, ErrOracle))
	})
}
