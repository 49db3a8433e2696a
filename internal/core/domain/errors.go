package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, protocol or export format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Analysis cannot run without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Ingestion Errors.

	// ErrEmptyInput indicates no usable text was found after ingestion.
	ErrEmptyInput = errors.New("no text found")

	// ErrUnsupportedFormat indicates an upload with an extension other than .txt or .docx.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrOversizedInput indicates an upload larger than the configured cap.
	ErrOversizedInput = errors.New("input too large")

	// Oracle Errors.

	// ErrOracle indicates the correction service was unreachable or returned an error.
	// Analyses that hit it are aborted without a partial result.
	ErrOracle = errors.New("correction service failed")

	// ErrMalformedOracleResponse indicates a structured response that could not be parsed.
	// It is never fatal: the chunk degrades to zero corrections.
	ErrMalformedOracleResponse = errors.New("malformed correction response")

	// Export Errors.

	// ErrEmptyExport indicates an export was requested for an empty run sequence.
	ErrEmptyExport = errors.New("nothing to export")
)

// ErrorKind classifies oracle failures for retry decisions.
type ErrorKind string

// Known error kinds.
const (
	ErrorKindNetwork     ErrorKind = "network"
	ErrorKindRateLimited ErrorKind = "rate_limited"
	ErrorKindServer      ErrorKind = "server"
	ErrorKindClient      ErrorKind = "client"
	ErrorKindCanceled    ErrorKind = "canceled"
	ErrorKindUnknown     ErrorKind = "unknown"
)

// OracleError reports a chunk whose correction call failed after all retries.
type OracleError struct {
	// ChunkIndex is the index of the failing chunk.
	ChunkIndex int

	// Kind is the classified failure kind.
	Kind ErrorKind

	// Err is the underlying transport or upstream error.
	Err error
}

// Error implements the error interface.
func (e *OracleError) Error() string {
	return fmt.Sprintf("chunk %d: %s (%s): %v", e.ChunkIndex, ErrOracle, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *OracleError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrOracle.
func (e *OracleError) Is(target error) bool {
	return target == ErrOracle
}

// UpstreamError is a non-2xx response from an LLM provider.
type UpstreamError struct {
	// Provider names the API that failed (e.g. "openai").
	Provider string

	// StatusCode is the HTTP status returned.
	StatusCode int

	// Message is the provider's error message or raw body.
	Message string

	// RetryAfter is the server-requested wait, zero if absent.
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.StatusCode, e.Message)
}

// Is reports ErrRateLimited for 429 responses.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == 429
}
