// Package mcp provides an MCP (Model Context Protocol) server adapter for matn.
// It lets AI assistants send text to the correction pipeline and read back the marked result.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
