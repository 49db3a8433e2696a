package mcp

import (
	"github.com/custodia-labs/matn/internal/core/ports/driven"
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// Ports aggregates the services exposed by the MCP server.
type Ports struct {
	// Analysis runs the correction pipeline.
	Analysis driving.AnalysisService

	// Export renders marked text for tool results. Optional.
	Export driving.ExportService

	// Prompts exposes the oracle prompt templates as resources. Optional.
	Prompts driven.PromptStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	return nil
}
