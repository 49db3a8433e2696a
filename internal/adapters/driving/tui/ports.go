// Package tui provides an interactive terminal editor for matn.
// Text typed or loaded into the editor is checked and reviewed as a coloured diff.
package tui

import (
	"github.com/custodia-labs/matn/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Analysis checks the editor text.
	Analysis driving.AnalysisService

	// Export writes the reviewed runs to disk.
	Export driving.ExportService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(analysis driving.AnalysisService, export driving.ExportService) *Ports {
	return &Ports{
		Analysis: analysis,
		Export:   export,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Export == nil {
		return ErrMissingExportService
	}
	return nil
}
