package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/matn/internal/adapters/driven/upload"
	"github.com/custodia-labs/matn/internal/core/domain"
)

// CheckTextInput is the input schema for the check_text tool.
type CheckTextInput struct {
	Text string `json:"text" jsonschema:"the text to check for spelling and grammar mistakes"`
}

// CheckFileInput is the input schema for the check_file tool.
type CheckFileInput struct {
	Path string `json:"path" jsonschema:"path to a local .txt or .docx file"`
}

// CheckOutput is the output schema for both check tools.
type CheckOutput struct {
	ID          string                    `json:"id"`
	Corrected   string                    `json:"corrected"`
	Marked      string                    `json:"marked,omitempty"`
	Runs        []domain.AnnotatedRun     `json:"runs"`
	Corrections []domain.CorrectionRecord `json:"corrections"`
	Count       int                       `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_text",
		Description: "Correct spelling and grammar in a piece of text and show what changed",
	}, s.handleCheckText)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_file",
		Description: "Correct spelling and grammar in a local TXT or DOCX file",
	}, s.handleCheckFile)
}

// handleCheckText handles the check_text tool invocation.
func (s *Server) handleCheckText(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckTextInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	result, err := s.ports.Analysis.AnalyseText(ctx, input.Text)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	return nil, s.output(result), nil
}

// handleCheckFile handles the check_file tool invocation.
func (s *Server) handleCheckFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckFileInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	if domain.ClassifyFilename(input.Path) == domain.VariantUnsupported {
		return nil, CheckOutput{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, input.Path)
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return nil, CheckOutput{}, fmt.Errorf("opening %s: %w", input.Path, err)
	}
	defer f.Close()

	raw, err := upload.ReadDocument(ctx, "", filepath.Base(input.Path), f, domain.DefaultMaxUploadBytes)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	result, err := s.ports.Analysis.AnalyseFile(ctx, raw)
	if err != nil {
		return nil, CheckOutput{}, err
	}
	return nil, s.output(result), nil
}

func (s *Server) output(result *domain.AnalysisResult) CheckOutput {
	out := CheckOutput{
		ID:          result.ID,
		Corrected:   result.Corrected,
		Runs:        result.Runs,
		Corrections: result.Corrections,
		Count:       len(result.Corrections),
	}
	if out.Runs == nil {
		out.Runs = []domain.AnnotatedRun{}
	}
	if out.Corrections == nil {
		out.Corrections = []domain.CorrectionRecord{}
	}

	if s.ports.Export != nil && len(out.Runs) > 0 {
		file, err := s.ports.Export.Export(out.Runs, domain.ExportPlainMarked)
		if err == nil {
			out.Marked = string(file.Content)
		}
	}
	return out
}
