package domain

import "strings"

// RunKind tags an annotated run.
type RunKind string

// Available run kinds.
const (
	RunSame    RunKind = "same"
	RunRemoved RunKind = "removed"
	RunAdded   RunKind = "added"
)

// IsValid returns true if the kind is recognised.
func (k RunKind) IsValid() bool {
	switch k {
	case RunSame, RunRemoved, RunAdded:
		return true
	default:
		return false
	}
}

// AnnotatedRun is a maximal same-kind span of the diff between two texts.
type AnnotatedRun struct {
	Text string  `json:"text"`
	Kind RunKind `json:"kind"`
}

// OriginalText joins the same and removed runs.
func OriginalText(runs []AnnotatedRun) string {
	return joinRuns(runs, RunRemoved)
}

// CorrectedText joins the same and added runs.
func CorrectedText(runs []AnnotatedRun) string {
	return joinRuns(runs, RunAdded)
}

func joinRuns(runs []AnnotatedRun, side RunKind) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Kind == RunSame || r.Kind == side {
			b.WriteString(r.Text)
		}
	}
	return b.String()
}

// AnalysisResult is the outcome of one analysis request.
// It is owned by the caller and never persisted.
type AnalysisResult struct {
	ID          string             `json:"id"`
	Original    string             `json:"original"`
	Corrected   string             `json:"corrected"`
	Runs        []AnnotatedRun     `json:"runs"`
	Corrections []CorrectionRecord `json:"corrections"`
	Input       InputKind          `json:"inputFormat"`
	Filename    string             `json:"filename,omitempty"`
}

// ExportFormat identifies a run exporter.
type ExportFormat string

// Available export formats.
const (
	// ExportPlainMarked is plain text with inline change markers.
	ExportPlainMarked ExportFormat = "plainMarked"

	// ExportRichText is a styled word-processor document.
	ExportRichText ExportFormat = "richText"

	// ExportCorrected is the corrected text without markers.
	ExportCorrected ExportFormat = "corrected"

	// ExportTerminal is ANSI-styled text for the command line.
	ExportTerminal ExportFormat = "terminal"
)

// ParseExportFormat accepts the canonical names and the short aliases
// used on the command line.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plainmarked", "plain", "txt":
		return ExportPlainMarked, true
	case "richtext", "rich", "docx":
		return ExportRichText, true
	case "corrected", "clean":
		return ExportCorrected, true
	case "terminal", "ansi":
		return ExportTerminal, true
	default:
		return "", false
	}
}
