// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/matn/internal/core/domain"
)

// CheckRequested asks the app to check the given text.
type CheckRequested struct {
	Text string
}

// CheckCompleted carries the analysis result back to the model.
type CheckCompleted struct {
	Result *domain.AnalysisResult
	Err    error
}

// ExportCompleted reports a file written from the review.
type ExportCompleted struct {
	Path string
	Err  error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewEditor is the text editor.
	ViewEditor ViewType = iota
	// ViewReview shows the corrections as a diff.
	ViewReview
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewEditor:
		return "editor"
	case ViewReview:
		return "review"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred is sent when an operation fails.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}
