// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/matn/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/matn/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateChecking State = "checking"
	StateError    State = "error"
	StateHelp     State = "help"
	StateReview   State = "review"
)

// Bar displays application status and keybinding hints.
type Bar struct {
	styles          *styles.Styles
	keymap          *keymap.KeyMap
	state           State
	message         string
	correctionCount int
	width           int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateChecking:
		return s.styles.Muted.Render("Tekshirilmoqda...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Xato: %s", s.message))
		}
		return s.styles.Error.Render("Xato")
	case StateHelp:
		return s.styles.Normal.Render("Yordam")
	case StateReview:
		if s.message != "" {
			return s.styles.Success.Render(s.message)
		}
		return s.styles.Normal.Render(fmt.Sprintf("Tuzatishlar: %d", s.correctionCount))
	case StateReady:
	}
	return s.styles.Muted.Render("Tayyor")
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateReview {
		bindings = s.keymap.ReviewHelp()
	} else {
		bindings = s.keymap.EditorHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetCorrectionCount sets the number of corrections in the review.
func (s *Bar) SetCorrectionCount(count int) {
	s.correctionCount = count
}

// CorrectionCount returns the number of corrections.
func (s *Bar) CorrectionCount() int {
	return s.correctionCount
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.correctionCount = 0
}
