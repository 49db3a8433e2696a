// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Back returns to the editor.
	Back key.Binding

	// Check sends the editor text for correction.
	Check key.Binding

	// Up scrolls the review up.
	Up key.Binding

	// Down scrolls the review down.
	Down key.Binding

	// ExportText saves the review as marked plain text.
	ExportText key.Binding

	// ExportDocx saves the review as a .docx document.
	ExportDocx key.Binding

	// Accept replaces the editor text with the corrected text.
	Accept key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "edit"),
		),
		Check: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "check"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		ExportText: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "save txt"),
		),
		ExportDocx: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "save docx"),
		),
		Accept: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "accept"),
		),
	}
}

// EditorHelp returns keybindings shown while editing.
func (k *KeyMap) EditorHelp() []key.Binding {
	return []key.Binding{k.Check, k.Help, k.Quit}
}

// ReviewHelp returns keybindings shown while reviewing.
func (k *KeyMap) ReviewHelp() []key.Binding {
	return []key.Binding{k.ExportText, k.ExportDocx, k.Accept, k.Back, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Check, k.Back, k.Accept},
		{k.Up, k.Down},
		{k.ExportText, k.ExportDocx},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
