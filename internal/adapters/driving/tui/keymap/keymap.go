// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the presenter cockpit.
type KeyMap struct {
	// Next advances the live slide to the preview cursor.
	Next key.Binding

	// Previous steps the live slide back.
	Previous key.Binding

	// StartBeginning starts presenting at slide 1.
	StartBeginning key.Binding

	// StartCurrent starts presenting at the current slide.
	StartCurrent key.Binding

	// Stop ends the presentation.
	Stop key.Binding

	// Blank toggles the audience window between slide and black.
	Blank key.Binding

	// PreviewNext and PreviewPrevious move the preview cursor.
	PreviewNext     key.Binding
	PreviewPrevious key.Binding

	// PreviewSetNext and PreviewSetPrevious snap the preview cursor
	// next to the live slide.
	PreviewSetNext     key.Binding
	PreviewSetPrevious key.Binding

	// Remember marks the preview cursor position; Recall jumps back.
	Remember key.Binding
	Recall   key.Binding

	// Help toggles the help view.
	Help key.Binding

	// Quit exits the application.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Next: key.NewBinding(
			key.WithKeys("right", " ", "n", "pgdown"),
			key.WithHelp("→/space", "next slide"),
		),
		Previous: key.NewBinding(
			key.WithKeys("left", "p", "pgup"),
			key.WithHelp("←/p", "previous slide"),
		),
		StartBeginning: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("F5", "present from start"),
		),
		StartCurrent: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "present from here"),
		),
		Stop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "stop presenting"),
		),
		Blank: key.NewBinding(
			key.WithKeys("b", "."),
			key.WithHelp("b", "blank audience"),
		),
		PreviewNext: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "preview forward"),
		),
		PreviewPrevious: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "preview back"),
		),
		PreviewSetNext: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "preview to current+1"),
		),
		PreviewSetPrevious: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "preview to current-1"),
		),
		Remember: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mark preview"),
		),
		Recall: key.NewBinding(
			key.WithKeys("'"),
			key.WithHelp("'", "recall mark"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Previous, k.Blank, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.Blank},
		{k.StartBeginning, k.StartCurrent, k.Stop},
		{k.PreviewNext, k.PreviewPrevious, k.PreviewSetNext, k.PreviewSetPrevious},
		{k.Remember, k.Recall, k.Help, k.Quit},
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
