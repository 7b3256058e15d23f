// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the document viewer.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	NextFold key.Binding
	PrevFold key.Binding

	// Folding
	ToggleFold key.Binding
	FoldAll    key.Binding
	UnfoldAll  key.Binding

	// General
	ToggleMargin key.Binding
	Help         key.Binding
	Quit         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "line up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "line down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first line"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last line"),
		),
		NextFold: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next fold"),
		),
		PrevFold: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous fold"),
		),

		// Folding
		ToggleFold: key.NewBinding(
			key.WithKeys("enter", "z"),
			key.WithHelp("enter/z", "toggle fold"),
		),
		FoldAll: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "fold all"),
		),
		UnfoldAll: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "unfold all"),
		),

		// General
		ToggleMargin: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle margin"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleFold, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},          // Navigation
		{k.NextFold, k.PrevFold, k.ToggleFold, k.FoldAll, k.UnfoldAll}, // Folding
		{k.ToggleMargin, k.Help, k.Quit},                               // General
	}
}
