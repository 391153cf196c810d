package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Refresh    key.Binding
	Search     key.Binding
	Delete     key.Binding
	NewRun     key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	SelectNone key.Binding
	Artifacts  key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

var Keys = KeyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
	Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search events")),
	Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	NewRun:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new query")),
	Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
	SelectNone: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "clear selection")),
	Artifacts:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "artifacts")),
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
}
