package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds every action the three screens support.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	Enter key.Binding
	Back  key.Binding

	Refresh    key.Binding
	Teachers   key.Binding
	History    key.Binding
	Final      key.Binding
	Initialize key.Binding
	Export     key.Binding

	Logout key.Binding
	Quit   key.Binding
}

var DefaultKeyMap = KeyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous week")),
	Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next week")),

	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/save")),
	Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),

	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Teachers:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "teachers")),
	History:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	Final:      key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "final grade")),
	Initialize: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "initialize weeks")),
	Export:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "export")),

	Logout: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
}
