package dashboard

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Record key.Binding
	Mode   key.Binding
	Allow  key.Binding
	Deny   key.Binding
	Quit   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Mode, k.Allow, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Deny}}
}

var keys = keyMap{
	Record: key.NewBinding(
		key.WithKeys(" ", "r"),
		key.WithHelp("space/r", "start/stop"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m", "tab"),
		key.WithHelp("m", "mode"),
	),
	Allow: key.NewBinding(
		key.WithKeys("a", "enter"),
		key.WithHelp("a", "allow sensors"),
	),
	Deny: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "deny sensors"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
