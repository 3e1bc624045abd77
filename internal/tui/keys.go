package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	NextView  key.Binding
	PrevView  key.Binding
	Text      key.Binding
	Devices   key.Binding
	Printers  key.Binding
	Refresh   key.Binding
	Submit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		NextView:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev view")),
		Text:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "text")),
		Devices:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "devices")),
		Printers:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "printers")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "process")),
	}
}

// bindingsFor returns the footer bindings for a view. The text view owns the
// keyboard, so only non-printable keys apply there.
func (k keyMap) bindingsFor(v ViewID) []key.Binding {
	if v == ViewText {
		return []key.Binding{k.Submit, k.NextView, k.PrevView, k.ForceQuit}
	}
	return []key.Binding{k.Text, k.Devices, k.Printers, k.NextView, k.Refresh, k.Quit}
}
