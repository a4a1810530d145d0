package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextPage  key.Binding
	NextModel key.Binding
	Reset     key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextPage:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch page")),
		NextModel: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "model")),
		Reset:     key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new session")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "ask")),
		Quit:      key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) bindings(p page) []key.Binding {
	if p == pageAsk {
		return []key.Binding{k.Submit, k.NextModel, k.NextPage, k.Reset, k.Quit}
	}
	return []key.Binding{k.NextPage, k.Reset, k.Quit}
}
