package main

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/germanamz/transmitter/pkg/counter"
)

// keyMap binds the widget controls. It implements help.KeyMap.
type keyMap struct {
	Start key.Binding
	Stop  key.Binding
	Reset key.Binding
	Mode  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Stop:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Mode:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "toggle sync")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// setMode disables the manual controls while syncing.
func (k *keyMap) setMode(m counter.Mode) {
	manual := m == counter.ModeLocal
	k.Start.SetEnabled(manual)
	k.Stop.SetEnabled(manual)
	k.Reset.SetEnabled(manual)
}

// controls are the bindings rendered as buttons.
func (k keyMap) controls() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Reset}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Mode, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.controls(), {k.Mode, k.Help, k.Quit}}
}
