package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/transmitter/pkg/counter"
	"github.com/germanamz/transmitter/pkg/events"
)

// programReadyMsg passes the *tea.Program to the model so it can start the
// bridge goroutine.
type programReadyMsg struct {
	program *tea.Program
}

// displayMsg carries one controller display update from the bridge.
type displayMsg struct {
	event events.Event
}

// emphasisDoneMsg clears the number highlight set by the refresh with the
// same sequence.
type emphasisDoneMsg struct {
	seq int
}

// stateMsg is returned by the tea.Cmd that ran a controller command.
type stateMsg struct {
	state counter.State
}
