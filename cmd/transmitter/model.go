package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/transmitter/pkg/counter"
	"github.com/germanamz/transmitter/pkg/events"
)

// controller is the command surface the widget drives.
type controller interface {
	Start()
	Stop()
	Reset()
	SetMode(counter.Mode)
	State() counter.State
}

// widgetModel is the root bubbletea model. It renders what the controller
// publishes and turns key presses into controller commands. Commands run
// inside tea.Cmds because the controller's display sink feeds back into the
// program through Send.
type widgetModel struct {
	ctx          context.Context
	ctrl         controller
	bus          *events.Bus
	sub          *events.Subscription
	keys         keyMap
	help         help.Model
	serverURL    string
	emphasis     time.Duration
	cancelBridge context.CancelFunc

	number      int
	cycles      int
	status      counter.Status
	mode        counter.Mode
	emphasized  bool
	emphasisSeq int
}

func newWidgetModel(ctx context.Context, ctrl controller, bus *events.Bus, sub *events.Subscription, serverURL string, emphasis time.Duration) widgetModel {
	m := widgetModel{
		ctx:       ctx,
		ctrl:      ctrl,
		bus:       bus,
		sub:       sub,
		keys:      newKeyMap(),
		help:      help.New(),
		serverURL: serverURL,
		emphasis:  emphasis,
		status:    counter.StatusStopped,
	}
	m.applyState(ctrl.State())
	return m
}

func (m widgetModel) Init() tea.Cmd { return nil }

func (m widgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case programReadyMsg:
		if m.sub != nil && m.cancelBridge == nil {
			m.cancelBridge = startBridge(m.ctx, msg.program, m.bus, m.sub)
		}
		return m, nil

	case displayMsg:
		return m.handleDisplay(msg.event)

	case emphasisDoneMsg:
		if msg.seq == m.emphasisSeq {
			m.emphasized = false
		}
		return m, nil

	case stateMsg:
		m.applyState(msg.state)
		return m, nil
	}

	return m, nil
}

func (m widgetModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Start):
		return m, m.command(m.ctrl.Start)
	case key.Matches(msg, m.keys.Stop):
		return m, m.command(m.ctrl.Stop)
	case key.Matches(msg, m.keys.Reset):
		return m, m.command(m.ctrl.Reset)
	case key.Matches(msg, m.keys.Mode):
		next := counter.ModeSync
		if m.mode == counter.ModeSync {
			next = counter.ModeLocal
		}
		ctrl := m.ctrl
		return m, m.command(func() { ctrl.SetMode(next) })
	}
	return m, nil
}

// command runs fn off the update loop and reports the resulting state.
func (m widgetModel) command(fn func()) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		fn()
		return stateMsg{state: ctrl.State()}
	}
}

func (m widgetModel) handleDisplay(ev events.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case events.KindNumber:
		m.number = ev.Number
		if !ev.Emphasize {
			m.emphasized = false
			return m, nil
		}
		m.emphasized = true
		m.emphasisSeq++
		seq := m.emphasisSeq
		return m, tea.Tick(m.emphasis, func(time.Time) tea.Msg {
			return emphasisDoneMsg{seq: seq}
		})
	case events.KindCycles:
		m.cycles = ev.Cycles
	case events.KindStatus:
		m.status = ev.Status
	}
	return m, nil
}

func (m *widgetModel) applyState(st counter.State) {
	m.mode = st.Mode
	m.keys.setMode(st.Mode)
}

func (m widgetModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Number Transmitter"))
	b.WriteString("\n\n")

	style := numberStyle
	if m.emphasized {
		style = numberEmphasisStyle
	}
	b.WriteString(style.Render(strconv.Itoa(m.number)))
	b.WriteString("\n\n")

	statusStyle := inactiveStyle
	if m.status == counter.StatusRunning {
		statusStyle = runningStyle
	}

	mode := m.mode.String()
	if m.mode == counter.ModeSync {
		mode += " (" + m.serverURL + ")"
	}

	fmt.Fprintf(&b, "%s %d\n", labelStyle.Render("Cycles:"), m.cycles)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Status:"), statusStyle.Render(string(m.status)))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Mode:  "), mode)

	b.WriteString(m.controlsView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

// controlsView renders the manual controls, greyed out when disabled.
func (m widgetModel) controlsView() string {
	controls := m.keys.controls()
	parts := make([]string, 0, len(controls))
	for _, c := range controls {
		h := c.Help()
		label := "[" + h.Key + "] " + h.Desc
		if c.Enabled() {
			parts = append(parts, controlStyle.Render(label))
		} else {
			parts = append(parts, disabledStyle.Render(label))
		}
	}
	return strings.Join(parts, "  ")
}
