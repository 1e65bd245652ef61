package counter

import (
	"fmt"
	"strings"
)

// Bounds of the displayed number.
const (
	MinNumber = 1
	MaxNumber = 9
)

// Mode selects who advances the number.
type Mode int

const (
	// ModeLocal advances the number on the controller's own clock.
	ModeLocal Mode = iota
	// ModeSync mirrors the number reported by the remote source.
	ModeSync
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeSync:
		return "sync"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "local" or "sync" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "":
		return ModeLocal, nil
	case "sync":
		return ModeSync, nil
	default:
		return ModeLocal, fmt.Errorf("counter: unknown mode %q", s)
	}
}

// Phase is the controller's position in its state machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunningLocal
	PhaseSyncing
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunningLocal:
		return "running"
	case PhaseSyncing:
		return "syncing"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Status is the label pushed to the display. It is a projection of the
// controller state, not separate state.
type Status string

const (
	StatusRunning     Status = "Running"
	StatusStopped     Status = "Stopped"
	StatusSyncing     Status = "Syncing with Server"
	StatusServerError Status = "Server Error"
)

// State is a copy of the controller's state at one instant.
type State struct {
	Number     int
	Cycles     int
	Running    bool
	Mode       Mode
	TimerArmed bool
}

// Phase derives the state machine phase from the state fields.
func (s State) Phase() Phase {
	switch {
	case s.Mode == ModeSync:
		return PhaseSyncing
	case s.Running:
		return PhaseRunningLocal
	default:
		return PhaseIdle
	}
}

func initialState() State {
	return State{Number: MinNumber, Mode: ModeLocal}
}

// Snapshot is the number and cycle count reported by a Source at poll time.
type Snapshot struct {
	Number      int
	TotalCycles int
}

// Validate reports whether the snapshot can be mirrored.
func (s Snapshot) Validate() error {
	if s.Number < MinNumber || s.Number > MaxNumber {
		return fmt.Errorf("number %d out of range [%d,%d]", s.Number, MinNumber, MaxNumber)
	}
	if s.TotalCycles < 0 {
		return fmt.Errorf("negative cycle count %d", s.TotalCycles)
	}
	return nil
}
