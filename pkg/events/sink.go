package events

import (
	"github.com/jonboulle/clockwork"

	"github.com/germanamz/transmitter/pkg/counter"
)

// Sink is a counter.Display that publishes every update on a Bus.
type Sink struct {
	bus   *Bus
	clock clockwork.Clock
}

var _ counter.Display = (*Sink)(nil)

// NewSink creates a Sink publishing to bus. A nil clock uses the real clock.
func NewSink(bus *Bus, clock clockwork.Clock) *Sink {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sink{bus: bus, clock: clock}
}

func (s *Sink) SetNumber(value int, emphasize bool) {
	s.bus.Publish(Event{Kind: KindNumber, Timestamp: s.clock.Now(), Number: value, Emphasize: emphasize})
}

func (s *Sink) SetCycleCount(value int) {
	s.bus.Publish(Event{Kind: KindCycles, Timestamp: s.clock.Now(), Cycles: value})
}

func (s *Sink) SetStatus(status counter.Status) {
	s.bus.Publish(Event{Kind: KindStatus, Timestamp: s.clock.Now(), Status: status})
}
