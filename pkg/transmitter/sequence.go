package transmitter

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// Sequence parameters.
const (
	First    = 1
	Length   = 9
	Interval = time.Second
)

// Reading is the sequence position at one instant.
type Reading struct {
	At           time.Time
	Elapsed      time.Duration
	Number       int
	TotalCycles  int
	NextChangeIn time.Duration
}

// Sequence derives the current number from the time elapsed since it was
// created. It holds no mutable state and is safe for concurrent use.
type Sequence struct {
	clock clockwork.Clock
	start time.Time
}

// NewSequence starts a sequence at clock.Now().
func NewSequence(clock clockwork.Clock) *Sequence {
	return &Sequence{clock: clock, start: clock.Now()}
}

// Read returns the current reading.
func (s *Sequence) Read() Reading {
	now := s.clock.Now()
	elapsed := now.Sub(s.start)
	ticks := int(elapsed / Interval)

	return Reading{
		At:           now,
		Elapsed:      elapsed,
		Number:       ticks%Length + First,
		TotalCycles:  int(elapsed / (Length * Interval)),
		NextChangeIn: Interval - elapsed%Interval,
	}
}

// Uptime is the time elapsed since the sequence started.
func (s *Sequence) Uptime() time.Duration { return s.clock.Since(s.start) }

// Values lists the numbers of one cycle in order.
func Values() []int {
	out := make([]int, Length)
	for i := range out {
		out[i] = First + i
	}
	return out
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
