package metrics

import "time"

// PollOutcome enumerates how a remote poll was resolved by the controller.
type PollOutcome string

const (
	PollApplied   PollOutcome = "applied"
	PollUnchanged PollOutcome = "unchanged"
	PollFailed    PollOutcome = "failed"
	PollStale     PollOutcome = "stale"
)

// Recorder defines observability hooks for the counter controller and the
// transmitter API. Implementations must be safe for concurrent use.
type Recorder interface {
	IncTick()
	IncCycle()
	ObservePoll(outcome PollOutcome, d time.Duration)
	SetMode(mode string)
	IncRequest(path string, status int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncTick()                               {}
func (NoopRecorder) IncCycle()                              {}
func (NoopRecorder) ObservePoll(PollOutcome, time.Duration) {}
func (NoopRecorder) SetMode(string)                         {}
func (NoopRecorder) IncRequest(string, int)                 {}
