// Package events fans controller display updates out to any number of
// consumers, such as the terminal widget and the log.
package events

import (
	"sync"
	"time"

	"github.com/germanamz/transmitter/pkg/counter"
)

// Kind identifies the type of display event.
type Kind string

const (
	KindNumber Kind = "number"
	KindCycles Kind = "cycles"
	KindStatus Kind = "status"
)

// Event is an immutable notification of a display update. Only the fields
// that belong to Kind are set.
type Event struct {
	Kind      Kind
	Timestamp time.Time
	Number    int
	Emphasize bool
	Cycles    int
	Status    counter.Status
}

// Subscription receives events from a Bus.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// Bus fans out events to all active subscribers. It is safe for concurrent
// use.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewBus creates a Bus ready for use.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size.
// The caller should read from sub.C and eventually call Unsubscribe.
func (b *Bus) Subscribe(bufSize int) *Subscription {
	ch := make(chan Event, bufSize)
	sub := &Subscription{C: ch, ch: ch}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Unsubscribe removes the subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

// Publish sends an event to all subscribers. A subscriber whose buffer is
// full misses the event so the controller loop never blocks on a slow view.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
		}
	}
}
