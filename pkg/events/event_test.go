package events

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/transmitter/pkg/counter"
)

func TestBus_SubscribePublish(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: KindNumber, Number: 4, Emphasize: true})

	select {
	case got := <-sub.C:
		assert.Equal(t, KindNumber, got.Kind)
		assert.Equal(t, 4, got.Number)
		assert.True(t, got.Emphasize)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBus_FanOut(t *testing.T) {
	bus := NewBus()
	sub1 := bus.Subscribe(4)
	sub2 := bus.Subscribe(4)
	defer bus.Unsubscribe(sub1)
	defer bus.Unsubscribe(sub2)

	bus.Publish(Event{Kind: KindCycles, Cycles: 2})

	for _, sub := range []*Subscription{sub1, sub2} {
		select {
		case got := <-sub.C:
			assert.Equal(t, 2, got.Cycles)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBus_NonBlockingDrop(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(1)
	defer bus.Unsubscribe(sub)

	bus.Publish(Event{Kind: KindStatus, Status: counter.StatusRunning})
	bus.Publish(Event{Kind: KindStatus, Status: counter.StatusStopped})

	got := <-sub.C
	assert.Equal(t, counter.StatusRunning, got.Status)

	select {
	case <-sub.C:
		t.Fatal("expected channel to be empty after drop")
	default:
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(4)

	bus.Unsubscribe(sub)

	_, ok := <-sub.C
	assert.False(t, ok, "channel should be closed after unsubscribe")

	bus.Unsubscribe(sub)
}

func TestBus_PublishNoSubscribers(t *testing.T) {
	NewBus().Publish(Event{Kind: KindNumber})
}

func TestSink_PublishesDisplayCalls(t *testing.T) {
	clock := clockwork.NewFakeClock()
	bus := NewBus()
	sub := bus.Subscribe(8)
	defer bus.Unsubscribe(sub)

	var d counter.Display = NewSink(bus, clock)
	d.SetNumber(7, true)
	d.SetCycleCount(3)
	d.SetStatus(counter.StatusServerError)

	want := []Event{
		{Kind: KindNumber, Timestamp: clock.Now(), Number: 7, Emphasize: true},
		{Kind: KindCycles, Timestamp: clock.Now(), Cycles: 3},
		{Kind: KindStatus, Timestamp: clock.Now(), Status: counter.StatusServerError},
	}
	for _, w := range want {
		select {
		case got := <-sub.C:
			require.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	}
}
