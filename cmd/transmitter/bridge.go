package main

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/transmitter/pkg/events"
)

// sender is the part of *tea.Program the bridge needs.
type sender interface {
	Send(msg tea.Msg)
}

// startBridge forwards display events from sub to p until ctx is cancelled
// or the subscription is closed. It only calls p.Send and never touches model
// state. The returned cancel func waits for the goroutine to exit.
func startBridge(ctx context.Context, p sender, bus *events.Bus, sub *events.Subscription) context.CancelFunc {
	bridgeCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Go(func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-bridgeCtx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				p.Send(displayMsg{event: ev})
			}
		}
	})

	return func() {
		cancel()
		wg.Wait()
	}
}
