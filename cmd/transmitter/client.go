package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/germanamz/transmitter/pkg/transmitter"
)

// apiReader is the part of remote.Client the client command uses.
type apiReader interface {
	Number(ctx context.Context) (transmitter.NumberResponse, error)
	Sequence(ctx context.Context) (transmitter.SequenceResponse, error)
	Status(ctx context.Context) (transmitter.StatusResponse, error)
}

type clientOptions struct {
	current  bool
	status   bool
	sequence bool
	monitor  bool
	duration time.Duration
	interval time.Duration
}

func (o clientOptions) any() bool {
	return o.current || o.status || o.sequence || o.monitor
}

// runClient performs the first requested action and prints the result to w.
// A nil clock uses the real clock.
func runClient(ctx context.Context, w io.Writer, api apiReader, clock clockwork.Clock, opts clientOptions) error {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	switch {
	case opts.current:
		n, err := api.Number(ctx)
		if err != nil {
			return fmt.Errorf("get current number: %w", err)
		}
		fmt.Fprintf(w, "Current Number: %d\n", n.Number)
		fmt.Fprintf(w, "Timestamp: %s\n", n.Timestamp)
		fmt.Fprintf(w, "Total Cycles: %d\n", n.TotalCycles)

	case opts.status:
		s, err := api.Status(ctx)
		if err != nil {
			return fmt.Errorf("get status: %w", err)
		}
		fmt.Fprintf(w, "Status: %s\n", s.Status)
		fmt.Fprintf(w, "Uptime: %.2f seconds\n", s.UptimeSeconds)
		fmt.Fprintf(w, "Current Number: %d\n", s.CurrentNumber)
		fmt.Fprintf(w, "API Version: %s\n", s.APIVersion)

	case opts.sequence:
		s, err := api.Sequence(ctx)
		if err != nil {
			return fmt.Errorf("get sequence info: %w", err)
		}
		fmt.Fprintf(w, "Sequence: %s\n", formatSequence(s.Sequence))
		fmt.Fprintf(w, "Length: %d\n", s.Length)
		fmt.Fprintf(w, "Interval: %d second(s)\n", s.IntervalSeconds)
		fmt.Fprintf(w, "Description: %s\n", s.Description)

	case opts.monitor:
		return monitor(ctx, w, api, clock, opts.duration, opts.interval)

	default:
		return fmt.Errorf("client: no action requested")
	}

	return nil
}

// monitor prints the current number every interval until duration has
// elapsed or ctx is cancelled.
func monitor(ctx context.Context, w io.Writer, api apiReader, clock clockwork.Clock, duration, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("client: monitor interval must be positive")
	}

	start := clock.Now()
	for clock.Since(start) < duration {
		n, err := api.Number(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("monitor: %w", err)
		}
		fmt.Fprintf(w, "Number: %d | Cycle: %d | Next change in: %.2fs\n", n.Number, n.TotalCycles, n.NextChangeIn)

		select {
		case <-ctx.Done():
			return nil
		case <-clock.After(interval):
		}
	}

	return nil
}

// formatSequence renders s as "[1, 2, 3]".
func formatSequence(s []int) string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
