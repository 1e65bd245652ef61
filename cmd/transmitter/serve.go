package main

import (
	"context"
	"os"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/germanamz/transmitter/pkg/metrics"
	"github.com/germanamz/transmitter/pkg/transmitter"
)

// runServe serves the transmitter API until ctx is cancelled.
func runServe(ctx context.Context, flags commonFlags, listen string) error {
	cfg, logger, err := loadRuntime(flags, os.Stderr)
	if err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.Listen
	}

	opts := transmitter.Options{Logger: logger}
	if cfg.Metrics {
		reg := prom.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Registry = reg
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
	}

	return transmitter.NewServer(opts).ListenAndServe(ctx, listen)
}
