package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/germanamz/transmitter/pkg/appdir"
	"github.com/germanamz/transmitter/pkg/counter"
	"github.com/germanamz/transmitter/pkg/events"
	"github.com/germanamz/transmitter/pkg/metrics"
	"github.com/germanamz/transmitter/pkg/remote"
)

// runWidget builds the controller, wires it to the terminal UI and blocks
// until the user quits or ctx is cancelled.
func runWidget(ctx context.Context, flags commonFlags, metricsAddr string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg, appdir.New(flags.dir))
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg)

	mode, err := cfg.ParsedMode()
	if err != nil {
		return err
	}

	opts := cfg.CounterOptions()
	opts.Logger = logger

	src, err := remote.New(cfg.ServerURL, remote.Options{Timeout: opts.PollTimeout, Logger: logger})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if metricsAddr != "" {
		reg := prom.NewRegistry()
		opts.Recorder = metrics.NewPrometheusRecorder(reg)
		go serveMetrics(ctx, logger, metricsAddr, reg)
	}

	bus := events.NewBus()
	// Subscribe before Run so the initial paint reaches the view.
	sub := bus.Subscribe(64)

	ctrl := counter.New(events.NewSink(bus, nil), src, opts)
	go func() {
		if err := ctrl.Run(ctx); err != nil {
			logger.Error("controller stopped", "error", err)
		}
	}()

	if mode == counter.ModeSync {
		ctrl.SetMode(counter.ModeSync)
	}

	logger.Info("widget started", "mode", mode, "server_url", src.BaseURL())

	model := newWidgetModel(ctx, ctrl, bus, sub, src.BaseURL(), cfg.EmphasisDuration())
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Send the program reference so the model can start the bridge goroutine.
	go func() {
		p.Send(programReadyMsg{program: p})
	}()
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	final, err := p.Run()

	if wm, ok := final.(widgetModel); ok && wm.cancelBridge != nil {
		wm.cancelBridge()
	}
	cancel()
	<-ctrl.Done()
	logger.Info("widget stopped")

	return err
}

// serveMetrics exposes the widget's controller metrics until ctx is done.
func serveMetrics(ctx context.Context, logger *slog.Logger, addr string, reg *prom.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "addr", addr, "error", err)
	}
}
