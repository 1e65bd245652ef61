package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transmitter"

// Modes reported through the mode gauge. Exactly one is set to 1.
var knownModes = []string{"local", "sync"}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once         sync.Once
	ticks        prom.Counter
	cycles       prom.Counter
	pollResults  *prom.CounterVec
	pollDuration prom.Histogram
	mode         *prom.GaugeVec
	requests     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.ticks = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Local clock ticks applied by the counter",
		})
		pr.cycles = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Full 1..9 cycles completed on the local clock",
		})
		pr.pollResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "poll_results_total",
			Help:      "Remote polls by outcome",
		}, []string{"outcome"})
		pr.pollDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "poll_duration_seconds",
			Help:      "Latency of remote snapshot fetches",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		})
		pr.mode = prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "mode",
			Help:      "Current counter mode (1 for the active mode)",
		}, []string{"mode"})
		pr.requests = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Transmitter API requests by path and status code",
		}, []string{"path", "code"})
		reg.MustRegister(pr.ticks, pr.cycles, pr.pollResults, pr.pollDuration, pr.mode, pr.requests)
	})
	return pr
}

func (p *PrometheusRecorder) IncTick() {
	if p == nil || p.ticks == nil {
		return
	}
	p.ticks.Inc()
}

func (p *PrometheusRecorder) IncCycle() {
	if p == nil || p.cycles == nil {
		return
	}
	p.cycles.Inc()
}

func (p *PrometheusRecorder) ObservePoll(outcome PollOutcome, d time.Duration) {
	if p == nil || p.pollResults == nil {
		return
	}
	p.pollResults.WithLabelValues(string(outcome)).Inc()
	if outcome != PollStale {
		p.pollDuration.Observe(d.Seconds())
	}
}

func (p *PrometheusRecorder) SetMode(mode string) {
	if p == nil || p.mode == nil {
		return
	}
	for _, m := range knownModes {
		v := 0.0
		if m == mode {
			v = 1
		}
		p.mode.WithLabelValues(m).Set(v)
	}
}

func (p *PrometheusRecorder) IncRequest(path string, status int) {
	if p == nil || p.requests == nil {
		return
	}
	p.requests.WithLabelValues(path, strconv.Itoa(status)).Inc()
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
