package transmitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/germanamz/transmitter/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Recorder metrics.Recorder
	Registry *prom.Registry // enables /metrics when set
	Service  string
}

// Server answers the transmitter API.
type Server struct {
	seq        *Sequence
	clock      clockwork.Clock
	log        *slog.Logger
	recorder   metrics.Recorder
	registry   *prom.Registry
	service    string
	instanceID string
}

// NewServer creates a server whose sequence starts now.
func NewServer(opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Service == "" {
		opts.Service = DefaultService
	}

	return &Server{
		seq:        NewSequence(opts.Clock),
		clock:      opts.Clock,
		log:        opts.Logger.With("component", "transmitter"),
		recorder:   opts.Recorder,
		registry:   opts.Registry,
		service:    opts.Service,
		instanceID: uuid.NewString(),
	}
}

// InstanceID identifies this server process in /api/status.
func (s *Server) InstanceID() string { return s.instanceID }

// Handler returns the API routes wrapped with CORS, logging and metrics.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/number", s.get(s.handleNumber))
	mux.HandleFunc("/api/sequence", s.get(s.handleSequence))
	mux.HandleFunc("/api/status", s.get(s.handleStatus))
	mux.HandleFunc("/health", s.get(s.handleHealth))
	if s.registry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	mux.HandleFunc("/", s.handleNotFound)

	return s.observe(cors(mux))
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("serving transmitter API", "addr", addr, "instance", s.instanceID)

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("transmitter: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("transmitter: shutdown: %w", err)
	}
	s.log.Info("transmitter API stopped")

	return nil
}

func (s *Server) handleNumber(w http.ResponseWriter, _ *http.Request) {
	r := s.seq.Read()
	s.log.Debug("returning number", "number", r.Number)

	s.writeJSON(w, http.StatusOK, NumberResponse{
		Number:        r.Number,
		Timestamp:     r.At.Format(time.RFC3339Nano),
		UnixTimestamp: float64(r.At.UnixNano()) / float64(time.Second),
		NextChangeIn:  round(r.NextChangeIn.Seconds(), 6),
		CyclePosition: r.Number,
		TotalCycles:   r.TotalCycles,
	})
}

func (s *Server) handleSequence(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, SequenceResponse{
		Sequence:        Values(),
		Length:          Length,
		IntervalSeconds: int(Interval / time.Second),
		Description:     fmt.Sprintf("Numbers %d-%d rotating every second", First, First+Length-1),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Status:        "running",
		UptimeSeconds: round(s.seq.Uptime().Seconds(), 3),
		CurrentNumber: s.seq.Read().Number,
		APIVersion:    APIVersion,
		Service:       s.service,
		InstanceID:    s.instanceID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: s.service})
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "Not found",
		Message: "The requested endpoint does not exist",
	})
}

// get restricts h to GET and HEAD.
func (s *Server) get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
				Error:   "Method not allowed",
				Message: fmt.Sprintf("%s is not supported on %s", r.Method, r.URL.Path),
			})
			return
		}
		h(w, r)
	}
}

// writeJSON encodes into a buffer first so a failed encode never sends a
// partial body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Warn("writing response", "error", err)
	}
}

// observe logs each request and counts it by path and status.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.clock.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.recorder.IncRequest(routeLabel(r.URL.Path), rw.status)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", s.clock.Since(start))
	})
}

// routeLabel folds unknown paths into one label to bound metric cardinality.
func routeLabel(path string) string {
	switch path {
	case "/api/number", "/api/sequence", "/api/status", "/health", "/metrics":
		return path
	default:
		return "other"
	}
}

// cors allows browser widgets on other origins to poll the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusWriter captures the status code for logging and metrics.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
