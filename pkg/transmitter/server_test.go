package transmitter

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/germanamz/transmitter/pkg/metrics"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

func newTestServer(t *testing.T, opts Options) (*httptest.Server, fakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	opts.Clock = clock
	srv := httptest.NewServer(NewServer(opts).Handler())
	t.Cleanup(srv.Close)
	return srv, clock
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec,noctx // test server URL
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp
}

func TestServer_Number(t *testing.T) {
	srv, clock := newTestServer(t, Options{})
	clock.Advance(10*time.Second + 250*time.Millisecond)

	var body NumberResponse
	resp := getJSON(t, srv.URL+"/api/number", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 2, body.Number)
	assert.Equal(t, 2, body.CyclePosition)
	assert.Equal(t, 1, body.TotalCycles)
	assert.InDelta(t, 0.75, body.NextChangeIn, 1e-9)
	assert.InDelta(t, float64(clock.Now().UnixNano())/1e9, body.UnixTimestamp, 1e-3)

	ts, err := time.Parse(time.RFC3339Nano, body.Timestamp)
	require.NoError(t, err)
	assert.True(t, ts.Equal(clock.Now()))
}

func TestServer_Sequence(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var body SequenceResponse
	getJSON(t, srv.URL+"/api/sequence", &body)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, body.Sequence)
	assert.Equal(t, 9, body.Length)
	assert.Equal(t, 1, body.IntervalSeconds)
	assert.Equal(t, "Numbers 1-9 rotating every second", body.Description)
}

func TestServer_Status(t *testing.T) {
	srv, clock := newTestServer(t, Options{Service: "number-transmitter-combined"})
	clock.Advance(4*time.Second + 1234*time.Microsecond)

	var body StatusResponse
	getJSON(t, srv.URL+"/api/status", &body)

	assert.Equal(t, "running", body.Status)
	assert.InDelta(t, 4.001, body.UptimeSeconds, 1e-9)
	assert.Equal(t, 5, body.CurrentNumber)
	assert.Equal(t, APIVersion, body.APIVersion)
	assert.Equal(t, "number-transmitter-combined", body.Service)
	assert.NotEmpty(t, body.InstanceID)
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var body HealthResponse
	resp := getJSON(t, srv.URL+"/health", &body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, HealthResponse{Status: "healthy", Service: DefaultService}, body)
}

func TestServer_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	var body ErrorResponse
	resp := getJSON(t, srv.URL+"/api/nope", &body)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found", body.Error)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp, err := http.Post(srv.URL+"/api/number", "application/json", nil) //nolint:noctx // test
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "GET, HEAD", resp.Header.Get("Allow"))
}

func TestServer_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/number", nil) //nolint:noctx // test
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "GET")
}

func TestServer_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	srv, _ := newTestServer(t, Options{Registry: reg, Recorder: rec})

	getJSON(t, srv.URL+"/api/number", nil)
	getJSON(t, srv.URL+"/missing", nil)

	resp, err := http.Get(srv.URL + "/metrics") //nolint:noctx // test
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(raw)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, out, `transmitter_api_requests_total{code="200",path="/api/number"} 1`)
	assert.Contains(t, out, `transmitter_api_requests_total{code="404",path="other"} 1`)
}

func TestServer_NoMetricsWithoutRegistry(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	resp := getJSON(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_ListenAndServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	s := NewServer(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health") //nolint:noctx // test
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/api/number", routeLabel("/api/number"))
	assert.Equal(t, "other", routeLabel("/wp-admin"))
}
