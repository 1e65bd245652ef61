// Package metrics provides observability hooks for the counter widget and the
// transmitter API.
//
// Components receive a Recorder through their options. NoopRecorder is the
// default so callers never nil-check; PrometheusRecorder is swapped in when a
// registry is configured and HTTPHandler exposes it for scraping.
package metrics
