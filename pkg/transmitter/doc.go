// Package transmitter serves the number transmitter API: a 1..9 sequence that
// advances once per second from server start, exposed as JSON for widgets and
// scripts to poll.
//
// Endpoints:
//
//	GET /api/number    current number, cycle count and timing
//	GET /api/sequence  static description of the sequence
//	GET /api/status    uptime and service metadata
//	GET /health        liveness
//	GET /metrics       Prometheus exposition, when a registry is configured
package transmitter
