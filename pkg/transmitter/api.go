package transmitter

// Wire types shared by the server and its clients.

// APIVersion is reported by /api/status.
const APIVersion = "1.0.0"

// DefaultService names the service in /health and /api/status.
const DefaultService = "number-transmitter-api"

// NumberResponse is the body of GET /api/number.
type NumberResponse struct {
	Number        int     `json:"number"`
	Timestamp     string  `json:"timestamp"`
	UnixTimestamp float64 `json:"unix_timestamp"`
	NextChangeIn  float64 `json:"next_change_in"`
	CyclePosition int     `json:"cycle_position"`
	TotalCycles   int     `json:"total_cycles"`
}

// SequenceResponse is the body of GET /api/sequence.
type SequenceResponse struct {
	Sequence        []int  `json:"sequence"`
	Length          int    `json:"length"`
	IntervalSeconds int    `json:"interval_seconds"`
	Description     string `json:"description"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	CurrentNumber int     `json:"current_number"`
	APIVersion    string  `json:"api_version"`
	Service       string  `json:"service"`
	InstanceID    string  `json:"instance_id"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ErrorResponse is returned for unknown paths and unsupported methods.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
