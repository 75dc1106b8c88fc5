package health

import "time"

// CheckResult is the outcome of a single dependency probe.
type CheckResult struct {
	Status    string `json:"status"`
	Connected bool   `json:"connected"`
	LatencyMS *int64 `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FullStatus is the aggregated health report across all dependencies.
type FullStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// CheckDatabaseRequest requests a database-only probe.
type CheckDatabaseRequest struct{}

// FullStatusRequest requests the aggregated health report.
type FullStatusRequest struct{}
