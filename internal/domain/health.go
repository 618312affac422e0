package domain

// HealthStatus is the payload of GET /healthz.
type HealthStatus struct {
	Status       string            `json:"status"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// OpsMetrics is the JSON snapshot served by GET /v1/metrics/summary.
type OpsMetrics struct {
	TotalRequests       int64   `json:"totalRequests"`
	ErrorRate           float64 `json:"errorRate"`
	CacheHitRate        float64 `json:"cacheHitRate"`
	SettlementsApplied  int64   `json:"settlementsApplied"`
	SettlementsRejected int64   `json:"settlementsRejected"`
	Period              string  `json:"period"`
}
