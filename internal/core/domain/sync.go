package domain

// ResyncResult summarizes a completed full resync.
type ResyncResult struct {
	DocumentsIndexed int     `json:"documents_indexed"`
	Batches          int     `json:"batches"`
	DurationSeconds  float64 `json:"duration_seconds"`
}

// ComponentStatus is the liveness of one collaborator.
type ComponentStatus struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// HealthStatus aggregates collaborator liveness for the health endpoint.
type HealthStatus struct {
	Healthy    bool              `json:"healthy"`
	Components []ComponentStatus `json:"components"`
}
