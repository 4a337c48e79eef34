package handler

import (
	"net/http"
	"time"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Auth    bool   `json:"auth"`
	Uptime  string `json:"uptime"`
}

// Health reports liveness plus the active storage driver.
type Health struct {
	storage string
	auth    bool
	started time.Time
	now     func() time.Time
}

// NewHealth creates a Health handler. now is usually time.Now.
func NewHealth(storage string, authEnabled bool, now func() time.Time) *Health {
	return &Health{storage: storage, auth: authEnabled, started: now(), now: now}
}

// ServeHTTP implements http.Handler.
//
// HTTP: GET /health
func (h *Health) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Storage: h.storage,
		Auth:    h.auth,
		Uptime:  h.now().Sub(h.started).Truncate(time.Second).String(),
	})
}
