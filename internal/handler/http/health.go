// Package http provides the HTTP middleware and operational endpoints of the
// feed service: request logging, panic recovery, request metrics and the
// health, readiness and liveness probes.
package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`            // "healthy", "degraded" or "unhealthy"
	Message string                 `json:"message,omitempty"` // Optional status message
	Details map[string]interface{} `json:"details,omitempty"` // Optional additional details
}

// BreakerState is implemented by the circuit breakers guarding the content API and the cache database.
type BreakerState interface {
	State() gobreaker.State
}

// HealthHandler handles health check endpoint requests.
// The database check only runs for the SQL cache backends; an open circuit
// breaker degrades the status without failing it.
type HealthHandler struct {
	DB           *sql.DB // nil for the memory cache backend
	CacheBackend string
	Breakers     map[string]BreakerState
	Version      string
}

// ServeHTTP performs health checks and returns the application health status.
// Returns 200 OK if healthy or degraded, or 503 Service Unavailable if any check fails.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]CheckStatus)
	checks["cache"] = h.checkCache(ctx)

	if len(h.Breakers) > 0 {
		checks["circuit_breakers"] = h.checkBreakers()
	}

	status := "healthy"
	statusCode := http.StatusOK
	for _, c := range checks {
		switch c.Status {
		case "unhealthy":
			status = "unhealthy"
			statusCode = http.StatusServiceUnavailable
		case "degraded":
			if status == "healthy" {
				status = "degraded"
			}
		}
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Default().Error("health: failed to encode response", slog.Any("error", err))
	}
}

// checkCache reports the cache backend and, for SQL backends, pings the database.
func (h *HealthHandler) checkCache(ctx context.Context) CheckStatus {
	details := map[string]interface{}{"backend": h.CacheBackend}
	if h.DB == nil {
		return CheckStatus{Status: "healthy", Details: details}
	}

	if err := h.DB.PingContext(ctx); err != nil {
		return CheckStatus{
			Status:  "unhealthy",
			Message: "database unreachable",
			Details: details,
		}
	}

	stats := h.DB.Stats()
	details["open_connections"] = stats.OpenConnections
	details["in_use"] = stats.InUse
	details["idle"] = stats.Idle
	details["wait_count"] = stats.WaitCount
	details["max_open_connections"] = stats.MaxOpenConnections

	return CheckStatus{Status: "healthy", Details: details}
}

// checkBreakers reports every breaker state. Open breakers mean degraded service.
func (h *HealthHandler) checkBreakers() CheckStatus {
	names := make([]string, 0, len(h.Breakers))
	for name := range h.Breakers {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make(map[string]interface{}, len(names))
	status := "healthy"
	var open []string
	for _, name := range names {
		state := h.Breakers[name].State()
		details[name] = state.String()
		if state == gobreaker.StateOpen {
			status = "degraded"
			open = append(open, name)
		}
	}

	check := CheckStatus{Status: status, Details: details}
	if len(open) > 0 {
		check.Message = "circuit open: " + strings.Join(open, ", ")
	}
	return check
}

// ReadyHandler handles Kubernetes readiness probe requests.
// Without a database (memory cache backend) the service is always ready.
type ReadyHandler struct {
	DB *sql.DB
}

// ServeHTTP returns 200 OK if ready, or 503 Service Unavailable if the database is not ready.
func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.DB != nil {
		if err := h.DB.PingContext(ctx); err != nil {
			http.Error(w, "database not ready", http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ready")); err != nil {
		slog.Default().Error("ready: failed to write response", slog.Any("error", err))
	}
}

// LiveHandler handles Kubernetes liveness probe requests.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK while the process can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		slog.Default().Error("alive: failed to write response", slog.Any("error", err))
	}
}
