package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cortexai/datachat/internal/models"
)

// Version is reported by the health endpoint. Overridden at link time.
var Version = "1.0.0"

// HealthChecker is implemented by dependencies that can report connectivity
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

// HealthHandler handles GET /health with dependency checks
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler probes every non-nil checker; nil entries are reported as
// disabled.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"server": "ok"}
	overallStatus := "healthy"

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	for name, c := range h.checks {
		if c == nil {
			checks[name] = "disabled"
			continue
		}
		if err := c.TestConnection(ctx); err != nil {
			checks[name] = "unavailable: " + err.Error()
			overallStatus = "degraded"
		} else {
			checks[name] = "ok"
		}
	}

	statusCode := http.StatusOK
	if overallStatus == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	models.WriteJSON(w, statusCode, models.HealthResponse{
		Status:  overallStatus,
		Version: Version,
		Checks:  checks,
	})
}
