package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"clipchat-ai/internal/contextutil"
	"clipchat-ai/internal/index"
)

// HealthHandler reports whether the service can answer grounded questions.
type HealthHandler struct {
	index *index.Index
}

// NewHealthHandler creates a new HealthHandler. A nil index marks the service
// as degraded.
func NewHealthHandler(ix *index.Index) *HealthHandler {
	return &HealthHandler{
		index: ix,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "degraded"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Build ID of the loaded index, when present
	BuildID string `json:"build_id,omitempty"`

	// Number of indexed chunks, when present
	Chunks int `json:"chunks,omitempty"`

	// List of issues (only present if status is degraded)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks. Returns 200 when the
// index is loaded and non-empty, 503 when the service is running degraded.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	checks := make(map[string]string)
	var issues []string

	response := HealthResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.index != nil && h.index.Len() > 0 {
		checks["index"] = "ok"
		response.BuildID = h.index.BuildID()
		response.Chunks = h.index.Len()
	} else {
		checks["index"] = "missing"
		issues = append(issues, "index_not_built")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	response.Status = status
	response.Checks = checks
	response.Issues = issues

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
