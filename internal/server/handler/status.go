package handler

import (
	"net/http"
	"time"
)

// StatusHandler reports the running mode, build version and uptime.
type StatusHandler struct {
	mode      string
	version   string
	startedAt time.Time
	now       func() time.Time
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(mode, version string, startedAt time.Time) *StatusHandler {
	return &StatusHandler{mode: mode, version: version, startedAt: startedAt, now: time.Now}
}

// GetStatus responds with the current backend status.
// GET /api/status
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	uptime := max(int64(h.now().Sub(h.startedAt).Seconds()), 0)
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":           h.mode,
		"version":        h.version,
		"uptime_seconds": uptime,
	})
}
