package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/noopishere/vector-mobile/internal/domain"
)

const maxSettingsBody = 4 << 10

// SettingsService defines what the settings handler needs.
type SettingsService interface {
	Get(ctx context.Context) domain.Settings
	Update(ctx context.Context, patch domain.SettingsPatch) domain.Settings
}

// SettingsHandler serves the settings record.
type SettingsHandler struct {
	settings SettingsService
	logger   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// GetSettings returns the current settings.
// GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}

// PatchSettings merges the fields present in the body.
// PATCH /api/settings
func (h *SettingsHandler) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSettingsBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings body: "+err.Error())
		return
	}
	updated := h.settings.Update(r.Context(), patch)
	h.logger.InfoContext(r.Context(), "handler: settings updated")
	writeJSON(w, http.StatusOK, updated)
}
