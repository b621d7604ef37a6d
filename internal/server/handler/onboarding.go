package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// OnboardingService defines what the onboarding handler needs.
type OnboardingService interface {
	Seen(ctx context.Context) bool
	Complete(ctx context.Context) error
	Reset(ctx context.Context) error
}

// OnboardingHandler exposes the onboarding-seen flag.
type OnboardingHandler struct {
	onboarding OnboardingService
	logger     *slog.Logger
}

// NewOnboardingHandler creates an OnboardingHandler.
func NewOnboardingHandler(onboarding OnboardingService, logger *slog.Logger) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, logger: logger}
}

// GetOnboarding reports whether onboarding was completed.
// GET /api/onboarding
func (h *OnboardingHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"seen": h.onboarding.Seen(r.Context())})
}

// Complete records onboarding as seen.
// POST /api/onboarding/complete
func (h *OnboardingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.Complete(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to complete onboarding")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"seen": true})
}

// Reset clears the flag.
// DELETE /api/onboarding
func (h *OnboardingHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.Reset(r.Context()); err != nil {
		writeServiceError(w, r, h.logger, err, "", "failed to reset onboarding")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"seen": false})
}
