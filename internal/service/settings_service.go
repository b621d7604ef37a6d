package service

import (
	"context"

	"github.com/noopishere/vector-mobile/internal/domain"
	"github.com/noopishere/vector-mobile/internal/store/memory"
)

// SettingsService reads and patches the settings record. Values are not
// validated.
type SettingsService struct {
	state *memory.State
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(state *memory.State) *SettingsService {
	return &SettingsService{state: state}
}

// Get returns the current settings.
func (s *SettingsService) Get(_ context.Context) domain.Settings {
	return s.state.Settings()
}

// Update merges patch into the current settings.
func (s *SettingsService) Update(_ context.Context, patch domain.SettingsPatch) domain.Settings {
	return s.state.UpdateSettings(patch)
}
