package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/noopishere/vector-mobile/internal/domain"
)

// OnboardingService tracks whether the intro flow has been completed.
type OnboardingService struct {
	flags  domain.FlagStore
	logger *slog.Logger
}

// NewOnboardingService creates an OnboardingService over flags. Callers
// normally pass a memory.FallbackFlagStore so storage failures never surface.
func NewOnboardingService(flags domain.FlagStore, logger *slog.Logger) *OnboardingService {
	return &OnboardingService{flags: flags, logger: logger.With(slog.String("component", "onboarding"))}
}

// Seen reports whether onboarding was completed. A read failure counts as
// not seen.
func (s *OnboardingService) Seen(ctx context.Context) bool {
	seen, err := s.flags.Get(ctx, domain.OnboardingSeenKey)
	if err != nil {
		s.logger.WarnContext(ctx, "onboarding: read flag failed", slog.String("error", err.Error()))
		return false
	}
	return seen
}

// Complete records onboarding as seen.
func (s *OnboardingService) Complete(ctx context.Context) error {
	if err := s.flags.Set(ctx, domain.OnboardingSeenKey, true); err != nil {
		return fmt.Errorf("onboarding: complete: %w", err)
	}
	return nil
}

// Reset clears the flag so onboarding shows again.
func (s *OnboardingService) Reset(ctx context.Context) error {
	if err := s.flags.Delete(ctx, domain.OnboardingSeenKey); err != nil {
		return fmt.Errorf("onboarding: reset: %w", err)
	}
	return nil
}
