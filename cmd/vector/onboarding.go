package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noopishere/vector-mobile/internal/app"
	"github.com/noopishere/vector-mobile/internal/service"
)

var onboardingCmd = &cobra.Command{
	Use:   "onboarding",
	Short: "Inspect or clear the persisted onboarding flag",
}

var onboardingStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print whether onboarding has been completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withOnboarding(cmd, func(svc *service.OnboardingService) error {
			fmt.Fprintf(cmd.OutOrStdout(), "seen: %t\n", svc.Seen(cmd.Context()))
			return nil
		})
	},
}

var onboardingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the flag so onboarding shows again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withOnboarding(cmd, func(svc *service.OnboardingService) error {
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "onboarding flag cleared")
			return nil
		})
	},
}

var onboardingCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Mark onboarding as completed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withOnboarding(cmd, func(svc *service.OnboardingService) error {
			if err := svc.Complete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "onboarding flag set")
			return nil
		})
	},
}

func init() {
	onboardingCmd.AddCommand(onboardingStatusCmd, onboardingCompleteCmd, onboardingResetCmd)
}

// withOnboarding opens the configured flag store directly, without the
// in-memory fallback the server uses, so storage errors surface here.
func withOnboarding(cmd *cobra.Command, fn func(*service.OnboardingService) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	flags, closeFn, err := app.OpenFlags(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(service.NewOnboardingService(flags, logger))
}
