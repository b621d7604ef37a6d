package domain

import "context"

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
}

// Page is one window of a filtered, sorted list.
type Page[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Paginate slices items by opts. Offsets past the end yield an empty page.
func Paginate[T any](items []T, opts ListOpts) Page[T] {
	total := len(items)
	start := min(max(opts.Offset, 0), total)
	end := total
	if opts.Limit > 0 {
		end = min(start+opts.Limit, total)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Page[T]{Items: out, Total: total, Limit: opts.Limit, Offset: start}
}

// OnboardingSeenKey is the flag key recording completed onboarding.
const OnboardingSeenKey = "onboarding_seen"

// FlagStore persists small boolean flags. Get reports false for unknown keys.
type FlagStore interface {
	Get(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
}
