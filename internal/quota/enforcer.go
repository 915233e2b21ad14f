// Package quota enforces the per-user lifetime cap on generated slides.
package quota

import (
	"context"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
)

// DefaultCap is the lifetime number of slides a user may generate.
const DefaultCap = 50

// Enforcer checks reservations against the cumulative usage counter.
// Reservation is advisory: the caller commits the increment only after
// generation actually succeeds, so two concurrent requests can both pass
// the check and overshoot the cap by a bounded amount. That race is
// accepted; see Commit.
type Enforcer struct {
	repo   domain.UsageRepository
	cap    int
	logger zerolog.Logger
}

func NewEnforcer(repo domain.UsageRepository, cap int, logger zerolog.Logger) *Enforcer {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Enforcer{repo: repo, cap: cap, logger: logger}
}

// Cap returns the configured lifetime limit.
func (e *Enforcer) Cap() int { return e.cap }

// CheckAndReserve verifies the user can still generate requested slides.
// On success it returns the allowance that would remain after the
// reservation; on failure it returns a QuotaExceededError carrying the
// current remaining allowance. No state is mutated either way.
func (e *Enforcer) CheckAndReserve(ctx context.Context, userID string, requested int) (int, error) {
	if requested < 1 {
		requested = 1
	}
	remaining, err := e.Remaining(ctx, userID)
	if err != nil {
		return 0, err
	}
	if requested > remaining {
		e.logger.Info().Str("user_id", userID).Int("requested", requested).
			Int("remaining", remaining).Msg("quota: reservation rejected")
		return 0, &domain.QuotaExceededError{Requested: requested, Remaining: remaining}
	}
	return remaining - requested, nil
}

// Commit records n successfully generated slides against the user's
// counter and returns the new remaining allowance.
func (e *Enforcer) Commit(ctx context.Context, userID string, n int) (int, error) {
	total, err := e.repo.Add(ctx, userID, n)
	if err != nil {
		return 0, err
	}
	return clampRemaining(e.cap - total), nil
}

// Remaining returns how many slides the user may still generate.
func (e *Enforcer) Remaining(ctx context.Context, userID string) (int, error) {
	used, err := e.repo.Used(ctx, userID)
	if err != nil {
		return 0, err
	}
	return clampRemaining(e.cap - used), nil
}

// clampRemaining floors at zero: the check/commit race can push usage
// slightly past the cap.
func clampRemaining(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
