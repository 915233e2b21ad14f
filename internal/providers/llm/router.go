package llm

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"deckgen/internal/domain"
)

const (
	// DefaultCooldown is how long an errored provider is excluded from
	// selection before becoming eligible again.
	DefaultCooldown = time.Minute
	// DefaultAttemptTimeout bounds a single provider call so a hung
	// backend cannot stall the failover chain.
	DefaultAttemptTimeout = 90 * time.Second
)

// ProviderStatus is the externally visible health of one provider.
type ProviderStatus struct {
	Available                bool   `json:"available"`
	Model                    string `json:"model"`
	CooldownRemainingSeconds *int   `json:"cooldown_remaining_seconds"`
}

// RouterOptions configures a Router. Zero values fall back to defaults;
// Clock is injectable for tests.
type RouterOptions struct {
	Cooldown       time.Duration
	AttemptTimeout time.Duration
	Clock          func() time.Time
	Logger         zerolog.Logger
}

// Router selects which provider services a request, in fixed rank order,
// and fails over when one errors. Provider health state lives here and is
// mutated by no other component. The state is process-wide on purpose:
// backends rate-limit by API key, not by user.
type Router struct {
	providers      []Provider
	cooldown       time.Duration
	attemptTimeout time.Duration
	now            func() time.Time
	logger         zerolog.Logger

	mu        sync.Mutex
	cooldowns map[string]time.Time
}

// NewRouter builds a router over providers in rank order (index 0 is the
// primary).
func NewRouter(providers []Provider, opts RouterOptions) *Router {
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	attemptTimeout := opts.AttemptTimeout
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Router{
		providers:      providers,
		cooldown:       cooldown,
		attemptTimeout: attemptTimeout,
		now:            now,
		logger:         opts.Logger,
		cooldowns:      make(map[string]time.Time),
	}
}

// Generate tries each provider in rank order, skipping any in cooldown,
// until one succeeds. Rate-limit and transient failures put the provider
// into cooldown; hard errors (auth, malformed response) only trigger
// failover. When every provider has been tried or skipped the call fails
// with a NoProviderAvailableError carrying the last underlying error.
func (r *Router) Generate(ctx context.Context, req Request) (*Response, error) {
	var lastErr error
	attempted := false

	for _, p := range r.providers {
		if r.inCooldown(p.Name()) {
			continue
		}
		attempted = true

		callCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
		resp, err := p.Generate(callCtx, req)
		cancel()
		if err == nil {
			r.logger.Debug().Str("provider", p.Name()).Msg("llm: generation succeeded")
			return resp, nil
		}

		lastErr = err
		if transientProviderError(err) {
			r.setCooldown(p.Name())
			r.logger.Warn().Err(err).Str("provider", p.Name()).
				Dur("cooldown", r.cooldown).Msg("llm: provider cooling down")
		} else {
			r.logger.Warn().Err(err).Str("provider", p.Name()).Msg("llm: provider failed, trying next")
		}

		if ctx.Err() != nil {
			break
		}
	}

	if !attempted {
		r.logger.Error().Msg("llm: every provider is in cooldown")
	}
	return nil, &domain.NoProviderAvailableError{Last: lastErr}
}

// Status reports health for every configured provider, keyed by name.
func (r *Router) Status() map[string]ProviderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	out := make(map[string]ProviderStatus, len(r.providers))
	for _, p := range r.providers {
		st := ProviderStatus{Available: true, Model: p.Model()}
		if until, ok := r.cooldowns[p.Name()]; ok && now.Before(until) {
			st.Available = false
			secs := int(until.Sub(now).Round(time.Second).Seconds())
			st.CooldownRemainingSeconds = &secs
		}
		out[p.Name()] = st
	}
	return out
}

func (r *Router) inCooldown(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	until, ok := r.cooldowns[name]
	if !ok {
		return false
	}
	if r.now().After(until) {
		delete(r.cooldowns, name)
		return false
	}
	return true
}

func (r *Router) setCooldown(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cooldowns[name] = r.now().Add(r.cooldown)
}

// transientProviderError reports whether the failure should put the
// provider into cooldown. Timeouts and network errors count as transient;
// a hung provider is indistinguishable from a rate-limited one from the
// caller's point of view.
func transientProviderError(err error) bool {
	var st *StatusError
	if errors.As(err, &st) {
		return st.Transient()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	// Remaining failures are request/response shape problems.
	return false
}
