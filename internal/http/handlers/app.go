// Package handlers implements the HTTP API surface.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"deckgen/internal/deck"
	"deckgen/internal/domain"
	"deckgen/internal/export"
	"deckgen/internal/generate"
	"deckgen/internal/jobs"
	"deckgen/internal/middleware"
	"deckgen/internal/providers/llm"
	"deckgen/internal/quota"
)

// ProviderStatusReporter exposes the router's availability snapshot.
type ProviderStatusReporter interface {
	Status() map[string]llm.ProviderStatus
}

// App carries every dependency the handlers need.
type App struct {
	Decks     *deck.Manager
	Jobs      *jobs.Manager
	Quota     *quota.Enforcer
	Generator *generate.Service
	Providers ProviderStatusReporter
	Exporter  *export.Exporter
	Logger    zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{"error": errCode, "message": message})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}

// domainError maps service errors onto HTTP responses. Content failures
// and provider exhaustion are kept distinct so clients can tell "retry
// later" from "the model misbehaved".
func (a *App) domainError(w http.ResponseWriter, err error) {
	var quotaErr *domain.QuotaExceededError
	switch {
	case errors.As(err, &quotaErr):
		a.json(w, http.StatusForbidden, map[string]any{
			"error":     "quota_exceeded",
			"message":   quotaErr.Error(),
			"requested": quotaErr.Requested,
			"remaining": quotaErr.Remaining,
		})
	case errors.Is(err, domain.ErrSessionNotFound):
		a.error(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, domain.ErrSlideNotFound):
		a.error(w, http.StatusNotFound, "not_found", "slide not found")
	case errors.Is(err, domain.ErrJobNotFound):
		a.error(w, http.StatusNotFound, "not_found", "job not found")
	case errors.Is(err, domain.ErrInvalidVersionIndex):
		a.error(w, http.StatusBadRequest, "bad_request", "invalid version index")
	case errors.Is(err, domain.ErrNoSlidesGenerated):
		a.error(w, http.StatusBadRequest, "bad_request", "no slides generated yet")
	case errors.Is(err, domain.ErrNoProviderAvailable):
		a.error(w, http.StatusServiceUnavailable, "provider_unavailable", "all providers are currently unavailable")
	case errors.Is(err, domain.ErrContentUnparseable):
		a.error(w, http.StatusBadGateway, "bad_content", "provider returned unusable content")
	default:
		a.Logger.Error().Err(err).Msg("handlers: unexpected error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// ownedSession loads a session and enforces ownership; foreign sessions
// read as not found.
func (a *App) ownedSession(r *http.Request, sessionID string) (*domain.Session, error) {
	session, err := a.Decks.Get(r.Context(), sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != a.currentUserID(r) {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}
