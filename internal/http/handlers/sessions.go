package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"deckgen/internal/domain"
)

type sessionStartRequest struct {
	Template domain.TemplateType `json:"template"`
	Tone     domain.ToneType     `json:"tone"`
}

type sessionResponse struct {
	SessionID   string              `json:"session_id"`
	Template    domain.TemplateType `json:"template"`
	Tone        domain.ToneType     `json:"tone"`
	Topic       string              `json:"topic,omitempty"`
	SlidesCount int                 `json:"slides_count"`
	CreatedAt   string              `json:"created_at"`
	LastUpdated string              `json:"last_updated"`
}

func sessionToResponse(s *domain.Session) sessionResponse {
	return sessionResponse{
		SessionID:   s.ID,
		Template:    s.Template,
		Tone:        s.Tone,
		Topic:       s.Topic,
		SlidesCount: len(s.Slides),
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
		LastUpdated: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func (a *App) SessionStart(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req sessionStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Template == "" {
		req.Template = domain.TemplateProfessional
	}
	if req.Tone == "" {
		req.Tone = domain.ToneProfessional
	}
	if !req.Template.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown template")
		return
	}
	if !req.Tone.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown tone")
		return
	}

	session, err := a.Decks.Create(r.Context(), userID, req.Template, req.Tone)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, sessionToResponse(session))
}

func (a *App) SessionGet(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, sessionToResponse(session))
}

func (a *App) SessionDelete(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if err := a.Decks.Delete(r.Context(), session.ID); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"session_id": session.ID, "deleted": true})
}

type sessionTemplateRequest struct {
	Template domain.TemplateType `json:"template"`
}

func (a *App) SessionTemplate(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	var req sessionTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if !req.Template.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", "unknown template")
		return
	}
	if err := a.Decks.SetTemplate(r.Context(), session.ID, req.Template); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"template":   req.Template,
		"theme":      domain.ThemeFor(req.Template),
	})
}
