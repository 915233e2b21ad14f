package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ChatHistory returns the session's instruction log, newest last.
func (a *App) ChatHistory(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"messages":   session.ChatHistory,
	})
}
