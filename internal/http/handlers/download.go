package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Download exports the deck as a JSON document and serves it as an
// attachment. The document is also staged on disk so it can be fetched
// again without re-rendering.
func (a *App) Download(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	key, data, err := a.Exporter.Export(r.Context(), session)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.Logger.Info().Str("session_id", session.ID).Str("key", key).Msg("handlers: deck exported")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("presentation-%s.json", session.ID)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
