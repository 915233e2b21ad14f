package handlers

import (
	"net/http"

	"deckgen/internal/domain"
)

func (a *App) Templates(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"templates": domain.Templates()})
}
