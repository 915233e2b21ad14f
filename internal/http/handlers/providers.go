package handlers

import "net/http"

// AIStatus reports per-provider availability, including cooldowns.
func (a *App) AIStatus(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"providers": a.Providers.Status()})
}
