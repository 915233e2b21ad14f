package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	if a.currentUserID(r) == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "job_id")
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_id required")
		return
	}
	job, err := a.Jobs.Status(jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}
