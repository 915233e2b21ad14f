package handlers

import (
	"encoding/json"
	"net/http"

	"deckgen/internal/domain"
)

type generateRequest struct {
	SessionID    string `json:"session_id"`
	Topic        string `json:"topic"`
	NumSlides    int    `json:"num_slides"`
	ExtraContext string `json:"extra_context"`
}

type generateAcceptedResponse struct {
	JobID          string `json:"job_id"`
	Status         string `json:"status"`
	RemainingQuota int    `json:"remaining_quota"`
}

func (a *App) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (generateRequest, bool) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return generateRequest{}, false
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return generateRequest{}, false
	}
	if req.SessionID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return generateRequest{}, false
	}
	if req.Topic == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "topic required")
		return generateRequest{}, false
	}
	return req, true
}

// Generate queues an asynchronous deck generation and answers with the
// job identifier to poll.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	userID := a.currentUserID(r)

	jobID, err := a.Generator.Generate(r.Context(), req.SessionID, userID, req.Topic, req.NumSlides, req.ExtraContext)
	if err != nil {
		a.domainError(w, err)
		return
	}
	remaining, err := a.Quota.Remaining(r.Context(), userID)
	if err != nil {
		remaining = 0
	}
	a.json(w, http.StatusAccepted, generateAcceptedResponse{
		JobID:          jobID,
		Status:         string(domain.JobStatusQueued),
		RemainingQuota: remaining,
	})
}

// GenerateSync builds the deck inline and answers with the result. Meant
// for scripting and tests; the async path is the primary one.
func (a *App) GenerateSync(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decodeGenerateRequest(w, r)
	if !ok {
		return
	}
	result, err := a.Generator.GenerateSync(r.Context(), req.SessionID, a.currentUserID(r), req.Topic, req.NumSlides, req.ExtraContext)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, result)
}
