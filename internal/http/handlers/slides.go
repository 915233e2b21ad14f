package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"deckgen/internal/domain"
)

type previewSlide struct {
	Number       int      `json:"slide_number"`
	Title        string   `json:"title"`
	Content      []string `json:"content"`
	SpeakerNotes string   `json:"speaker_notes,omitempty"`
	Version      int      `json:"version"`
	VersionCount int      `json:"version_count"`
}

// Preview returns the current version of every slide in the deck.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	slides := make([]previewSlide, 0, len(session.Slides))
	for _, slide := range session.Slides {
		current := slide.Current()
		slides = append(slides, previewSlide{
			Number:       slide.Number,
			Title:        current.Title,
			Content:      current.Content,
			SpeakerNotes: current.SpeakerNotes,
			Version:      slide.CurrentVersion,
			VersionCount: len(slide.Versions),
		})
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"topic":      session.Topic,
		"template":   session.Template,
		"theme":      domain.ThemeFor(session.Template),
		"slides":     slides,
	})
}

type updateSlideRequest struct {
	SessionID   string `json:"session_id"`
	SlideNumber int    `json:"slide_number"`
	Instruction string `json:"instruction"`
}

// UpdateSlide regenerates one slide from an instruction; the result is
// appended to that slide's version history.
func (a *App) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req updateSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.SessionID == "" || req.Instruction == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id and instruction required")
		return
	}
	version, err := a.Generator.EditSlide(r.Context(), req.SessionID, userID, req.SlideNumber, req.Instruction)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id":   req.SessionID,
		"slide_number": req.SlideNumber,
		"version":      version,
	})
}

type rollbackSlideRequest struct {
	SessionID   string `json:"session_id"`
	SlideNumber int    `json:"slide_number"`
	Version     int    `json:"version"`
}

// RollbackSlide moves a slide's current pointer to an earlier version.
// History is kept, so a rollback can itself be rolled back.
func (a *App) RollbackSlide(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req rollbackSlideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.SessionID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "session_id required")
		return
	}
	version, err := a.Generator.RollbackSlide(r.Context(), req.SessionID, userID, req.SlideNumber, req.Version)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session_id":   req.SessionID,
		"slide_number": req.SlideNumber,
		"version":      version,
	})
}

// SlideHistory returns the full version history of one slide.
func (a *App) SlideHistory(w http.ResponseWriter, r *http.Request) {
	session, err := a.ownedSession(r, chi.URLParam(r, "session_id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	slideNumber, err := strconv.Atoi(chi.URLParam(r, "slide_number"))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid slide number")
		return
	}
	slide, err := a.Decks.SlideHistory(r.Context(), session.ID, slideNumber)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, slide)
}
