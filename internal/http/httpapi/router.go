// Package httpapi assembles the chi router.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"deckgen/internal/http/handlers"
	"deckgen/internal/middleware"
)

// Options carries the cross-cutting settings the router wires in.
type Options struct {
	JWTSecret     string
	DefaultLocale string
	RateLimit     int
	RatePeriod    time.Duration
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Locale(opts.DefaultLocale),
	)
	if opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(opts.RateLimit, opts.RatePeriod, middleware.RateLimitOptions{}))
	}

	r.Get("/api/healthz", app.Health)
	r.Get("/api/templates", app.Templates)

	// Everything below needs a user.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(opts.JWTSecret))

		r.Route("/api/session", func(r chi.Router) {
			r.Post("/start", app.SessionStart)
			r.Get("/{session_id}", app.SessionGet)
			r.Delete("/{session_id}", app.SessionDelete)
			r.Post("/{session_id}/template", app.SessionTemplate)
		})

		r.Post("/api/generate", app.Generate)
		r.Post("/api/generate-sync", app.GenerateSync)
		r.Get("/api/status/{job_id}", app.JobStatus)

		r.Get("/api/preview/{session_id}", app.Preview)
		r.Post("/api/update-slide", app.UpdateSlide)
		r.Post("/api/rollback-slide", app.RollbackSlide)
		r.Get("/api/slide-history/{session_id}/{slide_number}", app.SlideHistory)

		r.Get("/api/chat/{session_id}", app.ChatHistory)
		r.Get("/api/download/{session_id}", app.Download)
		r.Get("/api/ai/status", app.AIStatus)
	})

	return r
}
