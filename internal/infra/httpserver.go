package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server with graceful startup and shutdown.
type HTTPServer struct {
	server *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{server: &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		// Write timeout has to cover a synchronous generation round trip.
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}}
}

// Start blocks serving requests until the listener closes.
func (s *HTTPServer) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
