package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vytor/quizflash/internal/logger"
)

const readinessTimeout = 2 * time.Second

// handleHealth returns a liveness probe - always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// handleReady returns 200 when the session store answers a ping, 503 otherwise.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := s.Sessions.Ping(ctx); err != nil {
		log.Warn("readiness check failed - session store: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("Session store unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}
