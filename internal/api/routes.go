package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if s.StaticDir != "" {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Get("/", s.handleIndex)
		r.Get("/get_question", s.handleGetQuestion)
		r.Post("/submit_answer", s.handleSubmitAnswer)
		r.Post("/navigate_question", s.handleNavigateQuestion)
		r.Get("/get_final_score", s.handleGetFinalScore)
	})
	return r
}
