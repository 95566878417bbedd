package api

import (
	"html/template"
	"net/http"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/services"
	"github.com/vytor/quizflash/internal/session"
)

type Server struct {
	Quiz           services.QuizService
	Sessions       session.Store
	Tokens         *session.Signer
	Templates      *template.Template
	StaticDir      string
	SessionTTL     time.Duration
	CookieSecure   bool
	RequestTimeout time.Duration
}

type pageData map[string]any

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	if data == nil {
		data = pageData{}
	}

	log := logger.FromContext(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
