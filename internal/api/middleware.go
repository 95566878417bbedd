package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/session"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	sessionContextKey contextKey = "quiz_session"
	sessionCookieName            = "quiz_session"
)

func sessionFromContext(ctx context.Context) *models.QuizSession {
	if v := ctx.Value(sessionContextKey); v != nil {
		if sess, ok := v.(*models.QuizSession); ok {
			return sess
		}
	}
	return nil
}

// sessionMiddleware attaches the caller's quiz session to the request context,
// starting a new one when the cookie is absent, invalid or names an expired session.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		sess, err := s.loadSession(r)
		if err != nil {
			handleError(w, r, errors.NewInternalError(err))
			return
		}

		switch {
		case sess == nil:
			sess = s.Quiz.NewSession(session.NewID())
			if err := s.saveSession(w, r, sess); err != nil {
				handleError(w, r, err)
				return
			}
			log.WithField("session_id", sess.ID).Info("started new quiz session")
		case !s.Quiz.Fits(sess):
			log.WithField("session_id", sess.ID).Warn("session has %d answer slots for %d questions, resetting",
				len(sess.UserAnswers), s.Quiz.TotalQuestions())
			s.Quiz.Reset(sess)
			if err := s.saveSession(w, r, sess); err != nil {
				handleError(w, r, err)
				return
			}
		}

		log = log.WithField("session_id", sess.ID)
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		ctx = logger.NewContext(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loadSession returns nil without error when the request carries no usable session.
func (s *Server) loadSession(r *http.Request) (*models.QuizSession, error) {
	log := logger.FromContext(r.Context())

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	id, err := s.Tokens.Parse(cookie.Value)
	if err != nil {
		log.Debug("discarding session cookie: %v", err)
		return nil, nil
	}

	sess, err := s.Sessions.Get(r.Context(), id)
	if stderrors.Is(err, session.ErrNotFound) {
		log.Debug("session %s not found, starting over", id)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// saveSession persists sess and refreshes the cookie. It must run before the
// response body is written.
func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *models.QuizSession) error {
	if err := s.Sessions.Save(r.Context(), sess); err != nil {
		return errors.NewInternalError(err)
	}

	token, err := s.Tokens.Issue(sess.ID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(s.SessionTTL),
		MaxAge:   int(s.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// timeoutMiddleware wraps a handler with a timeout.
func timeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Request timeout")
	}
}
