package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

type submitAnswerRequest struct {
	SelectedOption *string         `json:"selected_option"`
	QuestionIndex  json.RawMessage `json:"question_index"`
}

type navigateRequest struct {
	Direction string `json:"direction"`
}

// parseQuestionIndex accepts only a bare JSON integer.
func parseQuestionIndex(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	i, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, false
	}
	return i, true
}

// handleIndex renders the quiz page and restarts the caller's quiz.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sess := sessionFromContext(r.Context())

	s.Quiz.Reset(sess)
	if err := s.saveSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("quiz reset, rendering index page")

	s.render(w, r, "pages/index.html", pageData{
		"total_questions": s.Quiz.TotalQuestions(),
	})
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	view, err := s.Quiz.CurrentQuestion(r.Context(), sess)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, view)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sess := sessionFromContext(r.Context())

	var req submitAnswerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Warn("invalid submit_answer body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	index, ok := parseQuestionIndex(req.QuestionIndex)
	if !ok {
		handleError(w, r, errors.NewBadRequestError("invalid question index"))
		return
	}

	feedback, err := s.Quiz.SubmitAnswer(r.Context(), sess, req.SelectedOption, index)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.saveSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}

	log.WithField("question_index", index).Debug("answer submitted")
	writeJSON(w, r, http.StatusOK, feedback)
}

func (s *Server) handleNavigateQuestion(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sess := sessionFromContext(r.Context())

	var req navigateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Warn("invalid navigate_question body: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid request body"))
		return
	}

	index, err := s.Quiz.Navigate(r.Context(), sess, req.Direction)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.saveSession(w, r, sess); err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, models.NavigationResult{Success: true, NewIndex: index})
}

func (s *Server) handleGetFinalScore(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	writeJSON(w, r, http.StatusOK, s.Quiz.FinalScore(r.Context(), sess))
}
