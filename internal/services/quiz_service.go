package services

import (
	"context"
	"time"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
	"github.com/vytor/quizflash/internal/questions"
)

// QuizService applies quiz operations to a caller-owned session.
// Methods mutate the session only on success; persisting it is the caller's job.
//
// Scoring is recomputed from the stored answers on every FinalScore call,
// so no running score is kept in the session.
type QuizService interface {
	NewSession(id string) *models.QuizSession
	Reset(sess *models.QuizSession)
	Fits(sess *models.QuizSession) bool
	TotalQuestions() int
	CurrentQuestion(ctx context.Context, sess *models.QuizSession) (*models.QuestionView, error)
	SubmitAnswer(ctx context.Context, sess *models.QuizSession, selected *string, questionIndex int) (*models.AnswerFeedback, error)
	Navigate(ctx context.Context, sess *models.QuizSession, direction string) (int, error)
	FinalScore(ctx context.Context, sess *models.QuizSession) models.FinalScore
}

type quizService struct {
	bank *questions.Store
	now  func() time.Time
}

// NewQuizService creates a new QuizService over the given question bank
func NewQuizService(bank *questions.Store) QuizService {
	return &quizService{bank: bank, now: time.Now}
}

func (s *quizService) TotalQuestions() int {
	return s.bank.Len()
}

func (s *quizService) NewSession(id string) *models.QuizSession {
	now := s.now().UTC()
	sess := &models.QuizSession{ID: id, CreatedAt: now}
	s.Reset(sess)
	return sess
}

// Reset puts the session back at the first question with every answer cleared.
func (s *quizService) Reset(sess *models.QuizSession) {
	sess.CurrentIndex = 0
	sess.UserAnswers = make([]*string, s.bank.Len())
	sess.UpdatedAt = s.now().UTC()
}

// Fits reports whether the session was shaped for the currently loaded bank.
func (s *quizService) Fits(sess *models.QuizSession) bool {
	return len(sess.UserAnswers) == s.bank.Len()
}

func (s *quizService) CurrentQuestion(ctx context.Context, sess *models.QuizSession) (*models.QuestionView, error) {
	log := logger.FromContext(ctx)
	index := sess.CurrentIndex

	q, ok := s.bank.Get(index)
	if !ok || index >= len(sess.UserAnswers) {
		log.Debug("no question at index %d (total=%d)", index, s.bank.Len())
		return nil, errors.NewNotFoundError("question", index)
	}

	return &models.QuestionView{
		QuestionNumber: index + 1,
		TotalQuestions: s.bank.Len(),
		Question:       q.Question,
		Code:           q.Code,
		Options:        q.Options,
		UserAnswer:     sess.UserAnswers[index],
	}, nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, sess *models.QuizSession, selected *string, questionIndex int) (*models.AnswerFeedback, error) {
	log := logger.FromContext(ctx)

	q, ok := s.bank.Get(questionIndex)
	if !ok || questionIndex >= len(sess.UserAnswers) {
		log.Debug("rejecting answer for index %d (total=%d)", questionIndex, s.bank.Len())
		return nil, errors.NewBadRequestError("invalid question index")
	}

	isCorrect := selected != nil && *selected == q.Answer

	var stored *string
	if selected != nil {
		v := *selected
		stored = &v
	}
	sess.UserAnswers[questionIndex] = stored
	sess.UpdatedAt = s.now().UTC()

	log.Debug("answer recorded: index=%d, correct=%t", questionIndex, isCorrect)
	return &models.AnswerFeedback{
		IsCorrect:     isCorrect,
		CorrectAnswer: q.Answer,
	}, nil
}

// Navigate moves one question forward or back. Moving past either end is a no-op.
func (s *quizService) Navigate(ctx context.Context, sess *models.QuizSession, direction string) (int, error) {
	log := logger.FromContext(ctx)

	switch direction {
	case models.DirectionNext:
		if sess.CurrentIndex < s.bank.Len()-1 {
			sess.CurrentIndex++
		}
	case models.DirectionPrev:
		if sess.CurrentIndex > 0 {
			sess.CurrentIndex--
		}
	default:
		log.Debug("rejecting navigation direction %q", direction)
		return sess.CurrentIndex, errors.NewBadRequestError("invalid navigation direction")
	}

	sess.UpdatedAt = s.now().UTC()
	return sess.CurrentIndex, nil
}

func (s *quizService) FinalScore(ctx context.Context, sess *models.QuizSession) models.FinalScore {
	score := 0
	for i, ans := range sess.UserAnswers {
		q, ok := s.bank.Get(i)
		if ok && ans != nil && *ans == q.Answer {
			score++
		}
	}

	logger.FromContext(ctx).Debug("final score %d/%d", score, s.bank.Len())
	return models.FinalScore{
		Score:          score,
		TotalQuestions: s.bank.Len(),
	}
}
