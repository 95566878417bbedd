package models

import "time"

// Navigation directions accepted by the quiz.
const (
	DirectionNext = "next"
	DirectionPrev = "prev"
)

// QuizSession is the per-browser quiz state. It is stored as JSON by every session backend.
type QuizSession struct {
	ID           string    `json:"id"`
	CurrentIndex int       `json:"current_index"`
	UserAnswers  []*string `json:"user_answers"` // one slot per question, nil when unanswered
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Clone returns a deep copy so stored sessions never alias caller state.
func (s *QuizSession) Clone() *QuizSession {
	if s == nil {
		return nil
	}
	c := *s
	c.UserAnswers = make([]*string, len(s.UserAnswers))
	for i, a := range s.UserAnswers {
		if a != nil {
			v := *a
			c.UserAnswers[i] = &v
		}
	}
	return &c
}

// Answered returns the number of questions that have a stored answer.
func (s *QuizSession) Answered() int {
	n := 0
	for _, a := range s.UserAnswers {
		if a != nil {
			n++
		}
	}
	return n
}
