package models

// MaxOptions is the number of option_N columns read from the data file.
const MaxOptions = 4

// Question is one multiple-choice item. Its identity is its position in the loaded bank.
type Question struct {
	Question string   `json:"question"`
	Code     *string  `json:"code"`    // nil when the source column is empty
	Options  []string `json:"options"` // non-empty option columns, in column order
	Answer   string   `json:"answer"`
}

// QuestionView is the client-facing rendering of the current question.
// It never carries the correct answer.
type QuestionView struct {
	QuestionNumber int      `json:"question_number"` // 1-based position
	TotalQuestions int      `json:"total_questions"`
	Question       string   `json:"question"`
	Code           *string  `json:"code"`
	Options        []string `json:"options"`
	UserAnswer     *string  `json:"user_answer"`
}

type AnswerFeedback struct {
	IsCorrect     bool   `json:"is_correct"`
	CorrectAnswer string `json:"correct_answer"`
}

type NavigationResult struct {
	Success  bool `json:"success"`
	NewIndex int  `json:"new_index"`
}

type FinalScore struct {
	Score          int `json:"score"`
	TotalQuestions int `json:"total_questions"`
}
