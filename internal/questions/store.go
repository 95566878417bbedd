package questions

import "github.com/vytor/quizflash/internal/models"

// Store is the immutable question bank shared by all sessions.
// It is safe for concurrent use because nothing mutates it after construction.
type Store struct {
	items []models.Question
}

// NewStore copies qs into a new Store.
func NewStore(qs []models.Question) *Store {
	items := make([]models.Question, len(qs))
	copy(items, qs)
	return &Store{items: items}
}

// Len returns the number of questions.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns the question at the 0-based index.
func (s *Store) Get(index int) (models.Question, bool) {
	if index < 0 || index >= len(s.items) {
		return models.Question{}, false
	}
	return s.items[index], true
}
