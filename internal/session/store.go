// Package session persists quiz sessions and signs the cookie token that names them.
package session

import (
	"context"
	"errors"

	"github.com/vytor/quizflash/internal/models"
)

// ErrNotFound is returned by Store.Get for missing or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists quiz sessions keyed by session id.
// Concurrent saves for the same id are last-write-wins.
type Store interface {
	Get(ctx context.Context, id string) (*models.QuizSession, error)
	// Save inserts or replaces the session and restarts its expiry.
	Save(ctx context.Context, sess *models.QuizSession) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
