package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/quizflash/internal/models"
)

// MockSessionStore is a mock implementation of session.Store
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*models.QuizSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizSession), args.Error(1)
}

func (m *MockSessionStore) Save(ctx context.Context, sess *models.QuizSession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSessionStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
