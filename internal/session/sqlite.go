package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/quizflash/internal/db"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

const sessionsTable = "quiz_sessions"

// SQLiteStore persists sessions in the quiz_sessions table so they survive restarts.
type SQLiteStore struct {
	db  *db.DB
	ttl time.Duration
	now func() time.Time
}

// NewSQLiteStore creates a SQLiteStore over an opened, migrated database.
func NewSQLiteStore(database *db.DB, ttl time.Duration) *SQLiteStore {
	return &SQLiteStore{db: database, ttl: ttl, now: time.Now}
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.QuizSession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_store")

	query, args, err := sqlBuilder.
		Select("id", "current_index", "user_answers", "created_at", "updated_at").
		From(sessionsTable).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Gt{"expires_at": s.now().Unix()}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var (
		sess               models.QuizSession
		answers            string
		createdAt, updated int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&sess.ID, &sess.CurrentIndex, &answers, &createdAt, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found or expired: id=%s", id)
		return nil, ErrNotFound
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}

	if err := json.Unmarshal([]byte(answers), &sess.UserAnswers); err != nil {
		return nil, fmt.Errorf("decode answers for session %s: %w", id, err)
	}
	sess.CreatedAt = time.Unix(createdAt, 0).UTC()
	sess.UpdatedAt = time.Unix(updated, 0).UTC()
	return &sess, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess *models.QuizSession) error {
	log := logger.FromContext(ctx).WithPrefix("session_store")

	answers, err := json.Marshal(sess.UserAnswers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	now := s.now()
	created := sess.CreatedAt
	if created.IsZero() {
		created = now
	}
	updated := sess.UpdatedAt
	if updated.IsZero() {
		updated = now
	}

	query, args, err := sqlBuilder.
		Insert(sessionsTable).
		Columns("id", "current_index", "user_answers", "created_at", "updated_at", "expires_at").
		Values(sess.ID, sess.CurrentIndex, string(answers), created.Unix(), updated.Unix(), now.Add(s.ttl).Unix()).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			current_index = excluded.current_index,
			user_answers = excluded.user_answers,
			updated_at = excluded.updated_at,
			expires_at = excluded.expires_at`).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to save session: %v", err)
		return err
	}
	log.Debug("session saved: id=%s, index=%d", sess.ID, sess.CurrentIndex)
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	query, args, err := sqlBuilder.Delete(sessionsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// PurgeExpired deletes every expired session and returns how many were removed.
func (s *SQLiteStore) PurgeExpired(ctx context.Context) (int64, error) {
	query, args, err := sqlBuilder.
		Delete(sessionsTable).
		Where(squirrel.LtOrEq{"expires_at": s.now().Unix()}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
