package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/DJprogre33/booking-app/internal/domain"
)

const sessionColumns = "id, user_id, refresh_token, expires_at, created_at"

// PostgresSessionRepository implements SessionRepository over a bound DBTX.
type PostgresSessionRepository struct {
	db DBTX
}

// NewPostgresSessionRepository creates a session repository on the given
// connection or transaction.
func NewPostgresSessionRepository(db DBTX) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

// Insert stores a new refresh session.
func (r *PostgresSessionRepository) Insert(ctx context.Context, session *domain.RefreshSession) error {
	query := `
		INSERT INTO refresh_sessions (id, user_id, refresh_token, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindByToken returns the session holding the given refresh token.
func (r *PostgresSessionRepository) FindByToken(ctx context.Context, refreshToken string) (*domain.RefreshSession, error) {
	query := fmt.Sprintf("SELECT %s FROM refresh_sessions WHERE refresh_token = $1", sessionColumns)

	session := &domain.RefreshSession{}
	err := r.db.QueryRow(ctx, query, refreshToken).Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshToken,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

// DeleteByToken removes the session holding the given refresh token.
func (r *PostgresSessionRepository) DeleteByToken(ctx context.Context, refreshToken string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM refresh_sessions WHERE refresh_token = $1", refreshToken)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// DeleteAllByUser removes every session of the user.
func (r *PostgresSessionRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM refresh_sessions WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}
