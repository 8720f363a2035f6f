package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactdesk/internal/domain"
)

// SessionRepository define el contrato de persistencia para sesiones.
// La creación ocurre dentro de LoginCodeRepository.Redeem.
type SessionRepository interface {
	GetByToken(ctx context.Context, token string) (domain.Session, error)
	Touch(ctx context.Context, token string, at time.Time) error
	// Delete es idempotente: borrar un token inexistente no es un error.
	Delete(ctx context.Context, token string) error
}

// PgSessionRepository implementa SessionRepository usando pgxpool.
type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	const query = `
		SELECT token, user_id, created_at, last_used_at
		FROM sessions
		WHERE token = $1
	`
	var s domain.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(
		&s.Token,
		&s.UserID,
		&s.CreatedAt,
		&s.LastUsedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Session{}, err
	}
	return s, err
}

func (r *PgSessionRepository) Touch(ctx context.Context, token string, at time.Time) error {
	const query = `
		UPDATE sessions
		SET last_used_at = $2
		WHERE token = $1
	`
	_, err := r.pool.Exec(ctx, query, token, at)
	return err
}

func (r *PgSessionRepository) Delete(ctx context.Context, token string) error {
	const query = `
		DELETE FROM sessions
		WHERE token = $1
	`
	_, err := r.pool.Exec(ctx, query, token)
	return err
}
