package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactdesk/internal/domain"
)

// LoginCodeRepository define el contrato de persistencia para códigos de
// acceso de un solo uso.
type LoginCodeRepository interface {
	Create(ctx context.Context, code domain.LoginCode) error
	// GetLatest devuelve el código más reciente para esa combinación exacta
	// de email y código, consumido o no.
	GetLatest(ctx context.Context, email, code string) (domain.LoginCode, error)
	// Redeem marca el código como usado y crea la sesión en una sola
	// transacción. Devuelve pgx.ErrNoRows si otro canje ya lo consumió.
	Redeem(ctx context.Context, codeID string, usedAt time.Time, session domain.Session) error
	// DeleteDead elimina códigos vencidos o ya consumidos.
	DeleteDead(ctx context.Context, now time.Time) (int64, error)
}

// PgLoginCodeRepository implementa LoginCodeRepository usando pgxpool.
type PgLoginCodeRepository struct {
	pool *pgxpool.Pool
}

func NewPgLoginCodeRepository(pool *pgxpool.Pool) *PgLoginCodeRepository {
	return &PgLoginCodeRepository{pool: pool}
}

func (r *PgLoginCodeRepository) Create(ctx context.Context, code domain.LoginCode) error {
	const query = `
		INSERT INTO login_codes (id, email, code, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		code.ID,
		code.Email,
		code.Code,
		code.ExpiresAt,
		code.CreatedAt,
	)
	return err
}

func (r *PgLoginCodeRepository) GetLatest(ctx context.Context, email, code string) (domain.LoginCode, error) {
	const query = `
		SELECT id, email, code, expires_at, used_at, created_at
		FROM login_codes
		WHERE email = $1 AND code = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	var lc domain.LoginCode
	err := r.pool.QueryRow(ctx, query, email, code).Scan(
		&lc.ID,
		&lc.Email,
		&lc.Code,
		&lc.ExpiresAt,
		&lc.UsedAt,
		&lc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.LoginCode{}, err
	}
	return lc, err
}

func (r *PgLoginCodeRepository) Redeem(ctx context.Context, codeID string, usedAt time.Time, session domain.Session) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Consumo condicional: dos canjes concurrentes no pueden pasar ambos.
	const consume = `
		UPDATE login_codes
		SET used_at = $2
		WHERE id = $1 AND used_at IS NULL
	`
	tag, err := tx.Exec(ctx, consume, codeID, usedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	const insertSession = `
		INSERT INTO sessions (token, user_id, created_at, last_used_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := tx.Exec(ctx, insertSession,
		session.Token,
		session.UserID,
		session.CreatedAt,
		session.LastUsedAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PgLoginCodeRepository) DeleteDead(ctx context.Context, now time.Time) (int64, error) {
	const query = `
		DELETE FROM login_codes
		WHERE expires_at < $1 OR used_at IS NOT NULL
	`
	tag, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
