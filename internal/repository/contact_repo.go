package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"contactdesk/internal/domain"
)

// ContactRepository define el contrato de persistencia para contactos.
// Toda operación sobre una fila existente filtra por (id, user_id): un
// contacto ajeno es indistinguible de uno inexistente.
type ContactRepository interface {
	Create(ctx context.Context, contact domain.Contact) error
	GetByID(ctx context.Context, userID, id string) (domain.Contact, error)
	// List devuelve los contactos del usuario ordenados por updated_at
	// descendente. Con query no vacío filtra por subcadena
	// case-insensitive sobre los campos buscables.
	List(ctx context.Context, userID, query string, limit int) ([]domain.Contact, error)
	// Update sobrescribe la fila completa; el merge parcial ocurre en la
	// capa de servicio. Devuelve pgx.ErrNoRows si no hay fila propia.
	Update(ctx context.Context, contact domain.Contact) error
	Delete(ctx context.Context, userID, id string) error
	// AssignOwnerless asigna al usuario dado toda fila heredada sin dueño.
	AssignOwnerless(ctx context.Context, userID string) (int64, error)
}

const contactCols = `id, user_id, name, phone, email, address, value_cents,
		lat, lng, tag, job_type, custom1, custom2, custom3, custom4, custom5,
		updated_at`

// PgContactRepository implementa ContactRepository usando pgxpool.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

func scanContact(row pgx.Row) (domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.Address,
		&c.ValueCents,
		&c.Lat,
		&c.Lng,
		&c.Tag,
		&c.JobType,
		&c.Custom1,
		&c.Custom2,
		&c.Custom3,
		&c.Custom4,
		&c.Custom5,
		&c.UpdatedAt,
	)
	return c, err
}

func (r *PgContactRepository) Create(ctx context.Context, contact domain.Contact) error {
	const query = `
		INSERT INTO contacts (id, user_id, name, phone, email, address,
			value_cents, lat, lng, tag, job_type, custom1, custom2, custom3,
			custom4, custom5, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17)
	`
	_, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Address,
		contact.ValueCents,
		contact.Lat,
		contact.Lng,
		contact.Tag,
		contact.JobType,
		contact.Custom1,
		contact.Custom2,
		contact.Custom3,
		contact.Custom4,
		contact.Custom5,
		contact.UpdatedAt,
	)
	return err
}

func (r *PgContactRepository) GetByID(ctx context.Context, userID, id string) (domain.Contact, error) {
	const query = `
		SELECT ` + contactCols + `
		FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	c, err := scanContact(r.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Contact{}, err
	}
	return c, err
}

func (r *PgContactRepository) List(ctx context.Context, userID, query string, limit int) ([]domain.Contact, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if query == "" {
		const listAll = `
			SELECT ` + contactCols + `
			FROM contacts
			WHERE user_id = $1
			ORDER BY updated_at DESC
			LIMIT $2
		`
		rows, err = r.pool.Query(ctx, listAll, userID, limit)
	} else {
		const search = `
			SELECT ` + contactCols + `
			FROM contacts
			WHERE user_id = $1 AND (
				name ILIKE $2 OR phone ILIKE $2 OR email ILIKE $2 OR
				address ILIKE $2 OR job_type ILIKE $2 OR
				custom1 ILIKE $2 OR custom2 ILIKE $2 OR custom3 ILIKE $2 OR
				custom4 ILIKE $2 OR custom5 ILIKE $2
			)
			ORDER BY updated_at DESC
			LIMIT $3
		`
		rows, err = r.pool.Query(ctx, search, userID, "%"+query+"%", limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := make([]domain.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *PgContactRepository) Update(ctx context.Context, contact domain.Contact) error {
	const query = `
		UPDATE contacts
		SET name = $3, phone = $4, email = $5, address = $6, value_cents = $7,
			lat = $8, lng = $9, tag = $10, job_type = $11, custom1 = $12,
			custom2 = $13, custom3 = $14, custom4 = $15, custom5 = $16,
			updated_at = $17
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.Address,
		contact.ValueCents,
		contact.Lat,
		contact.Lng,
		contact.Tag,
		contact.JobType,
		contact.Custom1,
		contact.Custom2,
		contact.Custom3,
		contact.Custom4,
		contact.Custom5,
		contact.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgContactRepository) Delete(ctx context.Context, userID, id string) error {
	const query = `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgContactRepository) AssignOwnerless(ctx context.Context, userID string) (int64, error) {
	const query = `
		UPDATE contacts
		SET user_id = $1
		WHERE user_id IS NULL
	`
	tag, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
