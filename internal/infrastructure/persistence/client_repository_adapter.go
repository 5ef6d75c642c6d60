package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type ClientRepositoryAdapter struct {
	db *sqlx.DB
}

func NewClientRepositoryAdapter(db *sqlx.DB) *ClientRepositoryAdapter {
	return &ClientRepositoryAdapter{db: db}
}

func (r *ClientRepositoryAdapter) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (id, org_id, name, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.OrgID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	return apperror.FromDB(err, "не удалось создать клиента")
}

func (r *ClientRepositoryAdapter) Update(ctx context.Context, c *entity.Client) error {
	query := `
		UPDATE clients SET name = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return apperror.FromDB(err, "не удалось обновить клиента")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	var row clientRow
	query := `
		SELECT id, org_id, name, email, phone, address, created_at, updated_at
		FROM clients WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrClientNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить клиента")
	}
	return row.toEntity(), nil
}

func (r *ClientRepositoryAdapter) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Client, error) {
	var rows []clientRow
	query := `
		SELECT id, org_id, name, email, phone, address, created_at, updated_at
		FROM clients WHERE org_id = $1 ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить клиентов")
	}

	result := make([]*entity.Client, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type clientRow struct {
	ID        uuid.UUID `db:"id"`
	OrgID     uuid.UUID `db:"org_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     *string   `db:"phone"`
	Address   *string   `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (c *clientRow) toEntity() *entity.Client {
	return &entity.Client{
		ID:        c.ID,
		OrgID:     c.OrgID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
