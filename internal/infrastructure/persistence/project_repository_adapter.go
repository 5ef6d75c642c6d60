package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type ProjectRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProjectRepositoryAdapter(db *sqlx.DB) *ProjectRepositoryAdapter {
	return &ProjectRepositoryAdapter{db: db}
}

func (r *ProjectRepositoryAdapter) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, org_id, client_id, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.OrgID, p.ClientID, p.Name, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	return apperror.FromDB(err, "не удалось создать проект")
}

func (r *ProjectRepositoryAdapter) Update(ctx context.Context, p *entity.Project) error {
	query := `UPDATE projects SET name = $2, status = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, p.ID, p.Name, string(p.Status), p.UpdatedAt)
	if err != nil {
		return apperror.FromDB(err, "не удалось обновить проект")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	var row projectRow
	query := `
		SELECT p.id, p.org_id, p.client_id, p.name, p.status, c.name AS client_name, p.created_at, p.updated_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить проект")
	}
	return row.toEntity(), nil
}

func (r *ProjectRepositoryAdapter) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Project, error) {
	var rows []projectRow
	query := `
		SELECT p.id, p.org_id, p.client_id, p.name, p.status, c.name AS client_name, p.created_at, p.updated_at
		FROM projects p
		JOIN clients c ON c.id = p.client_id
		WHERE p.org_id = $1
		ORDER BY p.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить проекты")
	}

	result := make([]*entity.Project, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type projectRow struct {
	ID         uuid.UUID `db:"id"`
	OrgID      uuid.UUID `db:"org_id"`
	ClientID   uuid.UUID `db:"client_id"`
	Name       string    `db:"name"`
	Status     string    `db:"status"`
	ClientName string    `db:"client_name"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (p *projectRow) toEntity() *entity.Project {
	return &entity.Project{
		ID:         p.ID,
		OrgID:      p.OrgID,
		ClientID:   p.ClientID,
		Name:       p.Name,
		Status:     valueobject.ProjectStatus(p.Status),
		ClientName: p.ClientName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
