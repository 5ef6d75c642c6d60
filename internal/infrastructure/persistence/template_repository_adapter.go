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

type TemplateRepositoryAdapter struct {
	db *sqlx.DB
}

func NewTemplateRepositoryAdapter(db *sqlx.DB) *TemplateRepositoryAdapter {
	return &TemplateRepositoryAdapter{db: db}
}

func (r *TemplateRepositoryAdapter) Create(ctx context.Context, t *entity.Template) error {
	query := `
		INSERT INTO proposal_templates (id, org_id, name, content_json, template_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.OrgID, t.Name, t.Content, t.TemplateType, t.CreatedAt, t.UpdatedAt,
	)
	return apperror.FromDB(err, "не удалось создать шаблон")
}

func (r *TemplateRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Template, error) {
	var row templateRow
	query := `
		SELECT id, org_id, name, content_json, template_type, created_at, updated_at
		FROM proposal_templates WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTemplateNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить шаблон")
	}
	return row.toEntity(), nil
}

func (r *TemplateRepositoryAdapter) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Template, error) {
	var rows []templateRow
	query := `
		SELECT id, org_id, name, content_json, template_type, created_at, updated_at
		FROM proposal_templates WHERE org_id = $1 ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить шаблоны")
	}

	result := make([]*entity.Template, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type templateRow struct {
	ID           uuid.UUID           `db:"id"`
	OrgID        uuid.UUID           `db:"org_id"`
	Name         string              `db:"name"`
	Content      valueobject.Content `db:"content_json"`
	TemplateType string              `db:"template_type"`
	CreatedAt    time.Time           `db:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at"`
}

func (t *templateRow) toEntity() *entity.Template {
	return &entity.Template{
		ID:           t.ID,
		OrgID:        t.OrgID,
		Name:         t.Name,
		Content:      t.Content,
		TemplateType: t.TemplateType,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}
