package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
)

type TemplateRepository interface {
	Create(ctx context.Context, template *entity.Template) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Template, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Template, error)
}
