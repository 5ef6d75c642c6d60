package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
)

type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	Update(ctx context.Context, client *entity.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Client, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Client, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *entity.Project) error
	Update(ctx context.Context, project *entity.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error)
	// ListByOrg возвращает проекты с заполненным ClientName.
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.Project, error)
}
