package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
)

type ProposalRepository interface {
	// CreateWithFirstVersion атомарно сохраняет предложение и его версию 1.
	CreateWithFirstVersion(ctx context.Context, proposal *entity.Proposal, version *entity.ProposalVersion) error
	// AppendVersion атомарно добавляет версию с номером max+1.
	// Конкурентные вызовы для одного предложения сериализуются.
	AppendVersion(ctx context.Context, proposalID uuid.UUID, content valueobject.Content, createdBy uuid.UUID) (*entity.ProposalVersion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error)
	// FindDetail возвращает nil, nil если предложения нет.
	FindDetail(ctx context.Context, id uuid.UUID) (*entity.ProposalDetail, error)
	FindVersionByID(ctx context.Context, versionID uuid.UUID) (*entity.ProposalVersion, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.ProposalSummary, error)
}
