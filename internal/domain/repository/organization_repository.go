package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
)

type OrganizationRepository interface {
	// CreateWithOwner создаёт организацию и членство владельца в одной транзакции.
	CreateWithOwner(ctx context.Context, org *entity.Organization, owner *entity.Membership) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error)
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Organization, error)
}

type MembershipRepository interface {
	IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error)
	Add(ctx context.Context, membership *entity.Membership) error
}
