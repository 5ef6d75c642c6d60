package organization

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type CreateOrganizationInput struct {
	Name   string
	UserID uuid.UUID
}

// CreateOrganizationUseCase создаёт организацию, создатель становится владельцем.
type CreateOrganizationUseCase struct {
	orgRepo repository.OrganizationRepository
}

func NewCreateOrganizationUseCase(orgRepo repository.OrganizationRepository) *CreateOrganizationUseCase {
	return &CreateOrganizationUseCase{orgRepo: orgRepo}
}

func (uc *CreateOrganizationUseCase) Execute(ctx context.Context, input CreateOrganizationInput) (*entity.Organization, error) {
	if input.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	if err := validation.ValidateLength("название организации", input.Name, 1, validation.MaxNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	org, err := entity.NewOrganization(input.Name)
	if err != nil {
		return nil, err
	}
	if err := uc.orgRepo.CreateWithOwner(ctx, org, org.OwnerMembership(input.UserID)); err != nil {
		return nil, err
	}
	return org, nil
}

type ListOrganizationsUseCase struct {
	orgRepo repository.OrganizationRepository
}

func NewListOrganizationsUseCase(orgRepo repository.OrganizationRepository) *ListOrganizationsUseCase {
	return &ListOrganizationsUseCase{orgRepo: orgRepo}
}

func (uc *ListOrganizationsUseCase) Execute(ctx context.Context, userID uuid.UUID) ([]*entity.Organization, error) {
	if userID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return uc.orgRepo.ListByMember(ctx, userID)
}
