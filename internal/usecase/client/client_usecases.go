package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type CreateClientInput struct {
	OrgID   uuid.UUID
	UserID  uuid.UUID
	Name    string
	Email   string
	Phone   *string
	Address *string
}

type CreateClientUseCase struct {
	clientRepo repository.ClientRepository
	guard      *access.Guard
}

func NewCreateClientUseCase(clientRepo repository.ClientRepository, guard *access.Guard) *CreateClientUseCase {
	return &CreateClientUseCase{clientRepo: clientRepo, guard: guard}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, input CreateClientInput) (*entity.Client, error) {
	if err := validateContacts(&input.Name, input.Phone, input.Address); err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, input.OrgID, input.UserID); err != nil {
		return nil, err
	}

	c, err := entity.NewClient(input.OrgID, input.Name, input.Email, input.Phone, input.Address)
	if err != nil {
		return nil, err
	}
	if err := uc.clientRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type UpdateClientInput struct {
	ClientID uuid.UUID
	UserID   uuid.UUID
	Patch    entity.ClientPatch
}

type UpdateClientUseCase struct {
	clientRepo repository.ClientRepository
	guard      *access.Guard
}

func NewUpdateClientUseCase(clientRepo repository.ClientRepository, guard *access.Guard) *UpdateClientUseCase {
	return &UpdateClientUseCase{clientRepo: clientRepo, guard: guard}
}

func (uc *UpdateClientUseCase) Execute(ctx context.Context, input UpdateClientInput) (*entity.Client, error) {
	if err := validateContacts(input.Patch.Name, input.Patch.Phone, input.Patch.Address); err != nil {
		return nil, err
	}

	c, err := uc.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, c.OrgID, input.UserID); err != nil {
		return nil, err
	}
	if err := c.Apply(input.Patch); err != nil {
		return nil, err
	}
	if err := uc.clientRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type ListClientsUseCase struct {
	clientRepo repository.ClientRepository
	guard      *access.Guard
}

func NewListClientsUseCase(clientRepo repository.ClientRepository, guard *access.Guard) *ListClientsUseCase {
	return &ListClientsUseCase{clientRepo: clientRepo, guard: guard}
}

func (uc *ListClientsUseCase) Execute(ctx context.Context, orgID, userID uuid.UUID) ([]*entity.Client, error) {
	if err := uc.guard.RequireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return uc.clientRepo.ListByOrg(ctx, orgID)
}

func validateContacts(name, phone, address *string) error {
	if err := validation.ValidateOptional("имя клиента", name, validation.MaxNameLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptional("телефон", phone, validation.MaxPhoneLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOptional("адрес", address, validation.MaxAddressLength); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	return nil
}
