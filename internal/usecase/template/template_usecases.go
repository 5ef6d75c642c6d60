package template

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type CreateTemplateInput struct {
	OrgID   uuid.UUID
	UserID  uuid.UUID
	Name    string
	Content valueobject.Content
}

// CreateTemplateUseCase сохраняет шаблон. Форма содержимого не проверяется,
// требуется только JSON объект.
type CreateTemplateUseCase struct {
	templateRepo repository.TemplateRepository
	guard        *access.Guard
}

func NewCreateTemplateUseCase(templateRepo repository.TemplateRepository, guard *access.Guard) *CreateTemplateUseCase {
	return &CreateTemplateUseCase{templateRepo: templateRepo, guard: guard}
}

func (uc *CreateTemplateUseCase) Execute(ctx context.Context, input CreateTemplateInput) (*entity.Template, error) {
	if err := validation.ValidateLength("название шаблона", input.Name, 1, validation.MaxNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := uc.guard.RequireMember(ctx, input.OrgID, input.UserID); err != nil {
		return nil, err
	}

	t, err := entity.NewTemplate(input.OrgID, input.Name, input.Content)
	if err != nil {
		return nil, err
	}
	if err := uc.templateRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

type ListTemplatesUseCase struct {
	templateRepo repository.TemplateRepository
	guard        *access.Guard
}

func NewListTemplatesUseCase(templateRepo repository.TemplateRepository, guard *access.Guard) *ListTemplatesUseCase {
	return &ListTemplatesUseCase{templateRepo: templateRepo, guard: guard}
}

func (uc *ListTemplatesUseCase) Execute(ctx context.Context, orgID, userID uuid.UUID) ([]*entity.Template, error) {
	if err := uc.guard.RequireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return uc.templateRepo.ListByOrg(ctx, orgID)
}
