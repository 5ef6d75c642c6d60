package project

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

type CreateProjectInput struct {
	OrgID    uuid.UUID
	ClientID uuid.UUID
	UserID   uuid.UUID
	Name     string
	Status   string
}

type CreateProjectUseCase struct {
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
	guard       *access.Guard
}

func NewCreateProjectUseCase(projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository, guard *access.Guard) *CreateProjectUseCase {
	return &CreateProjectUseCase{projectRepo: projectRepo, clientRepo: clientRepo, guard: guard}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, input CreateProjectInput) (*entity.Project, error) {
	if err := validation.ValidateLength("название проекта", input.Name, 1, validation.MaxNameLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	status, err := valueobject.NewProjectStatus(input.Status)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, input.OrgID, input.UserID); err != nil {
		return nil, err
	}

	// Клиент из другой организации неотличим от несуществующего.
	client, err := uc.clientRepo.FindByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if client.OrgID != input.OrgID {
		return nil, apperror.ErrClientNotFound
	}

	p, err := entity.NewProject(input.OrgID, client.ID, input.Name, status)
	if err != nil {
		return nil, err
	}
	p.ClientName = client.Name
	if err := uc.projectRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type UpdateProjectInput struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Name      *string
	Status    *string
}

type UpdateProjectUseCase struct {
	projectRepo repository.ProjectRepository
	guard       *access.Guard
}

func NewUpdateProjectUseCase(projectRepo repository.ProjectRepository, guard *access.Guard) *UpdateProjectUseCase {
	return &UpdateProjectUseCase{projectRepo: projectRepo, guard: guard}
}

func (uc *UpdateProjectUseCase) Execute(ctx context.Context, input UpdateProjectInput) (*entity.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, p.OrgID, input.UserID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := validation.ValidateLength("название проекта", *input.Name, 1, validation.MaxNameLength); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		if err := p.Rename(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		status, err := valueobject.NewProjectStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		if err := p.SetStatus(status); err != nil {
			return nil, err
		}
	}

	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteProjectUseCase переводит проект в completed.
type CompleteProjectUseCase struct {
	projectRepo repository.ProjectRepository
	guard       *access.Guard
}

func NewCompleteProjectUseCase(projectRepo repository.ProjectRepository, guard *access.Guard) *CompleteProjectUseCase {
	return &CompleteProjectUseCase{projectRepo: projectRepo, guard: guard}
}

func (uc *CompleteProjectUseCase) Execute(ctx context.Context, projectID, userID uuid.UUID) (*entity.Project, error) {
	p, err := uc.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, p.OrgID, userID); err != nil {
		return nil, err
	}
	p.Complete()
	if err := uc.projectRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

type ListProjectsUseCase struct {
	projectRepo repository.ProjectRepository
	guard       *access.Guard
}

func NewListProjectsUseCase(projectRepo repository.ProjectRepository, guard *access.Guard) *ListProjectsUseCase {
	return &ListProjectsUseCase{projectRepo: projectRepo, guard: guard}
}

func (uc *ListProjectsUseCase) Execute(ctx context.Context, orgID, userID uuid.UUID) ([]*entity.Project, error) {
	if err := uc.guard.RequireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return uc.projectRepo.ListByOrg(ctx, orgID)
}
