package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type CreateProposalInput struct {
	OrgID      uuid.UUID
	ProjectID  uuid.UUID
	TemplateID uuid.UUID
	Title      string
	UserID     uuid.UUID
}

type CreateProposalOutput struct {
	Proposal *entity.Proposal
	Version  *entity.ProposalVersion
}

// CreateProposalUseCase создаёт предложение из шаблона вместе с версией 1.
type CreateProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	templateRepo repository.TemplateRepository
	projectRepo  repository.ProjectRepository
	guard        *access.Guard
	events       event.Publisher
}

func NewCreateProposalUseCase(
	proposalRepo repository.ProposalRepository,
	templateRepo repository.TemplateRepository,
	projectRepo repository.ProjectRepository,
	guard *access.Guard,
	events event.Publisher,
) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		proposalRepo: proposalRepo,
		templateRepo: templateRepo,
		projectRepo:  projectRepo,
		guard:        guard,
		events:       events,
	}
}

func (uc *CreateProposalUseCase) Execute(ctx context.Context, input CreateProposalInput) (*CreateProposalOutput, error) {
	if err := validation.ValidateLength("название предложения", input.Title, 1, validation.MaxTitleLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := uc.guard.RequireMember(ctx, input.OrgID, input.UserID); err != nil {
		return nil, err
	}

	tpl, err := uc.templateRepo.FindByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if !tpl.BelongsTo(input.OrgID) {
		return nil, apperror.ErrTemplateNotFound
	}

	project, err := uc.projectRepo.FindByID(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.OrgID != input.OrgID {
		return nil, apperror.ErrProjectNotFound
	}

	p, err := entity.NewProposal(input.OrgID, project.ID, input.Title)
	if err != nil {
		return nil, err
	}
	v := p.FirstVersion(tpl.Content, input.UserID)

	if err := uc.proposalRepo.CreateWithFirstVersion(ctx, p, v); err != nil {
		return nil, err
	}

	publish(uc.events, p.OrgID, event.ProposalCreated, map[string]any{
		"proposal_id": p.ID,
		"project_id":  p.ProjectID,
		"name":        p.Name,
	})

	return &CreateProposalOutput{Proposal: p, Version: v}, nil
}

// publish отправляет событие; ошибка доставки не влияет на результат операции.
func publish(events event.Publisher, orgID uuid.UUID, name string, data any) {
	if events == nil {
		return
	}
	if err := events.BroadcastToOrg(orgID, name, data); err != nil {
		logger.Component("proposal").WithError(err).WithField("event", name).Warn("не удалось отправить событие")
	}
}
