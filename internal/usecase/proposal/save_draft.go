package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
)

type SaveDraftInput struct {
	ProposalID uuid.UUID
	Content    valueobject.Content
	UserID     uuid.UUID
}

// SaveDraftUseCase добавляет новую версию содержимого.
// Подписанные версии не меняются, подпись привязана к своей версии.
type SaveDraftUseCase struct {
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
	events       event.Publisher
}

func NewSaveDraftUseCase(proposalRepo repository.ProposalRepository, guard *access.Guard, events event.Publisher) *SaveDraftUseCase {
	return &SaveDraftUseCase{proposalRepo: proposalRepo, guard: guard, events: events}
}

func (uc *SaveDraftUseCase) Execute(ctx context.Context, input SaveDraftInput) (*entity.ProposalVersion, error) {
	if input.Content.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "содержимое предложения обязательно")
	}

	p, err := uc.proposalRepo.FindByID(ctx, input.ProposalID)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, p.OrgID, input.UserID); err != nil {
		return nil, err
	}

	v, err := uc.proposalRepo.AppendVersion(ctx, p.ID, input.Content, input.UserID)
	if err != nil {
		return nil, err
	}

	publish(uc.events, p.OrgID, event.ProposalVersionCreated, map[string]any{
		"proposal_id":    p.ID,
		"version_id":     v.ID,
		"version_number": v.VersionNumber,
	})
	return v, nil
}
