package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
)

type GetProposalUseCase struct {
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
}

func NewGetProposalUseCase(proposalRepo repository.ProposalRepository, guard *access.Guard) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: proposalRepo, guard: guard}
}

// Execute возвращает предложение с клиентом, проектом и всеми версиями.
func (uc *GetProposalUseCase) Execute(ctx context.Context, proposalID, userID uuid.UUID) (*entity.ProposalDetail, error) {
	detail, err := uc.proposalRepo.FindDetail(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperror.ErrProposalNotFound
	}
	if err := uc.guard.RequireMember(ctx, detail.Proposal.OrgID, userID); err != nil {
		return nil, err
	}
	return detail, nil
}

type ListProposalsUseCase struct {
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
}

func NewListProposalsUseCase(proposalRepo repository.ProposalRepository, guard *access.Guard) *ListProposalsUseCase {
	return &ListProposalsUseCase{proposalRepo: proposalRepo, guard: guard}
}

func (uc *ListProposalsUseCase) Execute(ctx context.Context, orgID, userID uuid.UUID) ([]*entity.ProposalSummary, error) {
	if err := uc.guard.RequireMember(ctx, orgID, userID); err != nil {
		return nil, err
	}
	return uc.proposalRepo.ListByOrg(ctx, orgID)
}
