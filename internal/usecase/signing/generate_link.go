package signing

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

type GenerateLinkInput struct {
	VersionID     uuid.UUID
	SignerEmail   *string
	ExpiresInDays int
	UserID        uuid.UUID
}

type GenerateLinkOutput struct {
	Token     string
	URL       string
	SessionID uuid.UUID
	ExpiresAt time.Time
}

// GenerateLinkUseCase выпускает одноразовую ссылку на подпись версии.
type GenerateLinkUseCase struct {
	signingRepo  repository.SigningRepository
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
	events       event.Publisher
	frontendURL  string
	defaultDays  int
}

func NewGenerateLinkUseCase(
	signingRepo repository.SigningRepository,
	proposalRepo repository.ProposalRepository,
	guard *access.Guard,
	events event.Publisher,
	frontendURL string,
	defaultDays int,
) *GenerateLinkUseCase {
	if defaultDays <= 0 {
		defaultDays = entity.DefaultLinkTTLDays
	}
	return &GenerateLinkUseCase{
		signingRepo:  signingRepo,
		proposalRepo: proposalRepo,
		guard:        guard,
		events:       events,
		frontendURL:  strings.TrimRight(frontendURL, "/"),
		defaultDays:  defaultDays,
	}
}

func (uc *GenerateLinkUseCase) Execute(ctx context.Context, input GenerateLinkInput) (*GenerateLinkOutput, error) {
	var signerEmail *string
	if input.SignerEmail != nil && strings.TrimSpace(*input.SignerEmail) != "" {
		email := strings.ToLower(strings.TrimSpace(*input.SignerEmail))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		signerEmail = &email
	}

	days := input.ExpiresInDays
	if days == 0 {
		days = uc.defaultDays
	}

	version, err := uc.proposalRepo.FindVersionByID(ctx, input.VersionID)
	if err != nil {
		return nil, err
	}
	if err := uc.guard.RequireMember(ctx, version.OrgID, input.UserID); err != nil {
		return nil, err
	}

	token, hash, err := entity.NewSigningToken()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать ссылку")
	}
	session, err := entity.NewSigningSession(version.ID, hash, signerEmail, days, time.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.signingRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	orgID := session.OrgID
	if orgID == uuid.Nil {
		orgID = version.OrgID
	}
	if uc.events != nil {
		if err := uc.events.BroadcastToOrg(orgID, event.SigningLinkCreated, map[string]any{
			"proposal_id": version.ProposalID,
			"version_id":  version.ID,
			"expires_at":  session.ExpiresAt,
		}); err != nil {
			logger.Component("signing").WithError(err).Warn("не удалось отправить событие")
		}
	}

	return &GenerateLinkOutput{
		Token:     token,
		URL:       uc.frontendURL + "/public/sign?token=" + url.QueryEscape(token),
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
