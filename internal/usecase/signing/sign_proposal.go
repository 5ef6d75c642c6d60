package signing

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/validation"
)

// GetForSigningUseCase отдаёт публичное представление предложения по токену.
// nil без ошибки означает неизвестный, истёкший или использованный токен.
type GetForSigningUseCase struct {
	signingRepo repository.SigningRepository
}

func NewGetForSigningUseCase(signingRepo repository.SigningRepository) *GetForSigningUseCase {
	return &GetForSigningUseCase{signingRepo: signingRepo}
}

func (uc *GetForSigningUseCase) Execute(ctx context.Context, token string) (*entity.SigningView, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return uc.signingRepo.FindForSigning(ctx, entity.HashSigningToken(token))
}

type SignInput struct {
	Token         string
	SignerName    string
	SignatureData string
	UserAgent     string
	Consent       bool
}

// SignProposalUseCase записывает подпись.
// Бизнес-отказы возвращаются как false без ошибки, ошибка означает сбой хранилища.
type SignProposalUseCase struct {
	signingRepo repository.SigningRepository
	events      event.Publisher
}

func NewSignProposalUseCase(signingRepo repository.SigningRepository, events event.Publisher) *SignProposalUseCase {
	return &SignProposalUseCase{signingRepo: signingRepo, events: events}
}

func (uc *SignProposalUseCase) Execute(ctx context.Context, input SignInput) (bool, error) {
	token := strings.TrimSpace(input.Token)
	if !input.Consent || token == "" {
		return false, nil
	}

	// Некорректные данные подписанта такой же отказ, как истёкшая ссылка.
	name := strings.TrimSpace(input.SignerName)
	if err := validation.ValidateLength("имя подписанта", name, 1, validation.MaxSignerNameLength); err != nil {
		logger.Component("signing").WithError(err).Debug("подпись отклонена")
		return false, nil
	}
	if err := validation.ValidateLength("подпись", input.SignatureData, 0, validation.MaxSignatureDataLength); err != nil {
		logger.Component("signing").WithError(err).Debug("подпись отклонена")
		return false, nil
	}

	hash := entity.HashSigningToken(token)
	ok, err := uc.signingRepo.Sign(ctx, hash, entity.Signature{
		SignerName:    name,
		Consent:       true,
		SignatureType: entity.SignatureTypeText,
		SignatureData: input.SignatureData,
		UserAgent:     truncate(input.UserAgent, validation.MaxUserAgentLength),
	})
	if err != nil || !ok {
		return false, err
	}

	uc.notifySigned(ctx, hash, name)
	return true, nil
}

func (uc *SignProposalUseCase) notifySigned(ctx context.Context, hash, signerName string) {
	if uc.events == nil {
		return
	}
	log := logger.Component("signing")

	session, err := uc.signingRepo.FindByTokenHash(ctx, hash)
	if err != nil {
		log.WithError(err).Warn("подпись сохранена, но сессия не найдена для уведомления")
		return
	}
	if err := uc.events.BroadcastToOrg(session.OrgID, event.ProposalSigned, map[string]any{
		"proposal_id": session.ProposalID,
		"version_id":  session.ProposalVersionID,
		"signer_name": signerName,
	}); err != nil {
		log.WithError(err).Warn("не удалось отправить событие")
		return
	}
	log.WithFields(logrus.Fields{
		"proposal_id": session.ProposalID,
		"version_id":  session.ProposalVersionID,
	}).Info("предложение подписано")
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// ExpireSessionsUseCase переводит просроченные ожидающие сессии в expired.
type ExpireSessionsUseCase struct {
	signingRepo repository.SigningRepository
}

func NewExpireSessionsUseCase(signingRepo repository.SigningRepository) *ExpireSessionsUseCase {
	return &ExpireSessionsUseCase{signingRepo: signingRepo}
}

func (uc *ExpireSessionsUseCase) Execute(ctx context.Context) (int64, error) {
	n, err := uc.signingRepo.ExpireOverdue(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Component("signing").WithField("expired", n).Info("просроченные сессии закрыты")
	}
	return n, nil
}
