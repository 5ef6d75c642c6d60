package repository

import (
	"context"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
)

type SigningRepository interface {
	// CreateSession сохраняет сессию и переводит черновик предложения в sent.
	CreateSession(ctx context.Context, session *entity.SigningSession) error
	// FindForSigning возвращает nil, nil для неизвестного, истёкшего или использованного токена.
	FindForSigning(ctx context.Context, tokenHash string) (*entity.SigningView, error)
	// Sign атомарно переводит сессию pending -> signed. false означает отказ.
	Sign(ctx context.Context, tokenHash string, signature entity.Signature) (bool, error)
	FindByTokenHash(ctx context.Context, tokenHash string) (*entity.SigningSession, error)
	// ExpireOverdue переводит просроченные pending сессии в expired.
	ExpireOverdue(ctx context.Context) (int64, error)
}
