package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

// SigningRepositoryAdapter работает с сессиями подписи.
// Публичные чтение и подпись идут через хранимые процедуры
// get_proposal_for_signing и sign_proposal_with_token.
type SigningRepositoryAdapter struct {
	db *sqlx.DB
}

func NewSigningRepositoryAdapter(db *sqlx.DB) *SigningRepositoryAdapter {
	return &SigningRepositoryAdapter{db: db}
}

func (r *SigningRepositoryAdapter) CreateSession(ctx context.Context, s *entity.SigningSession) error {
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var owner struct {
			ProposalID uuid.UUID `db:"proposal_id"`
			OrgID      uuid.UUID `db:"org_id"`
		}
		if err := tx.GetContext(ctx, &owner,
			`SELECT proposal_id, org_id FROM proposal_versions WHERE id = $1`, s.ProposalVersionID,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrVersionNotFound
			}
			return err
		}
		s.ProposalID = owner.ProposalID
		s.OrgID = owner.OrgID

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO signing_sessions (id, proposal_version_id, token_hash, signer_email, status, expires_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			s.ID, s.ProposalVersionID, s.TokenHash, s.SignerEmail, string(s.Status), s.ExpiresAt, s.CreatedAt,
		); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`UPDATE proposals SET status = 'sent', updated_at = NOW() WHERE id = $1 AND status = 'draft'`,
			owner.ProposalID,
		)
		return err
	})
	return apperror.FromDB(err, "не удалось создать ссылку на подпись")
}

func (r *SigningRepositoryAdapter) FindForSigning(ctx context.Context, tokenHash string) (*entity.SigningView, error) {
	var row signingViewRow
	query := `
		SELECT proposal_name, version_id, version_number, content_json, signer_email, expires_at, org_name, client_name
		FROM get_proposal_for_signing($1)
	`
	if err := r.db.GetContext(ctx, &row, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.FromDB(err, "не удалось получить предложение для подписи")
	}
	return row.toEntity(), nil
}

func (r *SigningRepositoryAdapter) Sign(ctx context.Context, tokenHash string, sig entity.Signature) (bool, error) {
	var signed bool
	query := `SELECT sign_proposal_with_token($1, $2, $3, $4, $5, $6)`
	if err := r.db.GetContext(ctx, &signed, query,
		tokenHash, sig.SignerName, sig.Consent, sig.SignatureType, sig.SignatureData, sig.UserAgent,
	); err != nil {
		return false, apperror.FromDB(err, "не удалось подписать предложение")
	}
	return signed, nil
}

func (r *SigningRepositoryAdapter) FindByTokenHash(ctx context.Context, tokenHash string) (*entity.SigningSession, error) {
	var row signingSessionRow
	query := `
		SELECT s.id, s.proposal_version_id, v.proposal_id, v.org_id, s.token_hash, s.signer_email,
		       s.status, s.expires_at, s.signer_name, s.signed_at, s.created_at
		FROM signing_sessions s
		JOIN proposal_versions v ON v.id = s.proposal_version_id
		WHERE s.token_hash = $1
	`
	if err := r.db.GetContext(ctx, &row, query, tokenHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrTokenUnusable
		}
		return nil, apperror.FromDB(err, "не удалось получить сессию подписи")
	}
	return row.toEntity(), nil
}

func (r *SigningRepositoryAdapter) ExpireOverdue(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE signing_sessions SET status = 'expired' WHERE status = 'pending' AND expires_at <= NOW()`,
	)
	if err != nil {
		return 0, apperror.FromDB(err, "не удалось обновить просроченные сессии")
	}
	return res.RowsAffected()
}

type signingViewRow struct {
	ProposalName  string              `db:"proposal_name"`
	VersionID     uuid.UUID           `db:"version_id"`
	VersionNumber int                 `db:"version_number"`
	Content       valueobject.Content `db:"content_json"`
	SignerEmail   *string             `db:"signer_email"`
	ExpiresAt     time.Time           `db:"expires_at"`
	OrgName       string              `db:"org_name"`
	ClientName    string              `db:"client_name"`
}

func (v *signingViewRow) toEntity() *entity.SigningView {
	return &entity.SigningView{
		ProposalName:  v.ProposalName,
		VersionID:     v.VersionID,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		SignerEmail:   v.SignerEmail,
		ExpiresAt:     v.ExpiresAt,
		OrgName:       v.OrgName,
		ClientName:    v.ClientName,
	}
}

type signingSessionRow struct {
	ID                uuid.UUID  `db:"id"`
	ProposalVersionID uuid.UUID  `db:"proposal_version_id"`
	ProposalID        uuid.UUID  `db:"proposal_id"`
	OrgID             uuid.UUID  `db:"org_id"`
	TokenHash         string     `db:"token_hash"`
	SignerEmail       *string    `db:"signer_email"`
	Status            string     `db:"status"`
	ExpiresAt         time.Time  `db:"expires_at"`
	SignerName        *string    `db:"signer_name"`
	SignedAt          *time.Time `db:"signed_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

func (s *signingSessionRow) toEntity() *entity.SigningSession {
	return &entity.SigningSession{
		ID:                s.ID,
		ProposalVersionID: s.ProposalVersionID,
		ProposalID:        s.ProposalID,
		OrgID:             s.OrgID,
		TokenHash:         s.TokenHash,
		SignerEmail:       s.SignerEmail,
		Status:            valueobject.SigningStatus(s.Status),
		ExpiresAt:         s.ExpiresAt,
		SignerName:        s.SignerName,
		SignedAt:          s.SignedAt,
		CreatedAt:         s.CreatedAt,
	}
}
