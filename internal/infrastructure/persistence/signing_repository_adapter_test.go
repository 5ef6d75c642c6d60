package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

func TestCreateSession_MarksDraftAsSent(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	versionID := uuid.New()
	proposalID := uuid.New()
	orgID := uuid.New()
	_, hash, err := entity.NewSigningToken()
	require.NoError(t, err)
	session, err := entity.NewSigningSession(versionID, hash, nil, 7, time.Now())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT proposal_id, org_id FROM proposal_versions WHERE id = \$1`).
		WithArgs(versionID).
		WillReturnRows(sqlmock.NewRows([]string{"proposal_id", "org_id"}).AddRow(proposalID.String(), orgID.String()))
	mock.ExpectExec(`INSERT INTO signing_sessions`).
		WithArgs(session.ID, versionID, hash, nil, "pending", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE proposals SET status = 'sent'`).
		WithArgs(proposalID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateSession(context.Background(), session))
	assert.Equal(t, proposalID, session.ProposalID)
	assert.Equal(t, orgID, session.OrgID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSession_UnknownVersion(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	session, err := entity.NewSigningSession(uuid.New(), "hash", nil, 7, time.Now())
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT proposal_id, org_id FROM proposal_versions`).
		WillReturnRows(sqlmock.NewRows([]string{"proposal_id", "org_id"}))
	mock.ExpectRollback()

	err = repo.CreateSession(context.Background(), session)
	assert.ErrorIs(t, err, apperror.ErrVersionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindForSigning_UsesProcedure(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	versionID := uuid.New()
	expires := time.Now().Add(48 * time.Hour).UTC()
	mock.ExpectQuery(`FROM get_proposal_for_signing\(\$1\)`).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"proposal_name", "version_id", "version_number", "content_json",
			"signer_email", "expires_at", "org_name", "client_name",
		}).AddRow("Bath", versionID.String(), 3, []byte(`{"scope":"tile"}`), nil, expires, "Demo Co", "Jane"))

	view, err := repo.FindForSigning(context.Background(), "hash-1")
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Bath", view.ProposalName)
	assert.Equal(t, versionID, view.VersionID)
	assert.Equal(t, 3, view.VersionNumber)
	assert.Nil(t, view.SignerEmail)
	assert.Equal(t, "Demo Co", view.OrgName)
}

func TestFindForSigning_UnusableTokenReturnsNil(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	mock.ExpectQuery(`get_proposal_for_signing`).WillReturnRows(sqlmock.NewRows([]string{"proposal_name"}))

	view, err := repo.FindForSigning(context.Background(), "expired")
	assert.NoError(t, err)
	assert.Nil(t, view)
}

func TestSign_PassesSignatureToProcedure(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	sig := entity.Signature{
		SignerName:    "Jane Smith",
		Consent:       true,
		SignatureType: entity.SignatureTypeText,
		SignatureData: "Jane Smith",
		UserAgent:     "test-agent",
	}
	mock.ExpectQuery(`SELECT sign_proposal_with_token\(\$1, \$2, \$3, \$4, \$5, \$6\)`).
		WithArgs("hash-1", "Jane Smith", true, "text", "Jane Smith", "test-agent").
		WillReturnRows(sqlmock.NewRows([]string{"sign_proposal_with_token"}).AddRow(true))
	mock.ExpectQuery(`sign_proposal_with_token`).
		WillReturnRows(sqlmock.NewRows([]string{"sign_proposal_with_token"}).AddRow(false))

	ok, err := repo.Sign(context.Background(), "hash-1", sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Sign(context.Background(), "hash-1", sig)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByTokenHash_MapsSession(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	proposalID := uuid.New()
	orgID := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery(`FROM signing_sessions s\s+JOIN proposal_versions v`).
		WithArgs("hash-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "proposal_version_id", "proposal_id", "org_id", "token_hash", "signer_email",
			"status", "expires_at", "signer_name", "signed_at", "created_at",
		}).AddRow(uuid.NewString(), uuid.NewString(), proposalID.String(), orgID.String(), "hash-1", "a@b.co",
			"signed", now, "Jane", now, now))

	session, err := repo.FindByTokenHash(context.Background(), "hash-1")
	require.NoError(t, err)
	assert.Equal(t, proposalID, session.ProposalID)
	assert.Equal(t, orgID, session.OrgID)
	assert.Equal(t, valueobject.SigningStatusSigned, session.Status)
	require.NotNil(t, session.SignerName)
	assert.Equal(t, "Jane", *session.SignerName)
}

func TestExpireOverdue_ReturnsAffectedRows(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := persistence.NewSigningRepositoryAdapter(conn)

	mock.ExpectExec(`UPDATE signing_sessions SET status = 'expired'`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ExpireOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
