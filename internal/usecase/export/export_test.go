package export_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/storage"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/export"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
)

type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeArtifacts struct {
	paths []string
	err   error
}

func (s *fakeArtifacts) Store(_ context.Context, objectPath string, _ []byte) (*storage.Location, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.paths = append(s.paths, objectPath)
	return &storage.Location{Bucket: "proposals", Path: objectPath, URL: "https://s3.example.com/" + objectPath}, nil
}

type env struct {
	store    *fakes.Store
	fx       fakes.Fixture
	renderer *fakeRenderer
	exporter *export.ExportProposalPDFUseCase
	proposal uuid.UUID
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := fakes.NewStore()
	fx := store.SeedFixture(valueobject.Content(`{"scope":"Full demo and rebuild.","pricing":[{"description":"Tile","quantity":2,"unit_price":100}]}`))
	guard := access.NewGuard(store.Memberships())

	create := proposal.NewCreateProposalUseCase(store.Proposals(), store.Templates(), store.Projects(), guard, &fakes.Events{})
	out, err := create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      fx.Org.ID,
		ProjectID:  fx.Project.ID,
		TemplateID: fx.Template.ID,
		Title:      "Proposal for Smith Bathroom",
		UserID:     fx.OwnerID,
	})
	require.NoError(t, err)

	renderer := &fakeRenderer{}
	return &env{
		store:    store,
		fx:       fx,
		renderer: renderer,
		exporter: export.NewExportProposalPDFUseCase(store.Proposals(), guard, renderer),
		proposal: out.Proposal.ID,
	}
}

func TestExportPDF_LatestVersion(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.Proposals().AppendVersion(context.Background(), e.proposal, valueobject.Content(`{"scope":"Second draft"}`), e.fx.OwnerID)
	require.NoError(t, err)

	out, err := e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Version.VersionNumber)
	assert.Equal(t, "proposal_"+e.proposal.String()[:8]+".pdf", out.Filename)
	assert.Equal(t, []byte("%PDF-1.4 fake"), out.Data)
	assert.Contains(t, e.renderer.html, "Proposal for Smith Bathroom")
	assert.Contains(t, e.renderer.html, "Second draft")
	assert.Contains(t, e.renderer.html, "Jane Smith")
}

func TestExportPDF_SpecificVersion(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.Proposals().AppendVersion(context.Background(), e.proposal, valueobject.Content(`{"scope":"Second draft"}`), e.fx.OwnerID)
	require.NoError(t, err)

	out, err := e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID, VersionNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Version.VersionNumber)
	assert.Contains(t, e.renderer.html, "Full demo and rebuild.")

	_, err = e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID, VersionNumber: 9})
	assert.ErrorIs(t, err, apperror.ErrVersionNotFound)
}

func TestExportPDF_Errors(t *testing.T) {
	e := newEnv(t)

	_, err := e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: uuid.New(), UserID: e.fx.OwnerID})
	assert.True(t, apperror.IsNotFound(err))

	_, err = e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: uuid.New()})
	assert.True(t, apperror.IsForbidden(err))

	e.renderer.err = errors.New("chrome crashed")
	_, err = e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeInternal, appErr.Code)
}

func TestExportPDF_RenderTimeoutIsRetryable(t *testing.T) {
	e := newEnv(t)
	e.renderer.err = fmt.Errorf("export: ошибка печати PDF: %w", context.DeadlineExceeded)

	_, err := e.exporter.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	require.Error(t, err)
	assert.True(t, apperror.IsRetryable(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestArchivePDF(t *testing.T) {
	e := newEnv(t)
	artifacts := &fakeArtifacts{}
	archive := export.NewArchiveProposalPDFUseCase(e.exporter, artifacts)

	loc, err := archive.Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	require.NoError(t, err)

	expected := export.ArtifactPath(e.fx.Org.ID, e.proposal, 1)
	assert.Equal(t, e.fx.Org.ID.String()+"/"+e.proposal.String()+"/v1.pdf", expected)
	assert.Equal(t, expected, loc.Path)
	assert.Equal(t, []string{expected}, artifacts.paths)
}

func TestArchivePDF_StoreFailures(t *testing.T) {
	e := newEnv(t)

	_, err := export.NewArchiveProposalPDFUseCase(e.exporter, nil).Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeTransport, appErr.Code)

	failing := &fakeArtifacts{err: errors.New("connection refused")}
	_, err = export.NewArchiveProposalPDFUseCase(e.exporter, failing).Execute(context.Background(), export.ExportInput{ProposalID: e.proposal, UserID: e.fx.OwnerID})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeTransport, appErr.Code)
}
