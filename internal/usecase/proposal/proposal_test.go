package proposal_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
)

var templateContent = valueobject.Content(`{"sections":[{"title":"Scope","content":"Full demo and rebuild."}]}`)

type env struct {
	store  *fakes.Store
	events *fakes.Events
	fx     fakes.Fixture
	create *proposal.CreateProposalUseCase
	save   *proposal.SaveDraftUseCase
	get    *proposal.GetProposalUseCase
	list   *proposal.ListProposalsUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := fakes.NewStore()
	events := &fakes.Events{}
	guard := access.NewGuard(store.Memberships())
	return &env{
		store:  store,
		events: events,
		fx:     store.SeedFixture(templateContent),
		create: proposal.NewCreateProposalUseCase(store.Proposals(), store.Templates(), store.Projects(), guard, events),
		save:   proposal.NewSaveDraftUseCase(store.Proposals(), guard, events),
		get:    proposal.NewGetProposalUseCase(store.Proposals(), guard),
		list:   proposal.NewListProposalsUseCase(store.Proposals(), guard),
	}
}

func (e *env) createProposal(t *testing.T) *proposal.CreateProposalOutput {
	t.Helper()
	out, err := e.create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      e.fx.Org.ID,
		ProjectID:  e.fx.Project.ID,
		TemplateID: e.fx.Template.ID,
		Title:      "Proposal for Smith Bathroom",
		UserID:     e.fx.OwnerID,
	})
	require.NoError(t, err)
	return out
}

func TestCreateProposal_FirstVersionCopiesTemplate(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)

	assert.Equal(t, valueobject.ProposalStatusDraft, out.Proposal.Status)
	assert.Equal(t, 1, out.Version.VersionNumber)

	detail, err := e.get.Execute(context.Background(), out.Proposal.ID, e.fx.OwnerID)
	require.NoError(t, err)
	require.Len(t, detail.Versions, 1)
	assert.Equal(t, 1, detail.LatestVersion().VersionNumber)
	assert.JSONEq(t, string(templateContent), string(detail.LatestVersion().Content))
	assert.Equal(t, "Jane Smith", detail.Client.Name)
	assert.Equal(t, "Smith Bathroom", detail.Project.Name)
	assert.Equal(t, []string{event.ProposalCreated}, e.events.Names())
}

func TestCreateProposal_MissingTemplate(t *testing.T) {
	e := newEnv(t)
	_, err := e.create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      e.fx.Org.ID,
		ProjectID:  e.fx.Project.ID,
		TemplateID: uuid.New(),
		Title:      "x",
		UserID:     e.fx.OwnerID,
	})
	assert.ErrorIs(t, err, apperror.ErrTemplateNotFound)
}

func TestCreateProposal_TemplateFromAnotherOrg(t *testing.T) {
	e := newEnv(t)
	other := e.store.SeedFixture(templateContent)

	_, err := e.create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      e.fx.Org.ID,
		ProjectID:  e.fx.Project.ID,
		TemplateID: other.Template.ID,
		Title:      "x",
		UserID:     e.fx.OwnerID,
	})
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreateProposal_RequiresMembership(t *testing.T) {
	e := newEnv(t)
	_, err := e.create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      e.fx.Org.ID,
		ProjectID:  e.fx.Project.ID,
		TemplateID: e.fx.Template.ID,
		Title:      "x",
		UserID:     uuid.New(),
	})
	assert.True(t, apperror.IsForbidden(err))
}

func TestCreateProposal_EmptyTitle(t *testing.T) {
	e := newEnv(t)
	_, err := e.create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      e.fx.Org.ID,
		ProjectID:  e.fx.Project.ID,
		TemplateID: e.fx.Template.ID,
		UserID:     e.fx.OwnerID,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestSaveDraft_AppendsNextVersion(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)

	v, err := e.save.Execute(context.Background(), proposal.SaveDraftInput{
		ProposalID: out.Proposal.ID,
		Content:    valueobject.Content(`{"scope":"updated"}`),
		UserID:     e.fx.OwnerID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v.VersionNumber)
	assert.Equal(t, e.fx.OwnerID, v.CreatedBy)
	assert.Equal(t, e.fx.Org.ID, v.OrgID)

	detail, err := e.get.Execute(context.Background(), out.Proposal.ID, e.fx.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.LatestVersion().VersionNumber)
	assert.Equal(t, 1, detail.Versions[1].VersionNumber)
	assert.Contains(t, e.events.Names(), event.ProposalVersionCreated)
}

func TestSaveDraft_ConcurrentWritersGetGaplessNumbers(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)

	const writers = 25
	var wg sync.WaitGroup
	var mu sync.Mutex
	var numbers []int

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.save.Execute(context.Background(), proposal.SaveDraftInput{
				ProposalID: out.Proposal.ID,
				Content:    valueobject.Content(`{"scope":"draft"}`),
				UserID:     e.fx.OwnerID,
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers = append(numbers, v.VersionNumber)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(numbers)
	require.Len(t, numbers, writers)
	for i, n := range numbers {
		assert.Equal(t, i+2, n)
	}
}

func TestSaveDraft_RejectsEmptyContent(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)

	_, err := e.save.Execute(context.Background(), proposal.SaveDraftInput{
		ProposalID: out.Proposal.ID,
		UserID:     e.fx.OwnerID,
	})
	assert.True(t, apperror.IsValidation(err))
}

func TestSaveDraft_UnknownProposal(t *testing.T) {
	e := newEnv(t)
	_, err := e.save.Execute(context.Background(), proposal.SaveDraftInput{
		ProposalID: uuid.New(),
		Content:    valueobject.Content(`{}`),
		UserID:     e.fx.OwnerID,
	})
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestSaveDraft_StoreFailurePropagates(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)
	storeErr := apperror.New(apperror.ErrCodeTransport, "хранилище временно недоступно")
	e.store.StoreErr = storeErr

	_, err := e.save.Execute(context.Background(), proposal.SaveDraftInput{
		ProposalID: out.Proposal.ID,
		Content:    valueobject.Content(`{"a":1}`),
		UserID:     e.fx.OwnerID,
	})
	assert.True(t, errors.Is(err, storeErr))
	assert.True(t, apperror.IsRetryable(err))
}

func TestGetProposal_Missing(t *testing.T) {
	e := newEnv(t)
	_, err := e.get.Execute(context.Background(), uuid.New(), e.fx.OwnerID)
	assert.ErrorIs(t, err, apperror.ErrProposalNotFound)
}

func TestGetProposal_OtherOrgMemberForbidden(t *testing.T) {
	e := newEnv(t)
	out := e.createProposal(t)
	other := e.store.SeedFixture(templateContent)

	_, err := e.get.Execute(context.Background(), out.Proposal.ID, other.OwnerID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestListProposals_IncludesNames(t *testing.T) {
	e := newEnv(t)
	e.createProposal(t)

	list, err := e.list.Execute(context.Background(), e.fx.Org.ID, e.fx.OwnerID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Jane Smith", list[0].ClientName)
	assert.Equal(t, "Smith Bathroom", list[0].ProjectName)
}
