package signing_test

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/fakes"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/signing"
)

var templateContent = valueobject.Content(`{"sections":[{"title":"Scope","content":"Full demo and rebuild."}]}`)

type env struct {
	store    *fakes.Store
	events   *fakes.Events
	fx       fakes.Fixture
	proposal *proposal.CreateProposalOutput
	generate *signing.GenerateLinkUseCase
	view     *signing.GetForSigningUseCase
	sign     *signing.SignProposalUseCase
	expire   *signing.ExpireSessionsUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := fakes.NewStore()
	events := &fakes.Events{}
	guard := access.NewGuard(store.Memberships())
	fx := store.SeedFixture(templateContent)

	create := proposal.NewCreateProposalUseCase(store.Proposals(), store.Templates(), store.Projects(), guard, events)
	out, err := create.Execute(context.Background(), proposal.CreateProposalInput{
		OrgID:      fx.Org.ID,
		ProjectID:  fx.Project.ID,
		TemplateID: fx.Template.ID,
		Title:      "Bathroom proposal",
		UserID:     fx.OwnerID,
	})
	require.NoError(t, err)

	return &env{
		store:    store,
		events:   events,
		fx:       fx,
		proposal: out,
		generate: signing.NewGenerateLinkUseCase(store.Signing(), store.Proposals(), guard, events, "https://app.example.com/", 7),
		view:     signing.NewGetForSigningUseCase(store.Signing()),
		sign:     signing.NewSignProposalUseCase(store.Signing(), events),
		expire:   signing.NewExpireSessionsUseCase(store.Signing()),
	}
}

func (e *env) link(t *testing.T) *signing.GenerateLinkOutput {
	t.Helper()
	out, err := e.generate.Execute(context.Background(), signing.GenerateLinkInput{
		VersionID:     e.proposal.Version.ID,
		ExpiresInDays: 7,
		UserID:        e.fx.OwnerID,
	})
	require.NoError(t, err)
	return out
}

func signInput(token string) signing.SignInput {
	return signing.SignInput{
		Token:         token,
		SignerName:    "Jane Doe",
		SignatureData: "<sig>",
		UserAgent:     "test-agent",
		Consent:       true,
	}
}

func TestSigningScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	link := e.link(t)
	require.NotEmpty(t, link.Token)

	view, err := e.view.Execute(ctx, link.Token)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "Bathroom proposal", view.ProposalName)
	assert.Equal(t, 1, view.VersionNumber)
	assert.JSONEq(t, string(templateContent), string(view.Content))
	assert.Equal(t, "Demo Construction Co.", view.OrgName)
	assert.Equal(t, "Jane Smith", view.ClientName)

	ok, err := e.sign.Execute(ctx, signInput(link.Token))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.sign.Execute(ctx, signInput(link.Token))
	require.NoError(t, err)
	assert.False(t, ok)

	view, err = e.view.Execute(ctx, link.Token)
	require.NoError(t, err)
	assert.Nil(t, view)

	p, err := e.store.Proposals().FindByID(ctx, e.proposal.Proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusSigned, p.Status)

	names := e.events.Names()
	assert.Contains(t, names, event.SigningLinkCreated)
	assert.Contains(t, names, event.ProposalSigned)
}

func TestGenerateLink_URLAndHashOnlyStorage(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)

	parsed, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "app.example.com", parsed.Host)
	assert.Equal(t, "/public/sign", parsed.Path)
	assert.Equal(t, link.Token, parsed.Query().Get("token"))

	assert.Equal(t, valueobject.SigningStatusPending, e.store.SessionStatus(entity.HashSigningToken(link.Token)))
	assert.Empty(t, e.store.SessionStatus(link.Token))
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), link.ExpiresAt, time.Minute)
}

func TestGenerateLink_MarksDraftAsSent(t *testing.T) {
	e := newEnv(t)
	e.link(t)

	p, err := e.store.Proposals().FindByID(context.Background(), e.proposal.Proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ProposalStatusSent, p.Status)
}

func TestGenerateLink_Validation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.generate.Execute(ctx, signing.GenerateLinkInput{
		VersionID: e.proposal.Version.ID, ExpiresInDays: 91, UserID: e.fx.OwnerID,
	})
	assert.True(t, apperror.IsValidation(err))

	bad := "not-an-email"
	_, err = e.generate.Execute(ctx, signing.GenerateLinkInput{
		VersionID: e.proposal.Version.ID, SignerEmail: &bad, UserID: e.fx.OwnerID,
	})
	assert.True(t, apperror.IsValidation(err))

	_, err = e.generate.Execute(ctx, signing.GenerateLinkInput{
		VersionID: uuid.New(), UserID: e.fx.OwnerID,
	})
	assert.ErrorIs(t, err, apperror.ErrVersionNotFound)

	_, err = e.generate.Execute(ctx, signing.GenerateLinkInput{
		VersionID: e.proposal.Version.ID, UserID: uuid.New(),
	})
	assert.True(t, apperror.IsForbidden(err))
}

func TestGenerateLink_DefaultsExpiryAndNormalizesEmail(t *testing.T) {
	e := newEnv(t)
	email := "  Client@Example.com "

	link, err := e.generate.Execute(context.Background(), signing.GenerateLinkInput{
		VersionID:   e.proposal.Version.ID,
		SignerEmail: &email,
		UserID:      e.fx.OwnerID,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), link.ExpiresAt, time.Minute)

	view, err := e.view.Execute(context.Background(), link.Token)
	require.NoError(t, err)
	require.NotNil(t, view.SignerEmail)
	assert.Equal(t, "client@example.com", *view.SignerEmail)
}

func TestSign_WithoutConsentLeavesSessionPending(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)

	in := signInput(link.Token)
	in.Consent = false
	ok, err := e.sign.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, valueobject.SigningStatusPending, e.store.SessionStatus(entity.HashSigningToken(link.Token)))
}

func TestSign_ExpiredTokenFails(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)
	hash := entity.HashSigningToken(link.Token)
	e.store.ExpireSession(hash)

	view, err := e.view.Execute(context.Background(), link.Token)
	require.NoError(t, err)
	assert.Nil(t, view)

	ok, err := e.sign.Execute(context.Background(), signInput(link.Token))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, valueobject.SigningStatusExpired, e.store.SessionStatus(hash))
}

func TestSign_UnknownAndEmptyTokens(t *testing.T) {
	e := newEnv(t)

	ok, err := e.sign.Execute(context.Background(), signInput("unknown"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = e.sign.Execute(context.Background(), signInput(""))
	require.NoError(t, err)
	assert.False(t, ok)

	view, err := e.view.Execute(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestSign_InvalidSignerInputIsPlainFailure(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)

	blank := signInput(link.Token)
	blank.SignerName = "   "
	ok, err := e.sign.Execute(context.Background(), blank)
	require.NoError(t, err)
	assert.False(t, ok)

	long := signInput(link.Token)
	long.SignerName = strings.Repeat("x", 201)
	ok, err = e.sign.Execute(context.Background(), long)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, valueobject.SigningStatusPending, e.store.SessionStatus(entity.HashSigningToken(link.Token)))

	ok, err = e.sign.Execute(context.Background(), signInput(link.Token))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_TransportErrorPropagates(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)
	e.store.StoreErr = apperror.New(apperror.ErrCodeTransport, "хранилище временно недоступно")

	ok, err := e.sign.Execute(context.Background(), signInput(link.Token))
	assert.False(t, ok)
	assert.True(t, apperror.IsRetryable(err))
}

func TestSign_ConcurrentAttemptsSucceedOnce(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)

	const attempts = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := e.sign.Execute(context.Background(), signInput(link.Token))
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
}

func TestSign_TruncatesUserAgent(t *testing.T) {
	e := newEnv(t)
	link := e.link(t)

	in := signInput(link.Token)
	in.UserAgent = strings.Repeat("a", 5000)
	ok, err := e.sign.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpireSessions_FlipsOverduePending(t *testing.T) {
	e := newEnv(t)
	stale := e.link(t)
	fresh := e.link(t)
	e.store.ExpireSession(entity.HashSigningToken(stale.Token))

	n, err := e.expire.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, valueobject.SigningStatusExpired, e.store.SessionStatus(entity.HashSigningToken(stale.Token)))
	assert.Equal(t, valueobject.SigningStatusPending, e.store.SessionStatus(entity.HashSigningToken(fresh.Token)))
}
