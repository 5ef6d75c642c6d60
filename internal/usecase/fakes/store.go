// Package fakes содержит потокобезопасное хранилище в памяти
// с тем же контрактом, что и адаптеры Postgres. Используется в тестах.
package fakes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type memberKey struct {
	org  uuid.UUID
	user uuid.UUID
}

type sessionRecord struct {
	session   entity.SigningSession
	signature *entity.Signature
}

// Store общее состояние всех репозиториев.
type Store struct {
	mu        sync.Mutex
	orgs      map[uuid.UUID]*entity.Organization
	members   map[memberKey]valueobject.MemberRole
	clients   map[uuid.UUID]*entity.Client
	projects  map[uuid.UUID]*entity.Project
	templates map[uuid.UUID]*entity.Template
	proposals map[uuid.UUID]*entity.Proposal
	versions  map[uuid.UUID][]*entity.ProposalVersion
	sessions  map[string]*sessionRecord

	// Now подменяет текущее время для проверки истечения ссылок.
	Now func() time.Time
	// StoreErr, если задан, возвращается всеми операциями записи и чтения.
	StoreErr error
}

func NewStore() *Store {
	return &Store{
		orgs:      make(map[uuid.UUID]*entity.Organization),
		members:   make(map[memberKey]valueobject.MemberRole),
		clients:   make(map[uuid.UUID]*entity.Client),
		projects:  make(map[uuid.UUID]*entity.Project),
		templates: make(map[uuid.UUID]*entity.Template),
		proposals: make(map[uuid.UUID]*entity.Proposal),
		versions:  make(map[uuid.UUID][]*entity.ProposalVersion),
		sessions:  make(map[string]*sessionRecord),
		Now:       time.Now,
	}
}

func (s *Store) Organizations() *OrganizationRepo { return &OrganizationRepo{s} }
func (s *Store) Memberships() *MembershipRepo     { return &MembershipRepo{s} }
func (s *Store) Clients() *ClientRepo             { return &ClientRepo{s} }
func (s *Store) Projects() *ProjectRepo           { return &ProjectRepo{s} }
func (s *Store) Templates() *TemplateRepo         { return &TemplateRepo{s} }
func (s *Store) Proposals() *ProposalRepo         { return &ProposalRepo{s} }
func (s *Store) Signing() *SigningRepo            { return &SigningRepo{s} }

// SessionStatus возвращает статус сессии по хешу токена.
func (s *Store) SessionStatus(tokenHash string) valueobject.SigningStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[tokenHash]; ok {
		return rec.session.Status
	}
	return ""
}

// ExpireSession сдвигает срок действия сессии в прошлое.
func (s *Store) ExpireSession(tokenHash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.sessions[tokenHash]; ok {
		rec.session.ExpiresAt = s.Now().Add(-time.Minute)
	}
}

type OrganizationRepo struct{ s *Store }

func (r *OrganizationRepo) CreateWithOwner(_ context.Context, org *entity.Organization, owner *entity.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return r.s.StoreErr
	}
	r.s.orgs[org.ID] = org
	r.s.members[memberKey{owner.OrgID, owner.UserID}] = owner.Role
	return nil
}

func (r *OrganizationRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if org, ok := r.s.orgs[id]; ok {
		return org, nil
	}
	return nil, apperror.ErrOrganizationNotFound
}

func (r *OrganizationRepo) ListByMember(_ context.Context, userID uuid.UUID) ([]*entity.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Organization
	for key := range r.s.members {
		if key.user == userID {
			if org, ok := r.s.orgs[key.org]; ok {
				result = append(result, org)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type MembershipRepo struct{ s *Store }

func (r *MembershipRepo) IsMember(_ context.Context, orgID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return false, r.s.StoreErr
	}
	_, ok := r.s.members[memberKey{orgID, userID}]
	return ok, nil
}

func (r *MembershipRepo) Add(_ context.Context, m *entity.Membership) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[m.OrgID]; !ok {
		return apperror.New(apperror.ErrCodeConstraintViolation, "организация не существует")
	}
	r.s.members[memberKey{m.OrgID, m.UserID}] = m.Role
	return nil
}

type ClientRepo struct{ s *Store }

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[c.OrgID]; !ok {
		return apperror.New(apperror.ErrCodeConstraintViolation, "организация не существует")
	}
	r.s.clients[c.ID] = c
	return nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.clients[c.ID]; !ok {
		return apperror.ErrClientNotFound
	}
	r.s.clients[c.ID] = c
	return nil
}

func (r *ClientRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.clients[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, apperror.ErrClientNotFound
}

func (r *ClientRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Client
	for _, c := range r.s.clients {
		if c.OrgID == orgID {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type ProjectRepo struct{ s *Store }

func (r *ProjectRepo) Create(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.clients[p.ClientID]
	if !ok || c.OrgID != p.OrgID {
		return apperror.New(apperror.ErrCodeConstraintViolation, "клиент не существует")
	}
	r.s.projects[p.ID] = p
	return nil
}

func (r *ProjectRepo) Update(_ context.Context, p *entity.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.projects[p.ID]; !ok {
		return apperror.ErrProjectNotFound
	}
	r.s.projects[p.ID] = p
	return nil
}

func (r *ProjectRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	cp := *p
	if c, ok := r.s.clients[p.ClientID]; ok {
		cp.ClientName = c.Name
	}
	return &cp, nil
}

func (r *ProjectRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*entity.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Project
	for _, p := range r.s.projects {
		if p.OrgID == orgID {
			cp := *p
			if c, ok := r.s.clients[p.ClientID]; ok {
				cp.ClientName = c.Name
			}
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

type TemplateRepo struct{ s *Store }

func (r *TemplateRepo) Create(_ context.Context, t *entity.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.orgs[t.OrgID]; !ok {
		return apperror.New(apperror.ErrCodeConstraintViolation, "организация не существует")
	}
	r.s.templates[t.ID] = t
	return nil
}

func (r *TemplateRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.templates[id]; ok {
		return t, nil
	}
	return nil, apperror.ErrTemplateNotFound
}

func (r *TemplateRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*entity.Template, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.Template
	for _, t := range r.s.templates {
		if t.OrgID == orgID {
			result = append(result, t)
		}
	}
	return result, nil
}

type ProposalRepo struct{ s *Store }

func (r *ProposalRepo) CreateWithFirstVersion(_ context.Context, p *entity.Proposal, v *entity.ProposalVersion) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return r.s.StoreErr
	}
	if _, ok := r.s.projects[p.ProjectID]; !ok {
		return apperror.New(apperror.ErrCodeConstraintViolation, "проект не существует")
	}
	cp := *p
	r.s.proposals[p.ID] = &cp
	r.s.versions[p.ID] = []*entity.ProposalVersion{v}
	return nil
}

func (r *ProposalRepo) AppendVersion(_ context.Context, proposalID uuid.UUID, content valueobject.Content, createdBy uuid.UUID) (*entity.ProposalVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return nil, r.s.StoreErr
	}
	p, ok := r.s.proposals[proposalID]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}

	next := 1
	for _, v := range r.s.versions[proposalID] {
		if v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}
	v := &entity.ProposalVersion{
		ID:            uuid.New(),
		ProposalID:    proposalID,
		OrgID:         p.OrgID,
		VersionNumber: next,
		Content:       content,
		CreatedBy:     createdBy,
		CreatedAt:     r.s.Now(),
	}
	r.s.versions[proposalID] = append(r.s.versions[proposalID], v)
	p.UpdatedAt = v.CreatedAt
	return v, nil
}

func (r *ProposalRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Proposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return nil, r.s.StoreErr
	}
	if p, ok := r.s.proposals[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, apperror.ErrProposalNotFound
}

func (r *ProposalRepo) FindDetail(_ context.Context, id uuid.UUID) (*entity.ProposalDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return nil, r.s.StoreErr
	}
	p, ok := r.s.proposals[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	detail := &entity.ProposalDetail{Proposal: &cp}
	if project, ok := r.s.projects[p.ProjectID]; ok {
		detail.Project = &entity.PartySummary{ID: project.ID, Name: project.Name}
		if c, ok := r.s.clients[project.ClientID]; ok {
			detail.Client = &entity.PartySummary{ID: c.ID, Name: c.Name, Email: c.Email}
		}
	}
	versions := append([]*entity.ProposalVersion(nil), r.s.versions[id]...)
	sort.Slice(versions, func(i, j int) bool { return versions[i].VersionNumber > versions[j].VersionNumber })
	detail.Versions = versions
	return detail, nil
}

func (r *ProposalRepo) FindVersionByID(_ context.Context, versionID uuid.UUID) (*entity.ProposalVersion, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.findVersion(versionID)
}

func (r *ProposalRepo) ListByOrg(_ context.Context, orgID uuid.UUID) ([]*entity.ProposalSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []*entity.ProposalSummary
	for _, p := range r.s.proposals {
		if p.OrgID != orgID {
			continue
		}
		cp := *p
		summary := &entity.ProposalSummary{Proposal: &cp}
		if project, ok := r.s.projects[p.ProjectID]; ok {
			summary.ProjectName = project.Name
			if c, ok := r.s.clients[project.ClientID]; ok {
				summary.ClientName = c.Name
			}
		}
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Proposal.UpdatedAt.After(result[j].Proposal.UpdatedAt) })
	return result, nil
}

func (s *Store) findVersion(versionID uuid.UUID) (*entity.ProposalVersion, error) {
	for _, versions := range s.versions {
		for _, v := range versions {
			if v.ID == versionID {
				return v, nil
			}
		}
	}
	return nil, apperror.ErrVersionNotFound
}

// SigningRepo повторяет семантику процедур get_proposal_for_signing
// и sign_proposal_with_token.
type SigningRepo struct{ s *Store }

func (r *SigningRepo) CreateSession(_ context.Context, session *entity.SigningSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return r.s.StoreErr
	}
	v, err := r.s.findVersion(session.ProposalVersionID)
	if err != nil {
		return err
	}
	if _, exists := r.s.sessions[session.TokenHash]; exists {
		return apperror.New(apperror.ErrCodeConstraintViolation, "токен уже существует")
	}
	session.ProposalID = v.ProposalID
	session.OrgID = v.OrgID
	r.s.sessions[session.TokenHash] = &sessionRecord{session: *session}

	if p, ok := r.s.proposals[v.ProposalID]; ok && p.Status == valueobject.ProposalStatusDraft {
		p.Status = valueobject.ProposalStatusSent
	}
	return nil
}

func (r *SigningRepo) FindForSigning(_ context.Context, tokenHash string) (*entity.SigningView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return nil, r.s.StoreErr
	}
	rec, ok := r.s.sessions[tokenHash]
	if !ok || !rec.session.IsUsable(r.s.Now()) {
		return nil, nil
	}
	v, err := r.s.findVersion(rec.session.ProposalVersionID)
	if err != nil {
		return nil, nil
	}
	view := &entity.SigningView{
		VersionID:     v.ID,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		SignerEmail:   rec.session.SignerEmail,
		ExpiresAt:     rec.session.ExpiresAt,
	}
	if p, ok := r.s.proposals[v.ProposalID]; ok {
		view.ProposalName = p.Name
		if org, ok := r.s.orgs[p.OrgID]; ok {
			view.OrgName = org.Name
		}
		if project, ok := r.s.projects[p.ProjectID]; ok {
			if c, ok := r.s.clients[project.ClientID]; ok {
				view.ClientName = c.Name
			}
		}
	}
	return view, nil
}

func (r *SigningRepo) Sign(_ context.Context, tokenHash string, sig entity.Signature) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return false, r.s.StoreErr
	}
	if !sig.Consent || strings.TrimSpace(sig.SignerName) == "" {
		return false, nil
	}
	rec, ok := r.s.sessions[tokenHash]
	if !ok {
		return false, nil
	}
	now := r.s.Now()
	if !rec.session.IsUsable(now) {
		if rec.session.Status == valueobject.SigningStatusPending {
			rec.session.Status = valueobject.SigningStatusExpired
		}
		return false, nil
	}

	name := sig.SignerName
	rec.session.Status = valueobject.SigningStatusSigned
	rec.session.SignerName = &name
	rec.session.SignedAt = &now
	rec.signature = &sig

	if p, ok := r.s.proposals[rec.session.ProposalID]; ok {
		p.Status = valueobject.ProposalStatusSigned
		p.UpdatedAt = now
	}
	return true, nil
}

func (r *SigningRepo) FindByTokenHash(_ context.Context, tokenHash string) (*entity.SigningSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.sessions[tokenHash]
	if !ok {
		return nil, apperror.ErrTokenUnusable
	}
	cp := rec.session
	return &cp, nil
}

func (r *SigningRepo) ExpireOverdue(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.StoreErr != nil {
		return 0, r.s.StoreErr
	}
	now := r.s.Now()
	var n int64
	for _, rec := range r.s.sessions {
		if rec.session.Status == valueobject.SigningStatusPending && !now.Before(rec.session.ExpiresAt) {
			rec.session.Status = valueobject.SigningStatusExpired
			n++
		}
	}
	return n, nil
}
