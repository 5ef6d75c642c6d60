package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateClientRequest struct {
	OrgID   uuid.UUID `json:"org_id" binding:"required"`
	Name    string    `json:"name" binding:"required"`
	Email   string    `json:"email" binding:"required"`
	Phone   *string   `json:"phone"`
	Address *string   `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r UpdateClientRequest) Patch() entity.ClientPatch {
	return entity.ClientPatch{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

type CreateProjectRequest struct {
	OrgID    uuid.UUID `json:"org_id" binding:"required"`
	ClientID uuid.UUID `json:"client_id" binding:"required"`
	Name     string    `json:"name" binding:"required"`
	Status   string    `json:"status"`
}

type UpdateProjectRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
}

type CreateTemplateRequest struct {
	OrgID   uuid.UUID           `json:"org_id" binding:"required"`
	Name    string              `json:"name" binding:"required"`
	Content valueobject.Content `json:"content" binding:"required"`
}

type CreateProposalRequest struct {
	OrgID      uuid.UUID `json:"org_id" binding:"required"`
	ProjectID  uuid.UUID `json:"project_id" binding:"required"`
	TemplateID uuid.UUID `json:"template_id" binding:"required"`
	Title      string    `json:"title" binding:"required"`
}

// SaveDraftRequest автор версии берётся из токена.
type SaveDraftRequest struct {
	ProposalID uuid.UUID           `json:"proposal_id" binding:"required"`
	Content    valueobject.Content `json:"content" binding:"required"`
}

type CreateSigningLinkRequest struct {
	ProposalVersionID uuid.UUID `json:"proposal_version_id" binding:"required"`
	SignerEmail       *string   `json:"signer_email"`
	ExpiresInDays     int       `json:"expires_in_days"`
}

// SignRequest тело публичной подписи. Отсутствующий consent считается согласием.
type SignRequest struct {
	Token         string `json:"token" binding:"required"`
	SignatureName string `json:"signature_name" binding:"required"`
	SignatureData string `json:"signature_data" binding:"required"`
	Consent       *bool  `json:"consent"`
}

func (r SignRequest) ConsentGiven() bool {
	return r.Consent == nil || *r.Consent
}

type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func ToOrganizationResponse(o *entity.Organization) OrganizationResponse {
	return OrganizationResponse{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

func ToOrganizationResponses(orgs []*entity.Organization) []OrganizationResponse {
	responses := make([]OrganizationResponse, 0, len(orgs))
	for _, o := range orgs {
		responses = append(responses, ToOrganizationResponse(o))
	}
	return responses
}

type ClientResponse struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		OrgID:     c.OrgID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToClientResponses(clients []*entity.Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, ToClientResponse(c))
	}
	return responses
}

type ProjectResponse struct {
	ID         uuid.UUID `json:"id"`
	OrgID      uuid.UUID `json:"org_id"`
	ClientID   uuid.UUID `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToProjectResponse(p *entity.Project) ProjectResponse {
	return ProjectResponse{
		ID:         p.ID,
		OrgID:      p.OrgID,
		ClientID:   p.ClientID,
		ClientName: p.ClientName,
		Name:       p.Name,
		Status:     string(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*entity.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, ToProjectResponse(p))
	}
	return responses
}

type TemplateResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrgID        uuid.UUID           `json:"org_id"`
	Name         string              `json:"name"`
	TemplateType string              `json:"template_type"`
	Content      valueobject.Content `json:"content"`
	CreatedAt    time.Time           `json:"created_at"`
}

func ToTemplateResponse(t *entity.Template) TemplateResponse {
	return TemplateResponse{
		ID:           t.ID,
		OrgID:        t.OrgID,
		Name:         t.Name,
		TemplateType: t.TemplateType,
		Content:      t.Content,
		CreatedAt:    t.CreatedAt,
	}
}

func ToTemplateResponses(templates []*entity.Template) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		responses = append(responses, ToTemplateResponse(t))
	}
	return responses
}

type ProposalResponse struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"org_id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToProposalResponse(p *entity.Proposal) ProposalResponse {
	return ProposalResponse{
		ID:        p.ID,
		OrgID:     p.OrgID,
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type VersionResponse struct {
	ID            uuid.UUID           `json:"id"`
	ProposalID    uuid.UUID           `json:"proposal_id"`
	VersionNumber int                 `json:"version_number"`
	Content       valueobject.Content `json:"content"`
	CreatedBy     uuid.UUID           `json:"created_by"`
	CreatedAt     time.Time           `json:"created_at"`
}

func ToVersionResponse(v *entity.ProposalVersion) VersionResponse {
	return VersionResponse{
		ID:            v.ID,
		ProposalID:    v.ProposalID,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}

type CreateProposalResponse struct {
	Proposal ProposalResponse `json:"proposal"`
	Version  VersionResponse  `json:"version"`
}

type PartyResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

func toPartyResponse(p *entity.PartySummary) *PartyResponse {
	if p == nil {
		return nil
	}
	return &PartyResponse{ID: p.ID, Name: p.Name, Email: p.Email}
}

// ProposalDetailResponse версии отсортированы от новой к старой.
type ProposalDetailResponse struct {
	ProposalResponse
	Client   *PartyResponse    `json:"client"`
	Project  *PartyResponse    `json:"project"`
	Total    string            `json:"total,omitempty"`
	Versions []VersionResponse `json:"versions"`
}

func ToProposalDetailResponse(d *entity.ProposalDetail) ProposalDetailResponse {
	resp := ProposalDetailResponse{
		ProposalResponse: ToProposalResponse(d.Proposal),
		Client:           toPartyResponse(d.Client),
		Project:          toPartyResponse(d.Project),
		Versions:         make([]VersionResponse, 0, len(d.Versions)),
	}
	for _, v := range d.Versions {
		resp.Versions = append(resp.Versions, ToVersionResponse(v))
	}
	if latest := d.LatestVersion(); latest != nil {
		if doc := latest.Content.Document(); len(doc.Pricing) > 0 {
			resp.Total = doc.Total().String()
		}
	}
	return resp
}

type ProposalSummaryResponse struct {
	ProposalResponse
	ClientName  string `json:"client_name"`
	ProjectName string `json:"project_name"`
}

func ToProposalSummaryResponses(items []*entity.ProposalSummary) []ProposalSummaryResponse {
	responses := make([]ProposalSummaryResponse, 0, len(items))
	for _, s := range items {
		responses = append(responses, ProposalSummaryResponse{
			ProposalResponse: ToProposalResponse(s.Proposal),
			ClientName:       s.ClientName,
			ProjectName:      s.ProjectName,
		})
	}
	return responses
}

type SigningLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	SessionID uuid.UUID `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PublicProposalResponse то, что видит подписант по ссылке.
type PublicProposalResponse struct {
	ProposalName  string              `json:"proposal_name"`
	VersionID     uuid.UUID           `json:"version_id"`
	VersionNumber int                 `json:"version_number"`
	Content       valueobject.Content `json:"content"`
	SignerEmail   *string             `json:"signer_email"`
	ExpiresAt     time.Time           `json:"expires_at"`
	OrgName       string              `json:"org_name"`
	ClientName    string              `json:"client_name"`
}

func ToPublicProposalResponse(v *entity.SigningView) PublicProposalResponse {
	return PublicProposalResponse{
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

type SignResponse struct {
	Signed bool `json:"signed"`
}
