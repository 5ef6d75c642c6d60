package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type Proposal struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	ProjectID uuid.UUID
	Name      string
	Status    valueobject.ProposalStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProposal(orgID, projectID uuid.UUID, title string) (*Proposal, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название предложения обязательно")
	}

	now := time.Now()
	return &Proposal{
		ID:        uuid.New(),
		OrgID:     orgID,
		ProjectID: projectID,
		Name:      title,
		Status:    valueobject.ProposalStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Proposal) IsDraft() bool {
	return p.Status == valueobject.ProposalStatusDraft
}

func (p *Proposal) IsSigned() bool {
	return p.Status == valueobject.ProposalStatusSigned
}

// ProposalVersion неизменяемый снимок содержимого предложения.
type ProposalVersion struct {
	ID            uuid.UUID
	ProposalID    uuid.UUID
	OrgID         uuid.UUID
	VersionNumber int
	Content       valueobject.Content
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
}

// FirstVersion создаёт версию 1 для нового предложения.
func (p *Proposal) FirstVersion(content valueobject.Content, createdBy uuid.UUID) *ProposalVersion {
	return &ProposalVersion{
		ID:            uuid.New(),
		ProposalID:    p.ID,
		OrgID:         p.OrgID,
		VersionNumber: 1,
		Content:       content,
		CreatedBy:     createdBy,
		CreatedAt:     p.CreatedAt,
	}
}

// PartySummary краткие данные связанной сущности (клиент, проект).
type PartySummary struct {
	ID    uuid.UUID
	Name  string
	Email string
}

// ProposalDetail предложение вместе с клиентом, проектом и всеми версиями.
// Versions отсортированы по убыванию номера.
type ProposalDetail struct {
	Proposal *Proposal
	Client   *PartySummary
	Project  *PartySummary
	Versions []*ProposalVersion
}

// LatestVersion возвращает последнюю версию или nil.
func (d *ProposalDetail) LatestVersion() *ProposalVersion {
	if len(d.Versions) == 0 {
		return nil
	}
	return d.Versions[0]
}

// Version ищет версию по номеру.
func (d *ProposalDetail) Version(number int) *ProposalVersion {
	for _, v := range d.Versions {
		if v.VersionNumber == number {
			return v
		}
	}
	return nil
}

// ProposalSummary строка списка предложений.
type ProposalSummary struct {
	Proposal    *Proposal
	ClientName  string
	ProjectName string
}
