package valueobject

import "github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"

type ProjectStatus string

const (
	ProjectStatusLead      ProjectStatus = "lead"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusLead, ProjectStatusActive, ProjectStatusCompleted:
		return true
	}
	return false
}

func NewProjectStatus(status string) (ProjectStatus, error) {
	if status == "" {
		return ProjectStatusLead, nil
	}
	s := ProjectStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	return s, nil
}

type ProposalStatus string

const (
	ProposalStatusDraft    ProposalStatus = "draft"
	ProposalStatusSent     ProposalStatus = "sent"
	ProposalStatusSigned   ProposalStatus = "signed"
	ProposalStatusDeclined ProposalStatus = "declined"
	ProposalStatusArchived ProposalStatus = "archived"
)

func (s ProposalStatus) IsValid() bool {
	switch s {
	case ProposalStatusDraft, ProposalStatusSent, ProposalStatusSigned, ProposalStatusDeclined, ProposalStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo описывает допустимые переходы статуса предложения.
func (s ProposalStatus) CanTransitionTo(newStatus ProposalStatus) bool {
	transitions := map[ProposalStatus][]ProposalStatus{
		ProposalStatusDraft:    {ProposalStatusSent, ProposalStatusArchived},
		ProposalStatusSent:     {ProposalStatusSigned, ProposalStatusDeclined, ProposalStatusArchived},
		ProposalStatusSigned:   {ProposalStatusArchived},
		ProposalStatusDeclined: {ProposalStatusArchived},
		ProposalStatusArchived: {},
	}

	for _, status := range transitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewProposalStatus(status string) (ProposalStatus, error) {
	s := ProposalStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения")
	}
	return s, nil
}

type SigningStatus string

const (
	SigningStatusPending SigningStatus = "pending"
	SigningStatusSigned  SigningStatus = "signed"
	SigningStatusExpired SigningStatus = "expired"
)

func (s SigningStatus) IsValid() bool {
	switch s {
	case SigningStatusPending, SigningStatusSigned, SigningStatusExpired:
		return true
	}
	return false
}

// IsTerminal сообщает, что из статуса больше нет переходов.
func (s SigningStatus) IsTerminal() bool {
	return s == SigningStatusSigned || s == SigningStatusExpired
}

func NewSigningStatus(status string) (SigningStatus, error) {
	s := SigningStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус сессии подписи")
	}
	return s, nil
}

type MemberRole string

const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleAdmin  MemberRole = "admin"
	MemberRoleMember MemberRole = "member"
)
