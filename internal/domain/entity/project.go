package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type Project struct {
	ID         uuid.UUID
	OrgID      uuid.UUID
	ClientID   uuid.UUID
	Name       string
	Status     valueobject.ProjectStatus
	ClientName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewProject(orgID, clientID uuid.UUID, name string, status valueobject.ProjectStatus) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}
	if clientID == uuid.Nil {
		return nil, apperror.New(apperror.ErrCodeValidation, "клиент проекта обязателен")
	}
	if status == "" {
		status = valueobject.ProjectStatusLead
	}
	if !status.IsValid() {
		return nil, apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}

	now := time.Now()
	return &Project{
		ID:        uuid.New(),
		OrgID:     orgID,
		ClientID:  clientID,
		Name:      name,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.New(apperror.ErrCodeValidation, "название проекта обязательно")
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Project) SetStatus(status valueobject.ProjectStatus) error {
	if !status.IsValid() {
		return apperror.New(apperror.ErrCodeValidation, "некорректный статус проекта")
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func (p *Project) Complete() {
	p.Status = valueobject.ProjectStatusCompleted
	p.UpdatedAt = time.Now()
}
