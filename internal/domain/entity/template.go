package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

const DefaultTemplateType = "client_proposal"

type Template struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Name         string
	Content      valueobject.Content
	TemplateType string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewTemplate(orgID uuid.UUID, name string, content valueobject.Content) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название шаблона обязательно")
	}
	if content.IsZero() {
		return nil, apperror.New(apperror.ErrCodeValidation, "содержимое шаблона обязательно")
	}

	now := time.Now()
	return &Template{
		ID:           uuid.New(),
		OrgID:        orgID,
		Name:         name,
		Content:      content,
		TemplateType: DefaultTemplateType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (t *Template) BelongsTo(orgID uuid.UUID) bool {
	return t.OrgID == orgID
}
