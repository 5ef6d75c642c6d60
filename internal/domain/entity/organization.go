package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type Organization struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Membership struct {
	OrgID     uuid.UUID
	UserID    uuid.UUID
	Role      valueobject.MemberRole
	CreatedAt time.Time
}

func NewOrganization(name string) (*Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.New(apperror.ErrCodeValidation, "название организации обязательно")
	}
	return &Organization{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// OwnerMembership возвращает членство создателя организации.
func (o *Organization) OwnerMembership(userID uuid.UUID) *Membership {
	return &Membership{
		OrgID:     o.ID,
		UserID:    userID,
		Role:      valueobject.MemberRoleOwner,
		CreatedAt: o.CreatedAt,
	}
}
