// Package access проверяет членство пользователя в организации.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type Guard struct {
	members repository.MembershipRepository
}

func NewGuard(members repository.MembershipRepository) *Guard {
	return &Guard{members: members}
}

// RequireMember возвращает ErrNotMember, если userID не состоит в orgID.
func (g *Guard) RequireMember(ctx context.Context, orgID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return apperror.ErrUnauthorized
	}
	ok, err := g.members.IsMember(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrNotMember
	}
	return nil
}
