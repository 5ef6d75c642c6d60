package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
)

type OrganizationRepositoryAdapter struct {
	db *sqlx.DB
}

func NewOrganizationRepositoryAdapter(db *sqlx.DB) *OrganizationRepositoryAdapter {
	return &OrganizationRepositoryAdapter{db: db}
}

func (r *OrganizationRepositoryAdapter) CreateWithOwner(ctx context.Context, org *entity.Organization, owner *entity.Membership) error {
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO organizations (id, name, created_at) VALUES ($1, $2, $3)`,
			org.ID, org.Name, org.CreatedAt,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO org_memberships (org_id, user_id, role, created_at) VALUES ($1, $2, $3, $4)`,
			owner.OrgID, owner.UserID, string(owner.Role), owner.CreatedAt,
		)
		return err
	})
	return apperror.FromDB(err, "не удалось создать организацию")
}

func (r *OrganizationRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Organization, error) {
	var row organizationRow
	query := `SELECT id, name, created_at FROM organizations WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrOrganizationNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить организацию")
	}
	return row.toEntity(), nil
}

func (r *OrganizationRepositoryAdapter) ListByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Organization, error) {
	var rows []organizationRow
	query := `
		SELECT o.id, o.name, o.created_at
		FROM organizations o
		JOIN org_memberships m ON m.org_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at
	`
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить организации")
	}

	result := make([]*entity.Organization, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

type organizationRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (o *organizationRow) toEntity() *entity.Organization {
	return &entity.Organization{ID: o.ID, Name: o.Name, CreatedAt: o.CreatedAt}
}

type MembershipRepositoryAdapter struct {
	db *sqlx.DB
}

func NewMembershipRepositoryAdapter(db *sqlx.DB) *MembershipRepositoryAdapter {
	return &MembershipRepositoryAdapter{db: db}
}

func (r *MembershipRepositoryAdapter) IsMember(ctx context.Context, orgID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM org_memberships WHERE org_id = $1 AND user_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, orgID, userID); err != nil {
		return false, apperror.FromDB(err, "не удалось проверить членство")
	}
	return exists, nil
}

func (r *MembershipRepositoryAdapter) Add(ctx context.Context, m *entity.Membership) error {
	role := m.Role
	if role == "" {
		role = valueobject.MemberRoleMember
	}
	query := `
		INSERT INTO org_memberships (org_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (org_id, user_id) DO UPDATE SET role = EXCLUDED.role
	`
	_, err := r.db.ExecContext(ctx, query, m.OrgID, m.UserID, string(role), m.CreatedAt)
	return apperror.FromDB(err, "не удалось добавить участника")
}
