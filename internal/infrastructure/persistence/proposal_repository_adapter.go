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

type ProposalRepositoryAdapter struct {
	db *sqlx.DB
}

func NewProposalRepositoryAdapter(db *sqlx.DB) *ProposalRepositoryAdapter {
	return &ProposalRepositoryAdapter{db: db}
}

func (r *ProposalRepositoryAdapter) CreateWithFirstVersion(ctx context.Context, proposal *entity.Proposal, version *entity.ProposalVersion) error {
	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO proposals (id, org_id, project_id, name, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			proposal.ID, proposal.OrgID, proposal.ProjectID, proposal.Name,
			string(proposal.Status), proposal.CreatedAt, proposal.UpdatedAt,
		); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO proposal_versions (id, proposal_id, org_id, version_number, content_json, created_by, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			version.ID, version.ProposalID, version.OrgID, version.VersionNumber,
			version.Content, version.CreatedBy, version.CreatedAt,
		)
		return err
	})
	return apperror.FromDB(err, "не удалось создать предложение")
}

// AppendVersion блокирует строку предложения, поэтому конкурентные
// черновики получают номера без пропусков и повторов.
func (r *ProposalRepositoryAdapter) AppendVersion(ctx context.Context, proposalID uuid.UUID, content valueobject.Content, createdBy uuid.UUID) (*entity.ProposalVersion, error) {
	var version *entity.ProposalVersion

	err := WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var orgID uuid.UUID
		if err := tx.GetContext(ctx, &orgID,
			`SELECT org_id FROM proposals WHERE id = $1 FOR UPDATE`, proposalID,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.ErrProposalNotFound
			}
			return err
		}

		var next int
		if err := tx.GetContext(ctx, &next,
			`SELECT COALESCE(MAX(version_number), 0) + 1 FROM proposal_versions WHERE proposal_id = $1`,
			proposalID,
		); err != nil {
			return err
		}

		v := &entity.ProposalVersion{
			ID:            uuid.New(),
			ProposalID:    proposalID,
			OrgID:         orgID,
			VersionNumber: next,
			Content:       content,
			CreatedBy:     createdBy,
		}
		if err := tx.QueryRowxContext(ctx, `
			INSERT INTO proposal_versions (id, proposal_id, org_id, version_number, content_json, created_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at`,
			v.ID, v.ProposalID, v.OrgID, v.VersionNumber, v.Content, v.CreatedBy,
		).Scan(&v.CreatedAt); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE proposals SET updated_at = NOW() WHERE id = $1`, proposalID,
		); err != nil {
			return err
		}

		version = v
		return nil
	})
	if err != nil {
		return nil, apperror.FromDB(err, "не удалось сохранить версию предложения")
	}
	return version, nil
}

func (r *ProposalRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Proposal, error) {
	var row proposalRow
	query := `
		SELECT id, org_id, project_id, name, status, created_at, updated_at
		FROM proposals WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить предложение")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) FindDetail(ctx context.Context, id uuid.UUID) (*entity.ProposalDetail, error) {
	var row proposalDetailRow
	query := `
		SELECT p.id, p.org_id, p.project_id, p.name, p.status, p.created_at, p.updated_at,
		       pr.name AS project_name, c.id AS client_id, c.name AS client_name, c.email AS client_email
		FROM proposals p
		JOIN projects pr ON pr.id = p.project_id
		JOIN clients c ON c.id = pr.client_id
		WHERE p.id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.FromDB(err, "не удалось получить предложение")
	}

	var versions []proposalVersionRow
	versionsQuery := `
		SELECT id, proposal_id, org_id, version_number, content_json, created_by, created_at
		FROM proposal_versions WHERE proposal_id = $1
		ORDER BY version_number DESC
	`
	if err := r.db.SelectContext(ctx, &versions, versionsQuery, id); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить версии предложения")
	}

	detail := &entity.ProposalDetail{
		Proposal: row.proposalRow.toEntity(),
		Client:   &entity.PartySummary{ID: row.ClientID, Name: row.ClientName, Email: row.ClientEmail},
		Project:  &entity.PartySummary{ID: row.ProjectID, Name: row.ProjectName},
		Versions: make([]*entity.ProposalVersion, len(versions)),
	}
	for i := range versions {
		detail.Versions[i] = versions[i].toEntity()
	}
	return detail, nil
}

func (r *ProposalRepositoryAdapter) FindVersionByID(ctx context.Context, versionID uuid.UUID) (*entity.ProposalVersion, error) {
	var row proposalVersionRow
	query := `
		SELECT id, proposal_id, org_id, version_number, content_json, created_by, created_at
		FROM proposal_versions WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &row, query, versionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrVersionNotFound
		}
		return nil, apperror.FromDB(err, "не удалось получить версию предложения")
	}
	return row.toEntity(), nil
}

func (r *ProposalRepositoryAdapter) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]*entity.ProposalSummary, error) {
	var rows []proposalSummaryRow
	query := `
		SELECT p.id, p.org_id, p.project_id, p.name, p.status, p.created_at, p.updated_at,
		       pr.name AS project_name, c.name AS client_name
		FROM proposals p
		JOIN projects pr ON pr.id = p.project_id
		JOIN clients c ON c.id = pr.client_id
		WHERE p.org_id = $1
		ORDER BY p.updated_at DESC
	`
	if err := r.db.SelectContext(ctx, &rows, query, orgID); err != nil {
		return nil, apperror.FromDB(err, "не удалось получить предложения")
	}

	result := make([]*entity.ProposalSummary, len(rows))
	for i := range rows {
		result[i] = &entity.ProposalSummary{
			Proposal:    rows[i].proposalRow.toEntity(),
			ClientName:  rows[i].ClientName,
			ProjectName: rows[i].ProjectName,
		}
	}
	return result, nil
}

type proposalRow struct {
	ID        uuid.UUID `db:"id"`
	OrgID     uuid.UUID `db:"org_id"`
	ProjectID uuid.UUID `db:"project_id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *proposalRow) toEntity() *entity.Proposal {
	return &entity.Proposal{
		ID:        p.ID,
		OrgID:     p.OrgID,
		ProjectID: p.ProjectID,
		Name:      p.Name,
		Status:    valueobject.ProposalStatus(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type proposalDetailRow struct {
	proposalRow
	ProjectName string    `db:"project_name"`
	ClientID    uuid.UUID `db:"client_id"`
	ClientName  string    `db:"client_name"`
	ClientEmail string    `db:"client_email"`
}

type proposalSummaryRow struct {
	proposalRow
	ProjectName string `db:"project_name"`
	ClientName  string `db:"client_name"`
}

type proposalVersionRow struct {
	ID            uuid.UUID           `db:"id"`
	ProposalID    uuid.UUID           `db:"proposal_id"`
	OrgID         uuid.UUID           `db:"org_id"`
	VersionNumber int                 `db:"version_number"`
	Content       valueobject.Content `db:"content_json"`
	CreatedBy     uuid.UUID           `db:"created_by"`
	CreatedAt     time.Time           `db:"created_at"`
}

func (v *proposalVersionRow) toEntity() *entity.ProposalVersion {
	return &entity.ProposalVersion{
		ID:            v.ID,
		ProposalID:    v.ProposalID,
		OrgID:         v.OrgID,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
	}
}
