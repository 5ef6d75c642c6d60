package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexnest-backend/internal/domain/entity"
	"github.com/ignatzorin/projexnest-backend/internal/domain/repository"
	docexport "github.com/ignatzorin/projexnest-backend/internal/export"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/storage"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
)

// ArtifactStore сохраняет готовые PDF.
type ArtifactStore interface {
	Store(ctx context.Context, objectPath string, data []byte) (*storage.Location, error)
}

type ExportInput struct {
	ProposalID uuid.UUID
	UserID     uuid.UUID
	// VersionNumber 0 означает последнюю версию.
	VersionNumber int
}

type ExportOutput struct {
	Proposal *entity.Proposal
	Version  *entity.ProposalVersion
	Filename string
	Data     []byte
}

// ExportProposalPDFUseCase печатает версию предложения в PDF.
type ExportProposalPDFUseCase struct {
	proposalRepo repository.ProposalRepository
	guard        *access.Guard
	renderer     docexport.PDFRenderer
}

func NewExportProposalPDFUseCase(proposalRepo repository.ProposalRepository, guard *access.Guard, renderer docexport.PDFRenderer) *ExportProposalPDFUseCase {
	return &ExportProposalPDFUseCase{proposalRepo: proposalRepo, guard: guard, renderer: renderer}
}

func (uc *ExportProposalPDFUseCase) Execute(ctx context.Context, input ExportInput) (*ExportOutput, error) {
	detail, err := uc.proposalRepo.FindDetail(ctx, input.ProposalID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperror.ErrProposalNotFound
	}
	if err := uc.guard.RequireMember(ctx, detail.Proposal.OrgID, input.UserID); err != nil {
		return nil, err
	}

	version := detail.LatestVersion()
	if input.VersionNumber > 0 {
		version = detail.Version(input.VersionNumber)
	}
	if version == nil {
		return nil, apperror.ErrVersionNotFound
	}

	header := docexport.Header{
		Title:         detail.Proposal.Name,
		VersionNumber: version.VersionNumber,
		Date:          version.CreatedAt,
	}
	if detail.Client != nil {
		header.ClientName = detail.Client.Name
	}
	if detail.Project != nil {
		header.ProjectName = detail.Project.Name
	}

	html, err := docexport.RenderDocument(header, version.Content)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось подготовить документ")
	}

	pdf, err := uc.renderer.RenderPDF(ctx, html)
	if err != nil {
		logger.Component("export").WithError(err).WithField("proposal_id", detail.Proposal.ID).Error("ошибка генерации PDF")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperror.Wrap(err, apperror.ErrCodeTransport, "генерация PDF не уложилась во время, повторите запрос")
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сгенерировать PDF")
	}

	return &ExportOutput{
		Proposal: detail.Proposal,
		Version:  version,
		Filename: docexport.ProposalFilename(detail.Proposal.ID),
		Data:     pdf,
	}, nil
}

// ArchiveProposalPDFUseCase сохраняет PDF версии в объектное хранилище.
type ArchiveProposalPDFUseCase struct {
	exporter *ExportProposalPDFUseCase
	store    ArtifactStore
}

func NewArchiveProposalPDFUseCase(exporter *ExportProposalPDFUseCase, store ArtifactStore) *ArchiveProposalPDFUseCase {
	return &ArchiveProposalPDFUseCase{exporter: exporter, store: store}
}

func (uc *ArchiveProposalPDFUseCase) Execute(ctx context.Context, input ExportInput) (*storage.Location, error) {
	if uc.store == nil {
		return nil, apperror.New(apperror.ErrCodeTransport, "объектное хранилище не настроено")
	}

	out, err := uc.exporter.Execute(ctx, input)
	if err != nil {
		return nil, err
	}

	objectPath := ArtifactPath(out.Proposal.OrgID, out.Proposal.ID, out.Version.VersionNumber)
	loc, err := uc.store.Store(ctx, objectPath, out.Data)
	if err != nil {
		logger.Component("export").WithError(err).WithFields(logrus.Fields{
			"proposal_id": out.Proposal.ID,
			"path":        objectPath,
		}).Error("не удалось сохранить PDF")
		return nil, apperror.Wrap(err, apperror.ErrCodeTransport, "не удалось сохранить PDF")
	}
	return loc, nil
}

// ArtifactPath путь PDF в бакете: <org>/<proposal>/v<N>.pdf.
func ArtifactPath(orgID, proposalID uuid.UUID, versionNumber int) string {
	return fmt.Sprintf("%s/%s/v%d.pdf", orgID, proposalID, versionNumber)
}
