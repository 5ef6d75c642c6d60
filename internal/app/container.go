// Package app собирает репозитории и use case'ы поверх одного подключения к базе.
package app

import (
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/projexnest-backend/internal/config"
	"github.com/ignatzorin/projexnest-backend/internal/domain/event"
	docexport "github.com/ignatzorin/projexnest-backend/internal/export"
	"github.com/ignatzorin/projexnest-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/handler"
	"github.com/ignatzorin/projexnest-backend/internal/seed"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/access"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/client"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/export"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/organization"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/project"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/signing"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/template"
)

// Container держит use case'ы приложения.
type Container struct {
	Guard *access.Guard

	CreateOrganization *organization.CreateOrganizationUseCase
	ListOrganizations  *organization.ListOrganizationsUseCase
	CreateClient       *client.CreateClientUseCase
	UpdateClient       *client.UpdateClientUseCase
	ListClients        *client.ListClientsUseCase
	CreateProject      *project.CreateProjectUseCase
	UpdateProject      *project.UpdateProjectUseCase
	CompleteProject    *project.CompleteProjectUseCase
	ListProjects       *project.ListProjectsUseCase
	CreateTemplate     *template.CreateTemplateUseCase
	ListTemplates      *template.ListTemplatesUseCase

	CreateProposal *proposal.CreateProposalUseCase
	SaveDraft      *proposal.SaveDraftUseCase
	GetProposal    *proposal.GetProposalUseCase
	ListProposals  *proposal.ListProposalsUseCase

	GenerateLink   *signing.GenerateLinkUseCase
	GetForSigning  *signing.GetForSigningUseCase
	SignProposal   *signing.SignProposalUseCase
	ExpireSessions *signing.ExpireSessionsUseCase

	ExportPDF  *export.ExportProposalPDFUseCase
	ArchivePDF *export.ArchiveProposalPDFUseCase
}

// Options внешние зависимости, которые отличаются между сервером и CLI.
type Options struct {
	Events   event.Publisher
	Renderer docexport.PDFRenderer
	// Artifacts может быть nil, тогда архивирование PDF отвечает TRANSPORT_ERROR.
	Artifacts export.ArtifactStore
}

func NewContainer(cfg *config.Config, db *sqlx.DB, opts Options) *Container {
	events := opts.Events
	if events == nil {
		events = event.NopPublisher{}
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = docexport.NewChromeRenderer(cfg.ChromePath, cfg.PDFTimeout)
	}

	orgRepo := persistence.NewOrganizationRepositoryAdapter(db)
	memberRepo := persistence.NewMembershipRepositoryAdapter(db)
	clientRepo := persistence.NewClientRepositoryAdapter(db)
	projectRepo := persistence.NewProjectRepositoryAdapter(db)
	templateRepo := persistence.NewTemplateRepositoryAdapter(db)
	proposalRepo := persistence.NewProposalRepositoryAdapter(db)
	signingRepo := persistence.NewSigningRepositoryAdapter(db)

	guard := access.NewGuard(memberRepo)
	exporter := export.NewExportProposalPDFUseCase(proposalRepo, guard, renderer)

	return &Container{
		Guard: guard,

		CreateOrganization: organization.NewCreateOrganizationUseCase(orgRepo),
		ListOrganizations:  organization.NewListOrganizationsUseCase(orgRepo),
		CreateClient:       client.NewCreateClientUseCase(clientRepo, guard),
		UpdateClient:       client.NewUpdateClientUseCase(clientRepo, guard),
		ListClients:        client.NewListClientsUseCase(clientRepo, guard),
		CreateProject:      project.NewCreateProjectUseCase(projectRepo, clientRepo, guard),
		UpdateProject:      project.NewUpdateProjectUseCase(projectRepo, guard),
		CompleteProject:    project.NewCompleteProjectUseCase(projectRepo, guard),
		ListProjects:       project.NewListProjectsUseCase(projectRepo, guard),
		CreateTemplate:     template.NewCreateTemplateUseCase(templateRepo, guard),
		ListTemplates:      template.NewListTemplatesUseCase(templateRepo, guard),

		CreateProposal: proposal.NewCreateProposalUseCase(proposalRepo, templateRepo, projectRepo, guard, events),
		SaveDraft:      proposal.NewSaveDraftUseCase(proposalRepo, guard, events),
		GetProposal:    proposal.NewGetProposalUseCase(proposalRepo, guard),
		ListProposals:  proposal.NewListProposalsUseCase(proposalRepo, guard),

		GenerateLink:   signing.NewGenerateLinkUseCase(signingRepo, proposalRepo, guard, events, cfg.FrontendURL, cfg.SigningLinkTTLDays),
		GetForSigning:  signing.NewGetForSigningUseCase(signingRepo),
		SignProposal:   signing.NewSignProposalUseCase(signingRepo, events),
		ExpireSessions: signing.NewExpireSessionsUseCase(signingRepo),

		ExportPDF:  exporter,
		ArchivePDF: export.NewArchiveProposalPDFUseCase(exporter, opts.Artifacts),
	}
}

func (c *Container) OrganizationHandler() *handler.OrganizationHandler {
	return handler.NewOrganizationHandler(handler.OrganizationUseCases{
		CreateOrganization: c.CreateOrganization,
		ListOrganizations:  c.ListOrganizations,
		CreateClient:       c.CreateClient,
		UpdateClient:       c.UpdateClient,
		ListClients:        c.ListClients,
		CreateProject:      c.CreateProject,
		UpdateProject:      c.UpdateProject,
		CompleteProject:    c.CompleteProject,
		ListProjects:       c.ListProjects,
		CreateTemplate:     c.CreateTemplate,
		ListTemplates:      c.ListTemplates,
	})
}

func (c *Container) ProposalHandler() *handler.ProposalHandler {
	return handler.NewProposalHandler(c.CreateProposal, c.SaveDraft, c.GetProposal, c.ListProposals, c.ExportPDF, c.ArchivePDF)
}

func (c *Container) SigningHandler() *handler.SigningHandler {
	return handler.NewSigningHandler(c.GenerateLink, c.GetForSigning, c.SignProposal)
}

// Seeder демо-данных; seed 0 берёт текущее время.
func (c *Container) Seeder(seedValue int64) *seed.Seeder {
	return seed.NewSeeder(seed.UseCases{
		CreateOrganization: c.CreateOrganization,
		CreateClient:       c.CreateClient,
		CreateProject:      c.CreateProject,
		CreateTemplate:     c.CreateTemplate,
		CreateProposal:     c.CreateProposal,
		GenerateLink:       c.GenerateLink,
	}, seedValue)
}
