// Package seed наполняет базу демонстрационными данными.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/projexnest-backend/internal/domain/valueobject"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/client"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/organization"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/project"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/signing"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/template"
)

const (
	demoOrgName      = "Demo Construction Co."
	demoTemplateName = "Standard Bathroom Remodel"
	demoClientCount  = 5
	demoProposals    = 2
	demoSignerEmail  = "client@example.com"
)

var demoTemplateContent = valueobject.Content(`{"sections":[` +
	`{"title":"Scope","content":"Full demo and rebuild."},` +
	`{"title":"Payment","content":"50% down, 50% completion."}]}`)

var projectStatuses = []string{"lead", "active", "completed"}

// UseCases сценарии, через которые проходит наполнение.
type UseCases struct {
	CreateOrganization *organization.CreateOrganizationUseCase
	CreateClient       *client.CreateClientUseCase
	CreateProject      *project.CreateProjectUseCase
	CreateTemplate     *template.CreateTemplateUseCase
	CreateProposal     *proposal.CreateProposalUseCase
	GenerateLink       *signing.GenerateLinkUseCase
}

// Result созданные идентификаторы.
type Result struct {
	OrgID        uuid.UUID   `json:"org_id"`
	ClientIDs    []uuid.UUID `json:"client_ids"`
	ProjectIDs   []uuid.UUID `json:"project_ids"`
	TemplateID   uuid.UUID   `json:"template_id"`
	ProposalIDs  []uuid.UUID `json:"proposal_ids"`
	SigningLinks []string    `json:"signing_links"`
}

// Seeder создаёт демо организацию с клиентами, проектами, шаблоном и предложениями.
type Seeder struct {
	uc  UseCases
	rnd *rand.Rand
}

// NewSeeder создаёт наполнитель. seed задаёт случайные статусы и выдачу ссылок.
func NewSeeder(uc UseCases, seed int64) *Seeder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Seeder{uc: uc, rnd: rand.New(rand.NewSource(seed))}
}

// Run наполняет данные от имени ownerID, который становится владельцем организации.
func (s *Seeder) Run(ctx context.Context, ownerID uuid.UUID) (*Result, error) {
	log := logger.Component("seed")

	org, err := s.uc.CreateOrganization.Execute(ctx, organization.CreateOrganizationInput{
		Name:   demoOrgName,
		UserID: ownerID,
	})
	if err != nil {
		return nil, fmt.Errorf("seed: организация: %w", err)
	}
	result := &Result{OrgID: org.ID}

	type demoProject struct {
		id   uuid.UUID
		name string
	}
	var projects []demoProject

	for i := 1; i <= demoClientCount; i++ {
		c, err := s.uc.CreateClient.Execute(ctx, client.CreateClientInput{
			OrgID:  org.ID,
			UserID: ownerID,
			Name:   fmt.Sprintf("Client %d Homeowner", i),
			Email:  fmt.Sprintf("client%d@example.com", i),
		})
		if err != nil {
			return nil, fmt.Errorf("seed: клиент %d: %w", i, err)
		}
		result.ClientIDs = append(result.ClientIDs, c.ID)

		p, err := s.uc.CreateProject.Execute(ctx, project.CreateProjectInput{
			OrgID:    org.ID,
			ClientID: c.ID,
			UserID:   ownerID,
			Name:     c.Name + "'s Renovation",
			Status:   projectStatuses[s.rnd.Intn(len(projectStatuses))],
		})
		if err != nil {
			return nil, fmt.Errorf("seed: проект %d: %w", i, err)
		}
		result.ProjectIDs = append(result.ProjectIDs, p.ID)
		projects = append(projects, demoProject{id: p.ID, name: p.Name})
	}

	tpl, err := s.uc.CreateTemplate.Execute(ctx, template.CreateTemplateInput{
		OrgID:   org.ID,
		UserID:  ownerID,
		Name:    demoTemplateName,
		Content: demoTemplateContent,
	})
	if err != nil {
		return nil, fmt.Errorf("seed: шаблон: %w", err)
	}
	result.TemplateID = tpl.ID

	signer := demoSignerEmail
	for _, p := range projects[:demoProposals] {
		out, err := s.uc.CreateProposal.Execute(ctx, proposal.CreateProposalInput{
			OrgID:      org.ID,
			ProjectID:  p.id,
			TemplateID: tpl.ID,
			Title:      "Proposal for " + p.name,
			UserID:     ownerID,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: предложение: %w", err)
		}
		result.ProposalIDs = append(result.ProposalIDs, out.Proposal.ID)

		if s.rnd.Intn(2) == 0 {
			continue
		}
		link, err := s.uc.GenerateLink.Execute(ctx, signing.GenerateLinkInput{
			VersionID:   out.Version.ID,
			SignerEmail: &signer,
			UserID:      ownerID,
		})
		if err != nil {
			return nil, fmt.Errorf("seed: ссылка на подпись: %w", err)
		}
		result.SigningLinks = append(result.SigningLinks, link.URL)
	}

	log.WithFields(logrus.Fields{
		"org_id":    result.OrgID,
		"clients":   len(result.ClientIDs),
		"proposals": len(result.ProposalIDs),
		"links":     len(result.SigningLinks),
	}).Info("демо данные созданы")
	return result, nil
}
