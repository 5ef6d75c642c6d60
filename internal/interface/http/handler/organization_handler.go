package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexnest-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/client"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/organization"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/project"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/template"
)

// OrganizationHandler обслуживает организации, клиентов, проекты и шаблоны.
type OrganizationHandler struct {
	createOrgUC      *organization.CreateOrganizationUseCase
	listOrgsUC       *organization.ListOrganizationsUseCase
	createClientUC   *client.CreateClientUseCase
	updateClientUC   *client.UpdateClientUseCase
	listClientsUC    *client.ListClientsUseCase
	createProjectUC  *project.CreateProjectUseCase
	updateProjectUC  *project.UpdateProjectUseCase
	completeProjUC   *project.CompleteProjectUseCase
	listProjectsUC   *project.ListProjectsUseCase
	createTemplateUC *template.CreateTemplateUseCase
	listTemplatesUC  *template.ListTemplatesUseCase
}

// OrganizationUseCases набор сценариев для OrganizationHandler.
type OrganizationUseCases struct {
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
}

func NewOrganizationHandler(uc OrganizationUseCases) *OrganizationHandler {
	return &OrganizationHandler{
		createOrgUC:      uc.CreateOrganization,
		listOrgsUC:       uc.ListOrganizations,
		createClientUC:   uc.CreateClient,
		updateClientUC:   uc.UpdateClient,
		listClientsUC:    uc.ListClients,
		createProjectUC:  uc.CreateProject,
		updateProjectUC:  uc.UpdateProject,
		completeProjUC:   uc.CompleteProject,
		listProjectsUC:   uc.ListProjects,
		createTemplateUC: uc.CreateTemplate,
		listTemplatesUC:  uc.ListTemplates,
	}
}

// CreateOrganization POST /api/workflow/organizations
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}

	org, err := h.createOrgUC.Execute(c.Request.Context(), organization.CreateOrganizationInput{
		Name:   req.Name,
		UserID: userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToOrganizationResponse(org))
}

// ListOrganizations GET /api/workflow/organizations
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orgs, err := h.listOrgsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToOrganizationResponses(orgs))
}

// CreateClient POST /api/workflow/clients
func (h *OrganizationHandler) CreateClient(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createClientUC.Execute(c.Request.Context(), client.CreateClientInput{
		OrgID:   req.OrgID,
		UserID:  userID,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToClientResponse(created))
}

// UpdateClient PUT /api/workflow/clients/:id
func (h *OrganizationHandler) UpdateClient(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	clientID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.updateClientUC.Execute(c.Request.Context(), client.UpdateClientInput{
		ClientID: clientID,
		UserID:   userID,
		Patch:    req.Patch(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToClientResponse(updated))
}

// ListClients GET /api/workflow/clients?org_id=
func (h *OrganizationHandler) ListClients(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orgID, ok := orgQuery(c)
	if !ok {
		return
	}
	clients, err := h.listClientsUC.Execute(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToClientResponses(clients))
}

// CreateProject POST /api/workflow/projects
func (h *OrganizationHandler) CreateProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createProjectUC.Execute(c.Request.Context(), project.CreateProjectInput{
		OrgID:    req.OrgID,
		ClientID: req.ClientID,
		UserID:   userID,
		Name:     req.Name,
		Status:   req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToProjectResponse(created))
}

// UpdateProject PUT /api/workflow/projects/:id
func (h *OrganizationHandler) UpdateProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.updateProjectUC.Execute(c.Request.Context(), project.UpdateProjectInput{
		ProjectID: projectID,
		UserID:    userID,
		Name:      req.Name,
		Status:    req.Status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProjectResponse(updated))
}

// CompleteProject POST /api/workflow/projects/:id/complete
func (h *OrganizationHandler) CompleteProject(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	projectID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	completed, err := h.completeProjUC.Execute(c.Request.Context(), projectID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProjectResponse(completed))
}

// ListProjects GET /api/workflow/projects?org_id=
func (h *OrganizationHandler) ListProjects(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orgID, ok := orgQuery(c)
	if !ok {
		return
	}
	projects, err := h.listProjectsUC.Execute(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProjectResponses(projects))
}

// CreateTemplate POST /api/workflow/templates
func (h *OrganizationHandler) CreateTemplate(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.createTemplateUC.Execute(c.Request.Context(), template.CreateTemplateInput{
		OrgID:   req.OrgID,
		UserID:  userID,
		Name:    req.Name,
		Content: req.Content,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToTemplateResponse(created))
}

// ListTemplates GET /api/workflow/templates?org_id=
func (h *OrganizationHandler) ListTemplates(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orgID, ok := orgQuery(c)
	if !ok {
		return
	}
	templates, err := h.listTemplatesUC.Execute(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToTemplateResponses(templates))
}
