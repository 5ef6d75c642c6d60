package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexnest-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/export"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/proposal"
)

type ProposalHandler struct {
	createProposalUC *proposal.CreateProposalUseCase
	saveDraftUC      *proposal.SaveDraftUseCase
	getProposalUC    *proposal.GetProposalUseCase
	listProposalsUC  *proposal.ListProposalsUseCase
	exportPDFUC      *export.ExportProposalPDFUseCase
	archivePDFUC     *export.ArchiveProposalPDFUseCase
}

func NewProposalHandler(
	createProposalUC *proposal.CreateProposalUseCase,
	saveDraftUC *proposal.SaveDraftUseCase,
	getProposalUC *proposal.GetProposalUseCase,
	listProposalsUC *proposal.ListProposalsUseCase,
	exportPDFUC *export.ExportProposalPDFUseCase,
	archivePDFUC *export.ArchiveProposalPDFUseCase,
) *ProposalHandler {
	return &ProposalHandler{
		createProposalUC: createProposalUC,
		saveDraftUC:      saveDraftUC,
		getProposalUC:    getProposalUC,
		listProposalsUC:  listProposalsUC,
		exportPDFUC:      exportPDFUC,
		archivePDFUC:     archivePDFUC,
	}
}

// CreateProposal POST /api/workflow/proposals
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateProposalRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.createProposalUC.Execute(c.Request.Context(), proposal.CreateProposalInput{
		OrgID:      req.OrgID,
		ProjectID:  req.ProjectID,
		TemplateID: req.TemplateID,
		Title:      req.Title,
		UserID:     userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CreateProposalResponse{
		Proposal: dto.ToProposalResponse(out.Proposal),
		Version:  dto.ToVersionResponse(out.Version),
	})
}

// ListProposals GET /api/workflow/proposals?org_id=
func (h *ProposalHandler) ListProposals(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orgID, ok := orgQuery(c)
	if !ok {
		return
	}

	items, err := h.listProposalsUC.Execute(c.Request.Context(), orgID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProposalSummaryResponses(items))
}

// GetProposal GET /api/workflow/proposals/:id
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	proposalID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	detail, err := h.getProposalUC.Execute(c.Request.Context(), proposalID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto.ToProposalDetailResponse(detail))
}

// SaveDraft POST /api/workflow/proposals/draft
func (h *ProposalHandler) SaveDraft(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.SaveDraftRequest
	if !bindJSON(c, &req) {
		return
	}

	version, err := h.saveDraftUC.Execute(c.Request.Context(), proposal.SaveDraftInput{
		ProposalID: req.ProposalID,
		Content:    req.Content,
		UserID:     userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.ToVersionResponse(version))
}

// ExportPDF GET /api/workflow/proposals/:id/pdf?version=N
func (h *ProposalHandler) ExportPDF(c *gin.Context) {
	input, ok := exportInput(c)
	if !ok {
		return
	}

	out, err := h.exportPDFUC.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, out.Filename, "application/pdf", out.Data)
}

// ArchivePDF POST /api/workflow/proposals/:id/pdf/archive?version=N
func (h *ProposalHandler) ArchivePDF(c *gin.Context) {
	input, ok := exportInput(c)
	if !ok {
		return
	}

	loc, err := h.archivePDFUC.Execute(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, loc)
}

func exportInput(c *gin.Context) (export.ExportInput, bool) {
	userID, ok := requireUser(c)
	if !ok {
		return export.ExportInput{}, false
	}
	proposalID, ok := pathUUID(c, "id")
	if !ok {
		return export.ExportInput{}, false
	}

	input := export.ExportInput{ProposalID: proposalID, UserID: userID}
	if raw := c.Query("version"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.BadRequest(c, "параметр version должен быть положительным числом")
			return export.ExportInput{}, false
		}
		input.VersionNumber = n
	}
	return input, true
}
