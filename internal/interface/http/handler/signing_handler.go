package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/projexnest-backend/internal/interface/http/dto"
	"github.com/ignatzorin/projexnest-backend/internal/interface/http/response"
	"github.com/ignatzorin/projexnest-backend/internal/logger"
	"github.com/ignatzorin/projexnest-backend/internal/pkg/apperror"
	"github.com/ignatzorin/projexnest-backend/internal/usecase/signing"
)

// Публичные ответы не раскрывают причину отказа.
const (
	publicNotFoundMessage   = "Proposal not found or link expired"
	publicSignFailedMessage = "Signing failed or link expired"
)

type SigningHandler struct {
	generateLinkUC  *signing.GenerateLinkUseCase
	getForSigningUC *signing.GetForSigningUseCase
	signUC          *signing.SignProposalUseCase
}

func NewSigningHandler(
	generateLinkUC *signing.GenerateLinkUseCase,
	getForSigningUC *signing.GetForSigningUseCase,
	signUC *signing.SignProposalUseCase,
) *SigningHandler {
	return &SigningHandler{
		generateLinkUC:  generateLinkUC,
		getForSigningUC: getForSigningUC,
		signUC:          signUC,
	}
}

// CreateSigningLink POST /api/workflow/signing-links
func (h *SigningHandler) CreateSigningLink(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateSigningLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	out, err := h.generateLinkUC.Execute(c.Request.Context(), signing.GenerateLinkInput{
		VersionID:     req.ProposalVersionID,
		SignerEmail:   req.SignerEmail,
		ExpiresInDays: req.ExpiresInDays,
		UserID:        userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SigningLinkResponse{
		Token:     out.Token,
		URL:       out.URL,
		SessionID: out.SessionID,
		ExpiresAt: out.ExpiresAt,
	})
}

// GetPublicProposal GET /api/public/proposals/:token
func (h *SigningHandler) GetPublicProposal(c *gin.Context) {
	view, err := h.getForSigningUC.Execute(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if view == nil {
		response.NotFound(c, publicNotFoundMessage)
		return
	}
	response.Success(c, dto.ToPublicProposalResponse(view))
}

// SignPublicProposal POST /api/public/proposals/sign
func (h *SigningHandler) SignPublicProposal(c *gin.Context) {
	var req dto.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, publicSignFailedMessage)
		return
	}

	ok, err := h.signUC.Execute(c.Request.Context(), signing.SignInput{
		Token:         req.Token,
		SignerName:    req.SignatureName,
		SignatureData: req.SignatureData,
		UserAgent:     c.Request.UserAgent(),
		Consent:       req.ConsentGiven(),
	})
	if err != nil && apperror.IsValidation(err) {
		logger.Component("signing").WithError(err).Debug("подпись отклонена")
		response.BadRequest(c, publicSignFailedMessage)
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.BadRequest(c, publicSignFailedMessage)
		return
	}
	response.Success(c, dto.SignResponse{Signed: true})
}
