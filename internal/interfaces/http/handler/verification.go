package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	appdoc "github.com/invoicemonk/backend/internal/application/document"
	"github.com/invoicemonk/backend/internal/domain/shared"
)

// VerificationHandler serves the public document verification endpoint.
// It is unauthenticated; error responses stay generic so that token probing
// reveals nothing beyond token shape.
type VerificationHandler struct {
	BaseHandler
	verificationService *appdoc.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verificationService *appdoc.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
	}
}

// verifyRequest binds the verification query parameter
type verifyRequest struct {
	VerificationID string `form:"verification_id" binding:"required"`
}

// Verify godoc
// @ID           verifyDocument
// @Summary      Verify an issued document
// @Description  Public lookup of an issued document by its verification id.
// @Description  Responds from the frozen snapshot and reports integrity_valid
// @Description  from a hash recompute. Unknown and draft tokens are both 404.
// @Tags         verification
// @Produce      json
// @Param        verification_id query string true "Verification ID"
// @Success      200 {object} APIResponse[appdoc.VerificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /verify [get]
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid verification request")
		return
	}

	resp, err := h.verificationService.Verify(c.Request.Context(), req.VerificationID)
	if err != nil {
		switch {
		case errors.Is(err, appdoc.ErrMalformedVerificationID):
			h.BadRequest(c, "Invalid verification request")
		case errors.Is(err, shared.ErrNotFound):
			h.NotFound(c, "Verification record not found")
		default:
			// Storage failures stay generic on the public surface.
			h.InternalError(c, "Verification is temporarily unavailable")
		}
		return
	}

	h.Success(c, resp)
}
