package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appretention "github.com/invoicemonk/backend/internal/application/retention"
)

// SweepTrigger runs a retention sweep on demand.
type SweepTrigger interface {
	TriggerNow(ctx context.Context) (*appretention.SweepSummary, error)
}

// RetentionHandler handles retention administration endpoints. All routes are
// restricted to the service-account role.
type RetentionHandler struct {
	BaseHandler
	sweepTrigger SweepTrigger
}

// NewRetentionHandler creates a new RetentionHandler
func NewRetentionHandler(sweepTrigger SweepTrigger) *RetentionHandler {
	return &RetentionHandler{
		sweepTrigger: sweepTrigger,
	}
}

// TriggerSweep godoc
// @ID           triggerRetentionSweep
// @Summary      Run a retention sweep now
// @Description  Hard-deletes documents whose retention lock has expired.
// @Description  Safe to call repeatedly; a run with nothing to delete is a no-op.
// @Tags         retention
// @Produce      json
// @Success      200 {object} APIResponse[appretention.SweepSummary]
// @Failure      403 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/retention/sweep [post]
func (h *RetentionHandler) TriggerSweep(c *gin.Context) {
	summary, err := h.sweepTrigger.TriggerNow(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
