package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appdoc "github.com/invoicemonk/backend/internal/application/document"
)

// DocumentHandler handles document lifecycle API endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *appdoc.DocumentService
	issuanceService *appdoc.IssuanceService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *appdoc.DocumentService, issuanceService *appdoc.IssuanceService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		issuanceService: issuanceService,
	}
}

// Create godoc
// @ID           createDocument
// @Summary      Create a draft document
// @Description  Create a new draft invoice, receipt or credit note
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        request body appdoc.CreateDocumentRequest true "Document creation request"
// @Success      201 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var req appdoc.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if userID, err := getUserID(c); err == nil {
		req.CreatedBy = &userID
	}

	resp, err := h.documentService.CreateDraft(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get godoc
// @ID           getDocument
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [get]
func (h *DocumentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documentService.GetByID(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @ID           listDocuments
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        type query string false "Document type filter"
// @Param        status query string false "Status filter"
// @Param        client_id query string false "Client filter"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]appdoc.DocumentListResponse]
// @Security     BearerAuth
// @Router       /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var query appdoc.ListDocumentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.List(c.Request.Context(), tenantID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateDraft godoc
// @ID           updateDraftDocument
// @Summary      Update a draft document
// @Description  Replace line items or notes on a draft. Issued documents reject updates.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        request body appdoc.UpdateDraftRequest true "Draft update request"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [put]
func (h *DocumentHandler) UpdateDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appdoc.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.documentService.UpdateDraft(c.Request.Context(), tenantID, documentID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// DeleteDraft godoc
// @ID           deleteDraftDocument
// @Summary      Delete a draft document
// @Description  Only drafts can be deleted. Issued documents are voided instead.
// @Tags         documents
// @Param        id path string true "Document ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func (h *DocumentHandler) DeleteDraft(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	if err := h.documentService.DeleteDraft(c.Request.Context(), tenantID, documentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Issue godoc
// @ID           issueDocument
// @Summary      Issue a draft document
// @Description  Atomically allocates the document number, freezes the snapshot,
// @Description  computes the content hash and assigns the verification id.
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/issue [post]
func (h *DocumentHandler) Issue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.issuanceService.Issue(c.Request.Context(), tenantID, documentID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkSent godoc
// @ID           markDocumentSent
// @Summary      Mark an issued document as sent
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/send [post]
func (h *DocumentHandler) MarkSent(c *gin.Context) {
	h.transition(c, h.documentService.MarkSent)
}

// MarkViewed godoc
// @ID           markDocumentViewed
// @Summary      Mark a sent document as viewed
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/view [post]
func (h *DocumentHandler) MarkViewed(c *gin.Context) {
	h.transition(c, h.documentService.MarkViewed)
}

// RecordPayment godoc
// @ID           recordDocumentPayment
// @Summary      Record a payment against an invoice
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        request body appdoc.RecordPaymentRequest true "Payment request"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/payments [post]
func (h *DocumentHandler) RecordPayment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appdoc.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.documentService.RecordPayment(c.Request.Context(), tenantID, documentID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Void godoc
// @ID           voidDocument
// @Summary      Void an issued document
// @Description  Voiding keeps the document and its integrity fields; it is the
// @Description  only correction path for issued documents.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id path string true "Document ID"
// @Param        request body appdoc.VoidDocumentRequest true "Void request"
// @Success      200 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/void [post]
func (h *DocumentHandler) Void(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req appdoc.VoidDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.documentService.Void(c.Request.Context(), tenantID, documentID, actor, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateCreditNote godoc
// @ID           createCreditNote
// @Summary      Credit an issued invoice
// @Description  Creates a draft credit note linked to the invoice via
// @Description  credited_document_id and marks the invoice credited.
// @Tags         documents
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      201 {object} APIResponse[appdoc.DocumentResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /documents/{id}/credit-note [post]
func (h *DocumentHandler) CreateCreditNote(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	actor, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User not resolved")
		return
	}

	invoiceID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := h.documentService.CreateCreditNote(c.Request.Context(), tenantID, invoiceID, actor)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// transition handles the shared shape of the simple lifecycle transitions.
func (h *DocumentHandler) transition(
	c *gin.Context,
	apply func(ctx context.Context, tenantID, documentID uuid.UUID) (*appdoc.DocumentResponse, error),
) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	documentID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	resp, err := apply(c.Request.Context(), tenantID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
