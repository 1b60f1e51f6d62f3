package handler

import (
	"github.com/gin-gonic/gin"

	appdir "github.com/invoicemonk/backend/internal/application/directory"
)

// DirectoryHandler handles business profile and client API endpoints.
// Profiles and clients are the mutable sources the issuance snapshot copies
// from; editing them never rewrites issued documents.
type DirectoryHandler struct {
	BaseHandler
	directoryService *appdir.DirectoryService
}

// NewDirectoryHandler creates a new DirectoryHandler
func NewDirectoryHandler(directoryService *appdir.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{
		directoryService: directoryService,
	}
}

// CreateBusinessProfile godoc
// @ID           createBusinessProfile
// @Summary      Create the tenant's business profile
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        request body appdir.CreateBusinessProfileRequest true "Profile creation request"
// @Success      201 {object} APIResponse[appdir.BusinessProfileResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-profile [post]
func (h *DirectoryHandler) CreateBusinessProfile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var req appdir.CreateBusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.directoryService.CreateBusinessProfile(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetBusinessProfile godoc
// @ID           getBusinessProfile
// @Summary      Get the tenant's business profile
// @Tags         directory
// @Produce      json
// @Success      200 {object} APIResponse[appdir.BusinessProfileResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-profile [get]
func (h *DirectoryHandler) GetBusinessProfile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	resp, err := h.directoryService.GetBusinessProfile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateBusinessProfile godoc
// @ID           updateBusinessProfile
// @Summary      Update the tenant's business profile
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        request body appdir.UpdateBusinessProfileRequest true "Profile update request"
// @Success      200 {object} APIResponse[appdir.BusinessProfileResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-profile [put]
func (h *DirectoryHandler) UpdateBusinessProfile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var req appdir.UpdateBusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.directoryService.UpdateBusinessProfile(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkEmailVerified godoc
// @ID           markBusinessEmailVerified
// @Summary      Mark the tenant's business email as verified
// @Description  Issuance is gated on a verified business email.
// @Tags         directory
// @Produce      json
// @Success      200 {object} APIResponse[appdir.BusinessProfileResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business-profile/verify-email [post]
func (h *DirectoryHandler) MarkEmailVerified(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	resp, err := h.directoryService.MarkEmailVerified(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CreateClient godoc
// @ID           createClient
// @Summary      Add a client
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        request body appdir.CreateClientRequest true "Client creation request"
// @Success      201 {object} APIResponse[appdir.ClientResponse]
// @Security     BearerAuth
// @Router       /clients [post]
func (h *DirectoryHandler) CreateClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var req appdir.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.directoryService.CreateClient(c.Request.Context(), tenantID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetClient godoc
// @ID           getClient
// @Summary      Get a client
// @Tags         directory
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[appdir.ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [get]
func (h *DirectoryHandler) GetClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	resp, err := h.directoryService.GetClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListClients godoc
// @ID           listClients
// @Summary      List clients
// @Tags         directory
// @Produce      json
// @Param        status query string false "Status filter (active, archived)"
// @Param        search query string false "Name, email or tax id search"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]appdir.ClientResponse]
// @Security     BearerAuth
// @Router       /clients [get]
func (h *DirectoryHandler) ListClients(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	var query appdir.ListClientsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.directoryService.ListClients(c.Request.Context(), tenantID, &query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateClient godoc
// @ID           updateClient
// @Summary      Update a client
// @Tags         directory
// @Accept       json
// @Produce      json
// @Param        id path string true "Client ID"
// @Param        request body appdir.UpdateClientRequest true "Client update request"
// @Success      200 {object} APIResponse[appdir.ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id} [put]
func (h *DirectoryHandler) UpdateClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	var req appdir.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.directoryService.UpdateClient(c.Request.Context(), tenantID, clientID, &req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ArchiveClient godoc
// @ID           archiveClient
// @Summary      Archive a client
// @Description  Archived clients keep their issued documents but reject new drafts.
// @Tags         directory
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[appdir.ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/archive [post]
func (h *DirectoryHandler) ArchiveClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	resp, err := h.directoryService.ArchiveClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RestoreClient godoc
// @ID           restoreClient
// @Summary      Restore an archived client
// @Tags         directory
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} APIResponse[appdir.ClientResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /clients/{id}/restore [post]
func (h *DirectoryHandler) RestoreClient(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant not resolved")
		return
	}

	clientID, err := parseIDParam(c)
	if err != nil {
		h.BadRequest(c, "Invalid client ID")
		return
	}

	resp, err := h.directoryService.RestoreClient(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
