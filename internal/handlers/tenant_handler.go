package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-service/internal/models"
	"rental-service/internal/services"
)

type TenantHandler struct {
	tenantService services.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService services.TenantService) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
	}
}

// ListTenants returns all tenants, newest first
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", tenants)
}

// GetTenant returns a single tenant by ID
func (h *TenantHandler) GetTenant(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid tenant ID", nil)
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), uint(id))
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", tenant)
}

// CreateTenant registers a new tenant
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	var req models.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingErrorResponse(c, err)
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), &req)
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Tenant created successfully", tenant)
}
