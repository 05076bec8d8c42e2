package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rental-service/internal/health"
	"rental-service/internal/models"
	"rental-service/internal/repository"
	"rental-service/internal/services"
)

type ContractHandler struct {
	contractService services.ContractService
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
	}
}

// ListContracts returns contracts ordered by creation time descending.
// Optional filters: roomNumber and tenantName (substring), status (exact),
// startDate (contracts starting on or after) and endDate (ending on or
// before), both YYYY-MM-DD.
func (h *ContractHandler) ListContracts(c *gin.Context) {
	var filters repository.ContractFilters

	filters.RoomNumber = c.Query("roomNumber")
	filters.TenantName = c.Query("tenantName")

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.ContractStatus(statusParam)
		switch status {
		case models.ContractActive, models.ContractTerminated, models.ContractExpired:
			filters.Status = &status
		default:
			ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid contract status filter", nil)
			return
		}
	}

	if startParam := c.Query("startDate"); startParam != "" {
		start, err := time.Parse(time.DateOnly, startParam)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "INVALID_DATE", "startDate must be a date in YYYY-MM-DD form", nil)
			return
		}
		filters.StartFrom = &start
	}
	if endParam := c.Query("endDate"); endParam != "" {
		end, err := time.Parse(time.DateOnly, endParam)
		if err != nil {
			ErrorResponse(c, http.StatusBadRequest, "INVALID_DATE", "endDate must be a date in YYYY-MM-DD form", nil)
			return
		}
		filters.EndUntil = &end
	}

	contracts, err := h.contractService.ListContracts(c.Request.Context(), filters)
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", contracts)
}

// GetContract returns a single contract with its tenant and room
func (h *ContractHandler) GetContract(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid contract ID", nil)
		return
	}

	contract, err := h.contractService.GetContract(c.Request.Context(), uint(id))
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", contract)
}

// CreateContract signs a new lease. The new contract and the room's
// OCCUPIED status become visible together or not at all.
func (h *ContractHandler) CreateContract(c *gin.Context) {
	var req models.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingErrorResponse(c, err)
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), &req)
	if err != nil {
		health.RecordLeaseOperation("create", false)
		ServiceErrorResponse(c, err)
		return
	}

	health.RecordLeaseOperation("create", true)
	SuccessResponse(c, http.StatusOK, "Contract created successfully", contract)
}

// TerminateContract ends an active lease and releases its room
func (h *ContractHandler) TerminateContract(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid contract ID", nil)
		return
	}

	contract, err := h.contractService.TerminateContract(c.Request.Context(), uint(id))
	if err != nil {
		health.RecordLeaseOperation("terminate", false)
		ServiceErrorResponse(c, err)
		return
	}

	health.RecordLeaseOperation("terminate", true)
	SuccessResponse(c, http.StatusOK, "Contract terminated successfully", contract)
}
