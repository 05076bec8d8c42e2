package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"rental-service/internal/models"
	"rental-service/internal/repository"
	"rental-service/internal/services"
)

type RoomHandler struct {
	roomService services.RoomService
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(roomService services.RoomService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
	}
}

// ListRooms returns rooms, newest first, optionally filtered by status and
// building
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var filters repository.RoomFilters

	if statusParam := c.Query("status"); statusParam != "" {
		status := models.RoomStatus(statusParam)
		switch status {
		case models.RoomVacant, models.RoomOccupied, models.RoomReserved, models.RoomMaintaining:
			filters.Status = &status
		default:
			ErrorResponse(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid room status filter", nil)
			return
		}
	}
	filters.Building = c.Query("building")

	rooms, err := h.roomService.ListRooms(c.Request.Context(), filters)
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", rooms)
}

// GetRoom returns a single room by ID
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID", nil)
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), uint(id))
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", room)
}

// CreateRoom lists a new room; every room starts out VACANT
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BindingErrorResponse(c, err)
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), &req)
	if err != nil {
		ServiceErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Room created successfully", room)
}
