package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/services"
	"veridian_haveli_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoomHandler holds the inventory service.
type RoomHandler struct {
	inventoryService services.InventoryService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(is services.InventoryService) *RoomHandler {
	return &RoomHandler{inventoryService: is}
}

// CreateRoom handles adding a new room to the inventory.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req services.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateRoom: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	room, err := h.inventoryService.CreateRoom(req)
	if err != nil {
		utils.LogError(err, "CreateRoom: Error from inventoryService.CreateRoom")
		if errors.Is(err, services.ErrRoomNumberExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room number already exists.", err.Error()))
		} else if errors.Is(err, services.ErrRoomValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			respondStoreOrInternal(c, err, "Failed to create room.")
		}
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRooms handles fetching rooms with pagination and filters.
func (h *RoomHandler) GetRooms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filters := models.RoomFilters{Page: page, PageSize: pageSize}
	if category := c.Query("category"); category != "" {
		filters.Category = &category
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}

	rooms, totalCount, err := h.inventoryService.GetRooms(filters)
	if err != nil {
		utils.LogError(err, "GetRooms: Error from inventoryService.GetRooms")
		respondStoreOrInternal(c, err, "Failed to fetch rooms.")
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      rooms,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetAvailableRooms handles fetching available rooms for a category.
func (h *RoomHandler) GetAvailableRooms(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Query parameter 'category' is required.", ""))
		return
	}

	rooms, err := h.inventoryService.ListAvailable(category)
	if err != nil {
		utils.LogError(err, "GetAvailableRooms: Error from inventoryService.ListAvailable")
		respondStoreOrInternal(c, err, "Failed to fetch available rooms.")
		return
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	c.JSON(http.StatusOK, gin.H{"data": rooms, "total": len(rooms)})
}

// GetRoomByNumber handles fetching a single room.
func (h *RoomHandler) GetRoomByNumber(c *gin.Context) {
	roomNumber := c.Param("room_number")

	room, err := h.inventoryService.GetRoomByNumber(roomNumber)
	if err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else {
			utils.LogError(err, "GetRoomByNumber: Error from inventoryService.GetRoomByNumber for room "+roomNumber)
			respondStoreOrInternal(c, err, "Failed to fetch room.")
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// UpdateRoom handles updating room details.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	roomNumber := c.Param("room_number")

	var req services.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateRoom: Failed to bind JSON for room "+roomNumber)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	room, err := h.inventoryService.UpdateRoom(roomNumber, req)
	if err != nil {
		utils.LogError(err, "UpdateRoom: Error from inventoryService.UpdateRoom for room "+roomNumber)
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoomValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			respondStoreOrInternal(c, err, "Failed to update room.")
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// SetRoomStatus handles the admin status override for a room.
func (h *RoomHandler) SetRoomStatus(c *gin.Context) {
	roomNumber := c.Param("room_number")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	room, err := h.inventoryService.SetStatus(roomNumber, req.Status)
	if err != nil {
		utils.LogError(err, "SetRoomStatus: Error from inventoryService.SetStatus for room "+roomNumber)
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoomValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			respondStoreOrInternal(c, err, "Failed to set room status.")
		}
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom handles removing a room from the inventory. Admin only.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	roomNumber := c.Param("room_number")

	err := h.inventoryService.DeleteRoom(roomNumber)
	if err != nil {
		utils.LogError(err, "DeleteRoom: Error from inventoryService.DeleteRoom for room "+roomNumber)
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
		} else if errors.Is(err, services.ErrRoomHasActiveBookings) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room has active reservations.", err.Error()))
		} else {
			respondStoreOrInternal(c, err, "Failed to delete room.")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted successfully"})
}
