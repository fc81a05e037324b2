package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"veridian_haveli_backend/internal/models"
	"veridian_haveli_backend/internal/repositories"
	"veridian_haveli_backend/internal/services"
	"veridian_haveli_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler holds the reservation and folio services.
type ReservationHandler struct {
	reservationService services.ReservationService
	folioService       services.FolioService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService, fs services.FolioService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs, folioService: fs}
}

func respondReservationError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from reservationService")
	switch {
	case errors.Is(err, services.ErrReservationNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", err.Error()))
	case errors.Is(err, services.ErrRoomNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Room not found.", err.Error()))
	case errors.Is(err, services.ErrRoomUnavailable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Room is not available.", err.Error()))
	case errors.Is(err, services.ErrInvalidTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Invalid reservation status transition.", err.Error()))
	case errors.Is(err, services.ErrNegativePayment):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Payment would make amount paid negative.", err.Error()))
	case errors.Is(err, services.ErrReservationValidation), errors.Is(err, services.ErrInvalidDateRange), errors.Is(err, services.ErrUnknownCategory):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		respondStoreOrInternal(c, err, "Failed to process reservation.")
	}
}

// respondStoreOrInternal maps database failures to 503 so callers know the
// request is retryable; everything else is a plain 500.
func respondStoreOrInternal(c *gin.Context, err error, message string) {
	if errors.Is(err, repositories.ErrDatabaseError) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeStoreUnavailable, "Storage temporarily unavailable, retry the request.", "Database error"))
		return
	}
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
}

// CreateReservation handles creating a new reservation (online or offline).
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateReservation: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	reservation, err := h.reservationService.CreateReservation(req)
	if err != nil {
		respondReservationError(c, err, "CreateReservation")
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// GetReservations handles fetching reservations with pagination and filters.
// The expiry sweep runs before the read.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filters := models.ReservationFilters{Page: page, PageSize: pageSize}
	if roomNumber := c.Query("room_number"); roomNumber != "" {
		filters.RoomNumber = &roomNumber
	}
	if status := c.Query("status"); status != "" {
		filters.Status = &status
	}
	if channel := c.Query("channel"); channel != "" {
		filters.Channel = &channel
	}
	if dateFromStr := c.Query("date_from"); dateFromStr != "" {
		dateFrom, err := time.Parse("2006-01-02", dateFromStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date_from format, expected YYYY-MM-DD.", err.Error()))
			return
		}
		filters.DateFrom = &dateFrom
	}
	if dateToStr := c.Query("date_to"); dateToStr != "" {
		dateTo, err := time.Parse("2006-01-02", dateToStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date_to format, expected YYYY-MM-DD.", err.Error()))
			return
		}
		filters.DateTo = &dateTo
	}

	reservations, totalCount, err := h.reservationService.GetReservations(filters)
	if err != nil {
		utils.LogError(err, "GetReservations: Error from reservationService.GetReservations")
		respondStoreOrInternal(c, err, "Failed to fetch reservations.")
		return
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      reservations,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetReservationByID handles fetching a single reservation.
func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	reservation, err := h.reservationService.GetReservationByID(id)
	if err != nil {
		respondReservationError(c, err, "GetReservationByID")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CheckIn handles the guest arrival transition.
func (h *ReservationHandler) CheckIn(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	// Body is optional: an empty body checks in to the held or auto-assigned room.
	var req services.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	reservation, err := h.reservationService.CheckIn(id, req)
	if err != nil {
		respondReservationError(c, err, "CheckIn")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CheckOut handles the guest departure transition and charge settlement.
func (h *ReservationHandler) CheckOut(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	// Body is optional: an empty body checks out with no extra fees.
	var req services.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	reservation, err := h.reservationService.CheckOut(id, req)
	if err != nil {
		respondReservationError(c, err, "CheckOut")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// CancelReservation handles cancelling an active reservation.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	reservation, err := h.reservationService.Cancel(id)
	if err != nil {
		respondReservationError(c, err, "CancelReservation")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// RecordPayment handles recording a payment or refund against a reservation.
func (h *ReservationHandler) RecordPayment(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	var req services.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	reservation, err := h.reservationService.RecordPayment(id, req.Amount)
	if err != nil {
		respondReservationError(c, err, "RecordPayment")
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// GetFolio handles fetching the computed billing folio for a reservation.
func (h *ReservationHandler) GetFolio(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	folio, err := h.folioService.GetFolio(id)
	if err != nil {
		respondReservationError(c, err, "GetFolio")
		return
	}
	c.JSON(http.StatusOK, folio)
}

// SweepStale handles the manual trigger for the expiry sweep. Admin only.
func (h *ReservationHandler) SweepStale(c *gin.Context) {
	affected, err := h.reservationService.SweepStale(time.Now())
	if err != nil {
		utils.LogError(err, "SweepStale: Error from reservationService.SweepStale")
		respondStoreOrInternal(c, err, "Failed to run expiry sweep.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// DeleteReservation handles removing a reservation record. Admin only.
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		return
	}

	if err := h.reservationService.DeleteReservation(id); err != nil {
		respondReservationError(c, err, "DeleteReservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}

func parseIDParam(c *gin.Context) (int64, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reservation ID format.", err.Error()))
		return 0, err
	}
	return id, nil
}
