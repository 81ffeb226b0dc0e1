package handlers

import (
	"errors"
	"net/http"

	"bookery/models"
	"bookery/services/scheduling"
	"bookery/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the booking command endpoints. All writes go through
// the conflict guard; the handler only maps transport to engine calls.
type BookingHandler struct {
	Service scheduling.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc scheduling.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBooking handles POST /api/bookings. An omitted provider_id lets the
// provider selector pick; timestamps must be RFC3339 with explicit offset.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	appt, err := h.Service.Book(c.Request.Context(), req)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	appt, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// ConfirmBooking handles POST /api/bookings/:id/confirm.
func (h *BookingHandler) ConfirmBooking(c *gin.Context) {
	appt, err := h.Service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// CancelBooking handles DELETE /api/bookings/:id (soft delete).
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	appt, err := h.Service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// respondSchedulingError maps the engine's error taxonomy to HTTP statuses.
// Conflicts are routine outcomes and come back as 409 without error logging.
func respondSchedulingError(c *gin.Context, err error) {
	var (
		validation *scheduling.ValidationError
		conflict   *scheduling.ConflictError
		noProvider *scheduling.NoEligibleProviderError
		noSlot     *scheduling.NoAvailableSlotError
		storage    *scheduling.StorageError
	)
	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", validation.Error())
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, utils.ErrorResponse{Message: "booking conflict", Details: conflict.Error()})
	case errors.As(err, &noProvider):
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse{Message: "no eligible provider", Details: noProvider.Error()})
	case errors.As(err, &noSlot):
		c.JSON(http.StatusUnprocessableEntity, utils.ErrorResponse{Message: "no available slot", Details: noSlot.Error()})
	case errors.As(err, &storage):
		utils.JSONError(c, http.StatusServiceUnavailable, "storage unavailable", storage.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
