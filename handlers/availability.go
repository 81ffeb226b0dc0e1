package handlers

import (
	"net/http"
	"time"

	"bookery/services/scheduling"
	"bookery/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the availability query endpoint.
type AvailabilityHandler struct {
	Service scheduling.BookingService
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(svc scheduling.BookingService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// GetAvailability handles
// GET /api/availability?location_id=&date=&service_id=&provider_ids=.
// A closed day is a successful response with closed=true, not an error.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	locationID := c.Query("location_id")
	serviceID := c.Query("service_id")
	dateStr := c.Query("date")
	if locationID == "" || serviceID == "" || dateStr == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "location_id, service_id and date are required")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be formatted YYYY-MM-DD")
		return
	}

	req := scheduling.AvailabilityRequest{
		LocationID:  locationID,
		ServiceID:   serviceID,
		Date:        date,
		ProviderIDs: c.QueryArray("provider_ids"),
	}
	day, err := h.Service.Availability(c.Request.Context(), req)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}
