package routes

import (
	"bookery/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints of the booking engine.
func RegisterRoutes(r *gin.Engine, availability *handlers.AvailabilityHandler, booking *handlers.BookingHandler) {
	r.GET("/health", handlers.HealthCheck)

	api := r.Group("/api")
	{
		api.GET("/availability", availability.GetAvailability)

		bookings := api.Group("/bookings")
		{
			bookings.POST("", booking.CreateBooking)
			bookings.GET("/:id", booking.GetBooking)
			bookings.POST("/:id/confirm", booking.ConfirmBooking)
			bookings.DELETE("/:id", booking.CancelBooking)
		}
	}
}
