package bookings

import (
	"github.com/gin-gonic/gin"

	"smartlodge/internal/shared/config"
	"smartlodge/internal/shared/middleware"
)

func SetupBookingRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Payment and confirmation live under the checkout session; guests
	// who continued without an account can reach them too.
	payment := router.Group("/checkout/session/:id")
	payment.Use(middleware.OptionalAuth(cfg))
	{
		payment.POST("/payment", controller.ProcessPayment)       // POST /api/v1/checkout/session/:id/payment - Charge and confirm
		payment.GET("/confirmation", controller.GetConfirmation)  // GET /api/v1/checkout/session/:id/confirmation - Success screen
	}

	bookings := router.Group("/bookings")
	{
		bookings.GET("/:ref", controller.GetBooking) // GET /api/v1/bookings/:ref - Lookup by reference

		// Booking history requires a signed-in user
		bookings.GET("", middleware.RequireAuth(cfg), controller.GetMyBookings)
	}
}
