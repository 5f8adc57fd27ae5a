package checkout

import (
	"github.com/gin-gonic/gin"

	"smartlodge/internal/shared/config"
	"smartlodge/internal/shared/middleware"
)

func SetupCheckoutRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// All checkout routes run with optional auth: a valid bearer drives
	// the initial step and the login completion, but guests proceed too.
	sessions := router.Group("/checkout")
	sessions.Use(middleware.OptionalAuth(cfg))
	{
		sessions.POST("/:hotelId", controller.OpenCheckout)              // POST /api/v1/checkout/:hotelId - Open session
		sessions.GET("/session/:id", controller.GetSession)              // GET /api/v1/checkout/session/:id - Session state
		sessions.POST("/session/:id/auth", controller.CompleteAuth)      // POST /api/v1/checkout/session/:id/auth - Login done / continue as guest
		sessions.PUT("/session/:id/draft", controller.UpdateDraft)       // PUT /api/v1/checkout/session/:id/draft - Dates, guests, rooms
		sessions.PUT("/session/:id/guest-info", controller.UpdateGuestInfo)
		sessions.POST("/session/:id/steps/:step", controller.GoToStep)   // POST /api/v1/checkout/session/:id/steps/:step - Navigate
		sessions.GET("/session/:id/availability", controller.GetAvailability)
	}
}
