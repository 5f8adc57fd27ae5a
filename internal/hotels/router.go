package hotels

import (
	"github.com/gin-gonic/gin"
)

func SetupHotelRoutes(router *gin.RouterGroup, controller Controller) {
	// Public routes - anyone can browse the catalog
	publicHotels := router.Group("/hotels")
	{
		publicHotels.GET("", controller.GetAllHotels)      // GET /api/v1/hotels - Browse hotels
		publicHotels.GET("/:hotelId", controller.GetHotel) // GET /api/v1/hotels/:hotelId - Hotel details
	}
}
