// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"smartlodge/internal/availability"
	"smartlodge/internal/bookings"
	"smartlodge/internal/checkout"
	"smartlodge/internal/hotels"
	"smartlodge/internal/notifications"
	"smartlodge/internal/shared/config"
	"smartlodge/internal/shared/database"
	"smartlodge/pkg/cache"
	"smartlodge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	// Shared services wired across route groups
	cacheService    cache.Service
	hotelService    hotels.Service
	checkoutStore   checkout.Store
	checkoutService checkout.Service
	watcher         *availability.Watcher
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	return &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	r.cacheService = cache.NewService(r.db.GetRedisClient())

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		// Catalog first: checkout resolves hotels through its service
		r.setupHotelRoutes(api)

		r.setupCheckoutRoutes(api)

		r.setupBookingRoutes(api)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "smartlodge-checkout",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "smartlodge-checkout",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupHotelRoutes configures the hotel catalog routes
func (r *Router) setupHotelRoutes(rg *gin.RouterGroup) {
	hotelRepo := hotels.NewRepository(r.db.GetPostgreSQL())
	hotelService := hotels.NewService(hotelRepo, r.config.Redis.CatalogCacheTTL)
	hotelService.SetCacheService(r.cacheService)

	// Store for dependency injection into checkout
	r.hotelService = hotelService

	if err := hotels.Seed(hotelRepo); err != nil {
		logger.GetDefault().Warn("catalog seeding skipped", "error", err.Error())
	}

	hotelController := hotels.NewController(hotelService)
	hotels.SetupHotelRoutes(rg, hotelController)
}

// setupCheckoutRoutes configures the checkout session routes and wires
// the availability watcher onto the session service.
func (r *Router) setupCheckoutRoutes(rg *gin.RouterGroup) {
	r.checkoutStore = checkout.NewStore(r.cacheService, r.config.Redis.CheckoutSessionTTL)

	checkoutService := checkout.NewService(r.checkoutStore, r.hotelService, logger.GetDefault())

	evaluator := availability.NewEvaluator(r.inventory(), r.config.Availability.MaxStayNights)
	r.watcher = availability.NewWatcher(evaluator, r.config.Availability.Debounce, checkoutService.ApplyAvailability)
	checkoutService.SetWatcher(r.watcher)

	r.checkoutService = checkoutService

	checkoutController := checkout.NewController(checkoutService)
	checkout.SetupCheckoutRoutes(rg, checkoutController, r.config)
}

// setupBookingRoutes configures payment, confirmation and booking lookup
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	processor := bookings.NewSimulatedProcessor(r.config.Payment.SimulatedDelay)

	bookingService := bookings.NewService(
		bookingRepo,
		r.checkoutStore,
		r.watcher,
		processor,
		r.cacheService,
		r.publisher,
		logger.GetDefault(),
		r.config.Payment.Currency,
		r.config.Redis.CheckoutSessionTTL,
	)

	bookingController := bookings.NewController(bookingService)
	bookings.SetupBookingRoutes(rg, bookingController, r.config)
}

// inventory selects the availability source: the simulated stand-in by
// default, or the rooms table in catalog mode.
func (r *Router) inventory() availability.Inventory {
	if r.config.Availability.Mode == "catalog" {
		return hotels.NewCatalogInventory(hotels.NewRepository(r.db.GetPostgreSQL()))
	}
	return availability.NewSimulatedInventory(r.config.Availability.SimulatedDelay)
}
