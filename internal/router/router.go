package router

import (
	"github.com/gin-gonic/gin"

	"github.com/baliyoga/baliyoga-backend/config"
	"github.com/baliyoga/baliyoga-backend/internal/app/controller"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
)

type Router struct {
	listingController      *controller.ListingController
	geocodingController    *controller.GeocodingController
	featuredController     *controller.FeaturedController
	subscriptionController *controller.SubscriptionController
	cacheController        *controller.CacheController
	config                 *config.Config
}

func NewRouter(
	listingController *controller.ListingController,
	geocodingController *controller.GeocodingController,
	featuredController *controller.FeaturedController,
	subscriptionController *controller.SubscriptionController,
	cacheController *controller.CacheController,
	cfg *config.Config,
) *Router {
	return &Router{
		listingController:      listingController,
		geocodingController:    geocodingController,
		featuredController:     featuredController,
		subscriptionController: subscriptionController,
		cacheController:        cacheController,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Bali Yoga API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		listings := v1.Group("/listings")
		{
			listings.POST("", r.listingController.CreateListing)
			listings.GET("/:category", r.listingController.GetListings)
			listings.GET("/:category/top", r.listingController.GetTopListings)
			listings.GET("/:category/search", r.listingController.SearchListings)
			listings.GET("/:category/:slug", r.listingController.GetListingBySlug)
		}

		geocoding := v1.Group("/geocoding")
		{
			geocoding.POST("/resolve", r.geocodingController.Resolve)
			geocoding.POST("/resolve-batch", r.geocodingController.ResolveBatch)
			geocoding.GET("/locations", r.geocodingController.ListLocations)
			geocoding.GET("/stats", r.geocodingController.CacheStats)
		}

		featured := v1.Group("/featured")
		{
			featured.GET("", r.featuredController.GetCurrentFeatured)
			featured.POST("/rotate", r.featuredController.GenerateRotation)
		}

		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.POST("", r.subscriptionController.Subscribe)
			subscriptions.GET("/:listingId", r.subscriptionController.GetHistory)
			subscriptions.DELETE("/:listingId", r.subscriptionController.Cancel)
			subscriptions.GET("/:listingId/status", r.subscriptionController.GetPremiumStatus)
		}

		cacheGroup := v1.Group("/cache")
		{
			cacheGroup.POST("/invalidate", r.cacheController.Invalidate)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
