package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	apperrors "github.com/baliyoga/baliyoga-backend/internal/errors"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
	"github.com/baliyoga/baliyoga-backend/pkg/geo"
)

// maxGeocodingBatch bounds one batch request; the rate delay makes larger
// batches too slow to hold an HTTP connection open for.
const maxGeocodingBatch = 50

// GeocodingController handles coordinate resolution requests
type GeocodingController struct {
	geocodingService service.GeocodingService
}

// NewGeocodingController creates a new geocoding controller
func NewGeocodingController(geocodingService service.GeocodingService) *GeocodingController {
	return &GeocodingController{
		geocodingService: geocodingService,
	}
}

// ResolveRequest identifies one listing to resolve coordinates for
type ResolveRequest struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name" binding:"required"`
	Address      string `json:"address"`
	City         string `json:"city"`
}

// BatchResolveRequest carries multiple resolve requests
type BatchResolveRequest struct {
	Locations []ResolveRequest `json:"locations" binding:"required"`
}

// Resolve returns coordinates for a single listing.
// POST /api/v1/geocoding/resolve
func (ctrl *GeocodingController) Resolve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid geocoding request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	result := ctrl.geocodingService.Resolve(c.Request.Context(), service.LocationQuery{
		ID:           req.ID,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		City:         req.City,
	})

	log.Debug("Coordinates resolved", map[string]interface{}{
		"id":         req.ID,
		"source":     result.Source,
		"confidence": result.Confidence,
		"from_cache": result.FromCache,
	})

	c.JSON(http.StatusOK, gin.H{
		"result": result,
	})
}

// ResolveBatch resolves coordinates for multiple listings sequentially.
// POST /api/v1/geocoding/resolve-batch
func (ctrl *GeocodingController) ResolveBatch(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req BatchResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid batch geocoding request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if len(req.Locations) == 0 {
		apperrors.BadRequest(c, apperrors.GeocodingEmptyBatch, "At least one location is required")
		return
	}
	if len(req.Locations) > maxGeocodingBatch {
		apperrors.BadRequest(c, apperrors.GeocodingBatchTooLarge, "Batch size exceeds the maximum of 50")
		return
	}

	queries := make([]service.LocationQuery, len(req.Locations))
	for i, loc := range req.Locations {
		queries[i] = service.LocationQuery{
			ID:           loc.ID,
			BusinessName: loc.BusinessName,
			Address:      loc.Address,
			City:         loc.City,
		}
	}

	items := ctrl.geocodingService.ResolveBatch(c.Request.Context(), queries)

	log.Info("Batch geocoding completed", map[string]interface{}{
		"count": len(items),
	})

	c.JSON(http.StatusOK, gin.H{
		"results": items,
		"count":   len(items),
	})
}

// ListLocations returns the static Bali location table used by map views and
// as the offline geocoding tier.
// GET /api/v1/geocoding/locations
func (ctrl *GeocodingController) ListLocations(c *gin.Context) {
	locations := geo.Locations()
	c.JSON(http.StatusOK, gin.H{
		"locations": locations,
		"count":     len(locations),
	})
}

// CacheStats reports how many listings were resolved from each source.
// GET /api/v1/geocoding/stats
func (ctrl *GeocodingController) CacheStats(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	stats, err := ctrl.geocodingService.CacheStats()
	if err != nil {
		log.Error("Failed to fetch geocoding stats", err, nil)
		apperrors.InternalError(c, "Failed to fetch geocoding stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}
