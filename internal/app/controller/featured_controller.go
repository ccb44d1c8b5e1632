package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	apperrors "github.com/baliyoga/baliyoga-backend/internal/errors"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
)

// FeaturedController handles featured-rotation requests
type FeaturedController struct {
	featuredService service.FeaturedService
}

// NewFeaturedController creates a new featured controller
func NewFeaturedController(featuredService service.FeaturedService) *FeaturedController {
	return &FeaturedController{
		featuredService: featuredService,
	}
}

// GetCurrentFeatured returns this week's featured listings.
// GET /api/v1/featured
func (ctrl *FeaturedController) GetCurrentFeatured(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	featured, err := ctrl.featuredService.GetCurrentFeatured(c.Request.Context())
	if err != nil {
		log.Error("Failed to fetch featured listings", err, nil)
		apperrors.InternalError(c, "Failed to fetch featured listings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured": featured,
	})
}

// GenerateRotation forces generation of the current week's rotation.
// POST /api/v1/featured/rotate
func (ctrl *FeaturedController) GenerateRotation(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	rotation, err := ctrl.featuredService.GenerateRotation(c.Request.Context())
	if err != nil {
		log.Error("Failed to generate featured rotation", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError,
			apperrors.FeaturedRotationFailed, "Failed to generate featured rotation")
		return
	}

	log.Info("Featured rotation generated", map[string]interface{}{
		"week_start": rotation.WeekStart,
	})

	c.JSON(http.StatusOK, gin.H{
		"rotation": rotation,
	})
}
