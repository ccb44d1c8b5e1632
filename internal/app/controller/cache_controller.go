package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/baliyoga/baliyoga-backend/internal/errors"
	"github.com/baliyoga/baliyoga-backend/internal/middleware"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/redis"
)

// CacheController handles revalidation webhooks. When a broadcaster is
// configured the invalidation is also published so other instances drop
// their local entries.
type CacheController struct {
	revalidator *cache.Revalidator
	memory      *cache.Memory
	broadcaster *redis.Broadcaster // nil when redis is disabled
}

// NewCacheController creates a new cache controller
func NewCacheController(revalidator *cache.Revalidator, memory *cache.Memory, broadcaster *redis.Broadcaster) *CacheController {
	return &CacheController{
		revalidator: revalidator,
		memory:      memory,
		broadcaster: broadcaster,
	}
}

// InvalidateRequest names a tag or key to invalidate
type InvalidateRequest struct {
	Tag string `json:"tag"`
	Key string `json:"key"`
}

// Invalidate drops cached entries by tag or key.
// POST /api/v1/cache/invalidate
func (ctrl *CacheController) Invalidate(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req InvalidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}
	if req.Tag == "" && req.Key == "" {
		apperrors.BadRequest(c, apperrors.CacheMissingTarget, "Either tag or key is required")
		return
	}

	dropped := 0
	if req.Tag != "" {
		dropped += ctrl.revalidator.InvalidateTag(req.Tag)
		if ctrl.broadcaster != nil {
			if err := ctrl.broadcaster.PublishTagInvalidation(c.Request.Context(), req.Tag); err != nil {
				log.Warn("Failed to broadcast tag invalidation", map[string]interface{}{
					"tag":   req.Tag,
					"error": err.Error(),
				})
			}
		}
	}
	if req.Key != "" {
		dropped += ctrl.revalidator.InvalidateKey(req.Key)
		ctrl.memory.Delete(req.Key)
		if ctrl.broadcaster != nil {
			if err := ctrl.broadcaster.PublishKeyInvalidation(c.Request.Context(), req.Key); err != nil {
				log.Warn("Failed to broadcast key invalidation", map[string]interface{}{
					"key":   req.Key,
					"error": err.Error(),
				})
			}
		}
	}

	log.Info("Cache invalidated", map[string]interface{}{
		"tag":     req.Tag,
		"key":     req.Key,
		"dropped": dropped,
	})

	c.JSON(http.StatusOK, gin.H{
		"dropped": dropped,
	})
}
