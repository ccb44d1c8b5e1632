package scheduler

import (
	"context"
	"fmt"

	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CacheScheduler runs the periodic maintenance passes: sweeping expired cache
// entries so memory stays bounded between reads, and regenerating the weekly
// featured rotation.
type CacheScheduler struct {
	cron        *cron.Cron
	memory      *cache.Memory
	revalidator *cache.Revalidator
	featured    service.FeaturedService

	cleanupSpec string
}

// NewCacheScheduler creates the scheduler. cleanupEvery follows the cron
// @every syntax duration, e.g. "5m".
func NewCacheScheduler(memory *cache.Memory, revalidator *cache.Revalidator, featured service.FeaturedService, cleanupEvery string) *CacheScheduler {
	if cleanupEvery == "" {
		cleanupEvery = "5m"
	}
	return &CacheScheduler{
		cron:        cron.New(),
		memory:      memory,
		revalidator: revalidator,
		featured:    featured,
		cleanupSpec: fmt.Sprintf("@every %s", cleanupEvery),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *CacheScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cleanupSpec, func() {
		before := s.memory.Len()
		s.memory.Cleanup()
		s.revalidator.Sweep()
		logger.Debug("Cache cleanup pass completed", map[string]interface{}{
			"entries_before": before,
			"entries_after":  s.memory.Len(),
		})
	}); err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}

	// Monday 00:05 UTC, just after the featured week rolls over.
	if _, err := s.cron.AddFunc("5 0 * * 1", func() {
		if _, err := s.featured.GenerateRotation(context.Background()); err != nil {
			logger.Error("Failed to generate weekly featured rotation", err)
			return
		}
		logger.Info("Weekly featured rotation generated")
	}); err != nil {
		return fmt.Errorf("failed to schedule featured rotation: %w", err)
	}

	s.cron.Start()
	logger.Info("Cache scheduler started", map[string]interface{}{
		"cleanup": s.cleanupSpec,
	})
	return nil
}

// Stop halts the cron loop; running jobs finish.
func (s *CacheScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Cache scheduler stopped")
}
