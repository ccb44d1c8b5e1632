package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/baliyoga/baliyoga-backend/config"
	"github.com/baliyoga/baliyoga-backend/internal/app/controller"
	"github.com/baliyoga/baliyoga-backend/internal/app/repository"
	"github.com/baliyoga/baliyoga-backend/internal/app/service"
	"github.com/baliyoga/baliyoga-backend/internal/db"
	"github.com/baliyoga/baliyoga-backend/internal/router"
	"github.com/baliyoga/baliyoga-backend/internal/scheduler"
	"github.com/baliyoga/baliyoga-backend/pkg/cache"
	"github.com/baliyoga/baliyoga-backend/pkg/geo"
	"github.com/baliyoga/baliyoga-backend/pkg/logger"
	"github.com/baliyoga/baliyoga-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Bali Yoga Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize caches
	memory := cache.NewMemory()
	revalidator := cache.NewRevalidator()

	// Initialize repositories
	listingRepo := repository.NewListingRepository(db.GetDB())
	subscriptionRepo := repository.NewSubscriptionRepository(db.GetDB())
	featuredRepo := repository.NewFeaturedRepository(db.GetDB())

	// Initialize services
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, memory)
	listingService := service.NewListingService(listingRepo, subscriptionService, revalidator)
	geocoder := geo.NewGoogleGeocoder(cfg.Geocoding.GoogleAPIKey, cfg.Geocoding.Timeout)
	geocodingService := service.NewGeocodingService(listingRepo, geocoder, cfg.Geocoding.CountryCode)
	featuredService := service.NewFeaturedService(featuredRepo, listingRepo)

	// Optional Redis invalidation fan-out across instances
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var broadcaster *redis.Broadcaster
	if cfg.Redis.Enabled {
		broadcaster, err = redis.NewBroadcaster(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer func() {
			if err := broadcaster.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()

		broadcaster.Listen(ctx,
			func(tag string) {
				dropped := revalidator.InvalidateTag(tag)
				logger.Debug("Remote tag invalidation applied", map[string]interface{}{
					"tag":     tag,
					"dropped": dropped,
				})
			},
			func(key string) {
				revalidator.InvalidateKey(key)
				memory.Delete(key)
			},
		)
	}

	// Start background cache maintenance and weekly featured rotation
	cacheScheduler := scheduler.NewCacheScheduler(
		memory, revalidator, featuredService, cfg.Cache.CleanupInterval.String())
	if err := cacheScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cache scheduler", err)
	}
	defer cacheScheduler.Stop()

	// Initialize controllers
	listingController := controller.NewListingController(listingService)
	geocodingController := controller.NewGeocodingController(geocodingService)
	featuredController := controller.NewFeaturedController(featuredService)
	subscriptionController := controller.NewSubscriptionController(subscriptionService)
	cacheController := controller.NewCacheController(revalidator, memory, broadcaster)

	// Setup router
	r := router.NewRouter(
		listingController,
		geocodingController,
		featuredController,
		subscriptionController,
		cacheController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
