// File: cartscout/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cartscout/config"
	"cartscout/cron"
	"cartscout/handlers"
	"cartscout/middleware"
	"cartscout/providers"
	"cartscout/routes"
	"cartscout/services/checkout"
	"cartscout/services/intent"
	"cartscout/services/search"
	"cartscout/services/tasks"
	"cartscout/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	utils.InitRedis()
	utils.StartHealthMonitor([]*redis.Client{
		utils.GetSessionCacheClient(),
		utils.GetSearchCacheClient(),
	})

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Provider catalog.
	catalog := providers.BuildCatalog(config.AppConfig, logger)

	// services.
	intentService := intent.NewDefaultIntentService(config.AppConfig.GeminiAPIKey)

	searchCache := search.NewRedisResultCache(
		utils.GetSearchCacheClient(),
		time.Duration(config.AppConfig.SearchCacheSeconds)*time.Second,
	)
	coordinator := search.NewDefaultCoordinator(
		catalog.List(),
		intentService,
		searchCache,
		time.Duration(config.AppConfig.SearchTimeoutSeconds)*time.Second,
		logger,
	)

	sessionTTL := time.Duration(config.AppConfig.SessionTTLMinutes) * time.Minute
	snapshots := checkout.NewRedisSnapshotStore(utils.GetSessionCacheClient(), sessionTTL)
	registry := checkout.NewRegistry(snapshots, logger)

	taskClient := tasks.NewClient(logger)
	defer taskClient.Close()

	checkoutService := checkout.NewDefaultCheckoutService(
		registry,
		catalog,
		time.Duration(config.AppConfig.StepTimeoutSeconds)*time.Second,
		logger,
	)
	checkoutService.Nudger = taskClient

	// Background worker: session sweep + abandoned-checkout nudges.
	cron.InitSessionWorker(registry, sessionTTL)

	handlerBundle := &routes.HandlerBundle{
		Search:   handlers.NewSearchHandler(coordinator, logger),
		Checkout: handlers.NewCheckoutHandler(checkoutService, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)

	var g errgroup.Group
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := g.Wait(); err != nil {
		logger.Sugar().Fatalf("main: server failed: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
