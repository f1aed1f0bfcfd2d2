package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/homestead/internal/config"
	"github.com/stwalsh4118/homestead/internal/database"
	apierrors "github.com/stwalsh4118/homestead/internal/errors"
	"github.com/stwalsh4118/homestead/internal/handlers"
	"github.com/stwalsh4118/homestead/internal/logger"
	"github.com/stwalsh4118/homestead/internal/metrics"
	"github.com/stwalsh4118/homestead/internal/middleware"
	"github.com/stwalsh4118/homestead/internal/repository"
	"github.com/stwalsh4118/homestead/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting Homestead API", map[string]interface{}{
		"version":        handlers.APIVersion,
		"environment":    cfg.Server.Env,
		"port":           cfg.Server.Port,
		"catalog_source": cfg.Catalog.Source,
	})

	ctx := context.Background()
	repo, pinger, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open catalog", err, map[string]interface{}{
			"source": cfg.Catalog.Source,
			"file":   cfg.Catalog.File,
		})
	}
	defer closeCatalog()

	m := metrics.New()
	propertyService := services.NewPropertyService(repo, log, services.Options{
		ApprovedOnly:  cfg.Catalog.ApprovedOnly,
		FeaturedCount: cfg.Catalog.FeaturedCount,
		Metrics:       m,
	})

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg, log, m, propertyService, pinger)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}

// openCatalog connects the configured catalog source. The returned Pinger is
// nil for the memory source, which is always ready.
func openCatalog(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.PropertyRepository, handlers.Pinger, func(), error) {
	if cfg.Catalog.Source != config.CatalogSourcePostgres {
		repo, err := repository.OpenMemoryCatalog(cfg.Catalog.File)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Info("Memory catalog loaded", map[string]interface{}{
			"file": cfg.Catalog.File,
			"seed": cfg.Catalog.File == "",
		})
		return repo, nil, func() {}, nil
	}

	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	return repository.NewPostgresPropertyRepository(db), db, db.Close, nil
}

// setupRouter registers middleware and routes.
func setupRouter(
	cfg *config.Config,
	log *logger.Logger,
	m *metrics.Metrics,
	propertyService services.PropertyService,
	pinger handlers.Pinger,
) *gin.Engine {
	apierrors.UseParameterNames()

	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Metrics -> Recovery -> CORS.
	// Metrics wraps Recovery so recovered panics are counted as 500s.
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(pinger, cfg.Catalog.Source, cfg.Server.Env)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	propertyHandler := handlers.NewPropertyHandler(propertyService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/info", healthHandler.Info)

		properties := v1.Group("/properties")
		{
			properties.GET("", propertyHandler.Search)
			properties.GET("/featured", propertyHandler.Featured)
			properties.GET("/cities", propertyHandler.Cities)
			properties.GET("/filters/default", propertyHandler.DefaultFilters)
			properties.GET("/:id", propertyHandler.GetByID)
		}
	}

	return router
}
