// Package app wires the asset service and its collaborators together and
// assembles the HTTP router.
package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/assetvault/server/internal/module/asset"
	"github.com/assetvault/server/internal/module/asset/storage"
	"github.com/assetvault/server/internal/shared/config"
	"github.com/assetvault/server/internal/shared/database"
	"github.com/assetvault/server/internal/shared/logger"
	"github.com/assetvault/server/internal/utils/metrics"
	"github.com/assetvault/server/internal/utils/middleware"
)

// App represents the application.
type App struct {
	config  *config.Config
	db      *gorm.DB
	router  *gin.Engine
	logger  *logger.Logger
	metrics *metrics.Metrics

	assetHandler *asset.Handler
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	app := &App{
		config:  cfg,
		logger:  log,
		metrics: metrics.New("assetvault"),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := app.initAssetModule(); err != nil {
		return nil, fmt.Errorf("init asset module: %w", err)
	}

	app.router = app.setupRouter()

	return app, nil
}

// initAssetModule builds the asset service from its collaborators.
func (a *App) initAssetModule() error {
	storageClient, err := storage.NewClient(&storage.Config{
		Endpoint:        a.config.Storage.Endpoint,
		Region:          a.config.Storage.Region,
		AccessKeyID:     a.config.Storage.AccessKeyID,
		SecretAccessKey: a.config.Storage.SecretAccessKey,
		Bucket:          a.config.Storage.Bucket,
		UploadURLExpiry: a.config.Storage.UploadURLExpiry,
	})
	if err != nil {
		return fmt.Errorf("create storage client: %w", err)
	}

	repo := asset.NewRepository(a.db)
	relay := asset.NewHTTPRelay(0)
	service := asset.NewService(repo, storageClient, relay, a.logger, a.metrics)
	a.assetHandler = asset.NewHandler(service)

	return nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(a.metrics))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.assetHandler.RegisterRoutes(r.Group(""))

	return r
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop stops the application and releases resources.
func (a *App) Stop() {
	if a.db != nil {
		_ = database.Close(a.db)
	}
}
