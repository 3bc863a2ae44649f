package router

import (
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/mzahan92/socialite/feed/internal/feedview"
	"github.com/mzahan92/socialite/feed/internal/handlers"
	"github.com/mzahan92/socialite/feed/internal/middleware"
	"github.com/mzahan92/socialite/feed/internal/models"
	"github.com/mzahan92/socialite/feed/internal/trending"
	"github.com/mzahan92/socialite/feed/pkg/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// AutoMigrate creates the PostgreSQL projection tables
func AutoMigrate(pgdb *gorm.DB) error {
	return pgdb.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Friendship{},
		&models.BlockListEntry{},
		&models.UserStatus{},
	)
}

// SetupRoutes configures all application routes
func SetupRoutes(e *echo.Echo, assembler *feedview.Assembler, scheduler *trending.Scheduler, cfg *config.Config, logger *zap.Logger) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	feedHandler := handlers.NewFeedHandler(assembler, cfg.FeedDefaultLimit, cfg.FeedMaxLimit)
	feedHandler.RegisterFeedRoutes(api)
	logger.Info("feed routes configured")

	adminHandler := handlers.NewAdminHandler(scheduler, cfg.TrendingManualTrigger)
	adminHandler.RegisterAdminRoutes(api)
	logger.Info("trending admin routes configured")
}
