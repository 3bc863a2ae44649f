package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/mzahan92/socialite/feed/internal/fanout"
	"github.com/mzahan92/socialite/feed/internal/feedview"
	"github.com/mzahan92/socialite/feed/internal/queue"
	"github.com/mzahan92/socialite/feed/internal/repositories"
	"github.com/mzahan92/socialite/feed/internal/router"
	"github.com/mzahan92/socialite/feed/internal/scanner"
	"github.com/mzahan92/socialite/feed/internal/trending"
	"github.com/mzahan92/socialite/feed/pkg/config"
	"github.com/mzahan92/socialite/feed/pkg/logger"
	"github.com/mzahan92/socialite/feed/validators"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		zlog.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	if err := router.AutoMigrate(db.Postgres); err != nil {
		zlog.Fatal("failed to auto migrate models", zap.Error(err))
	}

	nc, err := nats.Connect(cfg.NatsURL)
	if err != nil {
		zlog.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer nc.Drain()

	// --- Repositories ---
	mongoDB := db.Mongo.Database("socialite_feed")
	feedRepo := repositories.NewMongoFeedRepository(mongoDB)
	postRepo := repositories.NewMongoPostSnapshotRepository(mongoDB)
	trendingRepo := repositories.NewMongoTrendingRepository(mongoDB)
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	profileRepo := repositories.NewPostgresProfileRepository(db.Postgres)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(db.Postgres)
	blockListRepo := repositories.NewPostgresBlockListRepository(db.Postgres)
	userStatusRepo := repositories.NewPostgresUserStatusRepository(db.Postgres)

	// --- Trending aggregation ---
	trendingService := trending.NewService(postRepo, trendingRepo, userStatusRepo, blockListRepo, zlog)
	scheduler := trending.NewScheduler(trendingService, trending.SchedulerConfig{
		Enabled:   cfg.TrendingEnabled,
		Interval:  cfg.TrendingInterval,
		Timeout:   cfg.TrendingTimeout,
		CacheSize: cfg.TrendingCacheSize,
	}, zlog)
	scheduler.Start()
	defer scheduler.Stop()

	// --- Fan-out consumer ---
	fanoutWorker := fanout.NewWorker(feedRepo, friendshipRepo, userRepo, zlog)
	consumer := queue.NewConsumer(nc, fanoutWorker, zlog)
	if _, err := consumer.Start(); err != nil {
		zlog.Fatal("failed to subscribe to fan-out jobs", zap.Error(err))
	}

	// --- Agent feed scanner ---
	scanPublisher := queue.NewScanPublisher(nc)
	feedScanner := scanner.NewScanner(feedRepo, postRepo, userRepo, scanPublisher, scanner.Config{
		Interval:    cfg.AgentScanInterval,
		MaxItems:    cfg.AgentScanMaxItems,
		ScanTimeout: cfg.AgentScanTimeout,
	}, zlog)
	feedScanner.Start()
	defer feedScanner.Stop()

	// --- HTTP API ---
	assembler := feedview.NewAssembler(feedRepo, postRepo, trendingService, userRepo, profileRepo, userStatusRepo, blockListRepo, zlog)

	e := echo.New()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, assembler, scheduler, cfg, zlog)
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
