// @title Basket Service API
// @version 1.0
// @description Compares the price of a shopping basket across stores and manages store item prices.
// @BasePath /
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/smartbasket/basket-service/config"
	_ "github.com/smartbasket/basket-service/docs"
	"github.com/smartbasket/basket-service/internal/cache"
	"github.com/smartbasket/basket-service/internal/catalog"
	"github.com/smartbasket/basket-service/internal/comparison"
	"github.com/smartbasket/basket-service/internal/database"
	"github.com/smartbasket/basket-service/internal/handlers"
	"github.com/smartbasket/basket-service/internal/middleware"
	"github.com/smartbasket/basket-service/internal/pricing"
	"github.com/smartbasket/basket-service/internal/telemetry"
)

// catalogStore is the catalog backend used by the server.
type catalogStore interface {
	catalog.Reader
	catalog.Browser
	catalog.PriceWriter
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting basket service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	store, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer database.Close()

	var comparer comparison.Comparer = comparison.NewComparator(store, &cfg.Comparison, comparison.NewMetricsRecorder())
	var invalidator pricing.Invalidator
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, comparisons will bypass the cache until it recovers")
		}
		cached := cache.NewComparisons(redisClient, comparer, cfg.Cache.TTL)
		comparer = cached
		invalidator = cached
		logger.Info().Str("addr", cfg.Redis.Addr).Dur("ttl", cfg.Cache.TTL).Msg("Comparison cache enabled")
	}

	handlers.InitComparison(comparer, &cfg.Comparison)
	handlers.InitPricing(pricing.NewService(store, invalidator, cfg.Comparison.DefaultCurrency))
	handlers.InitCatalog(store)
	handlers.InitHealth(redisClient)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit)
	go limiter.Run(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	setupMiddleware(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/")
	api.Use(middleware.RateLimitMiddleware(limiter))
	{
		api.POST("/basket/compare", handlers.CompareBasket)
		api.GET("/prices/history/:storeItemId", handlers.GetPriceHistory)
		api.GET("/stores", handlers.ListStores)
		api.GET("/stores/:id", handlers.GetStore)
		api.GET("/reference-items", handlers.ListReferenceItems)
		api.GET("/reference-items/:id", handlers.GetReferenceItem)
		api.GET("/store-items", handlers.ListStoreItems)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.InternalAuthMiddleware(cfg.Auth.InternalAPIKey))
	{
		admin.POST("/prices", handlers.UpdatePrice)
		admin.POST("/prices/batch", handlers.BatchUpdatePrices)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}

func openCatalog(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (catalogStore, error) {
	if cfg.Catalog.Source == config.CatalogSourceFile {
		fixture, err := catalog.LoadFixtureFile(cfg.Catalog.File)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("file", cfg.Catalog.File).Msg("Serving catalog from file")
		return catalog.NewMemoryFromFixture(fixture), nil
	}

	dbURL := config.GetDatabaseURL()
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if err := database.Connect(ctx, database.Options{
		URL:             dbURL,
		MaxConns:        cfg.Database.MaxConnections,
		MinConns:        cfg.Database.MinConnections,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info().Msg("Database connected")

	return database.NewCatalogRepository(database.Pool()), nil
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "basket-service").Logger()
	log.Logger = logger
	return &logger
}

func setupMiddleware(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
