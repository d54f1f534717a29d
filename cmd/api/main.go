package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"assetvault/internal/auth"
	"assetvault/internal/config"
	"assetvault/internal/database"
	"assetvault/internal/database/migration"
	handlers "assetvault/internal/http/handler"
	"assetvault/internal/http/middleware"
	"assetvault/internal/otel"
	"assetvault/internal/repository/postgres"
	"assetvault/internal/service"
	"assetvault/internal/storage"
	"assetvault/internal/vision"
)

func main() {
	ctx := context.Background()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Tracing (no-op unless OTEL_* env is set)
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	// PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// S3-compatible object storage; ensures both media buckets exist
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Vision model for the analysis endpoint
	analyzer, err := vision.NewGeminiAnalyzer(ctx, cfg.Gemini)
	if err != nil {
		log.Fatalf("failed to initialize vision analyzer: %v", err)
	}

	// Repositories and services
	assetRepo := postgres.NewAssetPostgres(db)
	analysisRepo := postgres.NewAnalysisPostgres(db)
	assetSvc := service.NewAssetService(objStore, assetRepo, analysisRepo, service.Buckets{
		Video: cfg.MinIO.VideoBucket,
		Lidar: cfg.MinIO.LidarBucket,
	}, time.Duration(cfg.MinIO.PresignExpirySec)*time.Second)
	analysisSvc := service.NewAnalysisService(analyzer)

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, time.Hour)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    256 * 1024 * 1024, // walkaround videos can be large
	})

	// Global middleware. Order matters: request IDs first so the logger and
	// error payloads can use them.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(handlers.CORS())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, tokens, assetSvc, analysisSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
