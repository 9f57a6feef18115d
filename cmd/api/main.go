package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/config"
	"github.com/noah-isme/hireform-api/internal/database"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/events"
	"github.com/noah-isme/hireform-api/internal/handler"
	"github.com/noah-isme/hireform-api/internal/middleware"
	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/repository"
	"github.com/noah-isme/hireform-api/internal/router"
	"github.com/noah-isme/hireform-api/internal/service"
	"github.com/noah-isme/hireform-api/pkg/ai"
	cloud "github.com/noah-isme/hireform-api/pkg/cloudinary"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.ConnectPostgres(context.Background(), database.PostgresOptions{
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DatabaseMaxOpenConns,
		MaxIdleConns:    cfg.DatabaseMaxIdleConns,
		ConnMaxLifetime: cfg.DatabaseConnLifetime,
		SlowQuery:       cfg.DatabaseSlowQuery,
		Logger:          logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.AutoMigrate(&models.Form{}, &models.Submission{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	probes := map[string]handler.Probe{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), database.RedisOptions{
			URL:         cfg.RedisURL,
			PoolSize:    cfg.RedisPoolSize,
			DialTimeout: cfg.RedisDialTimeout,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, ranking cache disabled")
		} else {
			defer redisClient.Close()
			probes["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	var publisher service.SubmissionPublisher
	if cfg.NATSURL != "" {
		conn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, submission events disabled")
		} else {
			defer drainNATS(conn, logger)
			publisher = events.NewPublisher(conn, cfg.NATSSubjectPrefix, logger)
			probes["nats"] = func(context.Context) error {
				if !conn.IsConnected() {
					return errors.New("nats disconnected")
				}
				return nil
			}
		}
	}

	var blobs service.BlobStore
	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("cloudinary unavailable, resumes will be marked upload_failed")
	} else {
		blobs = uploader
	}

	model, err := ai.NewCompleter(context.Background(), ai.ProviderConfig{
		Provider:    cfg.AIProvider,
		APIKey:      cfg.AIAPIKey(),
		Model:       cfg.AIModel,
		BaseURL:     cfg.AIBaseURL(),
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create language model client")
	}

	pipeline := evaluation.NewPipeline(
		evaluation.NewPDFExtractor(),
		evaluation.NewStructurer(model, logger),
		evaluation.NewScorer(model, logger),
		logger,
	)

	validate := validator.New(validator.WithRequiredStructEnabled())

	formRepo := repository.NewFormRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	formService := service.NewFormService(formRepo, validate, logger)
	submissionService := service.NewSubmissionService(
		formRepo,
		submissionRepo,
		pipeline,
		blobs,
		publisher,
		redisClient,
		validate,
		service.SubmissionServiceConfig{
			MaxDocumentBytes: cfg.UploadMaxBytes,
			CacheTTL:         cfg.RankingCacheTTL,
		},
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    int(cfg.UploadMaxBytes) + 1<<20,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		FormHandler:       handler.NewFormHandler(formService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		HealthProbes:      probes,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		SubmitLimiter:     middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}

func drainNATS(conn *nats.Conn, logger zerolog.Logger) {
	if err := conn.Drain(); err != nil {
		logger.Warn().Err(err).Msg("failed to drain nats connection")
	}
}
