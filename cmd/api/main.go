package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guru03-coder/SlideSense/internal/config"
	"github.com/guru03-coder/SlideSense/internal/database"
	"github.com/guru03-coder/SlideSense/internal/handler"
	"github.com/guru03-coder/SlideSense/internal/middleware"
	"github.com/guru03-coder/SlideSense/internal/repository"
	"github.com/guru03-coder/SlideSense/internal/router"
	"github.com/guru03-coder/SlideSense/internal/seed"
	"github.com/guru03-coder/SlideSense/internal/service"
	"github.com/guru03-coder/SlideSense/internal/store"
	"github.com/guru03-coder/SlideSense/pkg/evaluator"
	"github.com/guru03-coder/SlideSense/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	st, err := store.Open(cfg.DataFile, logger)
	if err != nil {
		log.Fatalf("failed to open data file: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Info().Msg("redis url not configured, analytics caching disabled")
	}

	files, err := storage.New(storage.Config{Dir: cfg.UploadDir}, logger)
	if err != nil {
		log.Fatalf("failed to prepare upload storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	eval := evaluator.NewHeuristic(logger)

	submissionRepo := repository.NewSubmissionRepository(st)
	accountRepo := repository.NewAccountRepository(seed.StaffAccounts(), seed.StudentAccounts())

	if cfg.SeedDemoData {
		if err := seed.Apply(context.Background(), submissionRepo, eval, logger); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	analyticsService := service.NewStaffAnalyticsService(submissionRepo, redisClient, cfg.StatsCacheTTL, logger)
	authService := service.NewAuthService(accountRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	submissionService := service.NewSubmissionService(submissionRepo, accountRepo, eval, files, validate, analyticsService, cfg.MaxUploadSizeMB, logger)
	reviewService := service.NewStaffReviewService(submissionRepo, eval, files, validate, analyticsService, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	studentHandler := handler.NewStudentHandler(submissionService, reviewService, logger)
	staffHandler := handler.NewStaffHandler(reviewService, analyticsService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		// Leave headroom above the upload ceiling for multipart framing.
		BodyLimit: int(cfg.MaxUploadBytes()) + 1024*1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     authHandler,
		StudentHandler:  studentHandler,
		StaffHandler:    staffHandler,
		SubmissionCount: st.Len,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
