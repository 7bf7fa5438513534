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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/vaishnaviugal12/CrackCode/internal/config"
	"github.com/vaishnaviugal12/CrackCode/internal/database"
	"github.com/vaishnaviugal12/CrackCode/internal/handler"
	"github.com/vaishnaviugal12/CrackCode/internal/middleware"
	"github.com/vaishnaviugal12/CrackCode/internal/models"
	"github.com/vaishnaviugal12/CrackCode/internal/repository"
	"github.com/vaishnaviugal12/CrackCode/internal/router"
	"github.com/vaishnaviugal12/CrackCode/internal/service"
	"github.com/vaishnaviugal12/CrackCode/pkg/ai"
	"github.com/vaishnaviugal12/CrackCode/pkg/judge0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.SolvedProblem{},
		&models.Problem{},
		&models.TestCase{},
		&models.StarterCode{},
		&models.ReferenceSolution{},
		&models.Submission{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var events *nats.Conn
	if cfg.NATSURL != "" {
		events, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, judged events disabled")
		} else {
			defer events.Close()
		}
	}

	engine := judge0.NewClient(judge0.ClientConfig{
		BaseURL:      cfg.Judge0URL,
		APIKey:       cfg.Judge0APIKey,
		APIHost:      cfg.Judge0APIHost,
		PollInterval: cfg.JudgePollInterval,
		Logger:       logger,
	})

	var assistant ai.Assistant
	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		openaiAssistant, err := ai.NewOpenAIAssistant(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("ai assistant disabled")
		} else {
			assistant = openaiAssistant
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	problemRepo := repository.NewProblemRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	judgeService := service.NewJudgeService(problemRepo, submissionRepo, userRepo, engine, events, validate, logger, service.JudgeConfig{
		Timeout: cfg.JudgeTimeout,
	})
	problemService := service.NewProblemService(problemRepo, userRepo, judgeService, validate, logger)
	userService := service.NewUserService(userRepo, submissionRepo, redisClient, validate, logger, service.UserConfig{
		JWTSecret: cfg.JWTSecret,
		JWTExpiry: cfg.JWTExpiry,
	})
	chatService := service.NewChatService(problemRepo, assistant, validate, logger)

	sweeper := service.NewPendingSweeper(submissionRepo, cfg.PendingGracePeriod, cfg.PendingSweepEvery, logger)
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Start(sweeperCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:       handler.NewUserHandler(userService, logger),
		ProblemHandler:    handler.NewProblemHandler(problemService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(judgeService, logger),
		ChatHandler:       handler.NewChatHandler(chatService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, redisClient),
		RunRateLimit:      cfg.RunRateLimit,
		RunRateWindow:     cfg.RunRateWindow,
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
