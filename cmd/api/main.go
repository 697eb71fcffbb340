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

	"github.com/acadmate/acadmate-api/internal/auth"
	"github.com/acadmate/acadmate-api/internal/config"
	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/database"
	"github.com/acadmate/acadmate-api/internal/handler"
	"github.com/acadmate/acadmate-api/internal/middleware"
	"github.com/acadmate/acadmate-api/internal/models"
	"github.com/acadmate/acadmate-api/internal/repository"
	"github.com/acadmate/acadmate-api/internal/router"
	"github.com/acadmate/acadmate-api/internal/service"
	"github.com/acadmate/acadmate-api/pkg/ai"
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

	if err := db.AutoMigrate(&models.Course{}, &models.Enrollment{}, &models.Assignment{}, &models.HomeworkGrade{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	codeStore := auth.NewRedisCodeStore(redisClient, cfg.CodeTTL, logger)

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, grading completion events disabled")
		} else {
			defer natsConn.Close()
		}
	}

	var commenter ai.Commenter
	if cfg.OpenAIKey != "" {
		openaiClient, err := ai.NewOpenAICommenter(ai.OpenAIConfig{
			APIKey:  cfg.OpenAIKey,
			BaseURL: cfg.OpenAIBase,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.Grading.LLMTimeout,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai client: %v", err)
		}
		commenter = openaiClient
	} else {
		logger.Warn().Msg("openai api key missing, grading runs without AI comments")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	files := coursefs.NewStore(cfg.CourseData)

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)

	authService := service.NewAuthService(codeStore, validate, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(courseRepo, assignmentRepo, gradeRepo, files, validate, logger)
	submissionService := service.NewSubmissionService(courseRepo, assignmentRepo, gradeRepo, files, validate, logger)
	autogradeService := service.NewAutogradeService(files, gradeRepo, commenter, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, natsConn, service.AutogradeOptions{SkipExisting: cfg.Grading.SkipExisting}, logger)
	gradingService := service.NewGradingService(courseRepo, gradeRepo, autogradeService, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	courseHandler := handler.NewCourseHandler(courseService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		AssignmentHandler: assignmentHandler,
		SubmissionHandler: submissionHandler,
		GradingHandler:    gradingHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
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
