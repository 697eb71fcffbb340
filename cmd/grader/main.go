package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rs/zerolog"

	"github.com/acadmate/acadmate-api/internal/config"
	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/database"
	"github.com/acadmate/acadmate-api/internal/repository"
	"github.com/acadmate/acadmate-api/internal/service"
	"github.com/acadmate/acadmate-api/pkg/ai"
)

func main() {
	skipExisting := flag.Bool("skip-existing", false, "skip students whose grading artifact already exists")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <course_id/homework/assign_no>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	homeworkPath := flag.Arg(0)

	cfg, err := config.LoadGrader()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
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

	files := coursefs.NewStore(cfg.CourseData)
	gradeRepo := repository.NewGradeRepository(db)

	opts := service.AutogradeOptions{SkipExisting: cfg.Grading.SkipExisting || *skipExisting}
	autograde := service.NewAutogradeService(files, gradeRepo, commenter, func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, nil, opts, logger)

	stats, err := autograde.Run(context.Background(), homeworkPath)
	if err != nil {
		log.Fatalf("grading run failed: %v", err)
	}

	logger.Info().
		Str("course_id", stats.CourseID).
		Int("assign_no", stats.AssignNo).
		Int("students", stats.Students).
		Int("graded", stats.Graded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("grading finished")
}
