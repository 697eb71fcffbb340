package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/grading"
	"github.com/acadmate/acadmate-api/internal/models"
	"github.com/acadmate/acadmate-api/internal/repository"
	"github.com/acadmate/acadmate-api/pkg/ai"
)

const gradingCompletedSubject = "acadmate.grading.completed"

var (
	gradingStudents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "acadmate",
		Subsystem: "grading",
		Name:      "students_total",
		Help:      "Number of student submissions processed by auto-grading runs",
	}, []string{"result"})

	gradingRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "acadmate",
		Subsystem: "grading",
		Name:      "run_duration_seconds",
		Help:      "Duration of complete auto-grading runs",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})
)

// RunStats summarises one auto-grading run.
type RunStats struct {
	CourseID string `json:"course_id"`
	AssignNo int    `json:"assign_no"`
	Students int    `json:"students"`
	Graded   int    `json:"graded"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

// AutogradeOptions configure a grading run.
type AutogradeOptions struct {
	// SkipExisting preserves previously generated grading artifacts instead
	// of regrading. A named option rather than implicit file sniffing, so the
	// caller decides whether stale artifacts survive reference-answer edits.
	SkipExisting bool
}

// AutogradeService grades every submission of one assignment: per-question
// local scoring, a best-effort holistic AI comment per student, JSON artifacts
// on disk, and grade rows in the database.
type AutogradeService interface {
	Run(ctx context.Context, homeworkPath string) (RunStats, error)
}

type autogradeService struct {
	files     *coursefs.Store
	grades    repository.GradeRepository
	scorer    *grading.Scorer
	commenter ai.Commenter
	ping      func(ctx context.Context) error
	nats      *nats.Conn
	opts      AutogradeOptions
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewAutogradeService constructs the grading orchestrator. ping verifies the
// database connection before the run mutates any state; natsConn is optional
// and only used to announce run completion.
func NewAutogradeService(
	files *coursefs.Store,
	grades repository.GradeRepository,
	commenter ai.Commenter,
	ping func(ctx context.Context) error,
	natsConn *nats.Conn,
	opts AutogradeOptions,
	logger zerolog.Logger,
) AutogradeService {
	return &autogradeService{
		files:     files,
		grades:    grades,
		scorer:    grading.NewScorer(),
		commenter: commenter,
		ping:      ping,
		nats:      natsConn,
		opts:      opts,
		logger:    logger.With().Str("component", "autograde_service").Logger(),
		tracer:    otel.Tracer("github.com/acadmate/acadmate-api/internal/service/autograde"),
	}
}

// Run executes the grading state machine for one assignment. Missing question
// or answer files, an unreachable database and a malformed homework path are
// fatal; everything else degrades per student and the run continues.
func (s *autogradeService) Run(ctx context.Context, homeworkPath string) (RunStats, error) {
	ctx, span := s.tracer.Start(ctx, "autograde.run", trace.WithAttributes(
		attribute.String("grading.homework_path", homeworkPath),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		gradingRunDuration.Observe(time.Since(start).Seconds())
	}()

	ref, err := coursefs.ParseHomeworkPath(homeworkPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid_homework_path")
		return RunStats{}, err
	}

	runID := uuid.NewString()
	logger := s.logger.With().
		Str("run_id", runID).
		Str("course_id", ref.CourseID).
		Int("assign_no", ref.AssignNo).
		Logger()
	logger.Info().Msg("auto-grading run started")

	if s.ping != nil {
		if err := s.ping(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "database_unreachable")
			return RunStats{}, fmt.Errorf("database unreachable, aborting run: %w", err)
		}
	}

	questionBlob, err := s.files.ReadQuestion(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "question_missing")
		return RunStats{}, fmt.Errorf("load question file: %w", err)
	}

	answerBlob, err := s.files.ReadAnswer(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer_missing")
		return RunStats{}, fmt.Errorf("load reference answer file: %w", err)
	}

	fileNames, err := s.files.ListSubmissions(ref)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_submissions_failed")
		return RunStats{}, err
	}

	questions := grading.Split(questionBlob)
	references := grading.Split(answerBlob)

	stats := RunStats{CourseID: ref.CourseID, AssignNo: ref.AssignNo, Students: len(fileNames)}
	classSummary := map[string]int{}

	for _, fileName := range fileNames {
		stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		studentEmail := coursefs.DecodeEmail(stem)

		if s.opts.SkipExisting && s.files.CommentExists(ref, stem) {
			gradingStudents.WithLabelValues("skipped").Inc()
			stats.Skipped++
			logger.Info().Str("student", studentEmail).Msg("grading artifact exists, skipping")
			continue
		}

		ok := s.gradeStudent(ctx, logger, ref, stem, fileName, studentEmail, questionBlob, answerBlob, questions, references, classSummary)
		if ok {
			gradingStudents.WithLabelValues("graded").Inc()
			stats.Graded++
		} else {
			gradingStudents.WithLabelValues("failed").Inc()
			stats.Failed++
		}
	}

	if err := s.files.WriteClassSummary(ref, classSummary); err != nil {
		logger.Error().Err(err).Msg("failed to write class wrong-answer summary")
		span.RecordError(err)
	}

	s.publishCompletion(logger, runID, stats)

	logger.Info().
		Int("students", stats.Students).
		Int("graded", stats.Graded).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("auto-grading run completed")

	span.SetAttributes(
		attribute.Int("grading.students", stats.Students),
		attribute.Int("grading.graded", stats.Graded),
		attribute.Int("grading.skipped", stats.Skipped),
		attribute.Int("grading.failed", stats.Failed),
	)

	return stats, nil
}

// gradeStudent processes a single submission end to end. It returns false
// only when persisting the result failed; degraded inputs (unreadable file,
// failed AI call) still count as graded.
func (s *autogradeService) gradeStudent(
	ctx context.Context,
	logger zerolog.Logger,
	ref coursefs.HomeworkRef,
	stem, fileName, studentEmail string,
	questionBlob, answerBlob string,
	questions, references []string,
	classSummary map[string]int,
) bool {
	content, err := s.files.ReadSubmission(ref, fileName)
	if err != nil {
		logger.Error().Err(err).Str("file", fileName).Msg("failed to read submission, grading degraded content")
		content = fmt.Sprintf("Error reading file: %v", err)
	}

	answers := grading.Split(content)
	if len(answers) != len(references) {
		// Index alignment relies on students keeping every (N) marker; a
		// count mismatch is the known silent misalignment risk.
		logger.Debug().
			Str("student", studentEmail).
			Int("reference_segments", len(references)).
			Int("student_segments", len(answers)).
			Msg("segment count mismatch between reference and submission")
	}

	perQuestion := make([]grading.QuestionGrade, 0, len(references))
	for i, reference := range references {
		question := ""
		if i < len(questions) {
			question = questions[i]
		}
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}

		score, comment := s.scorer.Score(question, reference, answer)
		perQuestion = append(perQuestion, grading.QuestionGrade{
			QuestionNo: i + 1,
			Score:      score,
			Comment:    comment,
		})
	}

	aiComment := s.holisticComment(ctx, logger, studentEmail, questionBlob, answerBlob, content)

	result := grading.Result{
		OverallScore: grading.OverallScore(perQuestion),
		AIComment:    aiComment,
		PerQuestion:  perQuestion,
	}

	persisted := true

	if err := s.files.WriteComment(ref, stem, result); err != nil {
		logger.Error().Err(err).Str("student", studentEmail).Msg("failed to write grading artifact")
		persisted = false
	}

	breakdown, err := json.Marshal(perQuestion)
	if err != nil {
		logger.Error().Err(err).Str("student", studentEmail).Msg("failed to encode per-question breakdown")
		breakdown = []byte("[]")
	}

	grade := models.HomeworkGrade{
		CourseID:     ref.CourseID,
		AssignNo:     ref.AssignNo,
		StudentEmail: studentEmail,
		Score:        result.OverallScore,
		Comment:      aiComment,
		PerQuestion:  breakdown,
	}
	if err := s.grades.Upsert(ctx, &grade); err != nil {
		logger.Error().Err(err).Str("student", studentEmail).Msg("failed to upsert homework grade")
		persisted = false
	}

	wrong := grading.WrongAnswers(perQuestion, questions, references, answers)
	if len(wrong) > 0 {
		if err := s.files.WriteMistakes(ref, stem, wrong); err != nil {
			logger.Error().Err(err).Str("student", studentEmail).Msg("failed to write wrong-answer record")
			persisted = false
		}

		for _, entry := range wrong {
			classSummary[entry.Question]++
		}
	}

	logger.Info().
		Str("student", studentEmail).
		Float64("score", result.OverallScore).
		Int("questions", len(perQuestion)).
		Int("wrong", len(wrong)).
		Msg("student graded")

	return persisted
}

// holisticComment asks the AI reviewer for one overall comment. Failures are
// converted into an error-bearing comment string; per-question scores never
// depend on this call.
func (s *autogradeService) holisticComment(ctx context.Context, logger zerolog.Logger, studentEmail, questionBlob, answerBlob, submission string) string {
	if s.commenter == nil {
		return ""
	}

	comment, err := s.commenter.Comment(ctx, ai.ReviewInput{
		Question:        questionBlob,
		ReferenceAnswer: answerBlob,
		Submission:      submission,
	})
	if err != nil {
		logger.Warn().Err(err).Str("student", studentEmail).Msg("ai comment unavailable")
		return fmt.Sprintf("AI 评语生成失败：%v", err)
	}

	return comment
}

func (s *autogradeService) publishCompletion(logger zerolog.Logger, runID string, stats RunStats) {
	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(struct {
		RunID string `json:"run_id"`
		RunStats
	}{RunID: runID, RunStats: stats})
	if err != nil {
		logger.Warn().Err(err).Msg("failed to encode grading completion event")
		return
	}

	if err := s.nats.Publish(gradingCompletedSubject, payload); err != nil {
		logger.Warn().Err(err).Msg("failed to publish grading completion event")
	}
}
