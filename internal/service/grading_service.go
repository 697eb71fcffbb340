package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/repository"
)

// ErrGradeNotFound indicates no grade row exists for the student yet.
var ErrGradeNotFound = errors.New("grade not found")

// GradingService exposes the teacher-facing grading operations over HTTP:
// triggering an auto-grading run and inspecting individual results.
type GradingService interface {
	RunForAssignment(ctx context.Context, teacherEmail, courseID string, assignNo int) (RunStats, error)
	StudentGrade(ctx context.Context, teacherEmail, courseID string, assignNo int, studentEmail string) (dto.GradeResponse, error)
}

type gradingService struct {
	courses   repository.CourseRepository
	grades    repository.GradeRepository
	autograde AutogradeService
	logger    zerolog.Logger
}

// NewGradingService builds the grading facade used by the HTTP layer.
func NewGradingService(
	courses repository.CourseRepository,
	grades repository.GradeRepository,
	autograde AutogradeService,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		courses:   courses,
		grades:    grades,
		autograde: autograde,
		logger:    logger.With().Str("component", "grading_service").Logger(),
	}
}

func (s *gradingService) RunForAssignment(ctx context.Context, teacherEmail, courseID string, assignNo int) (RunStats, error) {
	if err := s.requireCourseTeacher(ctx, teacherEmail, courseID); err != nil {
		return RunStats{}, err
	}

	ref := coursefs.HomeworkRef{CourseID: courseID, AssignNo: assignNo}
	return s.autograde.Run(ctx, ref.Path())
}

func (s *gradingService) StudentGrade(ctx context.Context, teacherEmail, courseID string, assignNo int, studentEmail string) (dto.GradeResponse, error) {
	if err := s.requireCourseTeacher(ctx, teacherEmail, courseID); err != nil {
		return dto.GradeResponse{}, err
	}

	grade, err := s.grades.GetByKey(ctx, courseID, assignNo, studentEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GradeResponse{}, ErrGradeNotFound
		}
		return dto.GradeResponse{}, err
	}

	return dto.NewGradeResponse(grade), nil
}

func (s *gradingService) requireCourseTeacher(ctx context.Context, teacherEmail, courseID string) error {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if course.TeacherEmail != teacherEmail {
		return ErrNotCourseTeacher
	}

	return nil
}
