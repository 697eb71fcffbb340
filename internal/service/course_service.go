package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/models"
	"github.com/acadmate/acadmate-api/internal/repository"
)

// ErrCourseExists indicates the course identifier is already taken.
var ErrCourseExists = errors.New("course already exists")

// ErrAlreadyEnrolled indicates the student joined the course before.
var ErrAlreadyEnrolled = errors.New("already enrolled in course")

// CourseService encapsulates course creation and enrollment.
type CourseService interface {
	Create(ctx context.Context, teacherEmail string, payload dto.CourseCreateRequest) (dto.CourseResponse, error)
	Enroll(ctx context.Context, studentEmail, courseID string) error
}

type courseService struct {
	courses   repository.CourseRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCourseService builds the course service.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		validator: validate,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, teacherEmail string, payload dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	courseID := strings.TrimSpace(payload.CourseID)
	if _, err := s.courses.GetByID(ctx, courseID); err == nil {
		return dto.CourseResponse{}, ErrCourseExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		CourseID:     courseID,
		Title:        strings.TrimSpace(payload.Title),
		TeacherEmail: teacherEmail,
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Str("course_id", courseID).Str("teacher", teacherEmail).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Enroll(ctx context.Context, studentEmail, courseID string) error {
	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentEmail)
	if err != nil {
		return err
	}
	if enrolled {
		return ErrAlreadyEnrolled
	}

	enrollment := models.Enrollment{CourseID: courseID, StudentEmail: studentEmail}
	if err := s.courses.Enroll(ctx, &enrollment); err != nil {
		return err
	}

	s.logger.Info().Str("course_id", courseID).Str("student", studentEmail).Msg("student enrolled")
	return nil
}
