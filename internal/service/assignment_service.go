package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/models"
	"github.com/acadmate/acadmate-api/internal/repository"
)

// ErrCourseNotFound indicates the referenced course does not exist.
var ErrCourseNotFound = errors.New("course not found")

// ErrNotCourseTeacher indicates the actor does not own the course.
var ErrNotCourseTeacher = errors.New("not the course teacher")

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// AssignmentService encapsulates teacher-facing assignment workflows.
type AssignmentService interface {
	Create(ctx context.Context, teacherEmail string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, courseID string, assignNo int) (dto.AssignmentResponse, error)
	Summary(ctx context.Context, teacherEmail, courseID string, assignNo int) (dto.AssignmentSummaryResponse, error)
}

type assignmentService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	grades      repository.GradeRepository
	files       *coursefs.Store
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	grades repository.GradeRepository,
	files *coursefs.Store,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		courses:     courses,
		assignments: assignments,
		grades:      grades,
		files:       files,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherEmail string, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if course.TeacherEmail != teacherEmail {
		return dto.AssignmentResponse{}, ErrNotCourseTeacher
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignNo, err := s.assignments.NextAssignNo(ctx, payload.CourseID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:    payload.CourseID,
		AssignNo:    assignNo,
		Title:       strings.TrimSpace(payload.Title),
		Description: s.sanitizer.Sanitize(payload.Description),
		DueDate:     dueDate,
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	ref := coursefs.HomeworkRef{CourseID: payload.CourseID, AssignNo: assignNo}
	if err := s.files.WriteQuestion(ref, payload.Question); err != nil {
		s.logger.Error().Err(err).Str("course_id", payload.CourseID).Int("assign_no", assignNo).Msg("failed to write question file")
		return dto.AssignmentResponse{}, err
	}
	if payload.ReferenceAnswer != "" {
		if err := s.files.WriteAnswer(ref, payload.ReferenceAnswer); err != nil {
			s.logger.Error().Err(err).Str("course_id", payload.CourseID).Int("assign_no", assignNo).Msg("failed to write reference answer file")
			return dto.AssignmentResponse{}, err
		}
	}

	s.logger.Info().Str("course_id", payload.CourseID).Int("assign_no", assignNo).Msg("assignment created")
	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Get(ctx context.Context, courseID string, assignNo int) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByCourseAndNo(ctx, courseID, assignNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment, s.now()), nil
}

func (s *assignmentService) Summary(ctx context.Context, teacherEmail, courseID string, assignNo int) (dto.AssignmentSummaryResponse, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentSummaryResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentSummaryResponse{}, err
	}

	if course.TeacherEmail != teacherEmail {
		return dto.AssignmentSummaryResponse{}, ErrNotCourseTeacher
	}

	total, err := s.courses.CountEnrolled(ctx, courseID)
	if err != nil {
		return dto.AssignmentSummaryResponse{}, err
	}

	ref := coursefs.HomeworkRef{CourseID: courseID, AssignNo: assignNo}
	fileNames, err := s.files.ListSubmissions(ref)
	if err != nil {
		// No directory yet simply means nobody submitted.
		fileNames = nil
	}

	submitted := map[string]struct{}{}
	for _, fileName := range fileNames {
		stem := strings.TrimSuffix(fileName, filepath.Ext(fileName))
		submitted[coursefs.DecodeEmail(stem)] = struct{}{}
	}

	gradedEmails, err := s.grades.ListGradedEmails(ctx, courseID, assignNo)
	if err != nil {
		return dto.AssignmentSummaryResponse{}, err
	}

	graded := map[string]struct{}{}
	for _, email := range gradedEmails {
		graded[email] = struct{}{}
	}

	ungraded := 0
	for email := range submitted {
		if _, ok := graded[email]; !ok {
			ungraded++
		}
	}

	return dto.AssignmentSummaryResponse{
		Total:     int(total),
		Submitted: len(submitted),
		Ungraded:  ungraded,
	}, nil
}

func parseDueDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}

	return nil, fmt.Errorf("invalid due date %q: expected YYYY-MM-DD or YYYY-MM-DDTHH:MM", value)
}
