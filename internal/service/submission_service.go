package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/repository"
)

// ErrNotEnrolled indicates the student is not enrolled in the course.
var ErrNotEnrolled = errors.New("student not enrolled in course")

// ErrDuplicateSubmission indicates the student already submitted this
// assignment.
var ErrDuplicateSubmission = errors.New("assignment already submitted")

// ErrUnsupportedContent indicates the submitted payload is not plain text.
var ErrUnsupportedContent = errors.New("submission content must be plain text")

// ErrSubmissionNotFound indicates the student has not submitted yet.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionService encapsulates student-facing submission workflows.
type SubmissionService interface {
	Submit(ctx context.Context, studentEmail, courseID string, assignNo int, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	GetOwn(ctx context.Context, studentEmail, courseID string, assignNo int) (dto.SubmissionResponse, error)
}

type submissionService struct {
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	grades      repository.GradeRepository
	files       *coursefs.Store
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the submission service.
func NewSubmissionService(
	courses repository.CourseRepository,
	assignments repository.AssignmentRepository,
	grades repository.GradeRepository,
	files *coursefs.Store,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		courses:     courses,
		assignments: assignments,
		grades:      grades,
		files:       files,
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, studentEmail, courseID string, assignNo int, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentEmail)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, ErrNotEnrolled
	}

	if _, err := s.assignments.GetByCourseAndNo(ctx, courseID, assignNo); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	detected := mimetype.Detect([]byte(payload.Content))
	if !strings.HasPrefix(detected.String(), "text/") {
		return dto.SubmissionResponse{}, ErrUnsupportedContent
	}

	ref := coursefs.HomeworkRef{CourseID: courseID, AssignNo: assignNo}
	if s.files.SubmissionExists(ref, studentEmail) {
		return dto.SubmissionResponse{}, ErrDuplicateSubmission
	}

	if err := s.files.WriteSubmission(ref, studentEmail, payload.Content); err != nil {
		return dto.SubmissionResponse{}, err
	}

	submitTime := s.now()
	s.logger.Info().
		Str("course_id", courseID).
		Int("assign_no", assignNo).
		Str("student", studentEmail).
		Msg("assignment submitted")

	return dto.SubmissionResponse{Content: payload.Content, SubmitTime: &submitTime}, nil
}

func (s *submissionService) GetOwn(ctx context.Context, studentEmail, courseID string, assignNo int) (dto.SubmissionResponse, error) {
	enrolled, err := s.courses.IsEnrolled(ctx, courseID, studentEmail)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}
	if !enrolled {
		return dto.SubmissionResponse{}, ErrNotEnrolled
	}

	ref := coursefs.HomeworkRef{CourseID: courseID, AssignNo: assignNo}
	fileName := coursefs.EncodeEmail(studentEmail) + ".txt"
	content, err := s.files.ReadSubmission(ref, fileName)
	if err != nil {
		return dto.SubmissionResponse{}, ErrSubmissionNotFound
	}

	response := dto.SubmissionResponse{Content: content}

	grade, err := s.grades.GetByKey(ctx, courseID, assignNo, studentEmail)
	if err == nil {
		response.Score = &grade.Score
		response.Feedback = grade.Comment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.SubmissionResponse{}, err
	}

	return response, nil
}
