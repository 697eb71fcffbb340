package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/models"
)

// CourseRepository defines data operations for courses and enrollments.
type CourseRepository interface {
	GetByID(ctx context.Context, courseID string) (models.Course, error)
	IsEnrolled(ctx context.Context, courseID, studentEmail string) (bool, error)
	CountEnrolled(ctx context.Context, courseID string) (int64, error)
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	Create(ctx context.Context, course *models.Course) error
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates the repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, courseID string) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, "course_id = ?", courseID).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) IsEnrolled(ctx context.Context, courseID, studentEmail string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Where("student_email = ?", studentEmail).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *courseRepository) CountEnrolled(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error

	return count, err
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}
