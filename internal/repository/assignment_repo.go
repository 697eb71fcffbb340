package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/models"
)

// AssignmentRepository defines data operations for assignments.
type AssignmentRepository interface {
	GetByCourseAndNo(ctx context.Context, courseID string, assignNo int) (models.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	NextAssignNo(ctx context.Context, courseID string) (int, error)
	Create(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) GetByCourseAndNo(ctx context.Context, courseID string, assignNo int) (models.Assignment, error) {
	var assignment models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("assign_no = ?", assignNo).
		First(&assignment).Error
	if err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var assignments []models.Assignment
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("assign_no ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) NextAssignNo(ctx context.Context, courseID string) (int, error) {
	var maxNo *int
	err := r.db.WithContext(ctx).Model(&models.Assignment{}).
		Where("course_id = ?", courseID).
		Select("MAX(assign_no)").
		Scan(&maxNo).Error
	if err != nil {
		return 0, err
	}

	if maxNo == nil {
		return 1, nil
	}

	return *maxNo + 1, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}
