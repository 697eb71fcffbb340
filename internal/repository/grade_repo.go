package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acadmate/acadmate-api/internal/models"
)

// GradeRepository persists homework grading results with replace-on-conflict
// semantics over the (course_id, assign_no, student_email) key.
type GradeRepository interface {
	Upsert(ctx context.Context, grade *models.HomeworkGrade) error
	GetByKey(ctx context.Context, courseID string, assignNo int, studentEmail string) (models.HomeworkGrade, error)
	ListGradedEmails(ctx context.Context, courseID string, assignNo int) ([]string, error)
}

type gradeRepository struct {
	db *gorm.DB
}

// NewGradeRepository instantiates the repository.
func NewGradeRepository(db *gorm.DB) GradeRepository {
	return &gradeRepository{db: db}
}

func (r *gradeRepository) Upsert(ctx context.Context, grade *models.HomeworkGrade) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "course_id"},
			{Name: "assign_no"},
			{Name: "student_email"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"score", "comment", "per_question", "updated_at"}),
	}).Create(grade).Error
}

func (r *gradeRepository) GetByKey(ctx context.Context, courseID string, assignNo int, studentEmail string) (models.HomeworkGrade, error) {
	var grade models.HomeworkGrade
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Where("assign_no = ?", assignNo).
		Where("student_email = ?", studentEmail).
		First(&grade).Error
	if err != nil {
		return models.HomeworkGrade{}, err
	}

	return grade, nil
}

func (r *gradeRepository) ListGradedEmails(ctx context.Context, courseID string, assignNo int) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&models.HomeworkGrade{}).
		Where("course_id = ?", courseID).
		Where("assign_no = ?", assignNo).
		Pluck("student_email", &emails).Error
	if err != nil {
		return nil, err
	}

	return emails, nil
}
