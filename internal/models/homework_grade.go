package models

import (
	"time"

	"gorm.io/datatypes"
)

// HomeworkGrade is the persisted grading result for one student on one
// assignment. The (course_id, assign_no, student_email) triple is unique;
// regrading replaces score, comment and breakdown in place.
type HomeworkGrade struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CourseID     string         `gorm:"size:64;not null;uniqueIndex:idx_grade_course_assign_student" json:"course_id"`
	AssignNo     int            `gorm:"not null;uniqueIndex:idx_grade_course_assign_student" json:"assign_no"`
	StudentEmail string         `gorm:"size:255;not null;uniqueIndex:idx_grade_course_assign_student" json:"student_email"`
	Score        float64        `gorm:"not null" json:"score"`
	Comment      string         `gorm:"type:text" json:"comment"`
	PerQuestion  datatypes.JSON `gorm:"type:json" json:"per_question"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
