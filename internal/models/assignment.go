package models

import "time"

// Assignment represents one homework unit scoped to a course, identified by
// its sequence number within that course. The question and reference-answer
// blobs live on the filesystem, not in this row.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	CourseID    string     `gorm:"size:64;not null;uniqueIndex:idx_assignment_course_no" json:"course_id"`
	AssignNo    int        `gorm:"not null;uniqueIndex:idx_assignment_course_no" json:"assign_no"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsPastDue returns true when the assignment deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return a.DueDate != nil && reference.After(*a.DueDate)
}
