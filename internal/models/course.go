package models

import "time"

// Course is one teachable unit owned by a teacher.
type Course struct {
	CourseID     string    `gorm:"primaryKey;size:64" json:"course_id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	TeacherEmail string    `gorm:"size:255;not null;index" json:"teacher_email"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Enrollment links a student to a course.
type Enrollment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CourseID     string    `gorm:"size:64;not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	StudentEmail string    `gorm:"size:255;not null;uniqueIndex:idx_enrollment_course_student" json:"student_email"`
	CreatedAt    time.Time `json:"created_at"`
}
