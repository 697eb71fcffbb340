package dto

import "github.com/acadmate/acadmate-api/internal/models"

// CourseCreateRequest is the payload for creating a course.
type CourseCreateRequest struct {
	CourseID string `json:"course_id" validate:"required,min=1,max=64"`
	Title    string `json:"title" validate:"required,min=1,max=255"`
}

// CourseResponse is the public representation of a course.
type CourseResponse struct {
	CourseID     string `json:"course_id"`
	Title        string `json:"title"`
	TeacherEmail string `json:"teacher_email"`
}

// NewCourseResponse converts a course row into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		CourseID:     model.CourseID,
		Title:        model.Title,
		TeacherEmail: model.TeacherEmail,
	}
}
