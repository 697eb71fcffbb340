package dto

import (
	"time"

	"github.com/acadmate/acadmate-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new
// assignment. The question and reference-answer blobs are written to the
// course data directory, not the database.
type AssignmentCreateRequest struct {
	CourseID        string `json:"course_id" validate:"required"`
	Title           string `json:"title" validate:"required,min=1"`
	Description     string `json:"description"`
	Question        string `json:"question" validate:"required,min=1"`
	ReferenceAnswer string `json:"reference_answer"`
	DueDate         string `json:"due_date" validate:"omitempty"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	CourseID    string     `json:"course_id"`
	AssignNo    int        `json:"assign_no"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
}

// AssignmentSummaryResponse reports submission progress for one assignment.
type AssignmentSummaryResponse struct {
	Total     int `json:"total"`
	Submitted int `json:"submitted"`
	Ungraded  int `json:"ungraded"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment, now time.Time) AssignmentResponse {
	status := ""
	if model.DueDate != nil {
		if model.IsPastDue(now) {
			status = "closed"
		} else {
			status = "open"
		}
	}

	return AssignmentResponse{
		CourseID:    model.CourseID,
		AssignNo:    model.AssignNo,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		Status:      status,
	}
}
