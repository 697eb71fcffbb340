package dto

import (
	"encoding/json"

	"github.com/acadmate/acadmate-api/internal/models"
)

// GradeResponse is the persisted grading result for one student.
type GradeResponse struct {
	CourseID     string          `json:"course_id"`
	AssignNo     int             `json:"assign_no"`
	StudentEmail string          `json:"student_email"`
	Score        float64         `json:"score"`
	Comment      string          `json:"comment"`
	PerQuestion  json.RawMessage `json:"per_question"`
}

// NewGradeResponse converts a grade row into a DTO.
func NewGradeResponse(model models.HomeworkGrade) GradeResponse {
	perQuestion := json.RawMessage(model.PerQuestion)
	if len(perQuestion) == 0 {
		perQuestion = json.RawMessage("[]")
	}

	return GradeResponse{
		CourseID:     model.CourseID,
		AssignNo:     model.AssignNo,
		StudentEmail: model.StudentEmail,
		Score:        model.Score,
		Comment:      model.Comment,
		PerQuestion:  perQuestion,
	}
}
