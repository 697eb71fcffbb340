package dto

import "time"

// SubmissionCreateRequest carries a student's raw answer text for one
// assignment.
type SubmissionCreateRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// SubmissionResponse is the serialized view of a student's submission,
// including grading feedback once available.
type SubmissionResponse struct {
	Content    string     `json:"content"`
	SubmitTime *time.Time `json:"submit_time"`
	Score      *float64   `json:"score"`
	Feedback   string     `json:"feedback"`
}
