package ai

import "context"

// ReviewInput carries the artefacts for one holistic homework review: the full
// question blob, the full reference-answer blob, and the student's complete
// submission text.
type ReviewInput struct {
	Question        string
	ReferenceAnswer string
	Submission      string
}

// Commenter produces a single natural-language comment for a student
// submission. The call is best-effort: callers must treat an error as a
// degraded comment, never as a grading failure.
type Commenter interface {
	Comment(ctx context.Context, input ReviewInput) (string, error)
}
