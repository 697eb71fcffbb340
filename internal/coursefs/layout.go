package coursefs

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Fixed per-assignment file names inside a homework directory.
const (
	QuestionFileName = "question.txt"
	AnswerFileName   = "answer.txt"
	commentDirName   = "comment"
	mistakeDirName   = "mistake"
)

// HomeworkRef identifies one assignment's directory below the course data
// root.
type HomeworkRef struct {
	CourseID string
	AssignNo int
}

// ParseHomeworkPath resolves a "course_id/homework/assign_no" identifier. The
// literal middle segment must be "homework" and the assignment number must be
// a positive integer.
func ParseHomeworkPath(homeworkPath string) (HomeworkRef, error) {
	parts := strings.Split(strings.Trim(homeworkPath, "/"), "/")
	if len(parts) != 3 || parts[1] != "homework" {
		return HomeworkRef{}, fmt.Errorf("invalid homework path %q: expected course_id/homework/assign_no", homeworkPath)
	}
	if parts[0] == "" {
		return HomeworkRef{}, fmt.Errorf("invalid homework path %q: empty course id", homeworkPath)
	}

	assignNo, err := strconv.Atoi(parts[2])
	if err != nil || assignNo < 1 {
		return HomeworkRef{}, fmt.Errorf("invalid homework path %q: bad assignment number %q", homeworkPath, parts[2])
	}

	return HomeworkRef{CourseID: parts[0], AssignNo: assignNo}, nil
}

// Path returns the canonical "course_id/homework/assign_no" form.
func (r HomeworkRef) Path() string {
	return fmt.Sprintf("%s/homework/%d", r.CourseID, r.AssignNo)
}

// Dir returns the homework directory below the data root.
func (r HomeworkRef) Dir(baseDir string) string {
	return filepath.Join(baseDir, r.CourseID, "homework", strconv.Itoa(r.AssignNo))
}

// QuestionPath returns the location of the assignment question blob.
func (r HomeworkRef) QuestionPath(baseDir string) string {
	return filepath.Join(r.Dir(baseDir), QuestionFileName)
}

// AnswerPath returns the location of the reference-answer blob.
func (r HomeworkRef) AnswerPath(baseDir string) string {
	return filepath.Join(r.Dir(baseDir), AnswerFileName)
}

// SubmissionPath returns the location of one student's submission file.
func (r HomeworkRef) SubmissionPath(baseDir, studentEmail string) string {
	return filepath.Join(r.Dir(baseDir), EncodeEmail(studentEmail)+".txt")
}

// CommentPath returns the location of the per-student grading result artifact.
func (r HomeworkRef) CommentPath(baseDir, stem string) string {
	return filepath.Join(r.Dir(baseDir), commentDirName, stem+".json")
}

// MistakePath returns the location of the per-student wrong-answer artifact.
func (r HomeworkRef) MistakePath(baseDir, stem string) string {
	return filepath.Join(r.Dir(baseDir), mistakeDirName, stem+".json")
}

// ClassSummaryPath returns the location of the class-wide wrong-answer tally,
// named by flattening the homework path.
func (r HomeworkRef) ClassSummaryPath(baseDir string) string {
	flattened := strings.ReplaceAll(r.Path(), "/", "_")
	return filepath.Join(r.Dir(baseDir), mistakeDirName, flattened+".json")
}
