package coursefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store reads and writes the fixed on-disk course layout rooted at one data
// directory:
//
//	{base}/{course_id}/homework/{assign_no}/question.txt
//	{base}/{course_id}/homework/{assign_no}/answer.txt
//	{base}/{course_id}/homework/{assign_no}/{encoded_email}.txt
//	{base}/{course_id}/homework/{assign_no}/comment/{stem}.json
//	{base}/{course_id}/homework/{assign_no}/mistake/{stem}.json
type Store struct {
	baseDir string
}

// NewStore returns a store rooted at baseDir.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir exposes the configured data root.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// ReadQuestion loads the question blob for one assignment.
func (s *Store) ReadQuestion(ref HomeworkRef) (string, error) {
	return s.readText(ref.QuestionPath(s.baseDir))
}

// ReadAnswer loads the reference-answer blob for one assignment.
func (s *Store) ReadAnswer(ref HomeworkRef) (string, error) {
	return s.readText(ref.AnswerPath(s.baseDir))
}

// WriteQuestion stores the question blob, creating the homework directory if
// needed.
func (s *Store) WriteQuestion(ref HomeworkRef, content string) error {
	return s.writeText(ref.QuestionPath(s.baseDir), content)
}

// WriteAnswer stores the reference-answer blob.
func (s *Store) WriteAnswer(ref HomeworkRef, content string) error {
	return s.writeText(ref.AnswerPath(s.baseDir), content)
}

// SubmissionExists reports whether a student already submitted this
// assignment.
func (s *Store) SubmissionExists(ref HomeworkRef, studentEmail string) bool {
	_, err := os.Stat(ref.SubmissionPath(s.baseDir, studentEmail))
	return err == nil
}

// WriteSubmission stores one student's submission text under the encoded
// email filename.
func (s *Store) WriteSubmission(ref HomeworkRef, studentEmail, content string) error {
	return s.writeText(ref.SubmissionPath(s.baseDir, studentEmail), content)
}

// ReadSubmission loads one submission file by its filename.
func (s *Store) ReadSubmission(ref HomeworkRef, fileName string) (string, error) {
	return s.readText(filepath.Join(ref.Dir(s.baseDir), fileName))
}

// ListSubmissions enumerates submission files inside the homework directory,
// excluding the question file, the reference-answer file, JSON artifacts and
// subdirectories. Names are returned sorted for deterministic runs.
func (s *Store) ListSubmissions(ref HomeworkRef) ([]string, error) {
	entries, err := os.ReadDir(ref.Dir(s.baseDir))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == QuestionFileName || name == AnswerFileName {
			continue
		}
		if strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// CommentExists reports whether a grading result artifact is already on disk
// for the given filename stem.
func (s *Store) CommentExists(ref HomeworkRef, stem string) bool {
	_, err := os.Stat(ref.CommentPath(s.baseDir, stem))
	return err == nil
}

// WriteComment persists a grading result artifact for one student.
func (s *Store) WriteComment(ref HomeworkRef, stem string, result interface{}) error {
	return s.writeJSON(ref.CommentPath(s.baseDir, stem), result)
}

// WriteMistakes persists a per-student wrong-answer artifact.
func (s *Store) WriteMistakes(ref HomeworkRef, stem string, record interface{}) error {
	return s.writeJSON(ref.MistakePath(s.baseDir, stem), record)
}

// WriteClassSummary persists the class-wide wrong-answer tally.
func (s *Store) WriteClassSummary(ref HomeworkRef, summary map[string]int) error {
	return s.writeJSON(ref.ClassSummaryPath(s.baseDir), summary)
}

func (s *Store) readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) writeText(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func (s *Store) writeJSON(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}

	return os.WriteFile(path, data, 0o644)
}
