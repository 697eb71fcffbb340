package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/acadmate/acadmate-api/internal/coursefs"
	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/models"
)

func newAssignmentTestService(t *testing.T) (AssignmentService, *fakeCourseRepo, *fakeAssignmentRepo, *fakeGradeRepo, *coursefs.Store) {
	t.Helper()
	courses := newFakeCourseRepo()
	assignments := &fakeAssignmentRepo{}
	grades := newFakeGradeRepo()
	files := coursefs.NewStore(t.TempDir())
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAssignmentService(courses, assignments, grades, files, validate, testLogger())
	return svc, courses, assignments, grades, files
}

func TestAssignmentCreateWritesFilesAndAssignsNumber(t *testing.T) {
	svc, courses, assignments, _, files := newAssignmentTestService(t)
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", Title: "Networks", TeacherEmail: "prof@uni.edu"}

	payload := dto.AssignmentCreateRequest{
		CourseID:        "rg_01",
		Title:           "Week 1",
		Description:     "<p>Read chapter one</p><script>alert(1)</script>",
		Question:        "(1) What is 2+2?",
		ReferenceAnswer: "(1) 4",
	}

	created, err := svc.Create(context.Background(), "prof@uni.edu", payload)
	require.NoError(t, err)
	require.Equal(t, 1, created.AssignNo)
	require.NotContains(t, created.Description, "<script>")
	require.Contains(t, created.Description, "Read chapter one")

	ref := coursefs.HomeworkRef{CourseID: "rg_01", AssignNo: 1}
	question, err := files.ReadQuestion(ref)
	require.NoError(t, err)
	require.Equal(t, "(1) What is 2+2?", question)
	answer, err := files.ReadAnswer(ref)
	require.NoError(t, err)
	require.Equal(t, "(1) 4", answer)

	// Numbers are sequential per course.
	second, err := svc.Create(context.Background(), "prof@uni.edu", payload)
	require.NoError(t, err)
	require.Equal(t, 2, second.AssignNo)
	require.Len(t, assignments.assignments, 2)
}

func TestAssignmentCreateRejectsNonTeacher(t *testing.T) {
	svc, courses, _, _, _ := newAssignmentTestService(t)
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}

	_, err := svc.Create(context.Background(), "other@uni.edu", dto.AssignmentCreateRequest{
		CourseID: "rg_01",
		Title:    "Week 1",
		Question: "(1) q",
	})
	require.ErrorIs(t, err, ErrNotCourseTeacher)
}

func TestAssignmentCreateUnknownCourse(t *testing.T) {
	svc, _, _, _, _ := newAssignmentTestService(t)

	_, err := svc.Create(context.Background(), "prof@uni.edu", dto.AssignmentCreateRequest{
		CourseID: "missing",
		Title:    "Week 1",
		Question: "(1) q",
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestAssignmentCreateParsesDueDate(t *testing.T) {
	svc, courses, _, _, _ := newAssignmentTestService(t)
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}

	created, err := svc.Create(context.Background(), "prof@uni.edu", dto.AssignmentCreateRequest{
		CourseID: "rg_01",
		Title:    "Week 1",
		Question: "(1) q",
		DueDate:  "2030-06-01T16:00",
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	require.Equal(t, time.Date(2030, 6, 1, 16, 0, 0, 0, time.UTC), created.DueDate.UTC())
	require.Equal(t, "open", created.Status)
}

func TestAssignmentGetNotFound(t *testing.T) {
	svc, _, _, _, _ := newAssignmentTestService(t)

	_, err := svc.Get(context.Background(), "rg_01", 9)
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestAssignmentSummaryCountsProgress(t *testing.T) {
	svc, courses, _, grades, files := newAssignmentTestService(t)
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}
	courses.enrollments["rg_01"] = []string{"alice@qq.com", "bob@gmail.com", "carol@qq.com"}

	ref := coursefs.HomeworkRef{CourseID: "rg_01", AssignNo: 1}
	require.NoError(t, files.WriteSubmission(ref, "alice@qq.com", "(1) 4"))
	require.NoError(t, files.WriteSubmission(ref, "bob@gmail.com", "(1) 5"))
	require.NoError(t, grades.Upsert(context.Background(), &models.HomeworkGrade{
		CourseID: "rg_01", AssignNo: 1, StudentEmail: "alice@qq.com", Score: 100,
	}))

	summary, err := svc.Summary(context.Background(), "prof@uni.edu", "rg_01", 1)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Total)
	require.Equal(t, 2, summary.Submitted)
	require.Equal(t, 1, summary.Ungraded)
}

func TestAssignmentSummaryNoSubmissionsYet(t *testing.T) {
	svc, courses, _, _, _ := newAssignmentTestService(t)
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}
	courses.enrollments["rg_01"] = []string{"alice@qq.com"}

	summary, err := svc.Summary(context.Background(), "prof@uni.edu", "rg_01", 1)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Total)
	require.Equal(t, 0, summary.Submitted)
	require.Equal(t, 0, summary.Ungraded)
}
