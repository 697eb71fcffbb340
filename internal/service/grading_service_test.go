package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/acadmate/acadmate-api/internal/dto"
	"github.com/acadmate/acadmate-api/internal/models"
)

type fakeAutograde struct {
	stats      RunStats
	err        error
	lastPath   string
	timesCalls int
}

func (f *fakeAutograde) Run(ctx context.Context, homeworkPath string) (RunStats, error) {
	f.timesCalls++
	f.lastPath = homeworkPath
	return f.stats, f.err
}

func TestGradingRunForAssignmentBuildsPath(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}
	autograde := &fakeAutograde{stats: RunStats{CourseID: "rg_01", AssignNo: 3, Graded: 5}}
	svc := NewGradingService(courses, newFakeGradeRepo(), autograde, testLogger())

	stats, err := svc.RunForAssignment(context.Background(), "prof@uni.edu", "rg_01", 3)
	require.NoError(t, err)
	require.Equal(t, "rg_01/homework/3", autograde.lastPath)
	require.Equal(t, 5, stats.Graded)
}

func TestGradingRunRequiresCourseTeacher(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}
	autograde := &fakeAutograde{}
	svc := NewGradingService(courses, newFakeGradeRepo(), autograde, testLogger())

	_, err := svc.RunForAssignment(context.Background(), "impostor@uni.edu", "rg_01", 1)
	require.ErrorIs(t, err, ErrNotCourseTeacher)
	require.Zero(t, autograde.timesCalls)

	_, err = svc.RunForAssignment(context.Background(), "prof@uni.edu", "missing", 1)
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestGradingStudentGrade(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.courses["rg_01"] = models.Course{CourseID: "rg_01", TeacherEmail: "prof@uni.edu"}
	grades := newFakeGradeRepo()
	require.NoError(t, grades.Upsert(context.Background(), &models.HomeworkGrade{
		CourseID: "rg_01", AssignNo: 1, StudentEmail: "alice@qq.com", Score: 66.7, Comment: "总体良好。",
	}))
	svc := NewGradingService(courses, grades, &fakeAutograde{}, testLogger())

	grade, err := svc.StudentGrade(context.Background(), "prof@uni.edu", "rg_01", 1, "alice@qq.com")
	require.NoError(t, err)
	require.Equal(t, 66.7, grade.Score)
	require.Equal(t, "总体良好。", grade.Comment)
	// An empty stored breakdown serialises as an empty array, not null.
	require.Equal(t, "[]", string(grade.PerQuestion))

	_, err = svc.StudentGrade(context.Background(), "prof@uni.edu", "rg_01", 1, "bob@gmail.com")
	require.ErrorIs(t, err, ErrGradeNotFound)
}

func TestCourseCreateAndEnroll(t *testing.T) {
	courses := newFakeCourseRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewCourseService(courses, validate, testLogger())

	created, err := svc.Create(context.Background(), "prof@uni.edu", dto.CourseCreateRequest{CourseID: "rg_01", Title: "Networks"})
	require.NoError(t, err)
	require.Equal(t, "prof@uni.edu", created.TeacherEmail)

	_, err = svc.Create(context.Background(), "prof@uni.edu", dto.CourseCreateRequest{CourseID: "rg_01", Title: "Networks"})
	require.ErrorIs(t, err, ErrCourseExists)

	require.NoError(t, svc.Enroll(context.Background(), "alice@qq.com", "rg_01"))
	require.ErrorIs(t, svc.Enroll(context.Background(), "alice@qq.com", "rg_01"), ErrAlreadyEnrolled)
	require.ErrorIs(t, svc.Enroll(context.Background(), "alice@qq.com", "missing"), ErrCourseNotFound)

	enrolled, err := courses.IsEnrolled(context.Background(), "rg_01", "alice@qq.com")
	require.NoError(t, err)
	require.True(t, enrolled)
}
