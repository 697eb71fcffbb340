package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/models"
)

type fakeCourseRepo struct {
	courses     map[string]models.Course
	enrollments map[string][]string
	enrollErr   error
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:     map[string]models.Course{},
		enrollments: map[string][]string{},
	}
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, courseID string) (models.Course, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return course, nil
}

func (f *fakeCourseRepo) IsEnrolled(ctx context.Context, courseID, studentEmail string) (bool, error) {
	for _, email := range f.enrollments[courseID] {
		if email == studentEmail {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) CountEnrolled(ctx context.Context, courseID string) (int64, error) {
	return int64(len(f.enrollments[courseID])), nil
}

func (f *fakeCourseRepo) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	if f.enrollErr != nil {
		return f.enrollErr
	}
	f.enrollments[enrollment.CourseID] = append(f.enrollments[enrollment.CourseID], enrollment.StudentEmail)
	return nil
}

func (f *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	f.courses[course.CourseID] = *course
	return nil
}

type fakeAssignmentRepo struct {
	assignments []models.Assignment
	createErr   error
}

func (f *fakeAssignmentRepo) GetByCourseAndNo(ctx context.Context, courseID string, assignNo int) (models.Assignment, error) {
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID && assignment.AssignNo == assignNo {
			return assignment, nil
		}
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	var result []models.Assignment
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID {
			result = append(result, assignment)
		}
	}
	return result, nil
}

func (f *fakeAssignmentRepo) NextAssignNo(ctx context.Context, courseID string) (int, error) {
	next := 1
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID && assignment.AssignNo >= next {
			next = assignment.AssignNo + 1
		}
	}
	return next, nil
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if f.createErr != nil {
		return f.createErr
	}
	assignment.ID = uint(len(f.assignments) + 1)
	f.assignments = append(f.assignments, *assignment)
	return nil
}

type gradeKey struct {
	courseID     string
	assignNo     int
	studentEmail string
}

type fakeGradeRepo struct {
	grades    map[gradeKey]models.HomeworkGrade
	upsertErr error
}

func newFakeGradeRepo() *fakeGradeRepo {
	return &fakeGradeRepo{grades: map[gradeKey]models.HomeworkGrade{}}
}

func (f *fakeGradeRepo) Upsert(ctx context.Context, grade *models.HomeworkGrade) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.grades[gradeKey{grade.CourseID, grade.AssignNo, grade.StudentEmail}] = *grade
	return nil
}

func (f *fakeGradeRepo) GetByKey(ctx context.Context, courseID string, assignNo int, studentEmail string) (models.HomeworkGrade, error) {
	grade, ok := f.grades[gradeKey{courseID, assignNo, studentEmail}]
	if !ok {
		return models.HomeworkGrade{}, gorm.ErrRecordNotFound
	}
	return grade, nil
}

func (f *fakeGradeRepo) ListGradedEmails(ctx context.Context, courseID string, assignNo int) ([]string, error) {
	var emails []string
	for key := range f.grades {
		if key.courseID == courseID && key.assignNo == assignNo {
			emails = append(emails, key.studentEmail)
		}
	}
	return emails, nil
}
