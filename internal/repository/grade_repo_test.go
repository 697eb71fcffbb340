package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/acadmate/acadmate-api/internal/models"
)

func setupGradeTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func TestGradeRepositoryUpsertReplacesOnConflict(t *testing.T) {
	db := setupGradeTestDB(t, &models.HomeworkGrade{})
	repo := NewGradeRepository(db)

	first := models.HomeworkGrade{
		CourseID:     "rg_01",
		AssignNo:     1,
		StudentEmail: "alice@qq.com",
		Score:        50,
		Comment:      "first pass",
		PerQuestion:  datatypes.JSON([]byte(`[{"question_no":1,"score":50}]`)),
	}
	require.NoError(t, repo.Upsert(context.Background(), &first))

	second := models.HomeworkGrade{
		CourseID:     "rg_01",
		AssignNo:     1,
		StudentEmail: "alice@qq.com",
		Score:        66.7,
		Comment:      "regraded",
		PerQuestion:  datatypes.JSON([]byte(`[{"question_no":1,"score":100}]`)),
	}
	require.NoError(t, repo.Upsert(context.Background(), &second))

	stored, err := repo.GetByKey(context.Background(), "rg_01", 1, "alice@qq.com")
	require.NoError(t, err)
	require.Equal(t, 66.7, stored.Score)
	require.Equal(t, "regraded", stored.Comment)
	require.JSONEq(t, `[{"question_no":1,"score":100}]`, string(stored.PerQuestion))

	var count int64
	require.NoError(t, db.Model(&models.HomeworkGrade{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestGradeRepositoryKeyIsScopedPerStudent(t *testing.T) {
	db := setupGradeTestDB(t, &models.HomeworkGrade{})
	repo := NewGradeRepository(db)

	require.NoError(t, repo.Upsert(context.Background(), &models.HomeworkGrade{
		CourseID: "rg_01", AssignNo: 1, StudentEmail: "alice@qq.com", Score: 80,
	}))
	require.NoError(t, repo.Upsert(context.Background(), &models.HomeworkGrade{
		CourseID: "rg_01", AssignNo: 1, StudentEmail: "bob@gmail.com", Score: 40,
	}))

	emails, err := repo.ListGradedEmails(context.Background(), "rg_01", 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice@qq.com", "bob@gmail.com"}, emails)
}

func TestGradeRepositoryGetByKeyNotFound(t *testing.T) {
	db := setupGradeTestDB(t, &models.HomeworkGrade{})
	repo := NewGradeRepository(db)

	_, err := repo.GetByKey(context.Background(), "rg_01", 9, "ghost@qq.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAssignmentRepositoryNextAssignNo(t *testing.T) {
	db := setupGradeTestDB(t, &models.Assignment{})
	repo := NewAssignmentRepository(db)

	next, err := repo.NextAssignNo(context.Background(), "rg_01")
	require.NoError(t, err)
	require.Equal(t, 1, next)

	require.NoError(t, repo.Create(context.Background(), &models.Assignment{
		CourseID: "rg_01", AssignNo: 1, Title: "HW 1",
	}))
	require.NoError(t, repo.Create(context.Background(), &models.Assignment{
		CourseID: "rg_01", AssignNo: 2, Title: "HW 2",
	}))

	next, err = repo.NextAssignNo(context.Background(), "rg_01")
	require.NoError(t, err)
	require.Equal(t, 3, next)
}
