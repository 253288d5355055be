// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fitsocial/backend/internal/database"
	"fitsocial/backend/internal/models"
)

// NewDB returns a migrated sqlite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := database.Open(sqlite.Open(dsn), logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// Logger returns a logger that drops everything.
func Logger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// CreateUser inserts an active user whose username, email and names derive from name.
func CreateUser(t testing.TB, db *gorm.DB, name string) models.User {
	t.Helper()

	u := models.User{
		Email:        name + "@x.com",
		Username:     name,
		FirstName:    name,
		LastName:     "Tester",
		PasswordHash: "not-a-hash",
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// CreateExerciseType inserts a catalog entry.
func CreateExerciseType(t testing.TB, db *gorm.DB, name string) models.ExerciseType {
	t.Helper()

	et := models.ExerciseType{Name: name, MuscleGroup: "legs"}
	require.NoError(t, db.Create(&et).Error)
	return et
}

// CreateRoutine inserts a Monday routine owned by owner.
func CreateRoutine(t testing.TB, db *gorm.DB, owner models.User, name string) models.Routine {
	t.Helper()

	r := models.Routine{UserID: owner.ID, Name: name, Day: models.Monday}
	require.NoError(t, db.Create(&r).Error)
	return r
}

// CreateEntry inserts an exercise entry with the given order key.
func CreateEntry(t testing.TB, db *gorm.DB, routine models.Routine, et models.ExerciseType, order int) models.ExerciseEntry {
	t.Helper()

	e := models.ExerciseEntry{
		RoutineID:      routine.ID,
		ExerciseTypeID: et.ID,
		Sets:           3,
		Reps:           10,
		SortOrder:      order,
	}
	require.NoError(t, db.Create(&e).Error)
	return e
}

// CreatePost inserts a post authored by owner.
func CreatePost(t testing.TB, db *gorm.DB, owner models.User, content string) models.Post {
	t.Helper()

	p := models.Post{UserID: owner.ID, Content: content, Category: "general"}
	require.NoError(t, db.Create(&p).Error)
	return p
}
