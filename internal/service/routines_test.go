package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/testutil"
)

func TestRoutineCRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	s := NewRoutines(db, testutil.Logger())

	r, err := s.Create(ctx, alice.ID, RoutineParams{Name: "Push", Day: models.Tuesday})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, r.UserID)

	_, err = s.Create(ctx, alice.ID, RoutineParams{Name: "Pull", Day: "FUN"})
	assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)

	_, err = s.Create(ctx, alice.ID, RoutineParams{Name: "  ", Day: models.Monday})
	assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)

	list, err := s.List(ctx, alice.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.List(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.Get(ctx, bob.ID, r.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)

	updated, err := s.Update(ctx, alice.ID, r.ID, RoutineParams{Name: "Push day", Day: models.Friday})
	require.NoError(t, err)
	assert.Equal(t, "Push day", updated.Name)
	assert.Equal(t, models.Friday, updated.Day)

	_, err = s.Update(ctx, bob.ID, r.ID, RoutineParams{Name: "Mine now", Day: models.Friday})
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)

	err = s.Delete(ctx, bob.ID, r.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
	require.NoError(t, s.Delete(ctx, alice.ID, r.ID))
}

func TestRoutineGetOrdersExercises(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	squat := testutil.CreateExerciseType(t, db, "Squat")
	r := testutil.CreateRoutine(t, db, alice, "Legs")
	e1 := testutil.CreateEntry(t, db, r, squat, 3)
	e2 := testutil.CreateEntry(t, db, r, squat, 1)
	e3 := testutil.CreateEntry(t, db, r, squat, 3)

	got, err := NewRoutines(db, testutil.Logger()).Get(ctx, alice.ID, r.ID)
	require.NoError(t, err)
	require.Len(t, got.Exercises, 3)

	assert.Equal(t, e2.ID, got.Exercises[0].ID)
	assert.Equal(t, e1.ID, got.Exercises[1].ID)
	assert.Equal(t, e3.ID, got.Exercises[2].ID)
	assert.Equal(t, "Squat", got.Exercises[0].ExerciseType.Name)
}

func TestReorder(t *testing.T) {
	ctx := context.Background()

	t.Run("applies valid ids and skips the rest", func(t *testing.T) {
		db := testutil.NewDB(t)
		alice := testutil.CreateUser(t, db, "alice")
		squat := testutil.CreateExerciseType(t, db, "Squat")
		r := testutil.CreateRoutine(t, db, alice, "Legs")
		other := testutil.CreateRoutine(t, db, alice, "Arms")
		e1 := testutil.CreateEntry(t, db, r, squat, 0)
		e2 := testutil.CreateEntry(t, db, r, squat, 1)
		foreign := testutil.CreateEntry(t, db, other, squat, 4)
		s := NewRoutines(db, testutil.Logger())

		n, err := s.Reorder(ctx, alice.ID, r.ID, []OrderItem{
			{EntryID: e1.ID, Order: 5},
			{EntryID: 99, Order: 9},
			{EntryID: foreign.ID, Order: 7},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		order := func(id uint) int {
			var e models.ExerciseEntry
			require.NoError(t, db.First(&e, id).Error)
			return e.SortOrder
		}
		assert.Equal(t, 5, order(e1.ID))
		assert.Equal(t, 1, order(e2.ID))
		assert.Equal(t, 4, order(foreign.ID))
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		db := testutil.NewDB(t)
		alice := testutil.CreateUser(t, db, "alice")
		r := testutil.CreateRoutine(t, db, alice, "Legs")

		n, err := NewRoutines(db, testutil.Logger()).Reorder(ctx, alice.ID, r.ID, nil)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("foreign routine", func(t *testing.T) {
		db := testutil.NewDB(t)
		alice := testutil.CreateUser(t, db, "alice")
		bob := testutil.CreateUser(t, db, "bob")
		squat := testutil.CreateExerciseType(t, db, "Squat")
		r := testutil.CreateRoutine(t, db, alice, "Legs")
		e := testutil.CreateEntry(t, db, r, squat, 0)
		s := NewRoutines(db, testutil.Logger())

		_, err := s.Reorder(ctx, bob.ID, r.ID, []OrderItem{{EntryID: e.ID, Order: 3}})
		assert.True(t, IsKind(err, KindNotFound), "got %v", err)

		_, err = s.Reorder(ctx, alice.ID, r.ID+100, []OrderItem{{EntryID: e.ID, Order: 3}})
		assert.True(t, IsKind(err, KindNotFound), "got %v", err)

		var got models.ExerciseEntry
		require.NoError(t, db.First(&got, e.ID).Error)
		assert.Zero(t, got.SortOrder)
	})
}

func TestRoutineDeleteCascadesEntries(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	squat := testutil.CreateExerciseType(t, db, "Squat")
	r := testutil.CreateRoutine(t, db, alice, "Legs")
	testutil.CreateEntry(t, db, r, squat, 0)

	require.NoError(t, NewRoutines(db, testutil.Logger()).Delete(ctx, alice.ID, r.ID))

	var n int64
	require.NoError(t, db.Model(&models.ExerciseEntry{}).Count(&n).Error)
	assert.Zero(t, n)
}
