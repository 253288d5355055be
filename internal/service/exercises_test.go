package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitsocial/backend/internal/testutil"
)

func TestExerciseTypes(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	s := NewExerciseTypes(db, testutil.Logger())

	bench, err := s.Create(ctx, ExerciseTypeParams{Name: "Bench press", MuscleGroup: "chest"})
	require.NoError(t, err)
	_, err = s.Create(ctx, ExerciseTypeParams{Name: "Deadlift", MuscleGroup: ""})
	assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)

	updated, err := s.Update(ctx, bench.ID, ExerciseTypeParams{Name: "Bench press", MuscleGroup: "chest", Description: "flat"})
	require.NoError(t, err)
	assert.Equal(t, "flat", updated.Description)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	r := testutil.CreateRoutine(t, db, alice, "Push")
	entry := testutil.CreateEntry(t, db, r, *bench, 0)

	err = s.Delete(ctx, bench.ID)
	assert.True(t, IsKind(err, KindConflict), "got %v", err)

	require.NoError(t, db.Delete(&entry).Error)
	require.NoError(t, s.Delete(ctx, bench.ID))

	_, err = s.Get(ctx, bench.ID)
	assert.True(t, IsKind(err, KindNotFound), "got %v", err)
}

func TestEntries(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	squat := testutil.CreateExerciseType(t, db, "Squat")
	legs := testutil.CreateRoutine(t, db, alice, "Legs")
	arms := testutil.CreateRoutine(t, db, alice, "Arms")
	bobs := testutil.CreateRoutine(t, db, bob, "Bob's")
	s := NewEntries(db, testutil.Logger())

	weight := 102.5
	e, err := s.Create(ctx, alice.ID, EntryParams{RoutineID: legs.ID, ExerciseTypeID: squat.ID, Sets: 5, Reps: 5, BestWeight: &weight, Order: 2})
	require.NoError(t, err)
	assert.Equal(t, "Squat", e.ExerciseType.Name)
	assert.Equal(t, 2, e.SortOrder)
	require.NotNil(t, e.BestWeight)
	assert.InDelta(t, 102.5, *e.BestWeight, 0.001)

	t.Run("create in foreign routine", func(t *testing.T) {
		_, err := s.Create(ctx, alice.ID, EntryParams{RoutineID: bobs.ID, ExerciseTypeID: squat.ID})
		assert.True(t, IsKind(err, KindForbidden), "got %v", err)

		_, err = s.Create(ctx, alice.ID, EntryParams{RoutineID: 999, ExerciseTypeID: squat.ID})
		assert.True(t, IsKind(err, KindForbidden), "got %v", err)
	})

	t.Run("unknown exercise type", func(t *testing.T) {
		_, err := s.Create(ctx, alice.ID, EntryParams{RoutineID: legs.ID, ExerciseTypeID: 999})
		assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)
	})

	t.Run("negative sets", func(t *testing.T) {
		_, err := s.Create(ctx, alice.ID, EntryParams{RoutineID: legs.ID, ExerciseTypeID: squat.ID, Sets: -1})
		assert.True(t, IsKind(err, KindInvalidRequest), "got %v", err)
	})

	t.Run("scoped to caller", func(t *testing.T) {
		list, err := s.List(ctx, bob.ID, nil)
		require.NoError(t, err)
		assert.Empty(t, list)

		_, err = s.Get(ctx, bob.ID, e.ID)
		assert.True(t, IsKind(err, KindNotFound), "got %v", err)

		err = s.Delete(ctx, bob.ID, e.ID)
		assert.True(t, IsKind(err, KindNotFound), "got %v", err)
	})

	t.Run("move between routines", func(t *testing.T) {
		p := EntryParams{RoutineID: bobs.ID, ExerciseTypeID: squat.ID, Sets: 5, Reps: 5, Order: 2}
		_, err := s.Update(ctx, alice.ID, e.ID, p)
		assert.True(t, IsKind(err, KindForbidden), "got %v", err)

		p.RoutineID = arms.ID
		moved, err := s.Update(ctx, alice.ID, e.ID, p)
		require.NoError(t, err)
		assert.Equal(t, arms.ID, moved.RoutineID)
		assert.Nil(t, moved.BestWeight)
	})

	t.Run("list filter", func(t *testing.T) {
		testutil.CreateEntry(t, db, legs, squat, 0)

		all, err := s.List(ctx, alice.ID, nil)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		onlyArms, err := s.List(ctx, alice.ID, &arms.ID)
		require.NoError(t, err)
		require.Len(t, onlyArms, 1)
		assert.Equal(t, e.ID, onlyArms[0].ID)
	})

	require.NoError(t, s.Delete(ctx, alice.ID, e.ID))
}
