package models

import "time"

// ExerciseType is an entry of the shared exercise catalog. It is not owned by anyone.
type ExerciseType struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:100;not null"`
	MuscleGroup string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ExerciseEntry places an ExerciseType inside a Routine.
// SortOrder is assigned by the client and is neither contiguous nor unique.
type ExerciseEntry struct {
	ID             uint     `gorm:"primaryKey"`
	RoutineID      uint     `gorm:"not null;index"`
	ExerciseTypeID uint     `gorm:"not null;index"`
	Sets           int      `gorm:"not null;check:chk_exercise_entries_sets,sets >= 0"`
	Reps           int      `gorm:"not null;check:chk_exercise_entries_reps,reps >= 0"`
	BestWeight     *float64 `gorm:"type:decimal(6,2)"`
	SortOrder      int      `gorm:"not null;default:0"`

	Routine      Routine      `gorm:"foreignKey:RoutineID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ExerciseType ExerciseType `gorm:"foreignKey:ExerciseTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}
