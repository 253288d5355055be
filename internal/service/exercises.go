package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitsocial/backend/internal/models"
)

// ExerciseTypeParams carries the writable catalog fields.
type ExerciseTypeParams struct {
	Name        string
	MuscleGroup string
	Description string
}

// ExerciseTypes manages the shared exercise catalog.
type ExerciseTypes struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewExerciseTypes(db *gorm.DB, l *zap.SugaredLogger) *ExerciseTypes {
	return &ExerciseTypes{
		db:     db,
		logger: l,
	}
}

func (s *ExerciseTypes) List(ctx context.Context) ([]models.ExerciseType, error) {
	types := make([]models.ExerciseType, 0)
	if err := s.db.WithContext(ctx).Order("name").Order("id").Find(&types).Error; err != nil {
		return nil, errors.Wrap(err, "list exercise types")
	}
	return types, nil
}

func (s *ExerciseTypes) Get(ctx context.Context, id uint) (*models.ExerciseType, error) {
	var et models.ExerciseType
	if err := s.db.WithContext(ctx).First(&et, id).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("exercise type not found")
		}
		return nil, errors.Wrap(err, "get exercise type")
	}
	return &et, nil
}

func (s *ExerciseTypes) Create(ctx context.Context, p ExerciseTypeParams) (*models.ExerciseType, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	et := models.ExerciseType{
		Name:        strings.TrimSpace(p.Name),
		MuscleGroup: strings.TrimSpace(p.MuscleGroup),
		Description: p.Description,
	}
	if err := s.db.WithContext(ctx).Create(&et).Error; err != nil {
		return nil, errors.Wrap(err, "create exercise type")
	}
	s.logger.Infow("exercise type created", "exercise_type_id", et.ID, "name", et.Name)
	return &et, nil
}

func (s *ExerciseTypes) Update(ctx context.Context, id uint, p ExerciseTypeParams) (*models.ExerciseType, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	et, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(et).Updates(map[string]interface{}{
		"name":         strings.TrimSpace(p.Name),
		"muscle_group": strings.TrimSpace(p.MuscleGroup),
		"description":  p.Description,
	}).Error
	if err != nil {
		return nil, errors.Wrap(err, "update exercise type")
	}
	return s.Get(ctx, id)
}

// Delete removes a catalog entry. Entries still referencing it block the delete.
func (s *ExerciseTypes) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.ExerciseEntry{}).
		Where("exercise_type_id = ?", id).
		Count(&refs).Error; err != nil {
		return errors.Wrap(err, "count exercise entries")
	}
	if refs > 0 {
		return conflict("exercise type is used by %d exercise entries", refs)
	}

	if err := s.db.WithContext(ctx).Delete(&models.ExerciseType{}, id).Error; err != nil {
		if isForeignKeyViolation(err) {
			return conflict("exercise type is in use")
		}
		return errors.Wrap(err, "delete exercise type")
	}
	s.logger.Infow("exercise type deleted", "exercise_type_id", id)
	return nil
}

func (p ExerciseTypeParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if strings.TrimSpace(p.MuscleGroup) == "" {
		return invalid("muscle_group is required")
	}
	if len([]rune(p.Name)) > 100 || len([]rune(p.MuscleGroup)) > 100 {
		return invalid("name and muscle_group must be at most 100 characters")
	}
	return nil
}

// EntryParams carries the writable exercise entry fields.
type EntryParams struct {
	RoutineID      uint
	ExerciseTypeID uint
	Sets           int
	Reps           int
	BestWeight     *float64
	Order          int
}

// Entries manages exercise entries inside the caller's routines.
type Entries struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewEntries(db *gorm.DB, l *zap.SugaredLogger) *Entries {
	return &Entries{
		db:     db,
		logger: l,
	}
}

// List returns entries of the caller's routines, optionally restricted to one routine.
func (s *Entries) List(ctx context.Context, callerID uint, routineID *uint) ([]models.ExerciseEntry, error) {
	q := s.scoped(ctx, callerID)
	if routineID != nil {
		q = q.Where("exercise_entries.routine_id = ?", *routineID)
	}

	entries := make([]models.ExerciseEntry, 0)
	err := q.Preload("ExerciseType").
		Order("exercise_entries.routine_id").
		Order("exercise_entries.sort_order").
		Order("exercise_entries.id").
		Find(&entries).Error
	if err != nil {
		return nil, errors.Wrap(err, "list exercise entries")
	}
	return entries, nil
}

func (s *Entries) Get(ctx context.Context, callerID, id uint) (*models.ExerciseEntry, error) {
	var entry models.ExerciseEntry
	err := s.scoped(ctx, callerID).
		Preload("ExerciseType").
		Where("exercise_entries.id = ?", id).
		First(&entry).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("exercise entry not found")
		}
		return nil, errors.Wrap(err, "get exercise entry")
	}
	return &entry, nil
}

// Create adds an entry to one of the caller's routines. The routine is checked
// before anything is written.
func (s *Entries) Create(ctx context.Context, callerID uint, p EntryParams) (*models.ExerciseEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := s.checkRoutine(ctx, callerID, p.RoutineID); err != nil {
		return nil, err
	}
	if err := s.checkExerciseType(ctx, p.ExerciseTypeID); err != nil {
		return nil, err
	}

	entry := models.ExerciseEntry{
		RoutineID:      p.RoutineID,
		ExerciseTypeID: p.ExerciseTypeID,
		Sets:           p.Sets,
		Reps:           p.Reps,
		BestWeight:     p.BestWeight,
		SortOrder:      p.Order,
	}
	if err := s.db.WithContext(ctx).Omit("Routine", "ExerciseType").Create(&entry).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, invalid("routine or exercise type no longer exists")
		}
		return nil, errors.Wrap(err, "create exercise entry")
	}

	s.logger.Infow("exercise entry created", "entry_id", entry.ID, "routine_id", entry.RoutineID)
	return s.Get(ctx, callerID, entry.ID)
}

// Update rewrites an entry. Moving it to a routine the caller does not own is forbidden.
func (s *Entries) Update(ctx context.Context, callerID, id uint, p EntryParams) (*models.ExerciseEntry, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	entry, err := s.Get(ctx, callerID, id)
	if err != nil {
		return nil, err
	}
	if p.RoutineID != entry.RoutineID {
		if err := s.checkRoutine(ctx, callerID, p.RoutineID); err != nil {
			return nil, err
		}
	}
	if err := s.checkExerciseType(ctx, p.ExerciseTypeID); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(&models.ExerciseEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"routine_id":       p.RoutineID,
			"exercise_type_id": p.ExerciseTypeID,
			"sets":             p.Sets,
			"reps":             p.Reps,
			"best_weight":      p.BestWeight,
			"sort_order":       p.Order,
		}).Error
	if err != nil {
		return nil, errors.Wrap(err, "update exercise entry")
	}
	return s.Get(ctx, callerID, id)
}

func (s *Entries) Delete(ctx context.Context, callerID, id uint) error {
	if _, err := s.Get(ctx, callerID, id); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&models.ExerciseEntry{}, id).Error; err != nil {
		return errors.Wrap(err, "delete exercise entry")
	}
	s.logger.Infow("exercise entry deleted", "entry_id", id, "user_id", callerID)
	return nil
}

// scoped limits a query to entries whose routine belongs to callerID.
func (s *Entries) scoped(ctx context.Context, callerID uint) *gorm.DB {
	return s.db.WithContext(ctx).
		Joins("JOIN routines ON routines.id = exercise_entries.routine_id").
		Where("routines.user_id = ?", callerID)
}

func (s *Entries) checkRoutine(ctx context.Context, callerID, routineID uint) error {
	var owned int64
	err := s.db.WithContext(ctx).Model(&models.Routine{}).
		Where("id = ? AND user_id = ?", routineID, callerID).
		Count(&owned).Error
	if err != nil {
		return errors.Wrap(err, "check routine owner")
	}
	if owned == 0 {
		return forbidden("you can only add exercises to your own routines")
	}
	return nil
}

func (s *Entries) checkExerciseType(ctx context.Context, id uint) error {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.ExerciseType{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return errors.Wrap(err, "check exercise type")
	}
	if n == 0 {
		return invalid("exercise type %d does not exist", id)
	}
	return nil
}

func (p EntryParams) validate() error {
	if p.Sets < 0 || p.Reps < 0 {
		return invalid("sets and reps must not be negative")
	}
	if p.BestWeight != nil && (*p.BestWeight < 0 || *p.BestWeight >= 10000) {
		return invalid("best_weight must be between 0 and 9999.99")
	}
	return nil
}
