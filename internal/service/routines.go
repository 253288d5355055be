package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitsocial/backend/internal/models"
)

// RoutineParams carries the writable routine fields.
type RoutineParams struct {
	Name string
	Day  models.Weekday
}

// RoutineDetail is a routine with its exercise entries in display order.
type RoutineDetail struct {
	models.Routine
	Exercises []models.ExerciseEntry
}

// OrderItem assigns Order to the entry with EntryID.
type OrderItem struct {
	EntryID uint
	Order   int
}

// Routines manages workout routines owned by the caller.
type Routines struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewRoutines(db *gorm.DB, l *zap.SugaredLogger) *Routines {
	return &Routines{
		db:     db,
		logger: l,
	}
}

func (s *Routines) List(ctx context.Context, callerID uint) ([]models.Routine, error) {
	routines := make([]models.Routine, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", callerID).
		Order("id").
		Find(&routines).Error
	if err != nil {
		return nil, errors.Wrap(err, "list routines")
	}
	return routines, nil
}

func (s *Routines) Create(ctx context.Context, callerID uint, p RoutineParams) (*models.Routine, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	routine := models.Routine{
		UserID: callerID,
		Name:   strings.TrimSpace(p.Name),
		Day:    p.Day,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(&routine).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, notFound("user not found")
		}
		return nil, errors.Wrap(err, "create routine")
	}

	s.logger.Infow("routine created", "routine_id", routine.ID, "user_id", callerID)
	return &routine, nil
}

// Get returns one of the caller's routines with its exercises sorted by order key, then id.
func (s *Routines) Get(ctx context.Context, callerID, id uint) (*RoutineDetail, error) {
	routine, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	exercises := make([]models.ExerciseEntry, 0)
	err = s.db.WithContext(ctx).
		Preload("ExerciseType").
		Where("routine_id = ?", id).
		Order("sort_order").
		Order("id").
		Find(&exercises).Error
	if err != nil {
		return nil, errors.Wrap(err, "list routine exercises")
	}
	return &RoutineDetail{Routine: *routine, Exercises: exercises}, nil
}

func (s *Routines) Update(ctx context.Context, callerID, id uint, p RoutineParams) (*RoutineDetail, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	routine, err := s.owned(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Model(routine).
		Updates(map[string]interface{}{
			"name": strings.TrimSpace(p.Name),
			"day":  p.Day,
		}).Error
	if err != nil {
		return nil, errors.Wrap(err, "update routine")
	}
	return s.Get(ctx, callerID, id)
}

// Delete removes the routine. Its exercise entries are removed by the storage cascade.
func (s *Routines) Delete(ctx context.Context, callerID, id uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, callerID).
		Delete(&models.Routine{})
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete routine")
	}
	if res.RowsAffected == 0 {
		return notFound("routine not found")
	}
	s.logger.Infow("routine deleted", "routine_id", id, "user_id", callerID)
	return nil
}

// Reorder overwrites the order key of every listed entry that belongs to the
// routine. Ids that are unknown or belong to another routine are skipped
// without error. It returns how many entries were updated.
func (s *Routines) Reorder(ctx context.Context, callerID, routineID uint, items []OrderItem) (int, error) {
	updated := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&models.Routine{}).
			Where("id = ? AND user_id = ?", routineID, callerID).
			Count(&owned).Error; err != nil {
			return errors.Wrap(err, "find routine")
		}
		if owned == 0 {
			return notFound("routine not found")
		}

		for _, item := range items {
			res := tx.Model(&models.ExerciseEntry{}).
				Where("id = ? AND routine_id = ?", item.EntryID, routineID).
				Update("sort_order", item.Order)
			if res.Error != nil {
				return errors.Wrapf(res.Error, "reorder entry %d", item.EntryID)
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Infow("routine reordered", "routine_id", routineID, "requested", len(items), "updated", updated)
	return updated, nil
}

func (p RoutineParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name is required")
	}
	if len([]rune(p.Name)) > 100 {
		return invalid("name must be at most 100 characters")
	}
	if !p.Day.Valid() {
		return invalid("invalid day %q", p.Day)
	}
	return nil
}

func (s *Routines) owned(ctx context.Context, callerID, id uint) (*models.Routine, error) {
	var routine models.Routine
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, callerID).First(&routine).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, notFound("routine not found")
		}
		return nil, errors.Wrap(err, "get routine")
	}
	return &routine, nil
}
