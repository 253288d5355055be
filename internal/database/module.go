package database

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fitsocial/backend/internal/config"
)

var Module = fx.Provide(newDB)

func newDB(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger) (*gorm.DB, error) {
	db, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}
