package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/config"
	"fitsocial/backend/internal/database"
	"fitsocial/backend/internal/handler"
	"fitsocial/backend/internal/logging"
	"fitsocial/backend/internal/server"
	"fitsocial/backend/internal/service"
	"fitsocial/backend/internal/store"

	// Swagger imports
	_ "fitsocial/backend/docs" // This is important for swag to find the generated docs
)

// @title           FitSocial API
// @version         1.0
// @description     Workout routines, friendships, posts and likes.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	fx.New(
		fx.Provide(
			config.New,
			logging.New,
			auth.NewTokens,
			handler.New,
		),
		fx.WithLogger(func(l *zap.SugaredLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Desugar()}
		}),
		database.Module,
		store.Module,
		service.Module,
		server.Module,
	).Run()
}
