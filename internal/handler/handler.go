// Package handler exposes the services over HTTP with gin.
package handler

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/service"
)

// Handler holds the dependencies shared by every endpoint.
type Handler struct {
	users         *service.Users
	friendships   *service.Friendships
	routines      *service.Routines
	exerciseTypes *service.ExerciseTypes
	entries       *service.Entries
	posts         *service.Posts
	tokens        *auth.Tokens
	logger        *zap.SugaredLogger
}

// Services groups the domain services a Handler needs.
type Services struct {
	fx.In

	Users         *service.Users
	Friendships   *service.Friendships
	Routines      *service.Routines
	ExerciseTypes *service.ExerciseTypes
	Entries       *service.Entries
	Posts         *service.Posts
}

func New(s Services, tokens *auth.Tokens, l *zap.SugaredLogger) *Handler {
	return &Handler{
		users:         s.Users,
		friendships:   s.Friendships,
		routines:      s.Routines,
		exerciseTypes: s.ExerciseTypes,
		entries:       s.Entries,
		posts:         s.Posts,
		tokens:        tokens,
		logger:        l,
	}
}
