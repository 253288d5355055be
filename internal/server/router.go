package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/config"
	"fitsocial/backend/internal/handler"
	"fitsocial/backend/internal/service"
)

// NewRouter builds the gin engine with every route of the API.
func NewRouter(cfg *config.Config, h *handler.Handler, tokens *auth.Tokens, users *service.Users, l *zap.SugaredLogger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	handler.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(l))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	authenticated := []gin.HandlerFunc{auth.RequireAuth(tokens), auth.RequireActiveUser(users)}
	limiter := NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst)

	apiV1 := router.Group("/api/v1")
	{
		authRoutes := apiV1.Group("/auth")
		authRoutes.Use(RateLimit(limiter))
		{
			authRoutes.POST("/register", h.Register)
			authRoutes.POST("/login", h.Login)
			authRoutes.POST("/refresh", h.Refresh)
			authRoutes.POST("/logout", append(authenticated, h.Logout)...)
		}

		userRoutes := apiV1.Group("/users")
		userRoutes.Use(authenticated...)
		{
			userRoutes.GET("", h.ListUsers)
			userRoutes.GET("/me", h.GetMe) // Must be before /:id
			userRoutes.PATCH("/me", h.UpdateMe)
			userRoutes.DELETE("/me", h.DeleteMe)
			userRoutes.GET("/:id", h.GetUser)
		}

		routineRoutes := apiV1.Group("/routines")
		routineRoutes.Use(authenticated...)
		{
			routineRoutes.GET("", h.ListRoutines)
			routineRoutes.POST("", h.CreateRoutine)
			routineRoutes.GET("/:id", h.GetRoutine)
			routineRoutes.PUT("/:id", h.UpdateRoutine)
			routineRoutes.DELETE("/:id", h.DeleteRoutine)
			routineRoutes.PUT("/:id/reorder-exercises", h.ReorderExercises)
		}

		// Catalog reads are public, writes need a login.
		typeRoutes := apiV1.Group("/exercise-types")
		{
			typeRoutes.GET("", h.ListExerciseTypes)
			typeRoutes.GET("/:id", h.GetExerciseType)
			typeRoutes.POST("", append(authenticated, h.CreateExerciseType)...)
			typeRoutes.PUT("/:id", append(authenticated, h.UpdateExerciseType)...)
			typeRoutes.DELETE("/:id", append(authenticated, h.DeleteExerciseType)...)
		}

		entryRoutes := apiV1.Group("/exercise-entries")
		entryRoutes.Use(authenticated...)
		{
			entryRoutes.GET("", h.ListExerciseEntries)
			entryRoutes.POST("", h.CreateExerciseEntry)
			entryRoutes.GET("/:id", h.GetExerciseEntry)
			entryRoutes.PUT("/:id", h.UpdateExerciseEntry)
			entryRoutes.DELETE("/:id", h.DeleteExerciseEntry)
		}

		friendshipRoutes := apiV1.Group("/friendships")
		friendshipRoutes.Use(authenticated...)
		{
			friendshipRoutes.GET("", h.ListFriendships)
			friendshipRoutes.POST("", h.CreateFriendship)
			friendshipRoutes.PATCH("/:id", h.RespondFriendship)
			friendshipRoutes.DELETE("/:id", h.DeleteFriendship)
		}

		postRoutes := apiV1.Group("/posts")
		postRoutes.Use(authenticated...)
		{
			postRoutes.GET("", h.Feed)
			postRoutes.POST("", h.CreatePost)
			postRoutes.GET("/:id", h.GetPost)
			postRoutes.PUT("/:id", h.UpdatePost)
			postRoutes.DELETE("/:id", h.DeletePost)
			postRoutes.POST("/:id/like", h.LikePost)
			postRoutes.DELETE("/:id/like", h.UnlikePost)
		}
	}

	return router
}
