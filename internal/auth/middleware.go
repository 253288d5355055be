package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fitsocial/backend/internal/models"
)

const callerKey = "userID"

// RequireAuth rejects requests without a valid bearer access token and stores
// the caller's id in the gin context.
func RequireAuth(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.Split(c.GetHeader("Authorization"), " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication credentials were not provided"})
			return
		}

		userID, err := tokens.Authenticate(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
			return
		}

		c.Set(callerKey, userID)
		c.Next()
	}
}

// UserGetter loads a user by id.
type UserGetter interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// RequireActiveUser must run after RequireAuth. It turns away tokens whose
// user was deleted or deactivated after the token was issued.
func RequireActiveUser(users UserGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CallerID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		user, err := users.Get(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Next()
	}
}

// CallerID returns the id RequireAuth stored for this request.
func CallerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(callerKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
