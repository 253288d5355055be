package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"fitsocial/backend/internal/auth"
	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/service"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=255" example:"alice@example.com"`
	Username  string `json:"username" binding:"required,max=150" example:"alice"`
	FirstName string `json:"first_name" binding:"max=255" example:"Alice"`
	LastName  string `json:"last_name" binding:"max=255" example:"Liddell"`
	Password  string `json:"password" binding:"required" example:"Rabbit-Hole-42"`
	Password2 string `json:"password2" binding:"required" example:"Rabbit-Hole-42"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Email    string `json:"email" binding:"required" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"Rabbit-Hole-42"`
}

// RefreshInput carries a refresh token.
type RefreshInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

// TokenPairResponse is returned by a successful login.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse is returned by a successful refresh.
type AccessTokenResponse struct {
	Access string `json:"access"`
}

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=255" example:"Alice"`
	LastName  *string `json:"last_name" binding:"omitempty,max=255" example:"Liddell"`
}

// PublicUserResponse defines the structure for another user's public profile.
type PublicUserResponse struct {
	ID        uint   `json:"id" example:"1"`
	Username  string `json:"username" example:"alice"`
	FirstName string `json:"first_name" example:"Alice"`
	LastName  string `json:"last_name" example:"Liddell"`
}

// PrivateUserResponse defines the structure for the authenticated user's own profile.
type PrivateUserResponse struct {
	ID         uint      `json:"id" example:"1"`
	Email      string    `json:"email" example:"alice@example.com"`
	Username   string    `json:"username" example:"alice"`
	FirstName  string    `json:"first_name" example:"Alice"`
	LastName   string    `json:"last_name" example:"Liddell"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// PaginatedUserResponse documents the paginated user list.
type PaginatedUserResponse struct {
	Data []PublicUserResponse `json:"data"`
	Meta PaginationMeta       `json:"meta"`
}

func newPublicUserResponse(u models.User) PublicUserResponse {
	return PublicUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func newPrivateUserResponse(u models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		IsStaff:    u.IsStaff,
		DateJoined: u.CreatedAt,
	}
}

// endregion

// region --- Auth Handlers ---

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new account. password and password2 must match and pass the strength rules.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration info"
// @Success      201  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Email or username already taken"
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterParams{
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  input.Password,
		Password2: input.Password2,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newPrivateUserResponse(*user))
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for an access/refresh token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Credentials"
// @Success      200  {object}  TokenPairResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Invalid credentials"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No active account found with the given credentials"})
			return
		}
		h.respondError(c, err)
		return
	}

	pair, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TokenPairResponse{Access: pair.Access, Refresh: pair.Refresh})
}

// Refresh godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RefreshInput true "Refresh token"
// @Success      200  {object}  AccessTokenResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse "Token is invalid or expired"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	access, err := h.tokens.Refresh(c.Request.Context(), input.Refresh)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, AccessTokenResponse{Access: access})
}

// Logout godoc
// @Summary      Log out
// @Description  Blacklists the given refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RefreshInput true "Refresh token"
// @Success      205  {object}  DetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	if err := h.tokens.Revoke(c.Request.Context(), input.Refresh); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Token is invalid or expired"})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusResetContent, DetailResponse{Detail: "Logged out"})
}

// endregion

// region --- User Handlers ---

// ListUsers godoc
// @Summary      List users
// @Description  Lists active users, optionally filtered by a username or email fragment.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Username or email fragment"
// @Param        page  query     int     false  "Page number" default(1)
// @Param        limit query     int     false  "Items per page" default(10)
// @Success      200   {object}  PaginatedUserResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.users.List(c.Request.Context(), c.Query("q"), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	data := make([]PublicUserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, newPublicUserResponse(u))
	}
	c.JSON(http.StatusOK, NewPaginatedResponse(data, total, page, limit))
}

// GetMe godoc
// @Summary      Get current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPrivateUserResponse(*user))
}

// UpdateMe godoc
// @Summary      Update current user
// @Description  Changes first and last name. Email and username are read-only.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Profile fields"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), callerID(c), service.ProfileUpdate{
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPrivateUserResponse(*user))
}

// DeleteMe godoc
// @Summary      Delete current user
// @Description  Deletes the account together with its routines, posts, likes and friendships.
// @Tags         users
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [delete]
func (h *Handler) DeleteMe(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), callerID(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUser godoc
// @Summary      Get user by ID
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  PublicUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPublicUserResponse(*user))
}

// endregion
