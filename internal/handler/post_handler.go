package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/service"
)

// region --- DTOs ---

// PostInput defines the writable post fields.
type PostInput struct {
	Content  string `json:"content" binding:"required" example:"New deadlift PR"`
	Category string `json:"category" binding:"required,max=50" example:"strength"`
}

// PostResponse is a post with its like figures for the caller.
type PostResponse struct {
	ID          uint      `json:"id" example:"1"`
	User        string    `json:"user" example:"alice"`
	Content     string    `json:"content" example:"New deadlift PR"`
	Category    string    `json:"category" example:"strength"`
	CreatedAt   time.Time `json:"created_at"`
	LikesCount  int64     `json:"likes_count" example:"3"`
	LikedByUser bool      `json:"liked_by_user"`
}

// LikeResponse is returned when a like is created.
type LikeResponse struct {
	ID   uint   `json:"id" example:"1"`
	User string `json:"user" example:"alice"`
	Post uint   `json:"post" example:"1"`
}

func newPostResponse(v service.PostView) PostResponse {
	return PostResponse{
		ID:          v.ID,
		User:        v.User.Username,
		Content:     v.Content,
		Category:    v.Category,
		CreatedAt:   v.CreatedAt,
		LikesCount:  v.LikesCount,
		LikedByUser: v.LikedByUser,
	}
}

func newLikeResponse(l models.Like, username string) LikeResponse {
	return LikeResponse{
		ID:   l.ID,
		User: username,
		Post: l.PostID,
	}
}

// endregion

// region --- Post Handlers ---

// Feed godoc
// @Summary      Get my feed
// @Description  The caller's posts and those of accepted friends, newest first.
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   PostResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /posts [get]
func (h *Handler) Feed(c *gin.Context) {
	views, err := h.posts.Feed(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]PostResponse, 0, len(views))
	for _, v := range views {
		response = append(response, newPostResponse(v))
	}
	c.JSON(http.StatusOK, response)
}

// CreatePost godoc
// @Summary      Publish a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PostInput true "Post"
// @Success      201  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.posts.Create(c.Request.Context(), callerID(c), service.PostParams(input))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newPostResponse(*view))
}

// GetPost godoc
// @Summary      Get one of my posts
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  PostResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	view, err := h.posts.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*view))
}

// UpdatePost godoc
// @Summary      Edit one of my posts
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int        true  "Post ID"
// @Param        input body  PostInput  true  "Post"
// @Success      200  {object}  PostResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.posts.Update(c.Request.Context(), callerID(c), id, service.PostParams(input))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPostResponse(*view))
}

// DeletePost godoc
// @Summary      Delete one of my posts
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Like Handlers ---

// LikePost godoc
// @Summary      Like a post
// @Description  Liking twice is not an error; the second call answers 200 with a detail message.
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      201  {object}  LikeResponse
// @Success      200  {object}  DetailResponse "Already liked"
// @Failure      404  {object}  ErrorResponse
// @Router       /posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	caller := callerID(c)
	like, created, err := h.posts.AddLike(c.Request.Context(), caller, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, DetailResponse{Detail: "You already liked this post"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), caller)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLikeResponse(*like, user.Username))
}

// UnlikePost godoc
// @Summary      Remove my like from a post
// @Tags         likes
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse "Like not found"
// @Router       /posts/{id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.posts.RemoveLike(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion
