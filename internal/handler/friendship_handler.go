package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/service"
)

// region --- DTOs ---

// FriendshipInput names the user to befriend by username or email.
type FriendshipInput struct {
	Friend string `json:"friend" binding:"required" example:"bob"`
}

// FriendshipStatusInput answers a pending request.
type FriendshipStatusInput struct {
	Status string `json:"status" binding:"required" example:"accepted"`
}

// FriendshipResponse is an edge as seen by the caller. Tipo is "sent" when the
// caller initiated it and "received" otherwise.
type FriendshipResponse struct {
	ID                uint                    `json:"id" example:"1"`
	Initiator         uint                    `json:"initiator" example:"1"`
	Target            uint                    `json:"target" example:"2"`
	InitiatorUsername string                  `json:"initiator_username" example:"alice"`
	TargetUsername    string                  `json:"target_username" example:"bob"`
	InitiatorEmail    string                  `json:"initiator_email" example:"alice@example.com"`
	Status            models.FriendshipStatus `json:"status" example:"pending"`
	Tipo              service.Direction       `json:"tipo" example:"sent"`
	CreatedAt         time.Time               `json:"created_at"`
}

func newFriendshipResponse(v service.FriendshipView) FriendshipResponse {
	return FriendshipResponse{
		ID:                v.ID,
		Initiator:         v.InitiatorID,
		Target:            v.TargetID,
		InitiatorUsername: v.Initiator.Username,
		TargetUsername:    v.Target.Username,
		InitiatorEmail:    v.Initiator.Email,
		Status:            v.Status,
		Tipo:              v.Direction,
		CreatedAt:         v.CreatedAt,
	}
}

// endregion

// ListFriendships godoc
// @Summary      List my friendships
// @Description  Every friend request sent or received by the caller, whatever its status.
// @Tags         friendships
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   FriendshipResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friendships [get]
func (h *Handler) ListFriendships(c *gin.Context) {
	views, err := h.friendships.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]FriendshipResponse, 0, len(views))
	for _, v := range views {
		response = append(response, newFriendshipResponse(v))
	}
	c.JSON(http.StatusOK, response)
}

// CreateFriendship godoc
// @Summary      Send a friend request
// @Description  friend is matched against usernames first, then emails.
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body FriendshipInput true "Username or email"
// @Success      201  {object}  FriendshipResponse
// @Failure      400  {object}  ErrorResponse "Cannot befriend yourself"
// @Failure      404  {object}  ErrorResponse "User not found"
// @Failure      409  {object}  ErrorResponse "Friendship already exists"
// @Router       /friendships [post]
func (h *Handler) CreateFriendship(c *gin.Context) {
	var input FriendshipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.friendships.Create(c.Request.Context(), callerID(c), input.Friend)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newFriendshipResponse(*view))
}

// RespondFriendship godoc
// @Summary      Answer a friend request
// @Description  Only the recipient may answer, once, with accepted or rejected.
// @Tags         friendships
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                    true  "Friendship ID"
// @Param        input body  FriendshipStatusInput  true  "New status"
// @Success      200  {object}  FriendshipResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Not the recipient"
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Already answered"
// @Router       /friendships/{id} [patch]
func (h *Handler) RespondFriendship(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input FriendshipStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	view, err := h.friendships.Respond(c.Request.Context(), callerID(c), id, models.FriendshipStatus(input.Status))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newFriendshipResponse(*view))
}

// DeleteFriendship godoc
// @Summary      Remove a friendship
// @Tags         friendships
// @Security     BearerAuth
// @Param        id   path  int  true  "Friendship ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse "Not part of this friendship"
// @Failure      404  {object}  ErrorResponse
// @Router       /friendships/{id} [delete]
func (h *Handler) DeleteFriendship(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.friendships.Remove(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
