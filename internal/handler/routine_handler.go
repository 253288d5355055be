package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/service"
)

// region --- DTOs ---

// RoutineInput defines the writable routine fields.
type RoutineInput struct {
	Name string `json:"name" binding:"required,max=100" example:"Leg day"`
	Day  string `json:"day" binding:"required,weekday" example:"MON"`
}

// ReorderItem assigns an order key to one exercise entry.
type ReorderItem struct {
	ID    *uint `json:"id" binding:"required" example:"1"`
	Order *int  `json:"order" binding:"required" example:"5"`
}

// ReorderInput is the body of the reorder endpoint.
type ReorderInput struct {
	Exercises []ReorderItem `json:"exercises" binding:"required,dive"`
}

// RoutineResponse is a routine as listed, without its exercises.
type RoutineResponse struct {
	ID        uint      `json:"id" example:"1"`
	User      uint      `json:"user" example:"1"`
	Name      string    `json:"name" example:"Leg day"`
	Day       string    `json:"day" example:"MON"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoutineDetailResponse is a routine together with its ordered exercises.
type RoutineDetailResponse struct {
	RoutineResponse
	Exercises []ExerciseEntryResponse `json:"exercises"`
}

func newRoutineResponse(r models.Routine) RoutineResponse {
	return RoutineResponse{
		ID:        r.ID,
		User:      r.UserID,
		Name:      r.Name,
		Day:       string(r.Day),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func newRoutineDetailResponse(r service.RoutineDetail) RoutineDetailResponse {
	exercises := make([]ExerciseEntryResponse, 0, len(r.Exercises))
	for _, e := range r.Exercises {
		exercises = append(exercises, newExerciseEntryResponse(e))
	}
	return RoutineDetailResponse{
		RoutineResponse: newRoutineResponse(r.Routine),
		Exercises:       exercises,
	}
}

// endregion

// ListRoutines godoc
// @Summary      List my routines
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   RoutineResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /routines [get]
func (h *Handler) ListRoutines(c *gin.Context) {
	routines, err := h.routines.List(c.Request.Context(), callerID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]RoutineResponse, 0, len(routines))
	for _, r := range routines {
		response = append(response, newRoutineResponse(r))
	}
	c.JSON(http.StatusOK, response)
}

// CreateRoutine godoc
// @Summary      Create a routine
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body RoutineInput true "Routine"
// @Success      201  {object}  RoutineResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /routines [post]
func (h *Handler) CreateRoutine(c *gin.Context) {
	var input RoutineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	routine, err := h.routines.Create(c.Request.Context(), callerID(c), service.RoutineParams{
		Name: input.Name,
		Day:  models.Weekday(input.Day),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRoutineResponse(*routine))
}

// GetRoutine godoc
// @Summary      Get a routine
// @Description  Returns the routine with its exercises sorted by order key.
// @Tags         routines
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Routine ID"
// @Success      200  {object}  RoutineDetailResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /routines/{id} [get]
func (h *Handler) GetRoutine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	routine, err := h.routines.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoutineDetailResponse(*routine))
}

// UpdateRoutine godoc
// @Summary      Update a routine
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Routine ID"
// @Param        input body  RoutineInput  true  "Routine"
// @Success      200  {object}  RoutineDetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /routines/{id} [put]
func (h *Handler) UpdateRoutine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input RoutineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	routine, err := h.routines.Update(c.Request.Context(), callerID(c), id, service.RoutineParams{
		Name: input.Name,
		Day:  models.Weekday(input.Day),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRoutineDetailResponse(*routine))
}

// DeleteRoutine godoc
// @Summary      Delete a routine
// @Tags         routines
// @Security     BearerAuth
// @Param        id   path  int  true  "Routine ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /routines/{id} [delete]
func (h *Handler) DeleteRoutine(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.routines.Delete(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderExercises godoc
// @Summary      Reorder the exercises of a routine
// @Description  Sets the order key of every listed entry of the routine. Ids that do not belong to the routine are ignored.
// @Tags         routines
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Routine ID"
// @Param        input body  ReorderInput  true  "New order keys"
// @Success      200  {object}  DetailResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /routines/{id}/reorder-exercises [put]
func (h *Handler) ReorderExercises(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ReorderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	items := make([]service.OrderItem, 0, len(input.Exercises))
	for _, e := range input.Exercises {
		items = append(items, service.OrderItem{EntryID: *e.ID, Order: *e.Order})
	}

	if _, err := h.routines.Reorder(c.Request.Context(), callerID(c), id, items); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DetailResponse{Detail: "Exercises reordered"})
}
