package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fitsocial/backend/internal/models"
	"fitsocial/backend/internal/service"
)

// region --- DTOs ---

// ExerciseTypeInput defines the writable catalog fields.
type ExerciseTypeInput struct {
	Name        string `json:"name" binding:"required,max=100" example:"Back squat"`
	MuscleGroup string `json:"muscle_group" binding:"required,max=100" example:"legs"`
	Description string `json:"description" example:"Barbell on the upper back"`
}

type ExerciseTypeResponse struct {
	ID          uint      `json:"id" example:"1"`
	Name        string    `json:"name" example:"Back squat"`
	MuscleGroup string    `json:"muscle_group" example:"legs"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ExerciseEntryInput defines the writable exercise entry fields.
type ExerciseEntryInput struct {
	Routine      uint     `json:"routine" binding:"required" example:"1"`
	ExerciseType uint     `json:"exercise_type" binding:"required" example:"1"`
	Sets         int      `json:"sets" binding:"gte=0" example:"4"`
	Reps         int      `json:"reps" binding:"gte=0" example:"8"`
	BestWeight   *float64 `json:"best_weight" binding:"omitempty,gte=0,lt=10000" example:"100.5"`
	Order        int      `json:"order" example:"0"`
}

// ExerciseEntryResponse carries both the exercise type id and its display name.
type ExerciseEntryResponse struct {
	ID           uint     `json:"id" example:"1"`
	Routine      uint     `json:"routine" example:"1"`
	ExerciseType uint     `json:"exercise_type" example:"1"`
	ExerciseName string   `json:"exercise_name" example:"Back squat"`
	Sets         int      `json:"sets" example:"4"`
	Reps         int      `json:"reps" example:"8"`
	BestWeight   *float64 `json:"best_weight" example:"100.5"`
	Order        int      `json:"order" example:"0"`
}

func newExerciseTypeResponse(et models.ExerciseType) ExerciseTypeResponse {
	return ExerciseTypeResponse{
		ID:          et.ID,
		Name:        et.Name,
		MuscleGroup: et.MuscleGroup,
		Description: et.Description,
		CreatedAt:   et.CreatedAt,
		UpdatedAt:   et.UpdatedAt,
	}
}

func newExerciseEntryResponse(e models.ExerciseEntry) ExerciseEntryResponse {
	return ExerciseEntryResponse{
		ID:           e.ID,
		Routine:      e.RoutineID,
		ExerciseType: e.ExerciseTypeID,
		ExerciseName: e.ExerciseType.Name,
		Sets:         e.Sets,
		Reps:         e.Reps,
		BestWeight:   e.BestWeight,
		Order:        e.SortOrder,
	}
}

func (in ExerciseEntryInput) params() service.EntryParams {
	return service.EntryParams{
		RoutineID:      in.Routine,
		ExerciseTypeID: in.ExerciseType,
		Sets:           in.Sets,
		Reps:           in.Reps,
		BestWeight:     in.BestWeight,
		Order:          in.Order,
	}
}

// endregion

// region --- Exercise Type Handlers ---

// ListExerciseTypes godoc
// @Summary      List exercise types
// @Tags         exercise-types
// @Produce      json
// @Success      200  {array}   ExerciseTypeResponse
// @Router       /exercise-types [get]
func (h *Handler) ListExerciseTypes(c *gin.Context) {
	types, err := h.exerciseTypes.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]ExerciseTypeResponse, 0, len(types))
	for _, et := range types {
		response = append(response, newExerciseTypeResponse(et))
	}
	c.JSON(http.StatusOK, response)
}

// GetExerciseType godoc
// @Summary      Get an exercise type
// @Tags         exercise-types
// @Produce      json
// @Param        id   path      int  true  "Exercise type ID"
// @Success      200  {object}  ExerciseTypeResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /exercise-types/{id} [get]
func (h *Handler) GetExerciseType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	et, err := h.exerciseTypes.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExerciseTypeResponse(*et))
}

// CreateExerciseType godoc
// @Summary      Create an exercise type
// @Tags         exercise-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ExerciseTypeInput true "Exercise type"
// @Success      201  {object}  ExerciseTypeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /exercise-types [post]
func (h *Handler) CreateExerciseType(c *gin.Context) {
	var input ExerciseTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	et, err := h.exerciseTypes.Create(c.Request.Context(), service.ExerciseTypeParams(input))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newExerciseTypeResponse(*et))
}

// UpdateExerciseType godoc
// @Summary      Update an exercise type
// @Tags         exercise-types
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                true  "Exercise type ID"
// @Param        input body  ExerciseTypeInput  true  "Exercise type"
// @Success      200  {object}  ExerciseTypeResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /exercise-types/{id} [put]
func (h *Handler) UpdateExerciseType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ExerciseTypeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	et, err := h.exerciseTypes.Update(c.Request.Context(), id, service.ExerciseTypeParams(input))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExerciseTypeResponse(*et))
}

// DeleteExerciseType godoc
// @Summary      Delete an exercise type
// @Description  Fails with 409 while any exercise entry references it.
// @Tags         exercise-types
// @Security     BearerAuth
// @Param        id   path  int  true  "Exercise type ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "Exercise type in use"
// @Router       /exercise-types/{id} [delete]
func (h *Handler) DeleteExerciseType(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.exerciseTypes.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion

// region --- Exercise Entry Handlers ---

// ListExerciseEntries godoc
// @Summary      List my exercise entries
// @Tags         exercise-entries
// @Produce      json
// @Security     BearerAuth
// @Param        routine query     int  false  "Only entries of this routine"
// @Success      200     {array}   ExerciseEntryResponse
// @Failure      400     {object}  ErrorResponse
// @Router       /exercise-entries [get]
func (h *Handler) ListExerciseEntries(c *gin.Context) {
	var routineID *uint
	if raw := c.Query("routine"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid routine"})
			return
		}
		rid := uint(id)
		routineID = &rid
	}

	entries, err := h.entries.List(c.Request.Context(), callerID(c), routineID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response := make([]ExerciseEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, newExerciseEntryResponse(e))
	}
	c.JSON(http.StatusOK, response)
}

// CreateExerciseEntry godoc
// @Summary      Add an exercise to a routine
// @Tags         exercise-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ExerciseEntryInput true "Exercise entry"
// @Success      201  {object}  ExerciseEntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Routine is not yours"
// @Router       /exercise-entries [post]
func (h *Handler) CreateExerciseEntry(c *gin.Context) {
	var input ExerciseEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.entries.Create(c.Request.Context(), callerID(c), input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newExerciseEntryResponse(*entry))
}

// GetExerciseEntry godoc
// @Summary      Get an exercise entry
// @Tags         exercise-entries
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Exercise entry ID"
// @Success      200  {object}  ExerciseEntryResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /exercise-entries/{id} [get]
func (h *Handler) GetExerciseEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.entries.Get(c.Request.Context(), callerID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExerciseEntryResponse(*entry))
}

// UpdateExerciseEntry godoc
// @Summary      Update an exercise entry
// @Tags         exercise-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                 true  "Exercise entry ID"
// @Param        input body  ExerciseEntryInput  true  "Exercise entry"
// @Success      200  {object}  ExerciseEntryResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Target routine is not yours"
// @Failure      404  {object}  ErrorResponse
// @Router       /exercise-entries/{id} [put]
func (h *Handler) UpdateExerciseEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input ExerciseEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.entries.Update(c.Request.Context(), callerID(c), id, input.params())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newExerciseEntryResponse(*entry))
}

// DeleteExerciseEntry godoc
// @Summary      Delete an exercise entry
// @Tags         exercise-entries
// @Security     BearerAuth
// @Param        id   path  int  true  "Exercise entry ID"
// @Success      204
// @Failure      404  {object}  ErrorResponse
// @Router       /exercise-entries/{id} [delete]
func (h *Handler) DeleteExerciseEntry(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.entries.Delete(c.Request.Context(), callerID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// endregion
