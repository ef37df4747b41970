package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

type exerciseService interface {
	List(ctx context.Context) ([]models.Exercise, string, error)
	Get(ctx context.Context, id int64) (*models.Exercise, error)
	Create(ctx context.Context, req dto.ExerciseRequest) (*models.Exercise, error)
	Update(ctx context.Context, id int64, req dto.ExerciseRequest) (*models.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

// ExerciseHandler exposes the exercise catalog.
type ExerciseHandler struct {
	exercises exerciseService
}

// NewExerciseHandler constructs ExerciseHandler.
func NewExerciseHandler(exercises exerciseService) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises}
}

// List godoc
// @Summary List exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /exercises [get]
func (h *ExerciseHandler) List(c *gin.Context) {
	exercises, warning, err := h.exercises.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, exercises, warning)
}

// Get godoc
// @Summary Get exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 200 {object} response.Envelope
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	exercise, err := h.exercises.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, exercise)
}

// Create godoc
// @Summary Create exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ExerciseRequest true "Exercise payload"
// @Success 201 {object} response.Envelope
// @Router /exercises [post]
func (h *ExerciseHandler) Create(c *gin.Context) {
	var req dto.ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	exercise, err := h.exercises.Create(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, exercise)
}

// Update godoc
// @Summary Update exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param payload body dto.ExerciseRequest true "Exercise payload"
// @Success 200 {object} response.Envelope
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	exercise, err := h.exercises.Update(c.Request.Context(), id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, exercise)
}

// Delete godoc
// @Summary Delete exercise
// @Tags Exercises
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 204
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.exercises.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
