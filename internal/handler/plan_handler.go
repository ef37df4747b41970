package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

type planService interface {
	Get(ctx context.Context, trainerID, id int64) (*models.Plan, error)
	Create(ctx context.Context, trainerID int64, req dto.PlanRequest) (*models.Plan, error)
	CreateRoutine(ctx context.Context, trainerID, planID int64, req dto.RoutineRequest) (*models.Routine, error)
	DeleteRoutine(ctx context.Context, id int64) error
}

// PlanHandler exposes training plans and routines.
type PlanHandler struct {
	plans planService
}

// NewPlanHandler constructs PlanHandler.
func NewPlanHandler(plans planService) *PlanHandler {
	return &PlanHandler{plans: plans}
}

// Create godoc
// @Summary Create a training plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	plan, err := h.plans.Create(c.Request.Context(), trainer, req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, plan)
}

// Get godoc
// @Summary Plan detail with routines
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [get]
func (h *PlanHandler) Get(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	plan, err := h.plans.Get(c.Request.Context(), trainer, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, plan)
}

// CreateRoutine godoc
// @Summary Add a routine to a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Plan ID"
// @Param payload body dto.RoutineRequest true "Routine payload"
// @Success 201 {object} response.Envelope
// @Router /plans/{id}/routines [post]
func (h *PlanHandler) CreateRoutine(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.RoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	routine, err := h.plans.CreateRoutine(c.Request.Context(), trainer, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine
// @Tags Plans
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Success 204
// @Router /routines/{id} [delete]
func (h *PlanHandler) DeleteRoutine(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.plans.DeleteRoutine(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
