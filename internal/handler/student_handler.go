package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

type studentService interface {
	List(ctx context.Context, trainerID int64) ([]models.Student, string, error)
	Get(ctx context.Context, trainerID, id int64) (*models.Student, error)
	Create(ctx context.Context, trainerID int64, req dto.StudentRequest) (*models.Student, error)
	Update(ctx context.Context, trainerID, id int64, req dto.StudentRequest) (*models.Student, error)
	Delete(ctx context.Context, trainerID, id int64) error
}

type studentPlans interface {
	ListByStudent(ctx context.Context, trainerID, studentID int64) ([]models.Plan, string, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students studentService
	plans    studentPlans
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, plans studentPlans) *StudentHandler {
	return &StudentHandler{students: students, plans: plans}
}

// List godoc
// @Summary List the trainer's students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	students, warning, err := h.students.List(c.Request.Context(), trainer)
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, students, warning)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	student, err := h.students.Get(c.Request.Context(), trainer, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, student)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.StudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	student, err := h.students.Create(c.Request.Context(), trainer, req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param payload body dto.StudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	student, err := h.students.Update(c.Request.Context(), trainer, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, student)
}

// Delete godoc
// @Summary Remove student
// @Tags Students
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.students.Delete(c.Request.Context(), trainer, id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// Plans godoc
// @Summary Training plans of a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/plans [get]
func (h *StudentHandler) Plans(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	plans, warning, err := h.plans.ListByStudent(c.Request.Context(), trainer, id)
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, plans, warning)
}
