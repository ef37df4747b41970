package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/internal/service"
	"github.com/grindsup/trainer-gateway/pkg/response"
)

type appointmentService interface {
	ListPending(ctx context.Context, filter models.AppointmentFilter) (models.AgendaView, error)
	Get(ctx context.Context, trainerID, id int64) (*models.Appointment, error)
	Create(ctx context.Context, trainerID int64, req dto.CreateAppointmentRequest) (*models.Appointment, error)
	Reschedule(ctx context.Context, trainerID, id int64, req dto.RescheduleAppointmentRequest) (*models.Appointment, error)
	Delete(ctx context.Context, trainerID, id int64) error
	DeleteRow(ctx context.Context, trainerID int64, key string) (*models.RowDeleteResult, error)
	AddStudent(ctx context.Context, trainerID, id, studentID int64) (*models.Appointment, error)
	RemoveStudent(ctx context.Context, trainerID, id, studentID int64) error
}

// AppointmentHandler exposes the trainer agenda.
type AppointmentHandler struct {
	appointments appointmentService
	validate     *validator.Validate
	loc          *time.Location
}

// NewAppointmentHandler constructs AppointmentHandler.
func NewAppointmentHandler(appointments appointmentService, validate *validator.Validate, loc *time.Location) *AppointmentHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentHandler{appointments: appointments, validate: validate, loc: loc}
}

// List godoc
// @Summary Pending agenda
// @Description Upcoming appointments with weekly recurrences collapsed into series rows
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param from query string false "First day (YYYY-MM-DD)"
// @Param to query string false "Last day (YYYY-MM-DD)"
// @Param type query string false "individual or group"
// @Success 200 {object} response.Envelope
// @Router /appointments [get]
func (h *AppointmentHandler) List(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var query dto.AppointmentListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := service.ValidateQuery(h.validate, query, "invalid agenda filter"); err != nil {
		fail(c, err)
		return
	}

	view, err := h.appointments.ListPending(c.Request.Context(), models.AppointmentFilter{
		TrainerID: trainer,
		From:      dayBounds(query.From, h.loc, false),
		To:        dayBounds(query.To, h.loc, true),
		Type:      models.AppointmentType(query.Type),
	})
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, view, view.Warning)
}

// Get godoc
// @Summary Appointment detail
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id} [get]
func (h *AppointmentHandler) Get(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	appt, err := h.appointments.Get(c.Request.Context(), trainer, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, appt)
}

// Create godoc
// @Summary Book an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAppointmentRequest true "Appointment payload"
// @Success 201 {object} response.Envelope
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	appt, err := h.appointments.Create(c.Request.Context(), trainer, req)
	if err != nil {
		fail(c, err)
		return
	}
	created(c, appt)
}

// Reschedule godoc
// @Summary Move an appointment
// @Tags Appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param payload body dto.RescheduleAppointmentRequest true "New date and time"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/schedule [patch]
func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req dto.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	appt, err := h.appointments.Reschedule(c.Request.Context(), trainer, id, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, appt)
}

// Delete godoc
// @Summary Delete one appointment
// @Tags Appointments
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Success 204
// @Router /appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.appointments.Delete(c.Request.Context(), trainer, id); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}

// DeleteRow godoc
// @Summary Delete an agenda row
// @Description Deletes a single appointment or every member of a series, one after another. A series that stops midway answers PARTIAL_DELETE with the ids that were and were not deleted.
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param key path string true "Row key"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /appointments/rows/{key} [delete]
func (h *AppointmentHandler) DeleteRow(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	result, err := h.appointments.DeleteRow(c.Request.Context(), trainer, c.Param("key"))
	if err != nil {
		if abandoned(c) {
			c.Abort()
			return
		}
		if result != nil {
			response.Partial(c, result, err)
			return
		}
		fail(c, err)
		return
	}
	ok(c, result)
}

// AddStudent godoc
// @Summary Enroll a student in an appointment
// @Tags Appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /appointments/{id}/students/{studentId} [post]
func (h *AppointmentHandler) AddStudent(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	studentID, valid := pathID(c, "studentId")
	if !valid {
		return
	}
	appt, err := h.appointments.AddStudent(c.Request.Context(), trainer, id, studentID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, appt)
}

// RemoveStudent godoc
// @Summary Remove a student from an appointment
// @Tags Appointments
// @Security BearerAuth
// @Param id path int true "Appointment ID"
// @Param studentId path int true "Student ID"
// @Success 204
// @Router /appointments/{id}/students/{studentId} [delete]
func (h *AppointmentHandler) RemoveStudent(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	studentID, valid := pathID(c, "studentId")
	if !valid {
		return
	}
	if err := h.appointments.RemoveStudent(c.Request.Context(), trainer, id, studentID); err != nil {
		fail(c, err)
		return
	}
	noContent(c)
}
