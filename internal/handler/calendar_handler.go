package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/internal/service"
)

type appointmentLister interface {
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, string, error)
}

type calendarService interface {
	Resolve(year, month int) (int, int)
	Range(year, month int) (time.Time, time.Time)
	Month(year, month int, appointments []models.Appointment) models.CalendarMonth
}

// CalendarHandler serves the month grid of the schedule screen.
type CalendarHandler struct {
	appointments appointmentLister
	calendar     calendarService
	validate     *validator.Validate
}

// NewCalendarHandler constructs CalendarHandler.
func NewCalendarHandler(appointments appointmentLister, calendar calendarService, validate *validator.Validate) *CalendarHandler {
	return &CalendarHandler{appointments: appointments, calendar: calendar, validate: validate}
}

// Month godoc
// @Summary Month calendar
// @Description Monday-first grid with every appointment of the visible range, past ones included
// @Tags Calendar
// @Produce json
// @Security BearerAuth
// @Param year query int false "Year, defaults to the current one"
// @Param month query int false "Month 1-12, defaults to the current one"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	trainer, found := trainerID(c)
	if !found {
		return
	}
	var query dto.CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := service.ValidateQuery(h.validate, query, "invalid calendar month"); err != nil {
		fail(c, err)
		return
	}

	year, month := h.calendar.Resolve(query.Year, query.Month)
	from, to := h.calendar.Range(year, month)
	appointments, warning, err := h.appointments.List(c.Request.Context(), models.AppointmentFilter{
		TrainerID: trainer,
		From:      &from,
		To:        &to,
	})
	if err != nil {
		fail(c, err)
		return
	}
	withWarning(c, h.calendar.Month(year, month, appointments), warning)
}
