package handler

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/internal/service"
)

type reportServiceMock struct {
	query  dto.ReportQuery
	closed bool
}

func (m *reportServiceMock) TrainerSummary(ctx context.Context, trainerID int64, query dto.ReportQuery) (*models.TrainerReport, string, error) {
	m.query = query
	return &models.TrainerReport{TrainerID: trainerID, TotalAppointments: 12}, "", nil
}

func (m *reportServiceMock) Export(ctx context.Context, trainerID int64, query dto.ReportQuery) (io.ReadCloser, string, error) {
	m.query = query
	return &trackedBody{Reader: strings.NewReader("%PDF-1.4 body"), closed: &m.closed}, "application/pdf", nil
}

type trackedBody struct {
	io.Reader
	closed *bool
}

func (b *trackedBody) Close() error {
	*b.closed = true
	return nil
}

func TestReportSummary(t *testing.T) {
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, nil)

	c, w := newGinContext(http.MethodGet, "/reports/summary?from=2025-03-01&to=2025-03-31", nil)
	asTrainer(c, 7)
	h.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	var report models.TrainerReport
	decodeEnvelope(t, w, &report)
	assert.Equal(t, 12, report.TotalAppointments)
	assert.Equal(t, dto.ReportQuery{From: "2025-03-01", To: "2025-03-31"}, svc.query)
}

func TestReportExportStreamsPDF(t *testing.T) {
	svc := &reportServiceMock{}
	h := NewReportHandler(svc, nil)

	c, w := newGinContext(http.MethodGet, "/reports/export?from=2025-03-01", nil)
	asTrainer(c, 7)
	h.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="reporte-entrenador-7-2025-03-01.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 body", w.Body.String())
	assert.True(t, svc.closed)
}

type calendarAppointmentsMock struct {
	filter models.AppointmentFilter
}

func (m *calendarAppointmentsMock) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, string, error) {
	m.filter = filter
	return []models.Appointment{{ID: 1, ScheduledAt: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), Type: models.AppointmentTypeIndividual}}, "", nil
}

func TestCalendarMonth(t *testing.T) {
	appointments := &calendarAppointmentsMock{}
	h := NewCalendarHandler(appointments, service.NewCalendarService(time.UTC), nil)

	c, w := newGinContext(http.MethodGet, "/calendar?year=2025&month=3", nil)
	asTrainer(c, 7)
	h.Month(c)

	require.Equal(t, http.StatusOK, w.Code)
	var grid models.CalendarMonth
	decodeEnvelope(t, w, &grid)
	assert.Equal(t, 2025, grid.Year)
	require.Len(t, grid.Weeks, 6)
	assert.Equal(t, "2025-02-24", grid.Weeks[0].Days[0].Date)
	require.NotNil(t, appointments.filter.From)
	assert.Equal(t, "2025-02-24", appointments.filter.From.Format(dateLayout))
	assert.Equal(t, "2025-04-06", appointments.filter.To.Format(dateLayout))

	c, w = newGinContext(http.MethodGet, "/calendar?month=13", nil)
	asTrainer(c, 7)
	h.Month(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReadyReportsFailingCheck(t *testing.T) {
	h := NewMetricsHandler(service.NewMetricsService(), map[string]ReadinessCheck{
		"backend": func(ctx context.Context) error { return nil },
		"store":   func(ctx context.Context) error { return io.ErrUnexpectedEOF },
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	var checks map[string]string
	env := decodeEnvelope(t, w, &checks)
	assert.Equal(t, "UPSTREAM_UNAVAILABLE", env.Error.Code)
	assert.Equal(t, "ok", checks["backend"])
	assert.Equal(t, io.ErrUnexpectedEOF.Error(), checks["store"])
}
