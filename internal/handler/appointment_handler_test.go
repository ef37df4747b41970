package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type appointmentServiceMock struct {
	view       models.AgendaView
	filter     models.AppointmentFilter
	rowResult  *models.RowDeleteResult
	rowErr     error
	rowKey     string
	created    dto.CreateAppointmentRequest
	createdFor int64
	deleted    []int64
}

func (m *appointmentServiceMock) ListPending(ctx context.Context, filter models.AppointmentFilter) (models.AgendaView, error) {
	m.filter = filter
	return m.view, nil
}

func (m *appointmentServiceMock) Get(ctx context.Context, trainerID, id int64) (*models.Appointment, error) {
	if id == 404 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}
	return &models.Appointment{ID: id}, nil
}

func (m *appointmentServiceMock) Create(ctx context.Context, trainerID int64, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	m.created = req
	m.createdFor = trainerID
	return &models.Appointment{ID: 90, Type: models.AppointmentType(req.Type)}, nil
}

func (m *appointmentServiceMock) Reschedule(ctx context.Context, trainerID, id int64, req dto.RescheduleAppointmentRequest) (*models.Appointment, error) {
	return &models.Appointment{ID: id, ScheduledAt: req.ScheduledAt}, nil
}

func (m *appointmentServiceMock) Delete(ctx context.Context, trainerID, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *appointmentServiceMock) DeleteRow(ctx context.Context, trainerID int64, key string) (*models.RowDeleteResult, error) {
	m.rowKey = key
	return m.rowResult, m.rowErr
}

func (m *appointmentServiceMock) AddStudent(ctx context.Context, trainerID, id, studentID int64) (*models.Appointment, error) {
	return &models.Appointment{ID: id, StudentIDs: []int64{studentID}}, nil
}

func (m *appointmentServiceMock) RemoveStudent(ctx context.Context, trainerID, id, studentID int64) error {
	return nil
}

func TestAppointmentListPassesFilterAndWarning(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	svc := &appointmentServiceMock{view: models.AgendaView{Rows: []models.AppointmentRow{}, Warning: "could not load appointments"}}
	h := NewAppointmentHandler(svc, nil, loc)

	c, w := newGinContext(http.MethodGet, "/appointments?from=2025-03-01&to=2025-03-31&type=group", nil)
	asTrainer(c, 7)
	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "could not load appointments", w.Header().Get("X-Warning"))
	env := decodeEnvelope(t, w, nil)
	assert.Equal(t, "could not load appointments", env.Meta["warning"])

	assert.Equal(t, int64(7), svc.filter.TrainerID)
	assert.Equal(t, models.AppointmentTypeGroup, svc.filter.Type)
	require.NotNil(t, svc.filter.From)
	require.NotNil(t, svc.filter.To)
	assert.True(t, time.Date(2025, 3, 1, 0, 0, 0, 0, loc).Equal(*svc.filter.From))
	assert.True(t, time.Date(2025, 3, 31, 23, 59, 59, 999999999, loc).Equal(*svc.filter.To))
}

func TestAppointmentListRejectsBadFilter(t *testing.T) {
	svc := &appointmentServiceMock{}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodGet, "/appointments?type=yoga", nil)
	asTrainer(c, 7)
	h.List(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Zero(t, svc.filter.TrainerID)
}

func TestAppointmentHandlersRequireTrainer(t *testing.T) {
	h := NewAppointmentHandler(&appointmentServiceMock{}, nil, time.UTC)

	c, w := newGinContext(http.MethodGet, "/appointments", nil)
	h.List(c)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "TRAINER_NOT_LINKED", decodeEnvelope(t, w, nil).Error.Code)
}

func TestDeleteRowPartialKeepsProgress(t *testing.T) {
	failed := int64(83)
	svc := &appointmentServiceMock{
		rowResult: &models.RowDeleteResult{
			Kind:       models.RowKindSeries,
			DeletedIDs: []int64{81, 82},
			Series: &models.SeriesDeleteResult{
				Requested:    5,
				DeletedIDs:   []int64{81, 82},
				RemainingIDs: []int64{83, 84, 85},
				FailedID:     &failed,
				Error:        "conflict",
			},
		},
		rowErr: appErrors.Clone(appErrors.ErrPartialDelete, "deleted 2 of 5 appointments; stopped at appointment 83"),
	}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodDelete, "/appointments/rows/series-abc", nil)
	c.Params = gin.Params{{Key: "key", Value: "series-abc"}}
	asTrainer(c, 7)
	h.DeleteRow(c)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var result models.RowDeleteResult
	env := decodeEnvelope(t, w, &result)
	assert.Equal(t, "PARTIAL_DELETE", env.Error.Code)
	assert.Equal(t, "series-abc", svc.rowKey)
	require.NotNil(t, result.Series)
	assert.Equal(t, []int64{81, 82}, result.Series.DeletedIDs)
	assert.Equal(t, []int64{83, 84, 85}, result.Series.RemainingIDs)
}

func TestDeleteRowNotFound(t *testing.T) {
	svc := &appointmentServiceMock{rowErr: appErrors.Clone(appErrors.ErrNotFound, "agenda row not found")}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodDelete, "/appointments/rows/id-1", nil)
	c.Params = gin.Params{{Key: "key", Value: "id-1"}}
	asTrainer(c, 7)
	h.DeleteRow(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w, nil)
	assert.Nil(t, env.Data)
}

func TestDeleteRowDropsOutputWhenClientLeft(t *testing.T) {
	svc := &appointmentServiceMock{rowResult: &models.RowDeleteResult{Kind: models.RowKindSimple}, rowErr: context.Canceled}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodDelete, "/appointments/rows/id-1", nil)
	c.Params = gin.Params{{Key: "key", Value: "id-1"}}
	asTrainer(c, 7)
	cancelRequest(c)
	h.DeleteRow(c)

	assert.Empty(t, w.Body.String())
	assert.True(t, c.IsAborted())
}

func TestAppointmentCreate(t *testing.T) {
	svc := &appointmentServiceMock{}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodPost, "/appointments", []byte(`{"scheduledAt":"2025-03-10T18:00:00-03:00","type":"group","capacity":8,"studentIds":[3,4]}`))
	asTrainer(c, 7)
	h.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, int64(7), svc.createdFor)
	assert.Equal(t, "group", svc.created.Type)
	assert.Equal(t, []int64{3, 4}, svc.created.StudentIDs)

	c, w = newGinContext(http.MethodPost, "/appointments", []byte(`{"scheduledAt":`))
	asTrainer(c, 7)
	h.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppointmentPathIDs(t *testing.T) {
	svc := &appointmentServiceMock{}
	h := NewAppointmentHandler(svc, nil, time.UTC)

	c, w := newGinContext(http.MethodDelete, "/appointments/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	asTrainer(c, 7)
	h.Delete(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.deleted)

	c, w = newGinContext(http.MethodDelete, "/appointments/12", nil)
	c.Params = gin.Params{{Key: "id", Value: "12"}}
	asTrainer(c, 7)
	h.Delete(c)
	assert.Equal(t, []int64{12}, svc.deleted)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())

	c, w = newGinContext(http.MethodGet, "/appointments/404", nil)
	c.Params = gin.Params{{Key: "id", Value: "404"}}
	asTrainer(c, 7)
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newGinContext(http.MethodPost, "/appointments/12/students/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "12"}, {Key: "studentId", Value: "5"}}
	asTrainer(c, 7)
	h.AddStudent(c)
	require.Equal(t, http.StatusOK, w.Code)
	var appt models.Appointment
	decodeEnvelope(t, w, &appt)
	assert.Equal(t, []int64{5}, appt.StudentIDs)
}
