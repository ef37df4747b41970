package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type fakeAppointmentRepo struct {
	appointments []models.Appointment
	listErr      error
	deleteErr    map[int64]error
	deleted      []int64
	created      adapter.Record
	lastFilter   models.AppointmentFilter
}

func (f *fakeAppointmentRepo) ListByTrainer(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	f.lastFilter = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Appointment(nil), f.appointments...), nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id int64) (models.Appointment, error) {
	for _, a := range f.appointments {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Appointment{}, &backend.Error{StatusCode: http.StatusNotFound, Message: "Turno no encontrado"}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, payload adapter.Record) (models.Appointment, error) {
	f.created = payload
	return models.Appointment{ID: 100}, nil
}

func (f *fakeAppointmentRepo) Reschedule(ctx context.Context, id int64, payload adapter.Record) (models.Appointment, error) {
	return models.Appointment{ID: id}, nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id int64) error {
	if err, ok := f.deleteErr[id]; ok {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAppointmentRepo) AddStudent(ctx context.Context, appointmentID, studentID int64) (models.Appointment, error) {
	return models.Appointment{ID: appointmentID, StudentIDs: []int64{studentID}}, nil
}

func (f *fakeAppointmentRepo) RemoveStudent(ctx context.Context, appointmentID, studentID int64) error {
	return nil
}

func newTestAppointmentService(repo *fakeAppointmentRepo, now time.Time) *AppointmentService {
	svc := NewAppointmentService(repo, nil, NewMetricsService(), nil, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func TestListPendingGroupsUpcoming(t *testing.T) {
	now := at(t, "2025-03-05T12:00")
	repo := &fakeAppointmentRepo{appointments: append(weeklySeries(t, 1, 2, 3, 4),
		appt(9, at(t, "2025-03-06T07:00"), models.AppointmentTypeGroup, "Ana"),
	)}
	svc := newTestAppointmentService(repo, now)

	view, err := svc.ListPending(context.Background(), models.AppointmentFilter{TrainerID: 7})
	require.NoError(t, err)
	assert.Empty(t, view.Warning)
	require.Len(t, view.Rows, 2)
	assert.Equal(t, int64(9), view.Rows[0].Appointment.ID)
	assert.Equal(t, []int64{2, 3, 4}, view.Rows[1].MemberIDs)
	assert.Equal(t, int64(7), repo.lastFilter.TrainerID)
}

func TestListPendingDegradesOnFetchFailure(t *testing.T) {
	repo := &fakeAppointmentRepo{listErr: &backend.Error{StatusCode: http.StatusInternalServerError, Message: "db down"}}
	svc := newTestAppointmentService(repo, at(t, "2025-03-05T12:00"))

	view, err := svc.ListPending(context.Background(), models.AppointmentFilter{TrainerID: 7})
	require.NoError(t, err)
	assert.Empty(t, view.Rows)
	assert.Equal(t, "could not load appointments: db down", view.Warning)
}

func TestListPendingCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := &fakeAppointmentRepo{listErr: context.Canceled}
	svc := newTestAppointmentService(repo, at(t, "2025-03-05T12:00"))

	_, err := svc.ListPending(ctx, models.AppointmentFilter{TrainerID: 7})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeleteRowSeriesPartial(t *testing.T) {
	repo := &fakeAppointmentRepo{
		appointments: weeklySeries(t, 81, 82, 83, 84, 85),
		deleteErr:    map[int64]error{83: &backend.Error{StatusCode: http.StatusConflict, Message: "tiene asistencias"}},
	}
	svc := newTestAppointmentService(repo, at(t, "2025-03-01T00:00"))
	key := GroupAppointments(repo.appointments, at(t, "2025-03-01T00:00"))[0].Key

	result, err := svc.DeleteRow(context.Background(), 7, key)
	require.Error(t, err)
	require.NotNil(t, result)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPartialDelete.Code, appErr.Code)
	assert.Equal(t, []int64{81, 82}, repo.deleted)
	assert.Equal(t, []int64{81, 82}, result.DeletedIDs)
	require.Len(t, result.Agenda.Rows, 1)
	assert.Equal(t, []int64{83, 84, 85}, result.Agenda.Rows[0].MemberIDs)
}

func TestDeleteRowSimple(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: []models.Appointment{
		appt(5, at(t, "2025-03-03T18:00"), models.AppointmentTypeIndividual, "Ana", "Luis"),
	}}
	svc := newTestAppointmentService(repo, at(t, "2025-03-01T00:00"))

	result, err := svc.DeleteRow(context.Background(), 7, "id-5")
	require.NoError(t, err)
	assert.Equal(t, models.RowKindSimple, result.Kind)
	assert.Equal(t, []int64{5}, result.DeletedIDs)
	assert.Empty(t, result.Agenda.Rows)
}

func TestDeleteRowUnknownKey(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	svc := newTestAppointmentService(repo, at(t, "2025-03-01T00:00"))

	_, err := svc.DeleteRow(context.Background(), 7, "id-5")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, repo.deleted)
}

func TestCreateAppointmentValidatesBeforeBackend(t *testing.T) {
	now := at(t, "2025-03-05T12:00")
	repo := &fakeAppointmentRepo{}
	svc := newTestAppointmentService(repo, now)

	_, err := svc.Create(context.Background(), 7, dto.CreateAppointmentRequest{
		ScheduledAt: now.Add(-time.Hour),
		Type:        "individual",
		Capacity:    1,
		StudentIDs:  []int64{1, 2},
	})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.ElementsMatch(t, []appErrors.FieldError{
		{Field: "scheduledAt", Rule: "future"},
		{Field: "studentIds", Rule: "max_individual"},
		{Field: "studentIds", Rule: "capacity"},
	}, appErr.Details)
	assert.Nil(t, repo.created)

	_, err = svc.Create(context.Background(), 7, dto.CreateAppointmentRequest{Type: "weekly"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestCreateAppointmentSendsPayload(t *testing.T) {
	now := at(t, "2025-03-05T12:00")
	repo := &fakeAppointmentRepo{}
	svc := newTestAppointmentService(repo, now)

	created, err := svc.Create(context.Background(), 7, dto.CreateAppointmentRequest{
		ScheduledAt: at(t, "2025-03-10T18:00"),
		Type:        "group",
		Capacity:    8,
		StudentIDs:  []int64{1, 2},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), created.ID)
	assert.Equal(t, "grupal", repo.created["tipo"])
	assert.Equal(t, "2025-03-10T18:00:00", repo.created["fechaHora"])
	assert.Equal(t, int64(7), repo.created["entrenadorId"])
}

func TestAppointmentOwnership(t *testing.T) {
	other := appt(5, at(t, "2025-03-10T18:00"), models.AppointmentTypeIndividual, "Bruno")
	other.TrainerID = int64Ptr(8)
	repo := &fakeAppointmentRepo{appointments: []models.Appointment{other}}
	svc := newTestAppointmentService(repo, at(t, "2025-03-01T00:00"))

	err := svc.Delete(context.Background(), 7, 5)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), 8, 5))
	assert.Equal(t, []int64{5}, repo.deleted)

	_, err = svc.Get(context.Background(), 8, 99)
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
	assert.Equal(t, "Turno no encontrado", appErr.Message)
}
