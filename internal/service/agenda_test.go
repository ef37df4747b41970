package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type recordingDeleter struct {
	calls    []int64
	failOn   map[int64]error
	inFlight int
	maxSeen  int
	onDelete func(id int64)
}

func (d *recordingDeleter) Delete(ctx context.Context, id int64) error {
	d.inFlight++
	if d.inFlight > d.maxSeen {
		d.maxSeen = d.inFlight
	}
	defer func() { d.inFlight-- }()
	d.calls = append(d.calls, id)
	if d.onDelete != nil {
		d.onDelete(id)
	}
	if err, ok := d.failOn[id]; ok {
		return err
	}
	return nil
}

func weeklySeries(t *testing.T, ids ...int64) []models.Appointment {
	t.Helper()
	start := at(t, "2025-03-03T18:00")
	out := make([]models.Appointment, len(ids))
	for i, id := range ids {
		out[i] = appt(id, start.AddDate(0, 0, 7*i), models.AppointmentTypeIndividual, "Ana", "Luis")
	}
	return out
}

func TestDeleteSimpleRemovesOnSuccess(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda([]models.Appointment{
		appt(1, at(t, "2025-03-03T18:00"), models.AppointmentTypeIndividual, "Ana", "Luis"),
		appt(2, at(t, "2025-03-04T18:00"), models.AppointmentTypeGroup, "Ana"),
	}, now)
	row, ok := agenda.Row("id-1")
	require.True(t, ok)

	deleter := &recordingDeleter{}
	require.NoError(t, DeleteSimple(context.Background(), deleter, agenda, row))
	assert.Equal(t, []int64{1}, deleter.calls)
	rows := agenda.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Appointment.ID)
}

func TestDeleteSimpleKeepsStateOnFailure(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda([]models.Appointment{
		appt(1, at(t, "2025-03-03T18:00"), models.AppointmentTypeIndividual, "Ana", "Luis"),
	}, now)
	row, _ := agenda.Row("id-1")

	deleter := &recordingDeleter{failOn: map[int64]error{
		1: &backend.Error{StatusCode: http.StatusConflict, Message: "el turno tiene asistencias"},
	}}
	err := DeleteSimple(context.Background(), deleter, agenda, row)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "el turno tiene asistencias", appErr.Message)
	assert.Len(t, agenda.Rows(), 1)
}

func TestDeleteSeriesAllSucceed(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda(weeklySeries(t, 81, 82, 83, 84, 85), now)
	rows := agenda.Rows()
	require.Len(t, rows, 1)

	deleter := &recordingDeleter{}
	result, err := DeleteSeries(context.Background(), deleter, agenda, rows[0])
	require.NoError(t, err)
	assert.True(t, result.Complete())
	assert.Equal(t, 5, result.Requested)
	assert.Equal(t, []int64{81, 82, 83, 84, 85}, deleter.calls)
	assert.Equal(t, 1, deleter.maxSeen)
	assert.Empty(t, agenda.Rows())
}

func TestDeleteSeriesStopsAtFirstFailure(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda(weeklySeries(t, 81, 82, 83, 84, 85), now)
	rows := agenda.Rows()
	require.Len(t, rows, 1)

	deleter := &recordingDeleter{failOn: map[int64]error{
		83: &backend.Error{StatusCode: http.StatusInternalServerError, Message: "boom"},
	}}
	result, err := DeleteSeries(context.Background(), deleter, agenda, rows[0])
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrPartialDelete.Code, appErr.Code)
	assert.Equal(t, []int64{81, 82, 83}, deleter.calls)
	assert.Equal(t, []int64{81, 82}, result.DeletedIDs)
	assert.Equal(t, []int64{83, 84, 85}, result.RemainingIDs)
	require.NotNil(t, result.FailedID)
	assert.Equal(t, int64(83), *result.FailedID)
	assert.False(t, result.Complete())

	remaining := agenda.Rows()
	require.Len(t, remaining, 1)
	assert.Equal(t, []int64{83, 84, 85}, remaining[0].MemberIDs)
}

func TestDeleteSeriesStopsWhenContextCancelled(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda(weeklySeries(t, 1, 2, 3), now)
	rows := agenda.Rows()

	ctx, cancel := context.WithCancel(context.Background())
	deleter := &recordingDeleter{onDelete: func(id int64) {
		if id == 1 {
			cancel()
		}
	}}
	result, err := DeleteSeries(ctx, deleter, agenda, rows[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, []int64{1}, deleter.calls)
	assert.Equal(t, []int64{1}, result.DeletedIDs)
	assert.Equal(t, []int64{2, 3}, result.RemainingIDs)
}

func TestAgendaViewCountsRows(t *testing.T) {
	now := at(t, "2025-03-01T00:00")
	agenda := NewAgenda(append(weeklySeries(t, 1, 2), appt(9, at(t, "2025-03-04T07:00"), models.AppointmentTypeGroup, "Ana")), now)

	view := agenda.View("stale")
	assert.Equal(t, 2, view.Total)
	assert.Equal(t, "stale", view.Warning)
	assert.Equal(t, now, view.GeneratedAt)

	_, ok := agenda.Row("missing")
	assert.False(t, ok)
}
