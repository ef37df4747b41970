package service

import (
	"context"
	"fmt"
	"time"

	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

// appointmentDeleter removes a single appointment on the backend.
type appointmentDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// Agenda is the view state of one trainer's pending appointments. Deletes only
// remove ids from it once the backend confirmed them.
type Agenda struct {
	appointments []models.Appointment
	now          time.Time
}

// NewAgenda copies appointments into a new view state evaluated at now.
func NewAgenda(appointments []models.Appointment, now time.Time) *Agenda {
	return &Agenda{appointments: append([]models.Appointment(nil), appointments...), now: now}
}

// Appointments returns the appointments still present.
func (a *Agenda) Appointments() []models.Appointment {
	return append([]models.Appointment(nil), a.appointments...)
}

// Rows groups the current appointments.
func (a *Agenda) Rows() []models.AppointmentRow {
	return GroupAppointments(a.appointments, a.now)
}

// Row finds a row by key.
func (a *Agenda) Row(key string) (models.AppointmentRow, bool) {
	for _, row := range a.Rows() {
		if row.Key == key {
			return row, true
		}
	}
	return models.AppointmentRow{}, false
}

// View renders the agenda for the front end.
func (a *Agenda) View(warning string) models.AgendaView {
	rows := a.Rows()
	return models.AgendaView{Rows: rows, Total: len(rows), Warning: warning, GeneratedAt: a.now}
}

func (a *Agenda) remove(ids ...int64) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := a.appointments[:0]
	for _, appt := range a.appointments {
		if _, gone := drop[appt.ID]; !gone {
			kept = append(kept, appt)
		}
	}
	a.appointments = kept
}

// DeleteSimple deletes the row's single appointment. The agenda is left
// untouched when the backend call fails.
func DeleteSimple(ctx context.Context, deleter appointmentDeleter, agenda *Agenda, row models.AppointmentRow) error {
	id := row.Appointment.ID
	if err := deleter.Delete(ctx, id); err != nil {
		return upstreamError(err, "failed to delete appointment")
	}
	agenda.remove(id)
	return nil
}

// DeleteSeries deletes every member one after another, never in parallel. It
// stops at the first failure without rolling back: members deleted before the
// failure leave the agenda, the failed one and the rest stay. The returned
// result always describes how far it got.
func DeleteSeries(ctx context.Context, deleter appointmentDeleter, agenda *Agenda, row models.AppointmentRow) (models.SeriesDeleteResult, error) {
	ids := row.IDs()
	result := models.SeriesDeleteResult{
		Requested:    len(ids),
		DeletedIDs:   make([]int64, 0, len(ids)),
		RemainingIDs: []int64{},
	}

	for i, id := range ids {
		err := ctx.Err()
		if err == nil {
			err = deleter.Delete(ctx, id)
		}
		if err != nil {
			failed := id
			result.FailedID = &failed
			result.RemainingIDs = append(result.RemainingIDs, ids[i:]...)
			mapped := upstreamError(err, "failed to delete appointment")
			result.Error = mapped.Error()

			message := fmt.Sprintf("deleted %d of %d appointments; stopped at appointment %d", len(result.DeletedIDs), len(ids), id)
			return result, appErrors.Wrap(mapped, appErrors.ErrPartialDelete.Code, appErrors.ErrPartialDelete.Status, message)
		}
		result.DeletedIDs = append(result.DeletedIDs, id)
		agenda.remove(id)
	}
	return result, nil
}
