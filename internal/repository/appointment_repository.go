package repository

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	"github.com/grindsup/trainer-gateway/pkg/fallback"
)

// AppointmentRepository reads and writes turnos on the backend.
type AppointmentRepository struct {
	client BackendClient
	loc    *time.Location
}

// NewAppointmentRepository constructs an AppointmentRepository. Timestamps
// without a zone are interpreted in loc.
func NewAppointmentRepository(client BackendClient, loc *time.Location) *AppointmentRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentRepository{client: client, loc: loc}
}

// ListByTrainer returns the trainer's appointments. The collection endpoint
// filtered by query string is tried first, then the trainer sub-resource.
// Trainer, range and type filters are also applied locally since older backends
// ignore them. Records without a trainer are kept.
func (r *AppointmentRepository) ListByTrainer(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error) {
	query := url.Values{}
	query.Set("entrenadorId", formatID(filter.TrainerID))
	if from := formatDate(filter.From, r.loc); from != "" {
		query.Set("desde", from)
	}
	if to := formatDate(filter.To, r.loc); to != "" {
		query.Set("hasta", to)
	}

	raw, _, err := fallback.First(ctx,
		fallback.Strategy[interface{}]{
			Name: "turnos-by-query",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, "/turnos", "/turnos", query)
			},
		},
		fallback.Strategy[interface{}]{
			Name: "turnos-by-trainer-path",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, idPath("/turnos/entrenador/%d", filter.TrainerID), "/turnos/entrenador/:id", nil)
			},
		},
	)
	if err != nil {
		return nil, err
	}

	appointments := adapter.Appointments(raw, r.loc)
	filtered := appointments[:0]
	for _, appt := range appointments {
		if appt.TrainerID != nil && *appt.TrainerID != filter.TrainerID {
			continue
		}
		if filter.Type != "" && appt.Type != filter.Type {
			continue
		}
		if appt.Schedulable() {
			if filter.From != nil && appt.ScheduledAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && appt.ScheduledAt.After(*filter.To) {
				continue
			}
		}
		filtered = append(filtered, appt)
	}
	return filtered, nil
}

// Get loads a single appointment.
func (r *AppointmentRepository) Get(ctx context.Context, id int64) (models.Appointment, error) {
	raw, err := getRaw(ctx, r.client, idPath("/turnos/%d", id), "/turnos/:id", nil)
	if err != nil {
		return models.Appointment{}, err
	}
	return adapter.Appointment(adapter.Object(raw), r.loc), nil
}

// Create books a new appointment.
func (r *AppointmentRepository) Create(ctx context.Context, payload adapter.Record) (models.Appointment, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, "/turnos", "/turnos", payload)
	if err != nil {
		return models.Appointment{}, err
	}
	return adapter.Appointment(rec, r.loc), nil
}

// Reschedule changes the date and time of an appointment.
func (r *AppointmentRepository) Reschedule(ctx context.Context, id int64, payload adapter.Record) (models.Appointment, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPatch, idPath("/turnos/%d", id), "/turnos/:id", payload)
	if err != nil {
		return models.Appointment{}, err
	}
	return adapter.Appointment(rec, r.loc), nil
}

// Delete removes one appointment.
func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   idPath("/turnos/%d", id),
		Route:  "/turnos/:id",
	}, nil)
}

// AddStudent enrolls a student in an appointment.
func (r *AppointmentRepository) AddStudent(ctx context.Context, appointmentID, studentID int64) (models.Appointment, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, idPath("/turnos/%d/alumnos/%d", appointmentID, studentID), "/turnos/:id/alumnos/:alumnoId", nil)
	if err != nil {
		return models.Appointment{}, err
	}
	return adapter.Appointment(rec, r.loc), nil
}

// RemoveStudent takes a student out of an appointment.
func (r *AppointmentRepository) RemoveStudent(ctx context.Context, appointmentID, studentID int64) error {
	return r.client.Do(ctx, backend.Request{
		Method: http.MethodDelete,
		Path:   idPath("/turnos/%d/alumnos/%d", appointmentID, studentID),
		Route:  "/turnos/:id/alumnos/:alumnoId",
	}, nil)
}
