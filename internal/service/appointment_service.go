package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type appointmentRepository interface {
	ListByTrainer(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, error)
	Get(ctx context.Context, id int64) (models.Appointment, error)
	Create(ctx context.Context, payload adapter.Record) (models.Appointment, error)
	Reschedule(ctx context.Context, id int64, payload adapter.Record) (models.Appointment, error)
	Delete(ctx context.Context, id int64) error
	AddStudent(ctx context.Context, appointmentID, studentID int64) (models.Appointment, error)
	RemoveStudent(ctx context.Context, appointmentID, studentID int64) error
}

type reportInvalidator interface {
	Invalidate(ctx context.Context, trainerID int64)
}

// Series delete outcomes.
const (
	SeriesDeleteComplete = "complete"
	SeriesDeletePartial  = "partial"
	SeriesDeleteFailed   = "failed"
)

// AppointmentService serves the trainer agenda and appointment mutations.
type AppointmentService struct {
	repo      appointmentRepository
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
	reports   reportInvalidator
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(repo appointmentRepository, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, loc *time.Location) *AppointmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AppointmentService{repo: repo, validator: validate, metrics: metrics, logger: logger, loc: loc, now: time.Now}
}

// InvalidateReportsOnChange drops cached statistics of a trainer whenever one
// of their appointments changes.
func (s *AppointmentService) InvalidateReportsOnChange(reports reportInvalidator) {
	s.reports = reports
}

func (s *AppointmentService) changed(ctx context.Context, trainerID int64) {
	if s.reports != nil {
		s.reports.Invalidate(ctx, trainerID)
	}
}

// ListPending returns the grouped agenda of upcoming appointments. A failed
// fetch yields an empty agenda carrying a warning instead of an error.
func (s *AppointmentService) ListPending(ctx context.Context, filter models.AppointmentFilter) (models.AgendaView, error) {
	now := s.now().In(s.loc)
	appointments, warning, err := s.List(ctx, filter)
	if err != nil {
		return models.AgendaView{}, err
	}
	return NewAgenda(PendingAppointments(appointments, now), now).View(warning), nil
}

// List returns every appointment of the trainer matching filter, past ones
// included. Fetch failures degrade to an empty list plus a warning.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, string, error) {
	appointments, err := s.repo.ListByTrainer(ctx, filter)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		s.logger.Warn("appointment fetch failed", zap.Int64("trainer_id", filter.TrainerID), zap.Error(err))
		return []models.Appointment{}, fetchWarning("appointments", err), nil
	}
	return appointments, "", nil
}

// DeleteRow deletes an agenda row addressed by key. The agenda is rebuilt from
// the backend first, so rows of other trainers are never found. A series
// stopped midway returns the partial result together with the error.
func (s *AppointmentService) DeleteRow(ctx context.Context, trainerID int64, key string) (*models.RowDeleteResult, error) {
	appointments, err := s.repo.ListByTrainer(ctx, models.AppointmentFilter{TrainerID: trainerID})
	if err != nil {
		return nil, upstreamError(err, "failed to load appointments")
	}
	now := s.now().In(s.loc)
	agenda := NewAgenda(PendingAppointments(appointments, now), now)

	row, ok := agenda.Row(key)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "agenda row not found")
	}

	result := &models.RowDeleteResult{Kind: row.Kind}
	if row.Kind == models.RowKindSimple {
		if err := DeleteSimple(ctx, s.repo, agenda, row); err != nil {
			return nil, err
		}
		result.DeletedIDs = []int64{row.Appointment.ID}
		result.Agenda = agenda.View("")
		s.changed(ctx, trainerID)
		s.logger.Info("appointment deleted", zap.Int64("trainer_id", trainerID), zap.Int64("appointment_id", row.Appointment.ID))
		return result, nil
	}

	series, err := DeleteSeries(ctx, s.repo, agenda, row)
	result.DeletedIDs = series.DeletedIDs
	result.Series = &series
	result.Agenda = agenda.View("")

	outcome := SeriesDeleteComplete
	switch {
	case err != nil && len(series.DeletedIDs) == 0:
		outcome = SeriesDeleteFailed
	case err != nil:
		outcome = SeriesDeletePartial
	}
	s.metrics.RecordSeriesDelete(outcome)
	if len(series.DeletedIDs) > 0 {
		s.changed(ctx, trainerID)
	}
	s.logger.Info("appointment series deleted",
		zap.Int64("trainer_id", trainerID),
		zap.String("outcome", outcome),
		zap.Int("requested", series.Requested),
		zap.Int("deleted", len(series.DeletedIDs)),
	)
	return result, err
}

// Get returns one appointment of the trainer.
func (s *AppointmentService) Get(ctx context.Context, trainerID, id int64) (*models.Appointment, error) {
	appt, err := s.owned(ctx, trainerID, id)
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

// Create books an appointment for the trainer.
func (s *AppointmentService) Create(ctx context.Context, trainerID int64, req dto.CreateAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid appointment payload")
	}
	var fields []appErrors.FieldError
	if req.ScheduledAt.Before(s.now()) {
		fields = append(fields, appErrors.FieldError{Field: "scheduledAt", Rule: "future"})
	}
	if adapter.NormalizeType(req.Type) == models.AppointmentTypeIndividual && len(req.StudentIDs) > 1 {
		fields = append(fields, appErrors.FieldError{Field: "studentIds", Rule: "max_individual"})
	}
	if len(req.StudentIDs) > req.Capacity {
		fields = append(fields, appErrors.FieldError{Field: "studentIds", Rule: "capacity"})
	}
	if len(fields) > 0 {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid appointment payload"), fields)
	}

	appt, err := s.repo.Create(ctx, adapter.AppointmentPayload(req, trainerID, s.loc))
	if err != nil {
		return nil, upstreamError(err, "failed to create appointment")
	}
	s.changed(ctx, trainerID)
	return &appt, nil
}

// Reschedule moves an appointment to a new date and time.
func (s *AppointmentService) Reschedule(ctx context.Context, trainerID, id int64, req dto.RescheduleAppointmentRequest) (*models.Appointment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid schedule payload")
	}
	if req.ScheduledAt.Before(s.now()) {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid schedule payload"),
			[]appErrors.FieldError{{Field: "scheduledAt", Rule: "future"}})
	}
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return nil, err
	}
	appt, err := s.repo.Reschedule(ctx, id, adapter.ReschedulePayload(req, s.loc))
	if err != nil {
		return nil, upstreamError(err, "failed to reschedule appointment")
	}
	s.changed(ctx, trainerID)
	return &appt, nil
}

// Delete removes a single appointment by id.
func (s *AppointmentService) Delete(ctx context.Context, trainerID, id int64) error {
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "failed to delete appointment")
	}
	s.changed(ctx, trainerID)
	return nil
}

// AddStudent enrolls a student in an appointment.
func (s *AppointmentService) AddStudent(ctx context.Context, trainerID, id, studentID int64) (*models.Appointment, error) {
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return nil, err
	}
	appt, err := s.repo.AddStudent(ctx, id, studentID)
	if err != nil {
		return nil, upstreamError(err, "failed to add student to appointment")
	}
	s.changed(ctx, trainerID)
	return &appt, nil
}

// RemoveStudent takes a student out of an appointment.
func (s *AppointmentService) RemoveStudent(ctx context.Context, trainerID, id, studentID int64) error {
	if _, err := s.owned(ctx, trainerID, id); err != nil {
		return err
	}
	if err := s.repo.RemoveStudent(ctx, id, studentID); err != nil {
		return upstreamError(err, "failed to remove student from appointment")
	}
	s.changed(ctx, trainerID)
	return nil
}

// owned loads an appointment and hides it when it belongs to another trainer.
func (s *AppointmentService) owned(ctx context.Context, trainerID, id int64) (models.Appointment, error) {
	appt, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Appointment{}, upstreamError(err, "failed to load appointment")
	}
	if appt.TrainerID != nil && *appt.TrainerID != trainerID {
		return models.Appointment{}, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
	}
	return appt, nil
}

// fetchWarning is the non-blocking message shown when a list could not load.
func fetchWarning(what string, err error) string {
	if message := backend.MessageOf(err); message != "" {
		return "could not load " + what + ": " + message
	}
	var backendErr *backend.Error
	if errors.As(err, &backendErr) && backendErr.StatusCode == 0 {
		return "could not load " + what + ": backend unavailable"
	}
	return "could not load " + what
}
