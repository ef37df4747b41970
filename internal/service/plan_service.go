package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type planRepository interface {
	ListByStudent(ctx context.Context, studentID int64) ([]models.Plan, error)
	Get(ctx context.Context, id int64) (models.Plan, error)
	Create(ctx context.Context, payload adapter.Record) (models.Plan, error)
	CreateRoutine(ctx context.Context, payload adapter.Record) (models.Routine, error)
	DeleteRoutine(ctx context.Context, id int64) error
}

type notesRenderer interface {
	Render(src string) (string, error)
}

type studentLookup interface {
	Get(ctx context.Context, trainerID, id int64) (*models.Student, error)
}

const (
	secondsPerRep     = 3
	transitionSeconds = 60
)

// EstimateRoutineMinutes approximates how long a routine takes: each exercise
// is sets × (reps × 3s, or its timed duration) plus rest between sets, with a
// one-minute transition between exercises. Rounded up to whole minutes.
func EstimateRoutineMinutes(routine models.Routine) int {
	total, counted := 0, 0
	for _, ex := range routine.Exercises {
		if ex.Sets <= 0 {
			continue
		}
		work := ex.Reps * secondsPerRep
		if ex.DurationSeconds > 0 {
			work = ex.DurationSeconds
		}
		total += ex.Sets*work + (ex.Sets-1)*ex.RestSeconds
		if counted > 0 {
			total += transitionSeconds
		}
		counted++
	}
	return (total + 59) / 60
}

// PlanService manages training plans and their routines.
type PlanService struct {
	repo      planRepository
	students  studentLookup
	renderer  notesRenderer
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
}

// NewPlanService constructs the plan service.
func NewPlanService(repo planRepository, students studentLookup, renderer notesRenderer, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *PlanService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &PlanService{repo: repo, students: students, renderer: renderer, validator: validate, logger: logger, loc: loc}
}

// ListByStudent returns the plans of one of the trainer's students.
func (s *PlanService) ListByStudent(ctx context.Context, trainerID, studentID int64) ([]models.Plan, string, error) {
	if _, err := s.students.Get(ctx, trainerID, studentID); err != nil {
		return nil, "", err
	}
	plans, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		s.logger.Warn("plan fetch failed", zap.Int64("student_id", studentID), zap.Error(err))
		return []models.Plan{}, fetchWarning("plans", err), nil
	}
	for i := range plans {
		s.decoratePlan(&plans[i])
	}
	return plans, "", nil
}

// Get returns a plan with rendered notes and routine estimates.
func (s *PlanService) Get(ctx context.Context, trainerID, id int64) (*models.Plan, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "failed to load plan")
	}
	if plan.TrainerID != nil && *plan.TrainerID != trainerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "plan not found")
	}
	s.decoratePlan(&plan)
	return &plan, nil
}

// Create stores a plan for one of the trainer's students.
func (s *PlanService) Create(ctx context.Context, trainerID int64, req dto.PlanRequest) (*models.Plan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid plan payload")
	}
	if _, err := s.students.Get(ctx, trainerID, req.StudentID); err != nil {
		return nil, err
	}
	plan, err := s.repo.Create(ctx, adapter.PlanPayload(req, trainerID, s.loc))
	if err != nil {
		return nil, upstreamError(err, "failed to create plan")
	}
	s.decoratePlan(&plan)
	return &plan, nil
}

// CreateRoutine adds a routine to a plan of the trainer.
func (s *PlanService) CreateRoutine(ctx context.Context, trainerID, planID int64, req dto.RoutineRequest) (*models.Routine, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid routine payload")
	}
	if _, err := s.Get(ctx, trainerID, planID); err != nil {
		return nil, err
	}
	routine, err := s.repo.CreateRoutine(ctx, adapter.RoutinePayload(req, planID))
	if err != nil {
		return nil, upstreamError(err, "failed to create routine")
	}
	s.decorateRoutine(&routine)
	return &routine, nil
}

// DeleteRoutine removes a routine.
func (s *PlanService) DeleteRoutine(ctx context.Context, id int64) error {
	if err := s.repo.DeleteRoutine(ctx, id); err != nil {
		return upstreamError(err, "failed to delete routine")
	}
	return nil
}

func (s *PlanService) decoratePlan(plan *models.Plan) {
	plan.NotesHTML = s.render(plan.Notes)
	for i := range plan.Routines {
		s.decorateRoutine(&plan.Routines[i])
	}
}

func (s *PlanService) decorateRoutine(routine *models.Routine) {
	routine.NotesHTML = s.render(routine.Notes)
	routine.EstimatedMinutes = EstimateRoutineMinutes(*routine)
}

func (s *PlanService) render(notes string) string {
	if s.renderer == nil || notes == "" {
		return ""
	}
	html, err := s.renderer.Render(notes)
	if err != nil {
		s.logger.Warn("notes render failed", zap.Error(err))
		return ""
	}
	return html
}
