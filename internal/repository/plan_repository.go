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

// PlanRepository manages planes and rutinas on the backend.
type PlanRepository struct {
	client BackendClient
	loc    *time.Location
}

// NewPlanRepository constructs a PlanRepository.
func NewPlanRepository(client BackendClient, loc *time.Location) *PlanRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanRepository{client: client, loc: loc}
}

// ListByStudent returns the plans assigned to a student.
func (r *PlanRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Plan, error) {
	raw, _, err := fallback.First(ctx,
		fallback.Strategy[interface{}]{
			Name: "planes-by-query",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, "/planes", "/planes", url.Values{"alumnoId": {formatID(studentID)}})
			},
		},
		fallback.Strategy[interface{}]{
			Name: "planes-by-student-path",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, idPath("/alumnos/%d/planes", studentID), "/alumnos/:id/planes", nil)
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return adapter.Plans(raw, r.loc), nil
}

// Get loads a plan. Routines not embedded in the plan payload are fetched from
// the plan's routine sub-resource; a 404 there means the plan has none.
func (r *PlanRepository) Get(ctx context.Context, id int64) (models.Plan, error) {
	raw, err := getRaw(ctx, r.client, idPath("/planes/%d", id), "/planes/:id", nil)
	if err != nil {
		return models.Plan{}, err
	}
	plan := adapter.Plan(adapter.Object(raw), r.loc)
	if len(plan.Routines) > 0 {
		return plan, nil
	}

	routinesRaw, err := getRaw(ctx, r.client, idPath("/planes/%d/rutinas", id), "/planes/:id/rutinas", nil)
	if err != nil {
		if backend.IsNotFound(err) {
			return plan, nil
		}
		return models.Plan{}, err
	}
	for _, rec := range adapter.Records(routinesRaw) {
		plan.Routines = append(plan.Routines, adapter.Routine(rec))
	}
	return plan, nil
}

// Create stores a new plan.
func (r *PlanRepository) Create(ctx context.Context, payload adapter.Record) (models.Plan, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, "/planes", "/planes", payload)
	if err != nil {
		return models.Plan{}, err
	}
	return adapter.Plan(rec, r.loc), nil
}

// CreateRoutine adds a routine; the payload carries the plan id.
func (r *PlanRepository) CreateRoutine(ctx context.Context, payload adapter.Record) (models.Routine, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, "/rutinas", "/rutinas", payload)
	if err != nil {
		return models.Routine{}, err
	}
	return adapter.Routine(rec), nil
}

// DeleteRoutine removes a routine.
func (r *PlanRepository) DeleteRoutine(ctx context.Context, id int64) error {
	return r.client.Do(ctx, backend.Request{Method: http.MethodDelete, Path: idPath("/rutinas/%d", id), Route: "/rutinas/:id"}, nil)
}
