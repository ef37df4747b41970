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

// StudentRepository manages alumnos on the backend.
type StudentRepository struct {
	client BackendClient
	loc    *time.Location
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(client BackendClient, loc *time.Location) *StudentRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &StudentRepository{client: client, loc: loc}
}

// ListByTrainer returns the students of a trainer.
func (r *StudentRepository) ListByTrainer(ctx context.Context, trainerID int64) ([]models.Student, error) {
	raw, _, err := fallback.First(ctx,
		fallback.Strategy[interface{}]{
			Name: "alumnos-by-query",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, "/alumnos", "/alumnos", url.Values{"entrenadorId": {formatID(trainerID)}})
			},
		},
		fallback.Strategy[interface{}]{
			Name: "alumnos-by-trainer-path",
			Run: func(ctx context.Context) (interface{}, error) {
				return getRaw(ctx, r.client, idPath("/entrenadores/%d/alumnos", trainerID), "/entrenadores/:id/alumnos", nil)
			},
		},
	)
	if err != nil {
		return nil, err
	}
	return adapter.Students(raw, r.loc), nil
}

// Get loads one student.
func (r *StudentRepository) Get(ctx context.Context, id int64) (models.Student, error) {
	raw, err := getRaw(ctx, r.client, idPath("/alumnos/%d", id), "/alumnos/:id", nil)
	if err != nil {
		return models.Student{}, err
	}
	return adapter.Student(adapter.Object(raw), r.loc), nil
}

// Create registers a student.
func (r *StudentRepository) Create(ctx context.Context, payload adapter.Record) (models.Student, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, "/alumnos", "/alumnos", payload)
	if err != nil {
		return models.Student{}, err
	}
	return adapter.Student(rec, r.loc), nil
}

// Update replaces a student's data.
func (r *StudentRepository) Update(ctx context.Context, id int64, payload adapter.Record) (models.Student, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPut, idPath("/alumnos/%d", id), "/alumnos/:id", payload)
	if err != nil {
		return models.Student{}, err
	}
	return adapter.Student(rec, r.loc), nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, backend.Request{Method: http.MethodDelete, Path: idPath("/alumnos/%d", id), Route: "/alumnos/:id"}, nil)
}
