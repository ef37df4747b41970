package repository

import (
	"context"
	"net/http"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
)

// ExerciseRepository manages the exercise catalog on the backend.
type ExerciseRepository struct {
	client BackendClient
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(client BackendClient) *ExerciseRepository {
	return &ExerciseRepository{client: client}
}

// List returns the whole catalog.
func (r *ExerciseRepository) List(ctx context.Context) ([]models.Exercise, error) {
	raw, err := getRaw(ctx, r.client, "/ejercicios", "/ejercicios", nil)
	if err != nil {
		return nil, err
	}
	return adapter.Exercises(raw), nil
}

// Get loads one exercise.
func (r *ExerciseRepository) Get(ctx context.Context, id int64) (models.Exercise, error) {
	raw, err := getRaw(ctx, r.client, idPath("/ejercicios/%d", id), "/ejercicios/:id", nil)
	if err != nil {
		return models.Exercise{}, err
	}
	return adapter.Exercise(adapter.Object(raw)), nil
}

// Create adds an exercise.
func (r *ExerciseRepository) Create(ctx context.Context, payload adapter.Record) (models.Exercise, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPost, "/ejercicios", "/ejercicios", payload)
	if err != nil {
		return models.Exercise{}, err
	}
	return adapter.Exercise(rec), nil
}

// Update replaces an exercise.
func (r *ExerciseRepository) Update(ctx context.Context, id int64, payload adapter.Record) (models.Exercise, error) {
	rec, err := sendRecord(ctx, r.client, http.MethodPut, idPath("/ejercicios/%d", id), "/ejercicios/:id", payload)
	if err != nil {
		return models.Exercise{}, err
	}
	return adapter.Exercise(rec), nil
}

// Delete removes an exercise.
func (r *ExerciseRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, backend.Request{Method: http.MethodDelete, Path: idPath("/ejercicios/%d", id), Route: "/ejercicios/:id"}, nil)
}
