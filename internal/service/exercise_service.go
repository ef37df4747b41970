package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
)

type exerciseRepository interface {
	List(ctx context.Context) ([]models.Exercise, error)
	Get(ctx context.Context, id int64) (models.Exercise, error)
	Create(ctx context.Context, payload adapter.Record) (models.Exercise, error)
	Update(ctx context.Context, id int64, payload adapter.Record) (models.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

// ExerciseService manages the shared exercise catalog.
type ExerciseService struct {
	repo      exerciseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExerciseService constructs the exercise service.
func NewExerciseService(repo exerciseRepository, validate *validator.Validate, logger *zap.Logger) *ExerciseService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExerciseService{repo: repo, validator: validate, logger: logger}
}

// List returns the catalog, degrading to an empty list plus a warning.
func (s *ExerciseService) List(ctx context.Context) ([]models.Exercise, string, error) {
	exercises, err := s.repo.List(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		s.logger.Warn("exercise fetch failed", zap.Error(err))
		return []models.Exercise{}, fetchWarning("exercises", err), nil
	}
	return exercises, "", nil
}

// Get returns one exercise.
func (s *ExerciseService) Get(ctx context.Context, id int64) (*models.Exercise, error) {
	exercise, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "failed to load exercise")
	}
	return &exercise, nil
}

// Create adds an exercise.
func (s *ExerciseService) Create(ctx context.Context, req dto.ExerciseRequest) (*models.Exercise, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid exercise payload")
	}
	exercise, err := s.repo.Create(ctx, adapter.ExercisePayload(req))
	if err != nil {
		return nil, upstreamError(err, "failed to create exercise")
	}
	return &exercise, nil
}

// Update edits an exercise.
func (s *ExerciseService) Update(ctx context.Context, id int64, req dto.ExerciseRequest) (*models.Exercise, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid exercise payload")
	}
	exercise, err := s.repo.Update(ctx, id, adapter.ExercisePayload(req))
	if err != nil {
		return nil, upstreamError(err, "failed to update exercise")
	}
	return &exercise, nil
}

// Delete removes an exercise.
func (s *ExerciseService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "failed to delete exercise")
	}
	return nil
}
