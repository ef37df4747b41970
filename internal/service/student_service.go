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

type studentRepository interface {
	ListByTrainer(ctx context.Context, trainerID int64) ([]models.Student, error)
	Get(ctx context.Context, id int64) (models.Student, error)
	Create(ctx context.Context, payload adapter.Record) (models.Student, error)
	Update(ctx context.Context, id int64, payload adapter.Record) (models.Student, error)
	Delete(ctx context.Context, id int64) error
}

// StudentService handles the trainer's students.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *StudentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StudentService{repo: repo, validator: validate, logger: logger, loc: loc}
}

// List returns the trainer's students; a failed fetch degrades to an empty
// list plus a warning.
func (s *StudentService) List(ctx context.Context, trainerID int64) ([]models.Student, string, error) {
	students, err := s.repo.ListByTrainer(ctx, trainerID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		s.logger.Warn("student fetch failed", zap.Int64("trainer_id", trainerID), zap.Error(err))
		return []models.Student{}, fetchWarning("students", err), nil
	}
	return students, "", nil
}

// Get returns one of the trainer's students.
func (s *StudentService) Get(ctx context.Context, trainerID, id int64) (*models.Student, error) {
	student, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, upstreamError(err, "failed to load student")
	}
	if student.TrainerID != nil && *student.TrainerID != trainerID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &student, nil
}

// Create registers a student for the trainer.
func (s *StudentService) Create(ctx context.Context, trainerID int64, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	student, err := s.repo.Create(ctx, adapter.StudentPayload(req, trainerID, s.loc))
	if err != nil {
		return nil, upstreamError(err, "failed to create student")
	}
	return &student, nil
}

// Update edits a student.
func (s *StudentService) Update(ctx context.Context, trainerID, id int64, req dto.StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid student payload")
	}
	if _, err := s.Get(ctx, trainerID, id); err != nil {
		return nil, err
	}
	student, err := s.repo.Update(ctx, id, adapter.StudentPayload(req, trainerID, s.loc))
	if err != nil {
		return nil, upstreamError(err, "failed to update student")
	}
	return &student, nil
}

// Delete removes a student.
func (s *StudentService) Delete(ctx context.Context, trainerID, id int64) error {
	if _, err := s.Get(ctx, trainerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return upstreamError(err, "failed to delete student")
	}
	return nil
}
