package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type reportRepository interface {
	TrainerSummary(ctx context.Context, trainerID int64, from, to string) (models.TrainerReport, error)
	Export(ctx context.Context, trainerID int64, from, to string) (io.ReadCloser, string, error)
}

// ReportService serves trainer statistics, cached in the key-value store.
type ReportService struct {
	repo      reportRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs the report service. cache may be nil.
func NewReportService(repo reportRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, cache: cache, validator: validate, logger: logger, now: time.Now}
}

func reportCacheKey(trainerID int64, from, to string) string {
	return fmt.Sprintf("reports:trainer:%d:%s:%s", trainerID, from, to)
}

func (s *ReportService) validate(query dto.ReportQuery) error {
	if err := s.validator.Struct(query); err != nil {
		return validationError(err, "invalid report range")
	}
	if query.From != "" && query.To != "" && query.To < query.From {
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid report range"),
			[]appErrors.FieldError{{Field: "to", Rule: "gtefield"}})
	}
	return nil
}

// TrainerSummary returns the statistics for the range. A failed fetch yields
// an empty report plus a warning.
func (s *ReportService) TrainerSummary(ctx context.Context, trainerID int64, query dto.ReportQuery) (*models.TrainerReport, string, error) {
	if err := s.validate(query); err != nil {
		return nil, "", err
	}

	key := reportCacheKey(trainerID, query.From, query.To)
	var cached models.TrainerReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, "", nil
	}

	report, err := s.repo.TrainerSummary(ctx, trainerID, query.From, query.To)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		s.logger.Warn("report fetch failed", zap.Int64("trainer_id", trainerID), zap.Error(err))
		return &models.TrainerReport{TrainerID: trainerID, From: query.From, To: query.To}, fetchWarning("statistics", err), nil
	}
	report.GeneratedAt = s.now().UTC()
	_ = s.cache.Set(ctx, key, report, 0)
	return &report, "", nil
}

// Export streams the backend PDF for the range. The caller closes the reader.
func (s *ReportService) Export(ctx context.Context, trainerID int64, query dto.ReportQuery) (io.ReadCloser, string, error) {
	if err := s.validate(query); err != nil {
		return nil, "", err
	}
	body, contentType, err := s.repo.Export(ctx, trainerID, query.From, query.To)
	if err != nil {
		return nil, "", upstreamError(err, "failed to export report")
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	return body, contentType, nil
}

// Invalidate drops the cached statistics of a trainer.
func (s *ReportService) Invalidate(ctx context.Context, trainerID int64) {
	_ = s.cache.Invalidate(ctx, fmt.Sprintf("reports:trainer:%d:*", trainerID))
}
