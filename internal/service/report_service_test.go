package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type fakeReportRepo struct {
	calls      int
	summaryErr error
	exportType string
}

func (f *fakeReportRepo) TrainerSummary(ctx context.Context, trainerID int64, from, to string) (models.TrainerReport, error) {
	f.calls++
	if f.summaryErr != nil {
		return models.TrainerReport{}, f.summaryErr
	}
	return models.TrainerReport{TrainerID: trainerID, From: from, To: to, TotalAppointments: 12, GroupAppointments: 4}, nil
}

func (f *fakeReportRepo) Export(ctx context.Context, trainerID int64, from, to string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("%PDF-1.4")), f.exportType, nil
}

func newTestReportService(repo *fakeReportRepo, store *memoryStore, metrics *MetricsService) *ReportService {
	cache := NewCacheService(store, metrics, time.Minute, nil, true)
	svc := NewReportService(repo, cache, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC) }
	return svc
}

func TestTrainerSummaryCachesResult(t *testing.T) {
	repo := &fakeReportRepo{}
	store := newMemoryStore()
	metrics := NewMetricsService()
	svc := newTestReportService(repo, store, metrics)
	query := dto.ReportQuery{From: "2025-03-01", To: "2025-03-31"}

	first, warning, err := svc.TrainerSummary(context.Background(), 7, query)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Equal(t, 12, first.TotalAppointments)
	assert.Equal(t, []string{"reports:trainer:7:2025-03-01:2025-03-31"}, store.sets)

	second, _, err := svc.TrainerSummary(context.Background(), 7, query)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.TotalAppointments, second.TotalAppointments)
	assert.True(t, first.GeneratedAt.Equal(second.GeneratedAt))

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.CacheHits)
	assert.Equal(t, uint64(1), snapshot.CacheMisses)

	svc.Invalidate(context.Background(), 7)
	assert.Equal(t, []string{"reports:trainer:7:*"}, store.deletes)
}

func TestTrainerSummaryDegradesOnFailure(t *testing.T) {
	repo := &fakeReportRepo{summaryErr: &backend.Error{Method: http.MethodGet, Path: "/reportes", StatusCode: http.StatusInternalServerError, Message: "stats unavailable"}}
	store := newMemoryStore()
	svc := newTestReportService(repo, store, nil)

	report, warning, err := svc.TrainerSummary(context.Background(), 7, dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, "could not load statistics: stats unavailable", warning)
	assert.Equal(t, int64(7), report.TrainerID)
	assert.Zero(t, report.TotalAppointments)
	assert.Empty(t, store.sets)
}

func TestTrainerSummaryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := &fakeReportRepo{summaryErr: context.Canceled}
	svc := newTestReportService(repo, newMemoryStore(), nil)

	_, _, err := svc.TrainerSummary(ctx, 7, dto.ReportQuery{})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestTrainerSummaryValidatesRange(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := newTestReportService(repo, newMemoryStore(), nil)

	_, _, err := svc.TrainerSummary(context.Background(), 7, dto.ReportQuery{From: "2025-03-31", To: "2025-03-01"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Equal(t, []appErrors.FieldError{{Field: "to", Rule: "gtefield"}}, appErr.Details)

	_, _, err = svc.TrainerSummary(context.Background(), 7, dto.ReportQuery{From: "01/03/2025"})
	appErr = appErrors.FromError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Contains(t, appErr.Details, appErrors.FieldError{Field: "from", Rule: "datetime"})
	assert.Zero(t, repo.calls)
}

func TestReportExportDefaultsContentType(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{}, newMemoryStore(), nil)

	body, contentType, err := svc.Export(context.Background(), 7, dto.ReportQuery{From: "2025-03-01"})
	require.NoError(t, err)
	defer body.Close()
	assert.Equal(t, "application/pdf", contentType)
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(raw))
}
