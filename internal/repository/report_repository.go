package repository

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
)

// ReportRepository reads aggregate statistics from the backend.
type ReportRepository struct {
	client BackendClient
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(client BackendClient) *ReportRepository {
	return &ReportRepository{client: client}
}

func reportQuery(from, to string) url.Values {
	query := url.Values{}
	if from != "" {
		query.Set("desde", from)
	}
	if to != "" {
		query.Set("hasta", to)
	}
	return query
}

// TrainerSummary returns the statistics of a trainer for the given dates
// (YYYY-MM-DD, either may be empty).
func (r *ReportRepository) TrainerSummary(ctx context.Context, trainerID int64, from, to string) (models.TrainerReport, error) {
	raw, err := getRaw(ctx, r.client, idPath("/reportes/entrenador/%d", trainerID), "/reportes/entrenador/:id", reportQuery(from, to))
	if err != nil {
		return models.TrainerReport{}, err
	}
	report := adapter.TrainerReport(adapter.Object(raw))
	report.TrainerID = trainerID
	report.From = from
	report.To = to
	return report, nil
}

// Export streams the backend generated PDF. The caller closes the reader.
func (r *ReportRepository) Export(ctx context.Context, trainerID int64, from, to string) (io.ReadCloser, string, error) {
	return r.client.Stream(ctx, backend.Request{
		Method: http.MethodGet,
		Path:   idPath("/reportes/entrenador/%d/pdf", trainerID),
		Route:  "/reportes/entrenador/:id/pdf",
		Query:  reportQuery(from, to),
	})
}
