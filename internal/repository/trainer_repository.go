package repository

import (
	"context"
	"net/url"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/pkg/fallback"
)

// TrainerRepository looks up entrenadores on the backend.
type TrainerRepository struct {
	client BackendClient
}

// NewTrainerRepository constructs a TrainerRepository.
func NewTrainerRepository(client BackendClient) *TrainerRepository {
	return &TrainerRepository{client: client}
}

// FindIDByUser returns the id of the trainer linked to a user account. A
// collection answer uses its first element.
func (r *TrainerRepository) FindIDByUser(ctx context.Context, userID int64) (int64, error) {
	byID := func(raw interface{}) (int64, error) {
		id, ok := adapter.TrainerID(raw)
		if !ok {
			return 0, fallback.ErrNoResult
		}
		return id, nil
	}

	id, _, err := fallback.First(ctx,
		fallback.Strategy[int64]{
			Name: "entrenadores-by-query",
			Run: func(ctx context.Context) (int64, error) {
				raw, err := getRaw(ctx, r.client, "/entrenadores", "/entrenadores", url.Values{"usuarioId": {formatID(userID)}})
				if err != nil {
					return 0, err
				}
				return byID(raw)
			},
		},
		fallback.Strategy[int64]{
			Name: "entrenadores-by-user-path",
			Run: func(ctx context.Context) (int64, error) {
				raw, err := getRaw(ctx, r.client, idPath("/entrenadores/usuario/%d", userID), "/entrenadores/usuario/:id", nil)
				if err != nil {
					return 0, err
				}
				return byID(raw)
			},
		},
	)
	return id, err
}
