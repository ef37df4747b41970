package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
	"github.com/grindsup/trainer-gateway/pkg/fallback"
)

type trainerLookup interface {
	FindIDByUser(ctx context.Context, userID int64) (int64, error)
}

// Resolution step names, also used as metric labels.
const (
	TrainerStepCached   = "cached"
	TrainerStepEmbedded = "embedded"
	TrainerStepBackend  = "backend"
	TrainerStepNone     = "none"
)

// TrainerResolver derives the trainer id bound to a session: cached value,
// then the id embedded in the user record, then a backend lookup by user id.
type TrainerResolver struct {
	store   KVStore
	lookup  trainerLookup
	ttl     time.Duration
	metrics *MetricsService
	logger  *zap.Logger
}

// NewTrainerResolver constructs a resolver. Cached ids live as long as the session.
func NewTrainerResolver(store KVStore, lookup trainerLookup, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *TrainerResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainerResolver{store: store, lookup: lookup, ttl: ttl, metrics: metrics, logger: logger}
}

// Resolve returns the trainer id, or nil when the session is not linked to a
// trainer. Only context cancellation is reported as an error.
func (r *TrainerResolver) Resolve(ctx context.Context, session *models.Session) (*int64, error) {
	if session == nil {
		return nil, nil
	}
	key := sessionKey(session.ID, sessionTrainerIDPart)

	id, result, err := fallback.First(ctx,
		fallback.Strategy[int64]{Name: TrainerStepCached, Run: func(ctx context.Context) (int64, error) {
			return r.cached(ctx, key)
		}},
		fallback.Strategy[int64]{Name: TrainerStepEmbedded, Run: func(context.Context) (int64, error) {
			if session.User.TrainerID == nil || *session.User.TrainerID <= 0 {
				return 0, fallback.ErrSkip
			}
			return *session.User.TrainerID, nil
		}},
		fallback.Strategy[int64]{Name: TrainerStepBackend, Run: func(ctx context.Context) (int64, error) {
			if session.User.ID == nil {
				return 0, fallback.ErrSkip
			}
			return r.lookup.FindIDByUser(ctx, *session.User.ID)
		}},
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.metrics.RecordTrainerResolution(TrainerStepNone)
		r.logger.Info("session not linked to a trainer", zap.String("session_id", session.ID), zap.Error(err))
		return nil, nil
	}

	r.metrics.RecordTrainerResolution(result.Winner)
	if result.Winner != TrainerStepCached {
		if err := r.store.Set(ctx, key, strconv.FormatInt(id, 10), r.ttl); err != nil {
			r.logger.Warn("failed to cache trainer id", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
	return &id, nil
}

func (r *TrainerResolver) cached(ctx context.Context, key string) (int64, error) {
	var raw string
	if err := r.store.Get(ctx, key, &raw); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return 0, fallback.ErrSkip
		}
		return 0, err
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fallback.ErrSkip
	}
	return id, nil
}

// Invalidate drops the cached trainer id of a session.
func (r *TrainerResolver) Invalidate(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionKey(sessionID, sessionTrainerIDPart))
}
