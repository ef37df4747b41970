package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/models"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
	"github.com/grindsup/trainer-gateway/pkg/response"
)

// ContextTrainerIDKey is the gin context key storing the resolved trainer id.
const ContextTrainerIDKey = "trainerID"

type trainerResolver interface {
	Resolve(ctx context.Context, session *models.Session) (*int64, error)
}

// RequireTrainer resolves the trainer bound to the session. Requests from
// accounts with no trainer are rejected with TRAINER_NOT_LINKED before any
// trainer-scoped backend call is made.
func RequireTrainer(resolver trainerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := SessionFromContext(c)
		if session == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		trainerID, err := resolver.Resolve(c.Request.Context(), session)
		if err != nil {
			if c.Request.Context().Err() != nil {
				c.Abort()
				return
			}
			response.Error(c, err)
			c.Abort()
			return
		}
		if trainerID == nil {
			response.Error(c, appErrors.ErrTrainerNotLinked)
			c.Abort()
			return
		}

		c.Set(ContextTrainerIDKey, *trainerID)
		c.Next()
	}
}

// TrainerIDFromContext returns the trainer id stored by RequireTrainer.
func TrainerIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextTrainerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
