package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
	"github.com/grindsup/trainer-gateway/pkg/response"
)

// ContextSessionKey is the gin context key storing the loaded session.
const ContextSessionKey = "session"

type sessionLoader interface {
	Load(ctx context.Context, accessToken string) (*models.Session, error)
}

// Session requires a valid gateway access token. The loaded session is stored
// on the gin context and its backend token on the request context, so every
// backend call made for the request is authenticated as the signed-in user.
func Session(sessions sessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		session, err := sessions.Load(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), session.Token))
		c.Next()
	}
}

// SessionFromContext returns the session stored by Session, if any.
func SessionFromContext(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.Session)
	if !ok {
		return nil
	}
	return session
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", appErrors.ErrUnauthorized
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}
