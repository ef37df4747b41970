package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/config"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type storedUser struct {
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SessionService owns the session context lifecycle: populated at login or
// OAuth callback, loaded on every request, cleared at logout.
type SessionService struct {
	store  KVStore
	jwt    config.JWTConfig
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewSessionService constructs the session service.
func NewSessionService(store KVStore, jwtCfg config.JWTConfig, ttl time.Duration, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if jwtCfg.Expiration <= 0 || jwtCfg.Expiration > ttl {
		jwtCfg.Expiration = ttl
	}
	return &SessionService{
		store:  store,
		jwt:    jwtCfg,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Start persists a new session for the backend token and user, and issues the
// gateway access token.
func (s *SessionService) Start(ctx context.Context, backendToken string, user models.User) (*models.Session, string, error) {
	now := s.now().UTC()
	session := &models.Session{ID: s.newID(), Token: backendToken, User: user, CreatedAt: now}

	if err := s.store.Set(ctx, sessionKey(session.ID, sessionUserPart), storedUser{User: user, CreatedAt: now}, s.ttl); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	if err := s.store.Set(ctx, sessionKey(session.ID, sessionTokenPart), backendToken, s.ttl); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	claims := models.SessionClaims{
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.jwt.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwt.Expiration)),
		},
	}
	if user.ID != nil {
		claims.UserID = strconv.FormatInt(*user.ID, 10)
		claims.Subject = claims.UserID
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign access token")
	}

	s.logger.Info("session started", zap.String("session_id", session.ID), zap.String("email", user.Email))
	return session, signed, nil
}

// TokenTTL is the lifetime of issued access tokens.
func (s *SessionService) TokenTTL() time.Duration {
	return s.jwt.Expiration
}

// Load validates an access token and restores its session.
func (s *SessionService) Load(ctx context.Context, accessToken string) (*models.Session, error) {
	claims := &models.SessionClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.jwt.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.jwt.Issuer))
	}
	_, err := jwt.ParseWithClaims(accessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.jwt.Secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrSessionExpired, "access token expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid access token")
	}
	if claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid access token")
	}

	var record storedUser
	if err := s.store.Get(ctx, sessionKey(claims.SessionID, sessionUserPart), &record); err != nil {
		return nil, s.loadError(err)
	}
	var token string
	if err := s.store.Get(ctx, sessionKey(claims.SessionID, sessionTokenPart), &token); err != nil {
		return nil, s.loadError(err)
	}

	return &models.Session{ID: claims.SessionID, Token: token, User: record.User, CreatedAt: record.CreatedAt}, nil
}

func (s *SessionService) loadError(err error) error {
	if errors.Is(err, appErrors.ErrCacheMiss) {
		return appErrors.Clone(appErrors.ErrSessionExpired, "session expired")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
}

// End clears every record of the session, including the cached trainer id.
func (s *SessionService) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	err := s.store.Delete(ctx,
		sessionKey(sessionID, sessionUserPart),
		sessionKey(sessionID, sessionTokenPart),
		sessionKey(sessionID, sessionTrainerIDPart),
	)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to end session %s", sessionID))
	}
	s.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}
