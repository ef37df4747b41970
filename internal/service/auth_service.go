package service

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/internal/dto"
	"github.com/grindsup/trainer-gateway/internal/models"
	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

type authBackend interface {
	Login(ctx context.Context, email, password string) (string, adapter.Record, error)
	Me(ctx context.Context) (adapter.Record, error)
}

// AuthService runs the login, OAuth callback and logout flows against the
// auth backend and keeps the session context in step with them.
type AuthService struct {
	backend   authBackend
	sessions  *SessionService
	trainers  *TrainerResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(backend authBackend, sessions *SessionService, trainers *TrainerResolver, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{backend: backend, sessions: sessions, trainers: trainers, validator: validate, logger: logger}
}

// Login forwards credentials and starts a session on success.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*models.LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	token, rawUser, err := s.backend.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.authError(err, "login failed")
	}
	user := adapter.User(rawUser)
	if user.Email == "" {
		user.Email = req.Email
	}
	return s.start(ctx, token, user)
}

// OAuthCallback completes a provider sign-in: the backend token handed to the
// front end is exchanged for the user record and a gateway session.
func (s *AuthService) OAuthCallback(ctx context.Context, req dto.OAuthCallbackRequest) (*models.LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid callback payload")
	}

	rawUser, err := s.backend.Me(backend.WithToken(ctx, req.Token))
	if err != nil {
		return nil, s.authError(err, "oauth sign-in failed")
	}
	if rawUser == nil {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "identity response carried no user")
	}
	return s.start(ctx, req.Token, adapter.User(rawUser))
}

func (s *AuthService) start(ctx context.Context, token string, user models.User) (*models.LoginResult, error) {
	session, accessToken, err := s.sessions.Start(ctx, token, user)
	if err != nil {
		return nil, err
	}
	info, err := s.Me(backend.WithToken(ctx, token), session)
	if err != nil {
		return nil, err
	}
	return &models.LoginResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.sessions.TokenTTL().Seconds()),
		IssuedAt:    session.CreatedAt,
		Session:     *info,
	}, nil
}

// Me describes the session user and the trainer bound to them.
func (s *AuthService) Me(ctx context.Context, session *models.Session) (*models.SessionInfo, error) {
	trainerID, err := s.trainers.Resolve(ctx, session)
	if err != nil {
		return nil, err
	}
	return &models.SessionInfo{User: session.User, TrainerID: trainerID, TrainerLinked: trainerID != nil}, nil
}

// Logout clears the session context and its cached trainer id.
func (s *AuthService) Logout(ctx context.Context, session *models.Session) error {
	if session == nil {
		return nil
	}
	if err := s.trainers.Invalidate(ctx, session.ID); err != nil {
		s.logger.Warn("failed to invalidate trainer id", zap.String("session_id", session.ID), zap.Error(err))
	}
	return s.sessions.End(ctx, session.ID)
}

func (s *AuthService) authError(err error, fallbackMessage string) error {
	if status := backend.StatusOf(err); status == http.StatusUnauthorized || status == http.StatusForbidden {
		message := backend.MessageOf(err)
		if message == "" {
			message = "invalid credentials"
		}
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, message)
	}
	return upstreamError(err, fallbackMessage)
}
