package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/grindsup/trainer-gateway/internal/adapter"
	"github.com/grindsup/trainer-gateway/pkg/backend"
)

// ErrMissingToken is returned when a login answer carries no token.
var ErrMissingToken = errors.New("login response carried no token")

// AuthRepository forwards authentication to the backend.
type AuthRepository struct {
	client BackendClient
}

// NewAuthRepository constructs an AuthRepository.
func NewAuthRepository(client BackendClient) *AuthRepository {
	return &AuthRepository{client: client}
}

// Login exchanges credentials for a backend token and the user record.
func (r *AuthRepository) Login(ctx context.Context, email, password string) (string, adapter.Record, error) {
	var raw interface{}
	err := r.client.Do(ctx, backend.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Route:  "/auth/login",
		Body:   map[string]string{"email": email, "password": password},
	}, &raw)
	if err != nil {
		return "", nil, err
	}
	token, user := adapter.LoginPayload(raw)
	if token == "" {
		return "", nil, ErrMissingToken
	}
	return token, user, nil
}

// Me returns the user record of the token carried by ctx.
func (r *AuthRepository) Me(ctx context.Context) (adapter.Record, error) {
	raw, err := getRaw(ctx, r.client, "/auth/me", "/auth/me", nil)
	if err != nil {
		return nil, err
	}
	_, user := adapter.LoginPayload(raw)
	return user, nil
}
