package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/grindsup/trainer-gateway/pkg/backend"
	appErrors "github.com/grindsup/trainer-gateway/pkg/errors"
)

// upstreamError maps a backend failure onto the gateway taxonomy, keeping the
// server's own message when it sent one.
func upstreamError(err error, fallbackMessage string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	message := backend.MessageOf(err)
	if message == "" {
		message = fallbackMessage
	}

	var backendErr *backend.Error
	base := appErrors.ErrUpstream
	switch status := backend.StatusOf(err); {
	case !errors.As(err, &backendErr):
	case status == 0:
		base = appErrors.ErrUpstreamUnavailable
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		base = appErrors.ErrValidation
	case status == http.StatusUnauthorized:
		base = appErrors.ErrSessionExpired
	case status == http.StatusForbidden:
		base = appErrors.ErrForbidden
	case status == http.StatusNotFound:
		base = appErrors.ErrNotFound
	case status == http.StatusConflict:
		base = appErrors.ErrConflict
	}
	return appErrors.Wrap(err, base.Code, base.Status, message)
}
