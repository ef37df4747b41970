package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	wrapped := fmt.Errorf("listing: %w", ErrTrainerNotLinked)

	got := FromError(wrapped)
	assert.Equal(t, ErrTrainerNotLinked.Code, got.Code)
	assert.Equal(t, http.StatusForbidden, got.Status)
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	got := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.EqualError(t, got, "internal server error: boom")
}

func TestCloneAndDetailsDoNotMutateOriginal(t *testing.T) {
	clone := WithDetails(Clone(ErrValidation, "invalid student payload"), []FieldError{{Field: "email", Rule: "email"}})

	assert.Equal(t, "invalid student payload", clone.Message)
	assert.NotNil(t, clone.Details)
	assert.Equal(t, "validation failed", ErrValidation.Message)
	assert.Nil(t, ErrValidation.Details)
}
