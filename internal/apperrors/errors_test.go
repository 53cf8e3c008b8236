package apperrors

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchingSurvivesWithError(t *testing.T) {
	cause := errors.New("smtp: connection refused")
	err := ErrDeliveryFailed.WithError(cause)

	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.ErrorIs(t, err, cause)

	// The original sentinel is untouched.
	assert.Nil(t, ErrDeliveryFailed.Err)
}

func TestDistinctCodesDoNotMatch(t *testing.T) {
	assert.NotErrorIs(t, ErrTokenExpired, ErrTokenInvalid)
	assert.NotErrorIs(t, ErrUserExists, ErrUserNotFound)
}

func TestValidationHelper(t *testing.T) {
	err := Validation("Name must be between 3 and 20 characters")
	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "Name must be between 3 and 20 characters", err.Message)
}

func TestInternalHidesCauseFromMessage(t *testing.T) {
	cause := errors.New("dial tcp: i/o timeout")
	err := Internal(cause)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "Internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}
