package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
)

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Karim"))
	assert.Error(t, ValidateName("ab"))
	assert.Error(t, ValidateName(strings.Repeat("x", 21)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("user@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("no-at-sign"))
	assert.Error(t, ValidateEmail("user@nodot"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret1"))
	assert.Error(t, ValidatePassword("12345"))
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+8801712345678"))
	assert.NoError(t, ValidatePhone("01712345678"))
	assert.Error(t, ValidatePhone("+12025550123")) // US number
	assert.Error(t, ValidatePhone("12345"))
}

func TestValidateNID(t *testing.T) {
	assert.NoError(t, ValidateNID("1234567890"))          // 10 digits
	assert.NoError(t, ValidateNID("1234567890123"))       // 13 digits
	assert.NoError(t, ValidateNID("12345678901234567"))   // 17 digits
	assert.Error(t, ValidateNID("123456789"))             // 9 digits
	assert.Error(t, ValidateNID("123456789012"))          // 12 digits
	assert.Error(t, ValidateNID("12345678901234567x"))
}

func TestValidateRegistrationReturnsAppError(t *testing.T) {
	err := ValidateRegistration("ab", "user@example.com", "secret1", "+8801712345678", "1234567890")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var appErr *apperrors.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}
