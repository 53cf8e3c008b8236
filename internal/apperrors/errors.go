// Package apperrors defines the client-visible error taxonomy. Handlers map
// an *AppError to its HTTP status and JSON body; anything else surfaces as a
// generic 500 so store-internal error text never reaches the client.
package apperrors

import (
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidationFailed  Code = "VALIDATION_FAILED"
	CodeConflict          Code = "CONFLICT"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeNotFound          Code = "NOT_FOUND"
	CodeDeliveryFailed    Code = "DELIVERY_FAILED"
	CodeInternal          Code = "INTERNAL"
	CodeTokenExpired      Code = "TOKEN_EXPIRED"
	CodeTokenInvalid      Code = "TOKEN_INVALID"
	CodeBadCode           Code = "BAD_ACTIVATION_CODE"
	CodeActivationExpired Code = "ACTIVATION_EXPIRED"
	CodeInvalidOrExpired  Code = "INVALID_OR_EXPIRED_OTP"
)

type AppError struct {
	Code     Code   `json:"code"`
	Message  string `json:"message"`
	HTTPCode int    `json:"-"`
	Err      error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches two AppErrors by code, so sentinels below work with errors.Is
// even after WithError attached an underlying cause.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

func New(code Code, message string, httpCode int) *AppError {
	return &AppError{Code: code, Message: message, HTTPCode: httpCode}
}

// WithError returns a copy carrying err as the cause. The cause is logged
// server-side only; Message stays what the client sees.
func (e *AppError) WithError(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

var (
	ErrValidationFailed   = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
	ErrUserExists         = New(CodeConflict, "User already exists", http.StatusConflict)
	ErrDuplicateField     = New(CodeConflict, "Value already registered", http.StatusConflict)
	ErrUnauthenticated    = New(CodeUnauthenticated, "Authentication required", http.StatusUnauthorized)
	ErrInvalidCredentials = New(CodeUnauthenticated, "Invalid credentials", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrUserNotFound       = New(CodeNotFound, "User not found", http.StatusNotFound)
	ErrDeliveryFailed     = New(CodeDeliveryFailed, "Failed to send the message. Please try again later.", http.StatusInternalServerError)
	ErrInternal           = New(CodeInternal, "Internal server error", http.StatusInternalServerError)

	ErrTokenExpired      = New(CodeTokenExpired, "Token expired. Please log in again.", http.StatusUnauthorized)
	ErrTokenInvalid      = New(CodeTokenInvalid, "Corrupted session token", http.StatusUnauthorized)
	ErrBadCode           = New(CodeBadCode, "Invalid activation code", http.StatusBadRequest)
	ErrActivationExpired = New(CodeActivationExpired, "Activation time expired. Please register again.", http.StatusBadRequest)
	ErrInvalidOrExpired  = New(CodeInvalidOrExpired, "Invalid or expired OTP", http.StatusBadRequest)
)

// Validation builds a VALIDATION_FAILED error with a field-specific message.
func Validation(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

// Internal wraps an unexpected failure without leaking its text to clients.
func Internal(err error) *AppError {
	return ErrInternal.WithError(err)
}
