package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
)

func handleError(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(err, c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHTTPErrorHandlerAppError(t *testing.T) {
	code, body := handleError(t, apperrors.ErrInvalidCredentials)

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, false, body["success"])

	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(apperrors.CodeUnauthenticated), errBody["code"])
	assert.Equal(t, "Invalid credentials", errBody["message"])
}

func TestHTTPErrorHandlerHidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:3306: i/o timeout")
	code, body := handleError(t, apperrors.Internal(cause))

	assert.Equal(t, http.StatusInternalServerError, code)
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "10.0.0.5")
}

func TestHTTPErrorHandlerUnknownError(t *testing.T) {
	code, body := handleError(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, code)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, string(apperrors.CodeInternal), errBody["code"])
}

func TestHTTPErrorHandlerEchoError(t *testing.T) {
	code, _ := handleError(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	assert.Equal(t, http.StatusNotFound, code)
}
