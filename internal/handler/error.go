package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
)

// HTTPErrorHandler maps AppErrors to their status and JSON body. Underlying
// causes (store errors, SMTP failures) are logged here and never serialized:
// the client only ever sees the taxonomy code and message.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			c.Logger().Errorf("%s: %v", appErr.Code, appErr.Err)
		}
		_ = c.JSON(appErr.HTTPCode, echo.Map{"success": false, "error": appErr})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, echo.Map{"success": false, "error": echo.Map{"message": httpErr.Message}})
		return
	}

	c.Logger().Error(err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": apperrors.ErrInternal})
}
