package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/utils"
)

// Context keys set by Authenticate for downstream middleware and handlers.
const (
	ContextUserID  = "user_id"
	ContextProfile = "user"
)

// ProfileLoader is the read-through lookup used to attach a sanitized
// profile to authenticated requests. Implemented by service.AuthService.
type ProfileLoader interface {
	LoadProfile(ctx context.Context, userID uint64) (*model.Profile, error)
}

// Authenticate gates protected routes. It reads the access-token cookie,
// verifies signature and expiry, and attaches the user's sanitized profile
// to the request context via the session cache (falling back to the
// credential store on a miss). Note that logout does not invalidate a
// still-valid access token; only the short expiry bounds its life.
func Authenticate(secret string, loader ProfileLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.AccessTokenCookie)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token missing"})
			}

			claims, err := utils.ParseToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired or invalid"})
			}
			id, err := claims.UserID()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token expired or invalid"})
			}

			profile, err := loader.LoadProfile(c.Request().Context(), id)
			if err != nil {
				return err
			}

			c.Set(ContextUserID, id)
			c.Set(ContextProfile, *profile)
			return next(c)
		}
	}
}

// CurrentProfile returns the profile attached by Authenticate.
func CurrentProfile(c echo.Context) (model.Profile, bool) {
	p, ok := c.Get(ContextProfile).(model.Profile)
	return p, ok
}

// CurrentUserID returns the user id attached by Authenticate.
func CurrentUserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(ContextUserID).(uint64)
	return id, ok
}
