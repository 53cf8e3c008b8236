package utils

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Cookie names the orchestrator sets. Both are HttpOnly: tokens are never
// exposed to page scripts.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// CookieOptions carries the environment-dependent cookie attributes.
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// SetAuthCookies writes both token cookies after login or social auth.
func SetAuthCookies(c echo.Context, access, refresh string, accessTTL, refreshTTL time.Duration, opts CookieOptions) {
	c.SetCookie(tokenCookie(AccessTokenCookie, access, accessTTL, opts))
	c.SetCookie(tokenCookie(RefreshTokenCookie, refresh, refreshTTL, opts))
}

// SetAccessCookie resets only the access-token cookie (the refresh flow).
func SetAccessCookie(c echo.Context, access string, accessTTL time.Duration, opts CookieOptions) {
	c.SetCookie(tokenCookie(AccessTokenCookie, access, accessTTL, opts))
}

// ClearAuthCookies expires both cookies. Attributes must match the ones the
// cookies were set with or browsers keep the originals.
func ClearAuthCookies(c echo.Context, opts CookieOptions) {
	c.SetCookie(tokenCookie(AccessTokenCookie, "", -time.Hour, opts))
	c.SetCookie(tokenCookie(RefreshTokenCookie, "", -time.Hour, opts))
}

func tokenCookie(name, value string, ttl time.Duration, opts CookieOptions) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
}
