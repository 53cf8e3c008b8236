package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/config"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/handler"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/middleware"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/service"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the full auth surface. Unauthenticated operations live
// under /v1/auth and are rate limited per client; protected endpoints live
// under /v1 behind the access-token middleware, and admin endpoints under
// /v1/admin behind the role gate.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, auth *service.AuthService, cfg config.Config, rdb *redis.Client) {
	public := e.Group("/v1/auth")
	public.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	public.POST("/register", a.Register)
	public.POST("/activate", a.Activate)
	public.POST("/login", a.Login)
	public.POST("/social-auth", a.SocialAuth)
	public.POST("/refresh", a.Refresh)
	public.POST("/forgot-password", a.ForgotPassword)
	public.POST("/reset-password", a.ResetPassword)

	protected := e.Group("/v1")
	protected.Use(middleware.Authenticate(cfg.JWTSecret, auth))
	protected.GET("/me", a.Me)
	protected.PATCH("/me", a.UpdateProfile)
	protected.POST("/logout", a.Logout)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.Authenticate(cfg.JWTSecret, auth))
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", a.ListUsers)
}
