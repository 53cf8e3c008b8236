package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/config"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/middleware"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/service"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/utils"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg  config.Config
	Auth *service.AuthService
}

func NewAuthHandler(cfg config.Config, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	NID      string `json:"nid"`
}
type activateReq struct {
	Token          string `json:"token"`
	ActivationCode string `json:"activation_code"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type socialAuthReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
type forgotPasswordReq struct {
	Email string `json:"email"`
}
type resetPasswordReq struct {
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}
type updateProfileReq struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

func (h *AuthHandler) cookieOpts() utils.CookieOptions {
	return utils.CookieOptions{Secure: h.Cfg.CookieSecure, SameSite: h.Cfg.SameSiteMode()}
}

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// Register parks the registration and returns the signed activation claim
// token. The client must present it back, with the mailed code, to Activate.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	token, err := h.Auth.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		NID:      req.NID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Check your email to activate your account.",
		"token":   token,
	})
}

// Activate creates the user from a valid claim token + code pair.
func (h *AuthHandler) Activate(c echo.Context) error {
	var req activateReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}
	if req.Token == "" {
		return apperrors.Validation("Token is required")
	}
	if req.ActivationCode == "" {
		return apperrors.Validation("Activation code is required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Auth.Activate(ctx, req.Token, req.ActivationCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User registration successful!",
		"data":    profile,
	})
}

// Login verifies credentials and opens the session: both token cookies plus
// a cached snapshot.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	utils.SetAuthCookies(c, pair.Access, pair.Refresh, h.Cfg.AccessTTL(), h.Cfg.RefreshTTL(), h.cookieOpts())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": profile.Role + " logged in successfully",
		"data":    profile,
	})
}

// Refresh exchanges the refresh cookie for a fresh access cookie. The
// refresh token is not rotated; it stays valid until expiry or logout.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := ""
	if cookie, err := c.Cookie(utils.RefreshTokenCookie); err == nil {
		raw = cookie.Value
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, access, err := h.Auth.Refresh(ctx, raw)
	if err != nil {
		return err
	}

	utils.SetAccessCookie(c, access, h.Cfg.AccessTTL(), h.cookieOpts())
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Access token refreshed successfully",
		"data":    profile,
	})
}

// SocialAuth signs in an externally verified identity, creating the user on
// first sight, then follows the same issuance tail as Login.
func (h *AuthHandler) SocialAuth(c echo.Context) error {
	var req socialAuthReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, pair, created, err := h.Auth.SocialAuth(ctx, req.Email, req.Name)
	if err != nil {
		return err
	}

	utils.SetAuthCookies(c, pair.Access, pair.Refresh, h.Cfg.AccessTTL(), h.Cfg.RefreshTTL(), h.cookieOpts())
	msg := "User login successful"
	if created {
		msg = "User created successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": msg, "data": profile})
}

// ForgotPassword mails a reset OTP.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ForgotPassword(ctx, req.Email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password reset OTP sent to your email",
	})
}

// ResetPassword consumes the OTP and sets the new password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.ResetPassword(ctx, req.OTP, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password reset successful"})
}

// Logout drops the refresh capability and snapshot, then clears both
// cookies. Cookies are cleared even if server-side state was already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, id); err != nil {
		return err
	}
	utils.ClearAuthCookies(c, h.cookieOpts())
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Logged out successfully"})
}

// Me returns the profile attached by the auth middleware.
func (h *AuthHandler) Me(c echo.Context) error {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profile})
}

// UpdateProfile patches name/phone and refreshes the session cache.
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		return apperrors.ErrUnauthenticated
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return apperrors.Validation("invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	profile, err := h.Auth.UpdateProfile(ctx, id, req.Name, req.Phone)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Profile updated successfully",
		"data":    profile,
	})
}

// ListUsers is the admin-only user listing.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	profiles, err := h.Auth.ListUsers(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": profiles})
}
