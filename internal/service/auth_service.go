// Package service implements the auth orchestrator: the state machine
// spanning the credential store, the ephemeral secret store, the token
// helpers and the session cache. All dependencies are injected so the flows
// can be exercised against fakes.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NaimurRahmanNishat/cdirts-backend/internal/apperrors"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/model"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/notify"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/queue"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/repository"
	"github.com/NaimurRahmanNishat/cdirts-backend/internal/utils"
)

// UserStore is the durable credential store consumed by the orchestrator.
// Implemented by repository.UserRepo.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByResetOTP(ctx context.Context, otp string) (*model.User, error)
	Create(ctx context.Context, u *model.User) (uint64, error)
	UpdateProfile(ctx context.Context, id uint64, name, phone *string) (*model.User, error)
	UpdatePassword(ctx context.Context, id uint64, hash string) error
	SetResetOTP(ctx context.Context, id uint64, otp string, expire time.Time) error
	ClearResetOTP(ctx context.Context, id uint64) error
	List(ctx context.Context) ([]model.User, error)
}

// EventPublisher pushes auth events to the broker. Publishing is best-effort;
// a nil publisher disables it.
type EventPublisher interface {
	Publish(ctx context.Context, event queue.AuthEvent) error
}

// Config carries the token and lifetime settings the orchestrator needs.
type Config struct {
	JWTSecret     string
	AccessTTL     time.Duration // access token lifetime (default 15m)
	RefreshTTL    time.Duration // refresh token + cache entry lifetime (default 7d)
	ActivationTTL time.Duration // activation claim token lifetime (default 10m)
	PendingTTL    time.Duration // pending password hash lifetime (default 600s)
	OTPTTL        time.Duration // password-reset OTP lifetime (default 10m)
	BcryptCost    int
}

// TokenPair is the access/refresh pair issued on login and social auth.
type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService struct {
	cfg      Config
	users    UserStore
	secrets  repository.SecretStore
	sessions *repository.SessionCache
	mailer   notify.Mailer
	events   EventPublisher
}

func NewAuthService(cfg Config, users UserStore, secrets repository.SecretStore,
	sessions *repository.SessionCache, mailer notify.Mailer, events EventPublisher) *AuthService {
	return &AuthService{cfg: cfg, users: users, secrets: secrets, sessions: sessions,
		mailer: mailer, events: events}
}

// RegisterInput is the full registration submission.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	NID      string
}

// Register validates the submission, parks the hashed password in the
// ephemeral store and mails the activation code. No durable user exists
// until Activate succeeds; the signed claim token returned here carries the
// profile back to the client and must be presented at activation. A failed
// mail delivery rolls back the ephemeral entry.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := utils.ValidateRegistration(in.Name, in.Email, in.Password, in.Phone, in.NID); err != nil {
		return "", err
	}
	email := normalizeEmail(in.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return "", apperrors.ErrUserExists
	} else if err != repository.ErrNotFound {
		return "", apperrors.Internal(err)
	}

	code, err := utils.NewActivationCode()
	if err != nil {
		return "", apperrors.Internal(err)
	}
	hash, err := utils.HashPassword(in.Password, s.cfg.BcryptCost)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	if err := s.secrets.Set(ctx, repository.ActivationKey(email), hash, s.cfg.PendingTTL); err != nil {
		return "", apperrors.Internal(err)
	}

	token, err := utils.NewActivationToken(s.cfg.JWTSecret, utils.ActivationClaims{
		Name:  in.Name,
		Email: email,
		Phone: in.Phone,
		NID:   in.NID,
		Code:  code,
	}, s.cfg.ActivationTTL)
	if err != nil {
		return "", apperrors.Internal(err)
	}

	body := fmt.Sprintf("Hello %s, your activation code is %s. It expires in %d minutes.",
		in.Name, code, int(s.cfg.ActivationTTL.Minutes()))
	if err := s.mailer.Send(email, "Activate your account", body); err != nil {
		// Roll back the pending entry so a later retry starts clean.
		_ = s.secrets.Delete(ctx, repository.ActivationKey(email))
		return "", apperrors.ErrDeliveryFailed.WithError(err)
	}

	return token, nil
}

// Activate verifies the claim token, checks the submitted code against the
// embedded one and creates the verified user from the parked password hash.
// The ephemeral entry is consumed exactly once.
func (s *AuthService) Activate(ctx context.Context, token, code string) (model.Profile, error) {
	claims, err := utils.ParseActivationToken(s.cfg.JWTSecret, token)
	if err != nil {
		return model.Profile{}, tokenError(err)
	}
	if code == "" || code != claims.Code {
		return model.Profile{}, apperrors.ErrBadCode
	}

	if _, err := s.users.FindByEmail(ctx, claims.Email); err == nil {
		return model.Profile{}, apperrors.ErrUserExists
	} else if err != repository.ErrNotFound {
		return model.Profile{}, apperrors.Internal(err)
	}

	hash, ok, err := s.secrets.Get(ctx, repository.ActivationKey(claims.Email))
	if err != nil {
		return model.Profile{}, apperrors.Internal(err)
	}
	if !ok {
		return model.Profile{}, apperrors.ErrActivationExpired
	}

	u := &model.User{
		Name:         claims.Name,
		Email:        claims.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsVerified:   true,
		Phone:        optional(claims.Phone),
		NID:          optional(claims.NID),
	}
	id, err := s.users.Create(ctx, u)
	if err != nil {
		if err == repository.ErrDuplicate {
			// Lost a double-activation race.
			return model.Profile{}, apperrors.ErrUserExists
		}
		return model.Profile{}, apperrors.Internal(err)
	}
	u.ID = id

	_ = s.secrets.Delete(ctx, repository.ActivationKey(claims.Email))
	s.publish(ctx, queue.EventUserActivated, id, claims.Email)

	return model.NewProfile(u), nil
}

// Login checks credentials and issues the session: token pair, cached
// refresh token (superseding any previous one) and session snapshot.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.Profile, TokenPair, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return model.Profile{}, TokenPair{}, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return model.Profile{}, TokenPair{}, err
	}

	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == repository.ErrNotFound {
			return model.Profile{}, TokenPair{}, apperrors.ErrUserNotFound
		}
		return model.Profile{}, TokenPair{}, apperrors.Internal(err)
	}
	// Social-only accounts have no password and cannot log in this way.
	if u.PasswordHash == "" || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.Profile{}, TokenPair{}, apperrors.ErrInvalidCredentials
	}

	profile, pair, err := s.openSession(ctx, u)
	if err != nil {
		return model.Profile{}, TokenPair{}, err
	}
	s.publish(ctx, queue.EventUserLoggedIn, u.ID, u.Email)
	return profile, pair, nil
}

// SocialAuth logs in an externally authenticated identity, creating a
// verified password-less user on first sight. Returns true when a user was
// created.
func (s *AuthService) SocialAuth(ctx context.Context, email, name string) (model.Profile, TokenPair, bool, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return model.Profile{}, TokenPair{}, false, err
	}
	email = normalizeEmail(email)

	created := false
	u, err := s.users.FindByEmail(ctx, email)
	if err == repository.ErrNotFound {
		u = &model.User{Name: name, Email: email, Role: model.RoleUser, IsVerified: true}
		id, err := s.users.Create(ctx, u)
		if err != nil {
			if err == repository.ErrDuplicate {
				return model.Profile{}, TokenPair{}, false, apperrors.ErrUserExists
			}
			return model.Profile{}, TokenPair{}, false, apperrors.Internal(err)
		}
		u.ID = id
		created = true
	} else if err != nil {
		return model.Profile{}, TokenPair{}, false, apperrors.Internal(err)
	}

	profile, pair, err := s.openSession(ctx, u)
	if err != nil {
		return model.Profile{}, TokenPair{}, false, err
	}
	s.publish(ctx, queue.EventUserLoggedIn, u.ID, u.Email)
	return profile, pair, created, nil
}

// Refresh exchanges a refresh token for a new access token. The presented
// token must equal the single cached value for its user id; a superseded or
// logged-out session fails here even though its signature is still valid.
// The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (model.Profile, string, error) {
	if rawRefresh == "" {
		return model.Profile{}, "", apperrors.ErrUnauthenticated
	}
	claims, err := utils.ParseToken(s.cfg.JWTSecret, rawRefresh)
	if err != nil {
		return model.Profile{}, "", apperrors.ErrUnauthenticated
	}
	id, err := claims.UserID()
	if err != nil {
		return model.Profile{}, "", apperrors.ErrUnauthenticated
	}

	stored, ok, err := s.secrets.Get(ctx, repository.RefreshKey(id))
	if err != nil {
		return model.Profile{}, "", apperrors.Internal(err)
	}
	if !ok || stored != rawRefresh {
		return model.Profile{}, "", apperrors.ErrUnauthenticated
	}

	profile, err := s.LoadProfile(ctx, id)
	if err != nil {
		return model.Profile{}, "", err
	}
	// Re-arm the snapshot TTL on every refresh.
	_ = s.sessions.Set(ctx, id, *profile)

	access, err := utils.NewAccessToken(s.cfg.JWTSecret, id, profile.Role, s.cfg.AccessTTL)
	if err != nil {
		return model.Profile{}, "", apperrors.Internal(err)
	}
	return *profile, access, nil
}

// ForgotPassword stores a 6-digit OTP on the user row and mails it. Delivery
// failure clears the OTP pair again before surfacing the error.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if err := utils.ValidateEmail(email); err != nil {
		return err
	}
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.ErrUserNotFound
		}
		return apperrors.Internal(err)
	}

	otp, err := utils.NewOTP()
	if err != nil {
		return apperrors.Internal(err)
	}
	expire := time.Now().UTC().Add(s.cfg.OTPTTL)
	if err := s.users.SetResetOTP(ctx, u.ID, otp, expire); err != nil {
		return apperrors.Internal(err)
	}

	body := fmt.Sprintf("Hello %s, your password reset OTP is %s. It expires in %d minutes.",
		u.Name, otp, int(s.cfg.OTPTTL.Minutes()))
	if err := s.mailer.Send(u.Email, "Password reset OTP", body); err != nil {
		_ = s.users.ClearResetOTP(ctx, u.ID)
		return apperrors.ErrDeliveryFailed.WithError(err)
	}
	return nil
}

// ResetPassword consumes an unexpired OTP exactly once and sets the new
// password. The OTP pair is cleared in the same store write as the hash.
func (s *AuthService) ResetPassword(ctx context.Context, otp, newPassword string) error {
	if otp == "" {
		return apperrors.ErrInvalidOrExpired
	}
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}

	u, err := s.users.FindByResetOTP(ctx, otp)
	if err != nil {
		if err == repository.ErrNotFound {
			return apperrors.ErrInvalidOrExpired
		}
		return apperrors.Internal(err)
	}

	hash, err := utils.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return apperrors.Internal(err)
	}

	s.publish(ctx, queue.EventPasswordReset, u.ID, u.Email)
	return nil
}

// Logout revokes the refresh capability and drops the session snapshot. It
// is idempotent: absent keys are not an error, so logging out twice succeeds.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	if err := s.secrets.Delete(ctx, repository.RefreshKey(userID)); err != nil {
		return apperrors.Internal(err)
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// UpdateProfile patches name and/or phone, then refreshes the session cache
// so authenticated reads see the change without waiting out the TTL.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint64, name, phone *string) (model.Profile, error) {
	if name != nil {
		if err := utils.ValidateName(*name); err != nil {
			return model.Profile{}, err
		}
	}
	if phone != nil {
		if err := utils.ValidatePhone(*phone); err != nil {
			return model.Profile{}, err
		}
	}

	u, err := s.users.UpdateProfile(ctx, userID, name, phone)
	if err != nil {
		switch err {
		case repository.ErrNotFound:
			return model.Profile{}, apperrors.ErrUserNotFound
		case repository.ErrDuplicate:
			return model.Profile{}, apperrors.ErrDuplicateField
		}
		return model.Profile{}, apperrors.Internal(err)
	}

	profile := model.NewProfile(u)
	_ = s.sessions.Set(ctx, userID, profile)
	return profile, nil
}

// LoadProfile is the read-through path used on authenticated requests: cache
// hit wins, otherwise the credential store is read and the cache populated.
// Concurrent misses may each re-populate; the write is idempotent.
func (s *AuthService) LoadProfile(ctx context.Context, userID uint64) (*model.Profile, error) {
	if p := s.sessions.Get(ctx, userID); p != nil {
		return p, nil
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal(err)
	}
	profile := model.NewProfile(u)
	_ = s.sessions.Set(ctx, userID, profile)
	return &profile, nil
}

// ListUsers returns sanitized profiles for the admin listing.
func (s *AuthService) ListUsers(ctx context.Context) ([]model.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	profiles := make([]model.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, model.NewProfile(&users[i]))
	}
	return profiles, nil
}

// openSession is the shared issuance tail of Login and SocialAuth: mint the
// pair, cache the refresh token under the user id (last writer wins) and
// write the session snapshot.
func (s *AuthService) openSession(ctx context.Context, u *model.User) (model.Profile, TokenPair, error) {
	access, err := utils.NewAccessToken(s.cfg.JWTSecret, u.ID, u.Role, s.cfg.AccessTTL)
	if err != nil {
		return model.Profile{}, TokenPair{}, apperrors.Internal(err)
	}
	refresh, err := utils.NewRefreshToken(s.cfg.JWTSecret, u.ID, s.cfg.RefreshTTL)
	if err != nil {
		return model.Profile{}, TokenPair{}, apperrors.Internal(err)
	}

	if err := s.secrets.Set(ctx, repository.RefreshKey(u.ID), refresh, s.cfg.RefreshTTL); err != nil {
		return model.Profile{}, TokenPair{}, apperrors.Internal(err)
	}

	profile := model.NewProfile(u)
	if err := s.sessions.Set(ctx, u.ID, profile); err != nil {
		return model.Profile{}, TokenPair{}, apperrors.Internal(err)
	}
	return profile, TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) publish(ctx context.Context, kind string, userID uint64, email string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, queue.AuthEvent{
		Kind:       kind,
		UserID:     userID,
		Email:      email,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

func tokenError(err error) error {
	if err == utils.ErrTokenExpired {
		return apperrors.ErrTokenExpired
	}
	return apperrors.ErrTokenInvalid
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
