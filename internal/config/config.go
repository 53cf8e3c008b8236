package config // package config loads application configuration from environment variables

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"
)

// Lifetimes fixed by the auth design. Access and refresh lifetimes are
// tunable per environment; these three are part of the flow contract.
const (
	ActivationTTL = 10 * time.Minute // activation claim token
	PendingTTL    = 600 * time.Second
	OTPTTL        = 10 * time.Minute
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; required ones are enforced by must() and missing
// values cause the program to exit with a fatal log message.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional
	DBHost string
	DBPort string
	DBName string

	JWTSecret      string
	AccessTTLMin   int // access token time-to-live in minutes
	RefreshTTLDays int // refresh token time-to-live in days
	BcryptCost     int

	// Cookie attributes are environment-dependent; HttpOnly is always set.
	CookieSecure   bool
	CookieSameSite string // "lax", "strict" or "none"

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	AMQPURL string // empty disables event publishing
}

// Load reads configuration from environment variables.
func Load() Config {
	env := must("APP_ENV")
	return Config{
		Env:            env,
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   getenvInt("ACCESS_TOKEN_TTL_MIN", 15),
		RefreshTTLDays: getenvInt("REFRESH_TOKEN_TTL_DAYS", 7),
		BcryptCost:     getenvInt("BCRYPT_COST", 10),
		CookieSecure:   env == "prod",
		CookieSameSite: getenv("COOKIE_SAMESITE", "lax"),
		SMTPHost:       must("SMTP_HOST"),
		SMTPPort:       getenvInt("SMTP_PORT", 587),
		SMTPUser:       os.Getenv("SMTP_USER"),
		SMTPPass:       os.Getenv("SMTP_PASS"),
		SMTPFrom:       must("SMTP_FROM"),
		AMQPURL:        os.Getenv("AMQP_URL"),
	}
}

// SameSiteMode maps the configured SameSite name to its http constant.
func (c Config) SameSiteMode() http.SameSite {
	switch c.CookieSameSite {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// AccessTTL returns the configured access token lifetime.
func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.AccessTTLMin) * time.Minute
}

// RefreshTTL returns the configured refresh token lifetime.
func (c Config) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshTTLDays) * 24 * time.Hour
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
