package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFirestore = "firestore"
	BackendMemory    = "memory"

	AuthModeJWT      = "jwt"
	AuthModeFirebase = "firebase"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Server struct {
		Port           string
		GinMode        string
		AllowedOrigins []string
		Timezone       string
	}
	Store struct {
		Backend string
	}
	Firebase struct {
		CredentialsFile string
	}
	Auth struct {
		Mode             string
		JWTSecret        string
		JWTRefreshSecret string
		AccessTTL        time.Duration
		RefreshTTL       time.Duration
	}
	SMTP struct {
		Host     string
		Port     string
		Username string
		Password string
	}
	Recaptcha struct {
		ProjectID       string
		SiteKey         string
		CredentialsFile string
	}
	Reminder struct {
		Interval time.Duration
	}
	RateLimit struct {
		RPS   float64
		Burst int
	}
	Logging struct {
		Level      string
		Dir        string
		MaxSizeMB  int
		MaxBackups int
		MaxAgeDays int
	}
}

// Load reads .env (when present) and environment variables, applies defaults and validates.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (Config, error) {
	var cfg Config

	cfg.Server.Port = env("PORT", "8080")
	cfg.Server.GinMode = env("GIN_MODE", "release")
	cfg.Server.Timezone = env("APP_TIMEZONE", "Europe/Paris")
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.Server.AllowedOrigins = append(cfg.Server.AllowedOrigins, o)
			}
		}
	}

	cfg.Store.Backend = strings.ToLower(env("STORE_BACKEND", BackendFirestore))
	cfg.Firebase.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1")

	cfg.Auth.Mode = strings.ToLower(env("AUTH_MODE", AuthModeJWT))
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET_KEY")
	cfg.Auth.JWTRefreshSecret = os.Getenv("JWT_REFRESH_SECRET_KEY")

	cfg.SMTP.Host = os.Getenv("SMTP_HOST")
	cfg.SMTP.Port = os.Getenv("SMTP_PORT")
	cfg.SMTP.Username = os.Getenv("SMTP_USERNAME")
	cfg.SMTP.Password = os.Getenv("SMTP_PASSWORD")

	cfg.Recaptcha.ProjectID = os.Getenv("GOOGLE_CLOUD_PROJECT_ID")
	cfg.Recaptcha.SiteKey = os.Getenv("RECAPTCHA_SITE_KEY")
	cfg.Recaptcha.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_2")

	cfg.Logging.Level = env("LOG_LEVEL", "info")
	cfg.Logging.Dir = env("LOG_DIR", "logs")

	var err error
	if cfg.Auth.AccessTTL, err = duration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Auth.RefreshTTL, err = duration("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.Reminder.Interval, err = duration("REMINDER_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.RPS, err = float("RATE_LIMIT_RPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit.Burst, err = integer("RATE_LIMIT_BURST", 10); err != nil {
		return Config{}, err
	}
	if cfg.Logging.MaxSizeMB, err = integer("LOG_MAX_SIZE_MB", 50); err != nil {
		return Config{}, err
	}
	if cfg.Logging.MaxBackups, err = integer("LOG_MAX_BACKUPS", 5); err != nil {
		return Config{}, err
	}
	if cfg.Logging.MaxAgeDays, err = integer("LOG_MAX_AGE_DAYS", 28); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendFirestore, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.Auth.Mode {
	case AuthModeJWT, AuthModeFirebase:
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.Auth.Mode)
	}

	missing := []string{}
	if c.NeedsFirebase() && c.Firebase.CredentialsFile == "" {
		missing = append(missing, "GOOGLE_APPLICATION_CREDENTIALS_1")
	}
	if c.Auth.Mode == AuthModeJWT {
		if c.Auth.JWTSecret == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if c.Auth.JWTRefreshSecret == "" {
			missing = append(missing, "JWT_REFRESH_SECRET_KEY")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configurations: %v", missing)
	}
	return nil
}

// NeedsFirebase reports whether a Firebase app has to be initialised.
func (c Config) NeedsFirebase() bool {
	return c.Store.Backend == BackendFirestore || c.Auth.Mode == AuthModeFirebase
}

// MailEnabled reports whether every SMTP setting is present.
func (c Config) MailEnabled() bool {
	return c.SMTP.Host != "" && c.SMTP.Port != "" && c.SMTP.Username != "" && c.SMTP.Password != ""
}

// CaptchaEnabled reports whether reCAPTCHA assessments can be created.
func (c Config) CaptchaEnabled() bool {
	return c.Recaptcha.ProjectID != "" && c.Recaptcha.SiteKey != ""
}

// Location resolves the configured timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if v == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func float(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
