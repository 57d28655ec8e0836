package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	CORSOrigins []string
	LogLevel    slog.Level

	DatabaseURL string
	DBLogLevel  string

	JWTSecret     string
	SessionTTL    time.Duration
	SecureCookies bool

	Cloudinary     CloudinaryConfig
	UploadTimeout  time.Duration
	MaxUploadBytes int64

	Gemini GeminiConfig
	Gmail  GmailConfig

	ReminderInterval time.Duration
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// GeminiConfig enables job-posting extraction when APIKey is set.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// GmailConfig enables follow-up reminders when both files are set.
type GmailConfig struct {
	CredentialsFile string
	TokenFile       string
	From            string
}

func (g GmailConfig) Enabled() bool {
	return g.CredentialsFile != "" && g.TokenFile != ""
}

// Load reads .env (if present) and the process environment. Missing required
// settings are reported together.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using environment variables", "err", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("COOKIE_SECURE", false)
	v.SetDefault("UPLOAD_TIMEOUT", "60s")
	v.SetDefault("MAX_UPLOAD_BYTES", 10<<20)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("REMINDER_INTERVAL", "1h")

	cfg := &Config{
		Port:          v.GetString("PORT"),
		CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		DatabaseURL:   v.GetString("DATABASE_URL"),
		DBLogLevel:    strings.ToLower(v.GetString("DB_LOG_LEVEL")),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SessionTTL:    v.GetDuration("SESSION_TTL"),
		SecureCookies: v.GetBool("COOKIE_SECURE"),
		Cloudinary: CloudinaryConfig{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
		UploadTimeout:  v.GetDuration("UPLOAD_TIMEOUT"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		Gemini: GeminiConfig{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Gmail: GmailConfig{
			CredentialsFile: v.GetString("GMAIL_CREDENTIALS_FILE"),
			TokenFile:       v.GetString("GMAIL_TOKEN_FILE"),
			From:            v.GetString("GMAIL_FROM"),
		},
		ReminderInterval: v.GetDuration("REMINDER_INTERVAL"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	required := map[string]string{
		"DATABASE_URL":          c.DatabaseURL,
		"JWT_SECRET":            c.JWTSecret,
		"CLOUDINARY_CLOUD_NAME": c.Cloudinary.CloudName,
		"CLOUDINARY_API_KEY":    c.Cloudinary.APIKey,
		"CLOUDINARY_API_SECRET": c.Cloudinary.APISecret,
	}
	for _, name := range []string{"DATABASE_URL", "JWT_SECRET", "CLOUDINARY_CLOUD_NAME", "CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET"} {
		if required[name] == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
