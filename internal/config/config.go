package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=factory port=5432 sslmode=disable"

type Config struct {
	HTTPPort        string        `env:"PORT" envDefault:"5000"`
	DatabaseDSN     string        `env:"DATABASE_DSN" envDefault:"host=localhost user=postgres password=postgres dbname=factory port=5432 sslmode=disable"`
	CORSOrigins     string        `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Maintenance gate lookup budget.
	GateTimeout  time.Duration `env:"MAINTENANCE_CHECK_TIMEOUT" envDefault:"5s"`
	// How long before the planned end the reminder email goes out.
	ReminderLead time.Duration `env:"MAINTENANCE_REMINDER_LEAD" envDefault:"24h"`

	// Optional. When empty the maintenance-mode endpoints need no token.
	JWTSecret            string        `env:"JWT_SECRET"`
	TokenTTL             time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	OperatorName         string        `env:"OPERATOR_NAME" envDefault:"admin"`
	OperatorPasswordHash string        `env:"OPERATOR_PASSWORD_HASH"` // bcrypt

	SMTPHost      string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"465"`
	SMTPUser      string `env:"SMTP_USER"`
	SMTPPass      string `env:"SMTP_PASS"`
	MailFromName  string `env:"MAIL_FROM_NAME" envDefault:"FIRN Bakers"`
	MailRecipient string `env:"MAINTENANCE_EMAIL_RECIPIENT"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE" envDefault:"7"`
}

// Load reads an optional .env file (or the given files) and then the process
// environment into a Config.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Warnings lists settings that are fine for local development but should be
// set explicitly in production.
func (c *Config) Warnings() []string {
	var out []string
	if c.DatabaseDSN == defaultDSN {
		out = append(out, "DATABASE_DSN is using the default value, set your own Postgres connection for production")
	}
	if strings.TrimSpace(c.CORSOrigins) == "*" {
		out = append(out, "CORS_ALLOWED_ORIGINS allows every origin")
	}
	if !c.MailEnabled() {
		out = append(out, "SMTP_USER, SMTP_PASS or MAINTENANCE_EMAIL_RECIPIENT missing, maintenance emails will fail")
	}
	if c.JWTSecret == "" {
		out = append(out, "JWT_SECRET not set, maintenance-mode endpoints are not protected")
	} else if len(c.JWTSecret) < 32 {
		out = append(out, "JWT_SECRET should be at least 32 characters")
	}
	if c.AuthEnabled() && c.OperatorPasswordHash == "" {
		out = append(out, "OPERATOR_PASSWORD_HASH not set, operator login is disabled (use the token command)")
	}
	return out
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != "" && c.MailRecipient != ""
}

func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}
