package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"waybackhome/internal/domain"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Version     string `env:"VERSION" envDefault:"1.0.0"`

	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	APIBaseURL     string        `env:"API_BASE_URL" envDefault:"http://localhost:8080"`
	MapBaseURL     string        `env:"MAP_BASE_URL" envDefault:"http://localhost:3000"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	DefaultLocale  string        `env:"DEFAULT_LOCALE" envDefault:"en"`

	StoreDriver            string        `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL            string        `env:"DATABASE_URL"`
	DatabaseMaxConns       int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	DatabaseConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"30s"`
	MigrateOnStart         bool          `env:"MIGRATE_ON_START" envDefault:"true"`
	DefaultMaxParticipants int           `env:"DEFAULT_MAX_PARTICIPANTS" envDefault:"500"`
	BootstrapAdmins        []string      `env:"BOOTSTRAP_ADMINS" envSeparator:","`

	VerifyTimeout    time.Duration `env:"VERIFY_TIMEOUT" envDefault:"5s"`
	JWTHMACSecret    string        `env:"JWT_HMAC_SECRET"`
	JWTPublicKeyFile string        `env:"JWT_PUBLIC_KEY_FILE"`
	JWTIssuer        string        `env:"JWT_ISSUER"`
	JWTAudience      string        `env:"JWT_AUDIENCE"`

	RedisEnabled     bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisAddr        string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword    string `env:"REDIS_PASSWORD"`
	RedisDB          int    `env:"REDIS_DB" envDefault:"0"`
	RevokedTokensKey string `env:"REVOKED_TOKENS_KEY" envDefault:"waybackhome:revoked_tokens"`

	AssetsDir      string `env:"ASSETS_DIR" envDefault:"./data/assets"`
	AssetsBaseURL  string `env:"ASSETS_BASE_URL" envDefault:"http://localhost:8080/assets"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

// Load reads optional env files (default .env), parses the environment and
// validates it. Variables already set in the environment win over the files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// .env is optional when variables come from the environment (Docker, CI).
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDevelopment reports whether human-friendly console logging applies.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: LOG_LEVEL %q is not a valid level", c.LogLevel)
	}

	switch c.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			// Local default when DATABASE_URL is not provided.
			c.DatabaseURL = "postgres://localhost:5432/waybackhome?sslmode=disable"
		}
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: invalid DATABASE_URL: %w", err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return errors.New("config: invalid DATABASE_URL: missing scheme or host")
		}
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, c.StoreDriver)
	}

	if err := domain.ValidateMaxParticipants(c.DefaultMaxParticipants); err != nil {
		return fmt.Errorf("config: DEFAULT_MAX_PARTICIPANTS: %w", err)
	}

	if c.JWTHMACSecret != "" && c.JWTPublicKeyFile != "" {
		return errors.New("config: JWT_HMAC_SECRET and JWT_PUBLIC_KEY_FILE are mutually exclusive")
	}

	if c.RequestTimeout <= 0 || c.VerifyTimeout <= 0 {
		return errors.New("config: REQUEST_TIMEOUT and VERIFY_TIMEOUT must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("config: MAX_UPLOAD_BYTES must be positive")
	}
	if strings.TrimSpace(c.RevokedTokensKey) == "" {
		return errors.New("config: REVOKED_TOKENS_KEY cannot be empty")
	}
	return nil
}

// ValidateAuth checks the settings only the API server needs; CLI
// maintenance commands run without a verification key.
func (c *Config) ValidateAuth() error {
	if c.JWTHMACSecret == "" && c.JWTPublicKeyFile == "" {
		return errors.New("config: one of JWT_HMAC_SECRET or JWT_PUBLIC_KEY_FILE is required")
	}
	return nil
}
