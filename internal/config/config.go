// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// knownWeakSecrets contains example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"KALAM_ENV" envDefault:"development"`
	ServerHost string `env:"KALAM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"KALAM_SERVER_PORT" envDefault:"8080"`

	// Database
	DBDialect      string `env:"KALAM_DB_DIALECT" envDefault:"sqlite"` // sqlite or postgres
	DBPath         string `env:"KALAM_DB_PATH" envDefault:"./data/kalam.db"`
	DatabaseURL    string `env:"KALAM_DATABASE_URL"`
	DBMaxOpenConns int    `env:"KALAM_DB_MAX_OPEN_CONNS" envDefault:"25"`

	// Logging
	LogLevel      string `env:"KALAM_LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"KALAM_LOG_FORMAT" envDefault:"text"` // text or json
	LogFile       string `env:"KALAM_LOG_FILE"`                     // rotated copy of the log, optional
	LogMaxSizeMB  int    `env:"KALAM_LOG_MAX_SIZE_MB" envDefault:"100"`
	LogMaxBackups int    `env:"KALAM_LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAgeDays int    `env:"KALAM_LOG_MAX_AGE_DAYS" envDefault:"30"`

	// Cache configuration
	RedisURL     string        `env:"KALAM_REDIS_URL"` // Optional Redis URL for shared caching
	CachePrefix  string        `env:"KALAM_CACHE_PREFIX" envDefault:"kalam:"`
	CacheTTL     time.Duration `env:"KALAM_CACHE_TTL" envDefault:"1h"`
	CacheMaxSize int           `env:"KALAM_CACHE_MAX_SIZE" envDefault:"10000"`

	// Object storage
	StorageDriver string `env:"KALAM_STORAGE_DRIVER" envDefault:"local"` // local or s3
	UploadsDir    string `env:"KALAM_UPLOADS_DIR" envDefault:"./uploads"`
	UploadsURL    string `env:"KALAM_UPLOADS_URL" envDefault:"/uploads"`
	S3Endpoint    string `env:"KALAM_S3_ENDPOINT"`
	S3AccessKey   string `env:"KALAM_S3_ACCESS_KEY"`
	S3SecretKey   string `env:"KALAM_S3_SECRET_KEY"`
	S3Bucket      string `env:"KALAM_S3_BUCKET" envDefault:"kalam"`
	S3Region      string `env:"KALAM_S3_REGION" envDefault:"us-east-1"`
	S3UseSSL      bool   `env:"KALAM_S3_USE_SSL" envDefault:"true"`
	S3PublicURL   string `env:"KALAM_S3_PUBLIC_URL"`

	// Uploads
	MaxUploadBytes    int64 `env:"KALAM_MAX_UPLOAD_BYTES" envDefault:"5242880"`
	ImageMaxDimension int   `env:"KALAM_IMAGE_MAX_DIMENSION" envDefault:"2048"`

	// Identity
	JWKSURL     string `env:"KALAM_JWKS_URL"`
	JWTSecret   string `env:"KALAM_JWT_SECRET"`
	JWTIssuer   string `env:"KALAM_JWT_ISSUER"`
	JWTAudience string `env:"KALAM_JWT_AUDIENCE" envDefault:"authenticated"`
	OwnerID     string `env:"KALAM_OWNER_ID"` // UUID of the site owner

	// Messaging
	NATSURL string `env:"KALAM_NATS_URL"`

	// HTTP
	CORSOrigins string `env:"KALAM_CORS_ORIGINS" envDefault:"http://localhost:5173"`

	// Comments
	CommentRatePerMinute int `env:"KALAM_COMMENT_RATE_PER_MINUTE" envDefault:"5"`
	CommentRateBurst     int `env:"KALAM_COMMENT_RATE_BURST" envDefault:"3"`

	// Housekeeping
	RejectedCommentRetention time.Duration `env:"KALAM_REJECTED_COMMENT_RETENTION" envDefault:"720h"`
	EventLogRetention        time.Duration `env:"KALAM_EVENT_LOG_RETENTION" envDefault:"2160h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseNATS returns true if a NATS server is configured.
func (c Config) UseNATS() bool {
	return c.NATSURL != ""
}

// UseS3 returns true if uploads go to an S3-compatible bucket.
func (c Config) UseS3() bool {
	return c.StorageDriver == "s3"
}

// CORSOriginList splits the comma-separated CORS origins.
func (c Config) CORSOriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MinJWTSecretLength is the minimum length for an HS256 secret.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.JWTSecret != "" && !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("KALAM_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}
	return cfg, nil
}

// Validate checks cross-field rules.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDialect {
	case "sqlite":
	case "postgres":
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("KALAM_DATABASE_URL is required for the postgres dialect"))
		}
	default:
		errs = append(errs, fmt.Errorf("KALAM_DB_DIALECT must be sqlite or postgres, got %q", c.DBDialect))
	}

	switch c.StorageDriver {
	case "local":
	case "s3":
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" {
			errs = append(errs, errors.New("KALAM_S3_ENDPOINT, KALAM_S3_ACCESS_KEY and KALAM_S3_SECRET_KEY are required for s3 storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("KALAM_STORAGE_DRIVER must be local or s3, got %q", c.StorageDriver))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("KALAM_LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	if c.JWTSecret != "" {
		if len(c.JWTSecret) < MinJWTSecretLength {
			errs = append(errs, fmt.Errorf("KALAM_JWT_SECRET must be at least %d bytes long, got %d bytes",
				MinJWTSecretLength, len(c.JWTSecret)))
		}
		for _, weak := range knownWeakSecrets {
			if c.JWTSecret == weak {
				errs = append(errs, errors.New("KALAM_JWT_SECRET is a known default value and must not be used"))
			}
		}
	}
	if !c.IsDevelopment() && c.JWKSURL == "" && c.JWTSecret == "" {
		errs = append(errs, errors.New("KALAM_JWKS_URL or KALAM_JWT_SECRET is required outside development"))
	}

	if c.OwnerID != "" {
		if _, err := uuid.Parse(c.OwnerID); err != nil {
			errs = append(errs, fmt.Errorf("KALAM_OWNER_ID must be a UUID: %w", err))
		}
	}

	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("KALAM_MAX_UPLOAD_BYTES must be positive"))
	}
	if c.CommentRatePerMinute <= 0 || c.CommentRateBurst <= 0 {
		errs = append(errs, errors.New("comment rate limit and burst must be positive"))
	}

	return errors.Join(errs...)
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
