// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// DefaultAdminPassword is the development-only admin password.
	DefaultAdminPassword = "admin"

	// devSessionSecret signs session cookies when SESSION_SECRET is unset
	// outside production.
	devSessionSecret = "sarren-development-session-secret-0000"

	// minSessionSecret is the shortest SESSION_SECRET accepted in production.
	minSessionSecret = 32

	// defaultTrustedProxies covers a reverse proxy on the same host.
	defaultTrustedProxies = "127.0.0.0/8,::1/128"
)

// Backend names accepted by KV_BACKEND, CACHE_BACKEND and BLOB_BACKEND.
const (
	BackendMemory   = "memory"
	BackendValkey   = "valkey"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendMinio    = "minio"
	BackendNone     = "none"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// TrustedProxies are the peers whose X-Forwarded-For and X-Real-IP
	// headers name the client. Empty trusts no one.
	TrustedProxies []netip.Prefix

	// Admin authentication
	AdminPassword     string
	AdminPasswordHash string // bcrypt; takes precedence over AdminPassword
	AdminTOTPSecret   string // optional second factor
	SessionSecret     string

	// Backend selection
	KVBackend    string // memory, valkey, postgres
	CacheBackend string // memory, valkey, none
	BlobBackend  string // memory, s3, minio

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Valkey (Redis-compatible). RedisURL wins over the discrete settings.
	RedisURL       string
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// S3-compatible object storage
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3PublicURL string

	// MinIO
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	MinioPublicURL string

	// Outgoing mail for the contact form
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	ContactEmail string
}

// LoadDotEnv loads variables from a .env file in the working directory when
// one exists. Variables already set in the environment are not overridden.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to load .env", "error", err)
		}
		return
	}
	slog.Debug("loaded .env")
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or unsafe in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		AdminPassword:     envOrDefault("ADMIN_PASSWORD", DefaultAdminPassword),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTOTPSecret:   os.Getenv("ADMIN_TOTP_SECRET"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),

		KVBackend:    envOrDefault("KV_BACKEND", BackendMemory),
		CacheBackend: envOrDefault("CACHE_BACKEND", BackendMemory),
		BlobBackend:  envOrDefault("BLOB_BACKEND", BackendMemory),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sarren"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "sarren"),
		DBSSLMode:  envOrDefault("POSTGRES_SSLMODE", "disable"),

		RedisURL:       os.Getenv("REDIS_URL"),
		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3Region:    envOrDefault("S3_REGION", "fsn1"),
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    envOrDefault("S3_BUCKET", "sarren-documents"),
		S3PublicURL: os.Getenv("S3_PUBLIC_URL"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    envOrDefault("MINIO_BUCKET", "sarren-documents"),
		MinioUseSSL:    envBool("MINIO_USE_SSL", false),
		MinioPublicURL: os.Getenv("MINIO_PUBLIC_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envOrDefault("SMTP_PORT", "587"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     envOrDefault("SMTP_FROM", "website@sarren.com"),
		ContactEmail: envOrDefault("CONTACT_EMAIL", "info@sarren.com"),
	}

	if err := cfg.validateBackends(); err != nil {
		return nil, err
	}

	proxies, err := ParseProxies(envOrDefault("TRUSTED_PROXIES", defaultTrustedProxies))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if cfg.IsProduction() {
		if cfg.AdminPasswordHash == "" && cfg.AdminPassword == DefaultAdminPassword {
			return nil, fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set in production")
		}
		if len(cfg.SessionSecret) < minSessionSecret {
			return nil, fmt.Errorf("SESSION_SECRET must be at least %d characters in production", minSessionSecret)
		}
		if cfg.KVBackend == BackendMemory {
			return nil, fmt.Errorf("KV_BACKEND=memory is not allowed in production")
		}
		if cfg.KVBackend == BackendPostgres && cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = devSessionSecret
	}

	return cfg, nil
}

func (c *Config) validateBackends() error {
	switch c.KVBackend {
	case BackendMemory, BackendValkey, BackendPostgres:
	default:
		return fmt.Errorf("unknown KV_BACKEND %q", c.KVBackend)
	}
	switch c.CacheBackend {
	case BackendMemory, BackendValkey, BackendNone:
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	switch c.BlobBackend {
	case BackendMemory, BackendS3, BackendMinio:
	default:
		return fmt.Errorf("unknown BLOB_BACKEND %q", c.BlobBackend)
	}
	return nil
}

// ParseProxies parses a comma-separated list of CIDR prefixes or bare
// addresses. "none" yields an empty list.
func ParseProxies(list string) ([]netip.Prefix, error) {
	list = strings.TrimSpace(list)
	if list == "" || list == BackendNone {
		return nil, nil
	}

	var out []netip.Prefix
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.Contains(item, "/") {
			p, err := netip.ParsePrefix(item)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", item, err)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(item)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", item, err)
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// ValkeyAddr returns the Valkey address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// NeedsValkey reports whether any selected backend talks to Valkey.
func (c *Config) NeedsValkey() bool {
	return c.KVBackend == BackendValkey || c.CacheBackend == BackendValkey
}

// SMTPConfigured reports whether outgoing mail can be relayed.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
