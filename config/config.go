// Package config provides configuration management for the campus portal.
// It handles loading and validation of configuration values from environment variables,
// with support for required variables, default values, and collective error reporting:
// every problem is gathered first and reported in one error, so a misconfigured
// deployment shows all of its mistakes at once instead of one per restart.
package config

import (
	"fmt"
	"net/url"
	// `os` package provides operating system functionalities, like reading environment variables.
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/user/campus-portal-go/apperror"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// EnvProduction is the APP_ENV value that switches on Secure cookies and JSON logs.
const EnvProduction = "production"

// minSessionSecretLength is the shortest SESSION_SECRET accepted for cookie signing.
const minSessionSecretLength = 32

// devSessionSecret is only used outside production when SESSION_SECRET is unset.
const devSessionSecret = "dev-only-session-secret-change-me-please"

// DatabaseConfig represents configuration for the PostgreSQL connection pool.
type DatabaseConfig struct {
	// URL is a full postgres:// connection string. When empty it is assembled
	// from the individual parts below.
	URL         string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	MaxSize     int
	AutoMigrate bool
}

// DSN returns the connection string for pgx and golang-migrate.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SessionConfig holds session and cookie settings for the authentication gate.
type SessionConfig struct {
	Secret        string        // HMAC key for signing the session cookie
	CookieName    string        // Name of the session cookie
	TTL           time.Duration // Lifetime of an authenticated session, refreshed on use
	SweepInterval time.Duration // How often expired sessions are purged from memory
	SecureCookie  bool          // Set the Secure attribute (HTTPS only)
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port           string   // Port for the HTTP server
	AllowedOrigins []string // CORS origins allowed to send credentialed requests
}

// SeedConfig controls the demo data bootstrap.
type SeedConfig struct {
	Enabled       bool
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	Env         string
	LogLevel    string
	StoreDriver string
	Database    *DatabaseConfig
	Session     *SessionConfig
	Server      *ServerConfig
	Seed        *SeedConfig
	// Warnings are non-fatal notes gathered while loading (e.g. a dev fallback
	// was used). main logs them once the logger exists.
	Warnings []string
}

// IsProduction reports whether APP_ENV is "production".
func (c *AppConfig) IsProduction() bool {
	return c.Env == EnvProduction
}

// Helper function to get a required environment variable.
// Appends an error to the errors slice if the variable is not set.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// Helper function to get an optional environment variable with a default string value.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// Helper function to get an optional environment variable parsed as an int.
// Uses defaultValue if not set or if parsing fails. Appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// Helper function to get an optional environment variable parsed as a bool.
// Accepts the spellings understood by `strconv.ParseBool` ("1", "true", "FALSE", ...).
func getOptionalEnvBool(key string, defaultValue bool, errors *[]string) bool {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueBool, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected boolean, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueBool
}

// Helper function to get an optional environment variable parsed as time.Duration.
// `time.ParseDuration` expects a string like "15m", "24h".
func getOptionalEnvDuration(key string, defaultValue time.Duration, errors *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected duration string, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	if valueDuration <= 0 {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: duration must be positive, got '%s'", key, valueStr))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size between 2 and 100, noting any adjustment.
func clampPoolSize(size int, warnings *[]string) int {
	if size < 2 {
		*warnings = append(*warnings, fmt.Sprintf("DB_POOL_SIZE %d is less than minimum 2, clamping to 2", size))
		return 2
	}
	if size > 100 {
		*warnings = append(*warnings, fmt.Sprintf("DB_POOL_SIZE %d is greater than maximum 100, clamping to 100", size))
		return 100
	}
	return size
}

// splitList turns "a, b,,c" into ["a" "b" "c"].
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// LoadConfig creates and returns an AppConfig by reading and validating environment variables.
// It collects all errors encountered during loading and returns a single error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string
	var warnings []string

	env := getOptionalEnv("APP_ENV", "development")
	logLevel := strings.ToLower(getOptionalEnv("LOG_LEVEL", "info"))
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid value for LOG_LEVEL: %q (want debug, info, warn or error)", logLevel))
	}

	// Store selection. The memory driver needs no database settings at all.
	storeDriver := strings.ToLower(getOptionalEnv("STORE_DRIVER", StoreDriverPostgres))
	var database *DatabaseConfig
	switch storeDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		database = loadDatabaseConfig(&errors, &warnings)
	default:
		errors = append(errors, fmt.Sprintf("invalid value for STORE_DRIVER: %q (want postgres or memory)", storeDriver))
	}

	// Session Configuration
	secret, present := os.LookupEnv("SESSION_SECRET")
	if !present || secret == "" {
		if env == EnvProduction {
			errors = append(errors, "missing required environment variable: SESSION_SECRET")
		} else {
			secret = devSessionSecret
			warnings = append(warnings, "SESSION_SECRET not set, using an insecure development secret")
		}
	} else if len(secret) < minSessionSecretLength {
		errors = append(errors, fmt.Sprintf("SESSION_SECRET must be at least %d characters long", minSessionSecretLength))
	}

	session := &SessionConfig{
		Secret:        secret,
		CookieName:    getOptionalEnv("SESSION_COOKIE_NAME", "campus.sid"),
		TTL:           getOptionalEnvDuration("SESSION_TTL", 24*time.Hour, &errors),
		SweepInterval: getOptionalEnvDuration("SESSION_SWEEP_INTERVAL", 24*time.Hour, &errors),
		SecureCookie:  env == EnvProduction,
	}

	// Server Configuration
	server := &ServerConfig{
		Port:           getOptionalEnv("PORT", "5000"),
		AllowedOrigins: splitList(getOptionalEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
	}
	for _, origin := range server.AllowedOrigins {
		if origin == "*" {
			// Browsers refuse credentialed requests to a wildcard origin, so the
			// session cookie would never be sent.
			errors = append(errors, "CORS_ALLOWED_ORIGINS cannot contain '*' because session cookies require credentials")
		}
	}

	seed := &SeedConfig{
		Enabled:       getOptionalEnvBool("SEED_DEMO_DATA", true, &errors),
		AdminEmail:    getOptionalEnv("SEED_ADMIN_EMAIL", "admin@kits.edu"),
		AdminPassword: getOptionalEnv("SEED_ADMIN_PASSWORD", "admin123"),
		AdminName:     getOptionalEnv("SEED_ADMIN_NAME", "Admin User"),
	}

	if len(errors) > 0 {
		return nil, apperror.NewConfigError(fmt.Sprintf("configuration errors:\n- %s", strings.Join(errors, "\n- ")), nil)
	}

	return &AppConfig{
		Env:         env,
		LogLevel:    logLevel,
		StoreDriver: storeDriver,
		Database:    database,
		Session:     session,
		Server:      server,
		Seed:        seed,
		Warnings:    warnings,
	}, nil
}

// loadDatabaseConfig reads either DATABASE_URL or the DB_* parts.
func loadDatabaseConfig(errors, warnings *[]string) *DatabaseConfig {
	cfg := &DatabaseConfig{
		URL:         getOptionalEnv("DATABASE_URL", ""),
		MaxSize:     clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, errors), warnings),
		AutoMigrate: getOptionalEnvBool("DB_AUTO_MIGRATE", true, errors),
	}
	if cfg.URL != "" {
		return cfg
	}

	cfg.User = getRequiredEnv("DB_USER", errors)
	cfg.Password = getRequiredEnv("DB_PASSWORD", errors)
	cfg.DBName = getRequiredEnv("DB_NAME", errors)
	cfg.Host = getOptionalEnv("DB_HOST", "localhost")
	cfg.Port = getOptionalEnvInt("DB_PORT", 5432, errors)
	return cfg
}
