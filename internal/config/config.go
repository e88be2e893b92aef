// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8311".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// JWTSecret signs auth tokens. Required.
	JWTSecret string

	// JWTTTLHours is the token lifetime in hours. Defaults to 168 (7 days).
	JWTTTLHours int

	// MaxUploadBytes caps multipart upload bodies. Defaults to 20 MiB.
	MaxUploadBytes int64

	// MinIO connection for plan file storage. Endpoint, access key, and
	// secret key are required; the bucket defaults to "travenion-files".
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// GeocoderBaseURL is the Nominatim-compatible geocoding endpoint.
	// Empty disables geocoding; attractions keep null coordinates.
	GeocoderBaseURL string
}

// Load reads configuration from a .env file (if present) and environment
// variables, and returns a Config. Returns an error listing any required
// variables that are not set.
func Load() (Config, error) {
	// A missing .env file is fine; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getEnv("PORT", "8311"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		JWTTTLHours:     getEnvInt("JWT_TTL_HOURS", 168),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 20<<20)),
		MinIOBucket:     getEnv("MINIO_BUCKET", "travenion-files"),
		MinIOUseSSL:     os.Getenv("MINIO_USE_SSL") == "true",
		GeocoderBaseURL: getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
	}

	var missing []string
	for _, v := range []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"JWT_SECRET", &cfg.JWTSecret},
		{"MINIO_ENDPOINT", &cfg.MinIOEndpoint},
		{"MINIO_ACCESS_KEY", &cfg.MinIOAccessKey},
		{"MINIO_SECRET_KEY", &cfg.MinIOSecretKey},
	} {
		*v.dst = os.Getenv(v.key)
		if *v.dst == "" {
			missing = append(missing, v.key)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt parses the named variable as an int, falling back on absence or
// parse failure.
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
