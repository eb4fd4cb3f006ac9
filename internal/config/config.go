package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minSessionSecretLen = 32

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	AppEnv     string
	LogLevel   string
	PublicURL  string

	DatabaseURL string
	ResetDB     bool

	SessionSecret string
	SessionTTL    time.Duration

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string

	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchIndex    string

	AdminEmail      string
	AdminPassword   string
	AdminName       string
	SeedSamplePosts bool
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "production"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		PublicURL:  os.Getenv("PUBLIC_URL"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		ResetDB:     getEnvBool("RESET_DB", false),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getEnvDuration("SESSION_TTL", 24*time.Hour),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "travel-blog"),

		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchIndex:    getEnv("ELASTICSEARCH_INDEX", "posts"),

		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminName:       getEnv("ADMIN_NAME", "Admin"),
		SeedSamplePosts: getEnvBool("SEED_SAMPLE_POSTS", false),
	}
}

// Validate returns a single error naming every missing required variable.
func (c *Config) Validate() error {
	var missing []string
	require := func(value, name string) {
		if value == "" {
			missing = append(missing, name)
		}
	}

	require(c.DatabaseURL, "DATABASE_URL")
	require(c.SessionSecret, "SESSION_SECRET")
	require(c.PublicURL, "PUBLIC_URL")

	// Cloudinary credentials are all-or-none.
	if c.CloudinaryCloudName != "" || c.CloudinaryAPIKey != "" || c.CloudinaryAPISecret != "" {
		require(c.CloudinaryCloudName, "CLOUDINARY_CLOUD_NAME")
		require(c.CloudinaryAPIKey, "CLOUDINARY_API_KEY")
		require(c.CloudinaryAPISecret, "CLOUDINARY_API_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if c.PublicURL != "" && !strings.HasPrefix(c.PublicURL, "http://") && !strings.HasPrefix(c.PublicURL, "https://") {
		return fmt.Errorf("PUBLIC_URL must start with http:// or https://")
	}
	return nil
}

// Warnings lists non-fatal configuration problems.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.SessionSecret != "" && len(c.SessionSecret) < minSessionSecretLen {
		warnings = append(warnings, fmt.Sprintf("SESSION_SECRET should be at least %d characters long", minSessionSecretLen))
	}
	if !c.StorageEnabled() {
		warnings = append(warnings, "CLOUDINARY_* not set, image uploads are disabled")
	}
	return warnings
}

// StorageEnabled reports whether object storage credentials are present.
func (c *Config) StorageEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// SearchEnabled reports whether an Elasticsearch endpoint is configured.
func (c *Config) SearchEnabled() bool {
	return c.ElasticsearchURL != ""
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return strings.HasPrefix(c.PublicURL, "https://")
}

// RequiredVarStatus reports which required variables are set, without their values.
func (c *Config) RequiredVarStatus() map[string]string {
	status := func(v string) string {
		if v == "" {
			return "Missing"
		}
		return "Set"
	}
	return map[string]string{
		"DATABASE_URL":   status(c.DatabaseURL),
		"SESSION_SECRET": status(c.SessionSecret),
		"PUBLIC_URL":     status(c.PublicURL),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
