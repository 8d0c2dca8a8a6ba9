package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Redis    RedisConfig
	Database DatabaseConfig
	OTEL     OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// WorkerConfig holds the offline worker configuration: partition naming,
// the shell install manifest, and the URL shapes the router classifies on.
type WorkerConfig struct {
	// Generation is the version tag appended to every partition name.
	// Bumping it retires all partitions of the previous generation on activate.
	Generation string

	ShellPartition    string
	TilePartition     string
	HospitalPartition string

	// ShellManifest is the ordered list of routes cached at install time.
	ShellManifest []string

	TileHost            string
	HospitalAPIPrefix   string
	HospitalFallbackKey string

	// UpstreamOrigin is the origin relative request paths are resolved against.
	UpstreamOrigin    string
	HospitalEndpoint  string
	EmergencyEndpoint string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// defaultShellManifest mirrors the application routes the worker must be able
// to serve while fully offline. Install fails unless every entry caches.
var defaultShellManifest = []string{
	"/",
	"/patient/symptoms",
	"/patient/med-reminder",
	"/patient/postop-followup",
	"/patient/recipes",
	"/patient/diagnosys",
	"/patient/appointments",
	"/patient/hospitals",
	"/patient/records",
	"/patient/prescriptions",
	"/patient/ai-prescriptions",
	"/patient/goals",
	"/patient/chat",
	"/doctor/dashboard",
	"/doctor/chat",
	"/manifest.json",
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	generation := getEnv("WORKER_GENERATION", "v1")

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8090),
		},
		Worker: WorkerConfig{
			Generation:          generation,
			ShellPartition:      "careconnect-shell-" + generation,
			TilePartition:       "careconnect-tiles-" + generation,
			HospitalPartition:   "careconnect-hospitals-" + generation,
			ShellManifest:       getEnvAsSlice("WORKER_SHELL_MANIFEST", defaultShellManifest),
			TileHost:            getEnv("WORKER_TILE_HOST", "tile.openstreetmap.org"),
			HospitalAPIPrefix:   getEnv("WORKER_HOSPITAL_API_PREFIX", "/api/hospitals"),
			HospitalFallbackKey: getEnv("WORKER_HOSPITAL_FALLBACK_KEY", "/api/hospitals/fallback"),
			UpstreamOrigin:      getEnv("WORKER_UPSTREAM_ORIGIN", "http://localhost:3000"),
			HospitalEndpoint:    getEnv("WORKER_HOSPITAL_ENDPOINT", "/api/hospitals"),
			EmergencyEndpoint:   getEnv("WORKER_EMERGENCY_ENDPOINT", "/api/emergency"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "careconnect_worker"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "careconnect-sync-worker"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// PartitionNames returns the current generation's partition name set, the
// whitelist reconciliation keeps on activate.
func (c *WorkerConfig) PartitionNames() []string {
	return []string{c.ShellPartition, c.TilePartition, c.HospitalPartition}
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
