package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"property-desk/internal/storage"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	PhotoStoreLocal = "local"
	PhotoStoreS3    = "s3"
)

// Config holds the application configuration
type Config struct {
	// Database
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	// Server
	Port               string
	Environment        string
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Photo storage
	PhotoStore     string
	UploadDir      string
	S3Bucket       string
	S3Region       string
	S3Prefix       string
	S3Endpoint     string
	S3AccessKeyID  string
	S3SecretKey    string
	MaxUploadBytes int64

	// Events
	NATSURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	maxUpload, err := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "10485760"), 10, 64)
	if err != nil || maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	shutdown, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "15s"))
	if err != nil {
		shutdown = 15 * time.Second
	}

	return &Config{
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      dbPort,
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      getEnv("DB_NAME", "property_desk"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		SQLitePath:  getEnv("SQLITE_PATH", "property_desk.db"),

		Port:               getEnv("PORT", "8080"),
		Environment:        getEnv("GIN_MODE", "debug"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ShutdownTimeout:    shutdown,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		PhotoStore:     strings.ToLower(getEnv("PHOTO_STORE", PhotoStoreLocal)),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Prefix:       getEnv("S3_PREFIX", "maintenance-photos"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:  os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretKey:    os.Getenv("S3_SECRET_ACCESS_KEY"),
		MaxUploadBytes: maxUpload,

		NATSURL: os.Getenv("NATS_URL"),
	}
}

// Validate checks that the selected backends are known and fully configured
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.PhotoStore {
	case PhotoStoreLocal:
		if c.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR must be set for the local photo store")
		}
	case PhotoStoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET must be set for the s3 photo store")
		}
	default:
		return fmt.Errorf("unsupported PHOTO_STORE %q", c.PhotoStore)
	}

	return nil
}

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from the DB_* variables
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// PhotoStorage returns the photo store settings
func (c *Config) PhotoStorage() storage.Config {
	return storage.Config{
		Backend:         c.PhotoStore,
		LocalDir:        c.UploadDir,
		Bucket:          c.S3Bucket,
		Region:          c.S3Region,
		Prefix:          c.S3Prefix,
		Endpoint:        c.S3Endpoint,
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretKey,
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "release"
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
