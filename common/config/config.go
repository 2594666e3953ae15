package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service configuration
type Config struct {
	Service  ServiceConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    ObjectStoreConfig
	Detector DetectorConfig
	Queue    QueueConfig
	Notify   NotifyConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ObjectStoreConfig holds blob storage settings
type ObjectStoreConfig struct {
	ImageBucket     string
	ThumbnailBucket string
	// PublicBase is the URL prefix under which stored objects are addressable,
	// e.g. "https://media.pixtag.io". Record URLs are derived from it.
	PublicBase string
}

// DetectorConfig holds object detector model settings
type DetectorConfig struct {
	ConfigPath  string
	WeightsPath string
	LabelsPath  string
}

// QueueConfig holds task queue settings
type QueueConfig struct {
	Name        string
	Concurrency int
}

// NotifyConfig holds notification settings
type NotifyConfig struct {
	Topic string
}

// Load loads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "pixtag"),
			User:        getEnv("POSTGRES_USER", "pixtag"),
			Password:    getEnv("POSTGRES_PASSWORD", "pixtag"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 50),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 10),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Store: ObjectStoreConfig{
			ImageBucket:     getEnv("STORE_IMAGE_BUCKET", "pixtag-images"),
			ThumbnailBucket: getEnv("STORE_THUMBNAIL_BUCKET", "pixtag-thumbnails"),
			PublicBase:      getEnv("STORE_PUBLIC_BASE", "http://localhost:8080/media"),
		},
		Detector: DetectorConfig{
			ConfigPath:  getEnv("DETECTOR_CONFIG", "models/yolov3-tiny.cfg"),
			WeightsPath: getEnv("DETECTOR_WEIGHTS", "models/yolov3-tiny.weights"),
			LabelsPath:  getEnv("DETECTOR_LABELS", "models/coco.names"),
		},
		Queue: QueueConfig{
			Name:        getEnv("QUEUE_NAME", "detect"),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 4),
		},
		Notify: NotifyConfig{
			Topic: getEnv("NOTIFY_TOPIC", "image-tag-notifications"),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	if c.Store.PublicBase == "" {
		return fmt.Errorf("object store public base URL is required")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns the Redis host:port address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// ObjectURL returns the public URL for a stored object
func (c *ObjectStoreConfig) ObjectURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.PublicBase, "/"), bucket, key)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
