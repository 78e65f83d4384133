package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Hosting  HostingConfig
	Store    StoreConfig
	Render   RenderConfig
	Worker   WorkerConfig
	App      AppConfig
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FirebaseConfig struct {
	CredentialsPath string
}

type HostingConfig struct {
	Bucket string
	Region string
	// PublicBaseURL is the root under which hosted assets are publicly
	// reachable, e.g. "https://roomify-assets.s3.us-east-1.amazonaws.com".
	// When empty it is derived from Bucket and Region.
	PublicBaseURL string
}

type StoreConfig struct {
	// BaseURL of the project store API. When empty, project saving is
	// disabled and the persistence facade stays inert.
	BaseURL string
}

type RenderConfig struct {
	APIURL string
	Model  string
	// RPS caps outbound render calls per second.
	RPS float64
}

type WorkerConfig struct {
	// OwnerID is the user the render worker acts for.
	OwnerID string
	// APIToken authenticates the worker's store calls.
	APIToken string
	// SweepSchedule is a cron spec for the pending-render sweep.
	SweepSchedule string
}

type AppConfig struct {
	Environment string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		},
		Hosting: HostingConfig{
			Bucket:        getEnv("HOSTING_BUCKET", ""),
			Region:        getEnv("AWS_REGION", "us-east-1"),
			PublicBaseURL: getEnv("HOSTING_PUBLIC_BASE_URL", ""),
		},
		Store: StoreConfig{
			BaseURL: getEnv("STORE_BASE_URL", ""),
		},
		Render: RenderConfig{
			APIURL: getEnv("RENDER_API_URL", ""),
			Model:  getEnv("RENDER_MODEL", "gemini-2.5-flash-image-preview"),
			RPS:    getEnvAsFloat("RENDER_RPS", 1),
		},
		Worker: WorkerConfig{
			OwnerID:       getEnv("WORKER_OWNER_ID", ""),
			APIToken:      getEnv("WORKER_API_TOKEN", ""),
			SweepSchedule: getEnv("WORKER_SWEEP_SCHEDULE", "@every 5m"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	return nil
}

// PublicBase resolves the effective public root for hosted assets.
func (h HostingConfig) PublicBase() string {
	if h.PublicBaseURL != "" {
		return h.PublicBaseURL
	}
	if h.Bucket == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", h.Bucket, h.Region)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
