package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds everything the binaries need to talk to Joplin and run
// the structure service. Values come from the environment, with an
// optional .env file for local development.
type Config struct {
	Joplin    JoplinConfig
	Structure StructureConfig
	Index     IndexConfig
	Logging   LoggingConfig
}

type JoplinConfig struct {
	BaseURL    string `validate:"required,url"`
	Token      string `validate:"required"`
	PageLimit  int    `validate:"gt=0"`
	MaxRetries int    `validate:"gte=0"`
}

type StructureConfig struct {
	RootFolderTitle string `validate:"required"`
	CacheTTL        time.Duration
	JanitorInterval time.Duration
}

type IndexConfig struct {
	Path string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	godotenv.Load()

	cacheTTL, err := time.ParseDuration(getEnv("EXPENSES_CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPENSES_CACHE_TTL: %w", err)
	}

	janitorInterval, err := time.ParseDuration(getEnv("EXPENSES_JANITOR_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXPENSES_JANITOR_INTERVAL: %w", err)
	}

	cfg := &Config{
		Joplin: JoplinConfig{
			BaseURL:    getEnv("JOPLIN_BASE_URL", "http://localhost:41184"),
			Token:      getEnv("JOPLIN_TOKEN", ""),
			PageLimit:  getEnvAsInt("JOPLIN_PAGE_LIMIT", 100),
			MaxRetries: getEnvAsInt("JOPLIN_MAX_RETRIES", 3),
		},
		Structure: StructureConfig{
			RootFolderTitle: getEnv("EXPENSES_ROOT_FOLDER", "expenses"),
			CacheTTL:        cacheTTL,
			JanitorInterval: janitorInterval,
		},
		Index: IndexConfig{
			Path: getEnv("EXPENSES_INDEX_PATH", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := validator.New().Struct(cfg.Joplin); err != nil {
		return nil, fmt.Errorf("invalid Joplin configuration: %w", err)
	}
	if err := validator.New().Struct(cfg.Structure); err != nil {
		return nil, fmt.Errorf("invalid structure configuration: %w", err)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
