package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	EmbeddingModel  string
	EmbeddingDim    int
	ChatModel       string
	ChatTemperature float32
	ChatMaxTokens   int
	DataDir         string
	IndexDir        string
	DBPath          string
	ChunkMaxChars   int
	ChunkOverlap    int
	RetrievalK      int
	APIPort         string
	LogLevel        slog.Level
	LogFormat       string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded
// automatically. Environment variables already set take precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up from the working directory looking for a .env next to go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	dataDir := getEnv("DATA_DIR", "./data")

	cfg := &Config{
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getEnv("CHAT_MODEL", "gpt-4o-mini"),
		DataDir:        dataDir,
		IndexDir:       filepath.Join(dataDir, "index"),
		DBPath:         getEnv("DB_PATH", filepath.Join(dataDir, "clipchat.db")),
		APIPort:        getEnv("API_PORT", "8000"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	// Note: the dimension must match the output size of the embeddings model.
	// text-embedding-3-small produces 1536-dimensional vectors. If the model
	// changes, the index must be rebuilt; artifacts with a different dimension
	// refuse to load.
	cfg.EmbeddingDim, err = getEnvInt("EMBEDDING_DIM", 1536)
	if err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIM must be greater than 0")
	}

	cfg.ChunkMaxChars, err = getEnvInt("CHUNK_MAX_CHARS", 900)
	if err != nil {
		return nil, err
	}
	if cfg.ChunkMaxChars <= 0 {
		return nil, fmt.Errorf("CHUNK_MAX_CHARS must be greater than 0")
	}

	cfg.ChunkOverlap, err = getEnvInt("CHUNK_OVERLAP", 150)
	if err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkMaxChars {
		return nil, fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_MAX_CHARS)")
	}

	cfg.RetrievalK, err = getEnvInt("RETRIEVAL_K", 6)
	if err != nil {
		return nil, err
	}
	if cfg.RetrievalK <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_K must be greater than 0")
	}

	cfg.ChatMaxTokens, err = getEnvInt("CHAT_MAX_TOKENS", 600)
	if err != nil {
		return nil, err
	}

	temperature := getEnv("CHAT_TEMPERATURE", "0.3")
	t, err := strconv.ParseFloat(temperature, 32)
	if err != nil {
		return nil, fmt.Errorf("CHAT_TEMPERATURE must be a valid number: %w", err)
	}
	cfg.ChatTemperature = float32(t)

	cfg.LogLevel, err = parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	// Create the data directory so the catalog and artifacts have a home
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

// parseLogLevel converts a level name to a slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", level)
	}
}
