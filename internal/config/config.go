// Package config loads tailorflow configuration from the environment
// and an optional YAML tuning file.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// LLM provider identifiers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// Config holds all infrastructure configuration values.
type Config struct {
	// SurrealDB connection (retrieval indices)
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// LLM / embedding providers
	LLMProvider     string
	LLMModel        string
	EmbedProvider   string
	EmbedModel      string
	EmbedDimension  int
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	BedrockRegion   string

	// Pipeline
	Workers        int
	QueueCapacity  int
	TicketDeadline time.Duration
	ModelTimeout   time.Duration
	IndexTimeout   time.Duration

	// Logging
	LogFile  string
	LogLevel slog.Level

	// Tuning file (scoring weights, thresholds, retry counts)
	TuningFile string
}

// Load reads configuration from environment variables.
func Load() Config {
	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "tailorflow"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "indices"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LLMProvider:     getEnv("TAILORFLOW_LLM_PROVIDER", ProviderOllama),
		LLMModel:        getEnv("TAILORFLOW_LLM_MODEL", "llama3.1"),
		EmbedProvider:   getEnv("TAILORFLOW_EMBED_PROVIDER", ProviderOllama),
		EmbedModel:      getEnv("TAILORFLOW_EMBED_MODEL", "all-minilm:l6-v2"),
		EmbedDimension:  getEnvInt("TAILORFLOW_EMBED_DIMENSION", 384),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		BedrockRegion:   getEnv("AWS_REGION", "us-east-1"),

		Workers:        getEnvInt("TAILORFLOW_WORKERS", 4),
		QueueCapacity:  getEnvInt("TAILORFLOW_QUEUE_CAPACITY", 64),
		TicketDeadline: getEnvDuration("TAILORFLOW_TICKET_DEADLINE", 5*time.Minute),
		ModelTimeout:   getEnvDuration("TAILORFLOW_MODEL_TIMEOUT", 60*time.Second),
		IndexTimeout:   getEnvDuration("TAILORFLOW_INDEX_TIMEOUT", 5*time.Second),

		LogFile:  getEnv("TAILORFLOW_LOG_FILE", "/tmp/tailorflow.log"),
		LogLevel: parseLogLevel(getEnv("TAILORFLOW_LOG_LEVEL", "INFO")),

		TuningFile: getEnv("TAILORFLOW_TUNING_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
