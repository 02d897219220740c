package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Pipeline PipelineConfig
	Session  SessionConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	DocumentDir        string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	EmbeddingProvider string // "openai" or "ollama"
	LLMProvider       string // "openai" or "ollama"
	OpenAIKeyName     string // secret name resolved through the secret provider
	EmbeddingModel    string
	CompletionModel   string
	OllamaBaseURL     string
	OllamaModel       string
	VectorDimension   int
}

type PipelineConfig struct {
	ChunkSize           int
	ChunkOverlap        int
	BatchSize           int
	TopK                int
	ChunkTopic          string
	DeadLetterTopic     string
	MaxReceiveCount     int
	VisibilityTimeout   time.Duration
	DeadLetterRetention time.Duration
}

type SessionConfig struct {
	Backend   string // "redis" or "memory"
	Retention time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			DocumentDir:        getEnv("DOCUMENT_DIR", "./documents"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			OpenAIKeyName:     getEnv("OPENAI_API_KEY_NAME", "OPENAI_API_KEY"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			CompletionModel:   getEnv("COMPLETION_MODEL", "gpt-4"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			VectorDimension:   getEnvAsInt("VECTOR_DIMENSION", 1536),
		},
		Pipeline: PipelineConfig{
			ChunkSize:           getEnvAsInt("CHUNK_SIZE", 1000),
			ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 200),
			BatchSize:           getEnvAsInt("DISPATCH_BATCH_SIZE", 10),
			TopK:                getEnvAsInt("QUERY_TOP_K", 5),
			ChunkTopic:          getEnv("CHUNK_TOPIC_NAME", "PROCESS_DOCUMENT_CHUNK"),
			DeadLetterTopic:     getEnv("CHUNK_DLQ_TOPIC_NAME", "PROCESS_DOCUMENT_CHUNK_DLQ"),
			MaxReceiveCount:     getEnvAsInt("CHUNK_MAX_RECEIVE_COUNT", 3),
			VisibilityTimeout:   getEnvAsDuration("CHUNK_VISIBILITY_TIMEOUT", 5*time.Minute),
			DeadLetterRetention: getEnvAsDuration("CHUNK_DLQ_RETENTION", 14*24*time.Hour),
		},
		Session: SessionConfig{
			Backend:   getEnv("SESSION_BACKEND", "redis"),
			Retention: getEnvAsDuration("SESSION_RETENTION", 24*time.Hour),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
