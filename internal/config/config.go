// Package config provides configuration for the Q&A session server.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Backend settings
	BackendURL     string
	ResultCount    int
	RetrievalMode  string
	BackendTimeout time.Duration

	// Batch settings
	BatchQuestions     string
	BatchFailurePolicy string // "continue" or "abort"
	BatchPolicyFile    string // optional rego module overriding BatchFailurePolicy

	// Trace store
	DatabaseURL string

	// WebSocket settings
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables, reading a local .env
// file first when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("WARN: failed to load .env: %v", err)
	}

	return &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		BackendURL:         getEnv("BACKEND_URL", "http://127.0.0.1:8000"),
		ResultCount:        getEnvInt("RESULT_COUNT", 3),
		RetrievalMode:      getEnv("RETRIEVAL_MODE", "hybrid"),
		BackendTimeout:     time.Duration(getEnvInt("BACKEND_TIMEOUT_MS", 30000)) * time.Millisecond,
		BatchQuestions:     getEnv("BATCH_QUESTIONS", "eight_questions.json"),
		BatchFailurePolicy: getEnv("BATCH_FAILURE_POLICY", "continue"),
		BatchPolicyFile:    getEnv("BATCH_POLICY_FILE", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ":memory:"),
		PingInterval:       time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:       time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		ReadTimeout:        time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxMessageSize:     int64(getEnvInt("WS_MAX_MESSAGE_SIZE", 65536)),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
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
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
