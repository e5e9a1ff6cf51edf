package config

import (
	"log"
	"os"
	"strings"
)

// StoreType identifies which relational backend holds the queryable tables.
type StoreType string

const (
	SQLiteStore   StoreType = "sqlite"
	PostgresStore StoreType = "postgres"
)

// StoreConfig carries everything needed to open the query store.
type StoreConfig struct {
	Type             StoreType
	Path             string // sqlite database file
	ConnectionString string // postgres DSN
}

// Backend identifies a model gateway backend.
type Backend string

const (
	BackendGroq   Backend = "groq"
	BackendOllama Backend = "ollama"
	BackendGemini Backend = "gemini"
)

// GatewayConfig carries model gateway settings. The backend that actually
// connected is reported by the gateway itself, not by ambient state.
type GatewayConfig struct {
	Backend      Backend
	GroqAPIKey   string
	GeminiAPIKey string
	OllamaURL    string
	Model        string
}

// GetStoreConfig returns the query store configuration from environment variables.
func GetStoreConfig() StoreConfig {
	storeType := os.Getenv("SAMARTH_STORE_TYPE")
	if storeType == "" {
		storeType = "sqlite" // Default to the local SQLite database
	}

	cfg := StoreConfig{}

	switch strings.ToLower(storeType) {
	case "postgres", "postgresql", "db":
		cfg.Type = PostgresStore
		cfg.ConnectionString = getConnectionString()
	default:
		cfg.Type = SQLiteStore
		cfg.Path = getDBPath()
	}

	return cfg
}

// GetGatewayConfig returns the model gateway configuration from environment variables.
func GetGatewayConfig() GatewayConfig {
	return GatewayConfig{
		Backend:      Backend(strings.ToLower(os.Getenv("SAMARTH_MODEL_BACKEND"))),
		GroqAPIKey:   os.Getenv("GROQ_API_KEY"),
		GeminiAPIKey: getGeminiAPIKey(),
		OllamaURL:    getOllamaURL(),
		Model:        os.Getenv("SAMARTH_MODEL"),
	}
}

func getDBPath() string {
	path := os.Getenv("SAMARTH_DB_PATH")
	if path == "" {
		return "samarth.db" // Default path
	}
	return path
}

func getConnectionString() string {
	connStr := os.Getenv("DB_CONN_STRING")
	if connStr == "" {
		// Default connection string for local development
		return "postgres://localhost:5432/postgres?sslmode=disable"
	}
	return connStr
}

// getGeminiAPIKey looks for GEMINI_API_KEY first, then falls back to GOOGLE_API_KEY.
func getGeminiAPIKey() string {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		return apiKey
	}
	if apiKey := os.Getenv("GOOGLE_API_KEY"); apiKey != "" {
		log.Println("Using GOOGLE_API_KEY for Gemini API (consider setting GEMINI_API_KEY)")
		return apiKey
	}
	return ""
}

func getOllamaURL() string {
	url := os.Getenv("OLLAMA_URL")
	if url == "" {
		return "http://localhost:11434/v1"
	}
	return url
}
