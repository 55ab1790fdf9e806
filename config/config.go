// Package config loads environment and file configuration for the banking
// agent server.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvConfig holds environment-driven settings.
type EnvConfig struct {
	// Server
	Port        int
	Environment string
	LogLevel    string

	// LLM (intent classification + voice pass-through)
	GroqAPIKey     string
	LLMProvider    string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	// Data files
	CustomersFile    string
	TransactionsFile string

	// Rate limiting for sensitive store operations
	RateLimitMaxCalls int
	RateLimitWindow   time.Duration
}

// LoadEnv loads environment variables, honoring a .env file when present.
func LoadEnv() (*EnvConfig, error) {
	_ = godotenv.Load()

	cfg := &EnvConfig{
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "INFO"),
		GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
		LLMProvider:      getEnv("LLM_PROVIDER", "groq"),
		LLMModel:         getEnv("LLM_MODEL", "llama-3.3-70b-versatile"),
		CustomersFile:    getEnv("CUSTOMERS_FILE", "data/customers.json"),
		TransactionsFile: getEnv("TRANSACTIONS_FILE", "data/transactions.json"),
	}

	cfg.Port = getEnvInt("PORT", 8000)
	cfg.LLMMaxTokens = getEnvInt("LLM_MAX_TOKENS", 50)
	cfg.LLMTemperature = getEnvFloat("LLM_TEMPERATURE", 0.1)
	cfg.RateLimitMaxCalls = getEnvInt("MAX_REQUESTS_PER_MINUTE", 5)
	cfg.RateLimitWindow = getEnvDuration("RATE_LIMIT_WINDOW", time.Minute)
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT", 12*time.Second)

	return cfg, nil
}

// FileConfig is the optional YAML application config. Values in the file
// override env defaults; ${VAR} references are expanded before parsing.
type FileConfig struct {
	Server struct {
		Port         int      `yaml:"port"`
		AllowOrigins []string `yaml:"allow_origins"`
	} `yaml:"server"`
	LLM struct {
		Provider    string  `yaml:"provider"`
		Model       string  `yaml:"model"`
		Temperature float64 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"llm"`
	Data struct {
		CustomersFile    string `yaml:"customers_file"`
		TransactionsFile string `yaml:"transactions_file"`
	} `yaml:"data"`
}

// LoadFile parses the YAML app config at path.
func LoadFile(path string) (*FileConfig, error) {
	if path == "" {
		path = "configs/app.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.Expand(string(data), os.Getenv)

	var fc FileConfig
	if err := yaml.Unmarshal([]byte(expanded), &fc); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &fc, nil
}

// Apply overlays non-zero file values onto the env config.
func (e *EnvConfig) Apply(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.Server.Port != 0 {
		e.Port = fc.Server.Port
	}
	if fc.LLM.Provider != "" {
		e.LLMProvider = fc.LLM.Provider
	}
	if fc.LLM.Model != "" {
		e.LLMModel = fc.LLM.Model
	}
	if fc.LLM.Temperature != 0 {
		e.LLMTemperature = fc.LLM.Temperature
	}
	if fc.LLM.MaxTokens != 0 {
		e.LLMMaxTokens = fc.LLM.MaxTokens
	}
	if fc.Data.CustomersFile != "" {
		e.CustomersFile = fc.Data.CustomersFile
	}
	if fc.Data.TransactionsFile != "" {
		e.TransactionsFile = fc.Data.TransactionsFile
	}
}

// Validate checks required configuration.
func (e *EnvConfig) Validate() error {
	if e.GroqAPIKey == "" && strings.EqualFold(e.LLMProvider, "groq") {
		return fmt.Errorf("GROQ_API_KEY is required")
	}
	return nil
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
		var intVal int
		if _, err := fmt.Sscanf(value, "%d", &intVal); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
