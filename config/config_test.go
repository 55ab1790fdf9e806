package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

var configEnvKeys = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "GROQ_API_KEY", "LLM_PROVIDER",
	"LLM_MODEL", "LLM_MAX_TOKENS", "LLM_TEMPERATURE", "LLM_TIMEOUT",
	"CUSTOMERS_FILE", "TRANSACTIONS_FILE", "MAX_REQUESTS_PER_MINUTE",
	"RATE_LIMIT_WINDOW",
}

func withCleanEnv(t *testing.T) {
	t.Helper()
	saved := make(map[string]string, len(configEnvKeys))
	for _, k := range configEnvKeys {
		saved[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range saved {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoadEnvDefaults(t *testing.T) {
	withCleanEnv(t)

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 8000 {
		t.Errorf("port = %d, want 8000", cfg.Port)
	}
	if cfg.LLMProvider != "groq" || cfg.LLMModel != "llama-3.3-70b-versatile" {
		t.Errorf("llm = %s/%s", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.LLMTemperature != 0.1 || cfg.LLMMaxTokens != 50 {
		t.Errorf("llm opts = %v/%d", cfg.LLMTemperature, cfg.LLMMaxTokens)
	}
	if cfg.RateLimitMaxCalls != 5 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit = %d/%v", cfg.RateLimitMaxCalls, cfg.RateLimitWindow)
	}
	if cfg.CustomersFile != "data/customers.json" {
		t.Errorf("customers file = %q", cfg.CustomersFile)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	withCleanEnv(t)
	os.Setenv("PORT", "9090")
	os.Setenv("LLM_TIMEOUT", "5s")
	os.Setenv("MAX_REQUESTS_PER_MINUTE", "10")

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.LLMTimeout)
	}
	if cfg.RateLimitMaxCalls != 10 {
		t.Errorf("max calls = %d", cfg.RateLimitMaxCalls)
	}
}

func TestLoadFileAndApply(t *testing.T) {
	withCleanEnv(t)
	t.Setenv("TEST_DATA_DIR", "/srv/data")

	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	yaml := `
server:
  port: 9000
llm:
  provider: gemini
  model: gemini-1.5-flash
data:
  customers_file: ${TEST_DATA_DIR}/customers.json
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg, _ := LoadEnv()
	cfg.Apply(fc)

	if cfg.Port != 9000 {
		t.Errorf("port = %d, want 9000 (file override)", cfg.Port)
	}
	if cfg.LLMProvider != "gemini" {
		t.Errorf("provider = %q", cfg.LLMProvider)
	}
	if cfg.CustomersFile != "/srv/data/customers.json" {
		t.Errorf("customers file = %q (env not expanded)", cfg.CustomersFile)
	}
	// Unset file values keep env defaults.
	if cfg.LLMMaxTokens != 50 {
		t.Errorf("max tokens = %d, want env default", cfg.LLMMaxTokens)
	}
}

func TestValidateRequiresGroqKey(t *testing.T) {
	withCleanEnv(t)

	cfg, _ := LoadEnv()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error: groq provider without key")
	}

	cfg.GroqAPIKey = "gsk-test"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	cfg.GroqAPIKey = ""
	cfg.LLMProvider = "anthropic"
	if err := cfg.Validate(); err != nil {
		t.Errorf("non-groq provider must not require GROQ_API_KEY: %v", err)
	}
}
