package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	LLM   LLMConfig
	Store StoreConfig
	Eval  EvalConfig
}

// LLMConfig holds model-call configuration shared by every agent.
type LLMConfig struct {
	Provider       string // "openai" or "anthropic"
	Model          string
	APIKey         string
	Temperature    float32
	MaxTokens      int
	Timeout        time.Duration
	MaxConcurrency int64
}

// StoreConfig holds prediction/score persistence configuration.
// DSN selects Postgres when set; otherwise DBFile names a local sqlite file.
type StoreConfig struct {
	DSN    string
	DBFile string
}

// EvalConfig holds answer-judging configuration.
type EvalConfig struct {
	JudgeModel   string
	NumTolerance float64 // relative error accepted by the numeric check
	LogDir       string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:       getEnv("LLM_PROVIDER", "openai"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o"),
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Temperature:    getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			MaxTokens:      getEnvAsInt("OPENAI_MAX_TOKENS", 1024),
			Timeout:        getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
			MaxConcurrency: int64(getEnvAsInt("LLM_MAX_CONCURRENCY", 4)),
		},
		Store: StoreConfig{
			DSN:    getEnv("DB_URL", ""),
			DBFile: getEnv("DB_FILE", "./predictions.db"),
		},
		Eval: EvalConfig{
			JudgeModel:   getEnv("JUDGE_MODEL", getEnv("OPENAI_MODEL", "gpt-4o")),
			NumTolerance: getEnvAsFloat64("EVAL_NUM_TOLERANCE", 0.01),
			LogDir:       getEnv("EVAL_LOG_DIR", "./eval_logs"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. A missing API credential is a
// startup failure, not a per-question failure.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Provider != "openai" && c.LLM.Provider != "anthropic" {
		return NewAppError("CONFIG_ERROR", "LLM_PROVIDER must be openai or anthropic", ErrInvalidInput)
	}
	if c.Eval.NumTolerance <= 0 {
		return NewAppError("CONFIG_ERROR", "EVAL_NUM_TOLERANCE must be positive", ErrInvalidInput)
	}
	return nil
}
