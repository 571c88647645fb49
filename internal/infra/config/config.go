package config

import (
	"os"
	"strconv"
	"strings"
)

type ServerConfig struct {
	Env  string
	Port string
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout int // seconds
	RPS     float64
	Burst   int
}

type OllamaConfig struct {
	URL     string
	Model   string
	Timeout int // seconds
}

type QlooConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    int // seconds
	SearchTake int
}

type PipelineConfig struct {
	DefaultTake        int
	MaxMessages        int
	MaxTranscriptBytes int
}

type Config struct {
	Server   ServerConfig
	Backend  string // "gemini" or "ollama"
	Gemini   GeminiConfig
	Ollama   OllamaConfig
	Qloo     QlooConfig
	Pipeline PipelineConfig
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Env:  getEnv("ENV", "development"),
			Port: getEnv("PORT", "9020"),
		},
		Backend: getEnv("TEXT_BACKEND", "gemini"),
		Gemini: GeminiConfig{
			APIKey:  getSecret("GEMINI_API_KEY", "GEMINI_API_KEY_FILE", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout: getEnvInt("GEMINI_TIMEOUT", 30),
			RPS:     getEnvFloat("GEMINI_RPS", 0),
			Burst:   getEnvInt("GEMINI_BURST", 1),
		},
		Ollama: OllamaConfig{
			URL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model:   getEnv("OLLAMA_MODEL", "gemma3:4b"),
			Timeout: getEnvInt("OLLAMA_TIMEOUT", 120),
		},
		Qloo: QlooConfig{
			APIKey:     getSecret("QLOO_API_KEY", "QLOO_API_KEY_FILE", ""),
			BaseURL:    getEnv("QLOO_BASE_URL", "https://hackathon.api.qloo.com"),
			Timeout:    getEnvInt("QLOO_TIMEOUT", 10),
			SearchTake: getEnvInt("QLOO_SEARCH_TAKE", 3),
		},
		Pipeline: PipelineConfig{
			DefaultTake:        getEnvInt("PIPELINE_DEFAULT_TAKE", 8),
			MaxMessages:        getEnvInt("PIPELINE_MAX_MESSAGES", 50),
			MaxTranscriptBytes: getEnvInt("PIPELINE_MAX_TRANSCRIPT_KB", 32) * 1024,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}
	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
