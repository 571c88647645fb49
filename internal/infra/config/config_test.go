package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "9020", cfg.Server.Port)
	assert.Equal(t, "gemini", cfg.Backend)
	assert.Equal(t, "gemini-1.5-flash", cfg.Gemini.Model)
	assert.Equal(t, 30, cfg.Gemini.Timeout)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.URL)
	assert.Equal(t, "gemma3:4b", cfg.Ollama.Model)
	assert.Equal(t, "https://hackathon.api.qloo.com", cfg.Qloo.BaseURL)
	assert.Equal(t, 3, cfg.Qloo.SearchTake)
	assert.Equal(t, 8, cfg.Pipeline.DefaultTake)
	assert.Equal(t, 50, cfg.Pipeline.MaxMessages)
	assert.Equal(t, 32*1024, cfg.Pipeline.MaxTranscriptBytes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("TEXT_BACKEND", "ollama")
	t.Setenv("GEMINI_RPS", "0.5")
	t.Setenv("QLOO_TIMEOUT", "25")
	t.Setenv("PIPELINE_MAX_TRANSCRIPT_KB", "64")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.Backend)
	assert.InDelta(t, 0.5, cfg.Gemini.RPS, 1e-9)
	assert.Equal(t, 25, cfg.Qloo.Timeout)
	assert.Equal(t, 64*1024, cfg.Pipeline.MaxTranscriptBytes)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("GEMINI_TIMEOUT", "not-a-number")
	t.Setenv("GEMINI_RPS", "fast")

	cfg := Load()
	assert.Equal(t, 30, cfg.Gemini.Timeout)
	assert.Zero(t, cfg.Gemini.RPS)
}

func TestGetSecret_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qloo_key")
	require.NoError(t, os.WriteFile(path, []byte("file-secret\n"), 0o600))
	t.Setenv("QLOO_API_KEY_FILE", path)

	cfg := Load()
	assert.Equal(t, "file-secret", cfg.Qloo.APIKey)
}

func TestGetSecret_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qloo_key")
	require.NoError(t, os.WriteFile(path, []byte("file-secret"), 0o600))
	t.Setenv("QLOO_API_KEY_FILE", path)
	t.Setenv("QLOO_API_KEY", "env-secret")

	cfg := Load()
	assert.Equal(t, "env-secret", cfg.Qloo.APIKey)
}
