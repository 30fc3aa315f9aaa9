package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("OPENAI_API_KEY", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "5050", cfg.Port)
	assert.Empty(t, cfg.OpenAIAPIKey)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("SENTRY_DSN", "https://example@sentry.io/1")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, "https://example@sentry.io/1", cfg.SentryDSN)
}
