package server

import "os"

// Config holds the song service configuration, read from the environment
// (a .env file is loaded by the server binary before this runs).
type Config struct {
	Environment string

	Port string

	// OpenAIAPIKey authenticates the edit collaborator. When empty, the
	// /llm_edit_song endpoint reports an error instead of calling out.
	OpenAIAPIKey string

	// Model overrides the chat model used for edits.
	Model string

	// SentryDSN enables error tracking middleware when set.
	SentryDSN string
}

func Load() *Config {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		Port:         getEnv("PORT", "5050"),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		Model:        getEnv("OPENAI_MODEL", ""),
		SentryDSN:    getEnv("SENTRY_DSN", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
