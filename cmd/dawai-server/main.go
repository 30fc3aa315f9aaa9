package main

import (
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	dawai "github.com/jklim1015/Daw-AI"
	"github.com/jklim1015/Daw-AI/editor"
	"github.com/jklim1015/Daw-AI/history"
	"github.com/jklim1015/Daw-AI/server"
)

const sentryFlushTimeout = 2 * time.Second

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := server.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     "dawai-server@" + releaseVersion,
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	provider := editor.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.Model)
	ed := editor.New(provider, dawai.WavFileLoader)
	handler := server.NewSongHandler(history.NewLog(), ed, dawai.WavFileLoader)
	router := server.NewRouter(cfg, handler)

	log.Printf("Starting song service on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}
