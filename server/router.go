// Package server exposes the song operations over HTTP: load a song, save
// or revert the latest snapshot, render audio, and submit edit instructions.
// It orchestrates the synthesis core, the snapshot history and the edit
// collaborator; none of them depend back on it.
package server

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

func NewRouter(cfg *Config, h *SongHandler) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// Sentry middleware for error tracking
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	router.GET("/health", h.Health)

	router.POST("/create_song", h.CreateSong)
	router.POST("/save_song", h.SaveSong)
	router.GET("/revert_song", h.RevertSong)
	router.POST("/play_song", h.PlaySong)
	router.POST("/llm_edit_song", h.EditSong)

	return router
}
