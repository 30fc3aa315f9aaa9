package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	dawai "github.com/jklim1015/Daw-AI"
	"github.com/jklim1015/Daw-AI/editor"
	"github.com/jklim1015/Daw-AI/history"
)

// SongHandler serves the song operations over the shared snapshot history.
// Every successful create or edit pushes a new immutable snapshot; render
// and save always operate on the latest one.
type SongHandler struct {
	history *history.Log
	editor  *editor.Editor
	loader  dawai.SampleLoader
}

func NewSongHandler(log *history.Log, ed *editor.Editor, loader dawai.SampleLoader) *SongHandler {
	return &SongHandler{history: log, editor: ed, loader: loader}
}

// Health reports service liveness.
func (h *SongHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// CreateSong loads a song descriptor and pushes it as the current snapshot.
func (h *SongHandler) CreateSong(c *gin.Context) {
	var desc dawai.SongDescriptor
	if err := c.ShouldBindJSON(&desc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	song, err := dawai.LoadSong(&desc, h.loader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.history.Push(history.Snapshot{Song: song, Descriptor: dawai.SaveSong(song)})
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SaveSong writes the latest snapshot's descriptor to the given path.
func (h *SongHandler) SaveSong(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.history.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No song loaded"})
		return
	}
	if err := snap.Descriptor.WriteFile(req.Path); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RevertSong pops the latest snapshot and returns the previous descriptor.
func (h *SongHandler) RevertSong(c *gin.Context) {
	snap, ok := h.history.Revert()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No song loaded"})
		return
	}
	c.JSON(http.StatusOK, snap.Descriptor)
}

// PlaySong renders the latest snapshot and returns it as a WAV stream.
func (h *SongHandler) PlaySong(c *gin.Context) {
	snap, ok := h.history.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No song loaded"})
		return
	}
	wav, err := snap.Song.RenderWav(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "audio/wav", wav)
}

// EditSong submits an instruction to the edit collaborator, pushes the
// resulting song as a new snapshot and returns its descriptor.
func (h *SongHandler) EditSong(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, ok := h.history.Current()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No song loaded"})
		return
	}
	song, err := h.editor.Edit(c.Request.Context(), snap.Descriptor, req.Prompt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	desc := dawai.SaveSong(song)
	h.history.Push(history.Snapshot{Song: song, Descriptor: desc})
	c.JSON(http.StatusOK, desc)
}
