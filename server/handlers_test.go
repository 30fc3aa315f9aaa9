package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dawai "github.com/jklim1015/Daw-AI"
	"github.com/jklim1015/Daw-AI/editor"
	"github.com/jklim1015/Daw-AI/history"
)

type fakeProvider struct {
	reply string
	err   error
}

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f.reply, f.err
}

func testLoader(name, path string) (dawai.AudioBuffer, error) {
	return dawai.AudioBuffer{0.5, -0.5}, nil
}

func newTestRouter(provider editor.Provider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ed := editor.New(provider, testLoader)
	h := NewSongHandler(history.NewLog(), ed, testLoader)
	return NewRouter(&Config{Environment: "test"}, h)
}

func songBody(t *testing.T) []byte {
	t.Helper()
	cfg := dawai.NewSynthConfig()
	song := dawai.NewSong().AddTrack(dawai.NewTrack("melody", cfg).Add("C4", 0, 1))
	data, err := json.Marshal(dawai.SaveSong(song))
	require.NoError(t, err)
	return data
}

func do(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	w := do(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, w.Body.String())
}

func TestCreateSong(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	w := do(router, http.MethodPost, "/create_song", songBody(t))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestCreateSongRejectsInvalidDescriptor(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	w := do(router, http.MethodPost, "/create_song", []byte(`{"samples": {}, "SynthConfigs": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaySongReturnsWav(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/create_song", songBody(t)).Code)

	w := do(router, http.MethodPost, "/play_song", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "audio/wav", w.Header().Get("Content-Type"))
	data := w.Body.Bytes()
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
}

func TestPlaySongWithoutSong(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	w := do(router, http.MethodPost, "/play_song", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No song loaded")
}

func TestSaveSongWritesDescriptor(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/create_song", songBody(t)).Code)

	path := filepath.Join(t.TempDir(), "song.json")
	body, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)
	w := do(router, http.MethodPost, "/save_song", body)
	require.Equal(t, http.StatusOK, w.Code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	desc, err := dawai.ParseSongDescriptor(data)
	require.NoError(t, err)
	require.Len(t, desc.Tracks, 1)
	assert.Equal(t, "melody", desc.Tracks[0].Name)
}

func TestSaveSongRequiresPath(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/create_song", songBody(t)).Code)
	w := do(router, http.MethodPost, "/save_song", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditAndRevertFlow(t *testing.T) {
	provider := &fakeProvider{reply: `{
		"Tracks": [
			{"name": "melody", "events": [["E4", 0, 1]]}
		]
	}`}
	router := newTestRouter(provider)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/create_song", songBody(t)).Code)

	body, err := json.Marshal(map[string]string{"prompt": "transpose up a third"})
	require.NoError(t, err)
	w := do(router, http.MethodPost, "/llm_edit_song", body)
	require.Equal(t, http.StatusOK, w.Code)
	var edited dawai.SongDescriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &edited))
	require.Len(t, edited.Tracks, 1)
	assert.Equal(t, "E4", edited.Tracks[0].Events[0].Note)

	w = do(router, http.MethodGet, "/revert_song", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reverted dawai.SongDescriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reverted))
	require.Len(t, reverted.Tracks, 1)
	assert.Equal(t, "C4", reverted.Tracks[0].Events[0].Note)
}

func TestEditSongProviderFailure(t *testing.T) {
	provider := &fakeProvider{reply: "this is not JSON"}
	router := newTestRouter(provider)
	require.Equal(t, http.StatusOK, do(router, http.MethodPost, "/create_song", songBody(t)).Code)

	body, _ := json.Marshal(map[string]string{"prompt": "anything"})
	w := do(router, http.MethodPost, "/llm_edit_song", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRevertWithoutSong(t *testing.T) {
	router := newTestRouter(&fakeProvider{})
	w := do(router, http.MethodGet, "/revert_song", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
