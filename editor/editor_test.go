package editor

import (
	"context"
	"strings"
	"testing"

	dawai "github.com/jklim1015/Daw-AI"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	reply  string
	prompt string
	system string
}

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.reply, nil
}

func testDescriptor() *dawai.SongDescriptor {
	cfg := dawai.NewSynthConfig()
	song := dawai.NewSong().
		AddTrack(dawai.NewTrack("melody", cfg).Add("C4", 0, 1))
	return dawai.SaveSong(song)
}

func testLoader(name, path string) (dawai.AudioBuffer, error) {
	return dawai.AudioBuffer{0}, nil
}

func TestEditMergesPartialReply(t *testing.T) {
	// the reply only carries Tracks, fenced the way chat models tend to
	provider := &fakeProvider{reply: "```json\n" + `{
		"Tracks": [
			{"name": "melody", "events": [["E4", 0, 1], ["G4", 1, 1]]}
		]
	}` + "\n```"}
	ed := New(provider, testLoader)

	song, err := ed.Edit(context.Background(), testDescriptor(), "transpose up")
	require.NoError(t, err)

	desc := dawai.SaveSong(song)
	require.Len(t, desc.Tracks, 1)
	assert.Equal(t, "melody", desc.Tracks[0].Name)
	require.Len(t, desc.Tracks[0].Events, 2)
	assert.Equal(t, "E4", desc.Tracks[0].Events[0].Note)
	assert.Len(t, desc.Configs, 1)
	assert.NotNil(t, desc.Samples)
}

func TestEditPromptCarriesSongAndInstruction(t *testing.T) {
	provider := &fakeProvider{reply: `{"Tracks": []}`}
	ed := New(provider, testLoader)

	_, err := ed.Edit(context.Background(), testDescriptor(), "make it sadder")
	require.NoError(t, err)

	assert.Equal(t, "You are a helpful music assistant.", provider.system)
	assert.Contains(t, provider.prompt, `"melody"`)
	assert.Contains(t, provider.prompt, "make it sadder")
	assert.Contains(t, provider.prompt, "Return ONLY the modified JSON")
}

func TestEditAddsNewTrack(t *testing.T) {
	provider := &fakeProvider{reply: `{
		"Tracks": [
			{"name": "harmony", "cfg_id": "CFGID", "events": [["G4", 0, 1]], "gain": 1, "type": "Track"}
		]
	}`}
	desc := testDescriptor()
	provider.reply = strings.Replace(provider.reply, "CFGID", desc.Configs[0].ID, 1)
	ed := New(provider, testLoader)

	song, err := ed.Edit(context.Background(), desc, "add a harmony line")
	require.NoError(t, err)

	saved := dawai.SaveSong(song)
	require.Len(t, saved.Tracks, 2)
	assert.Equal(t, "melody", saved.Tracks[0].Name)
	assert.Equal(t, "harmony", saved.Tracks[1].Name)
}

func TestEditRejectsUnparseableReply(t *testing.T) {
	provider := &fakeProvider{reply: "Sure! Here's your modified song: ..."}
	ed := New(provider, testLoader)

	_, err := ed.Edit(context.Background(), testDescriptor(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not parse")
}

func TestEditRejectsInvalidSong(t *testing.T) {
	provider := &fakeProvider{reply: `{
		"Tracks": [
			{"name": "ghost", "cfg_id": "no-such-config", "events": [], "gain": 1, "type": "Track"}
		]
	}`}
	ed := New(provider, testLoader)

	_, err := ed.Edit(context.Background(), testDescriptor(), "anything")
	require.ErrorIs(t, err, dawai.ErrDanglingReference)
}
