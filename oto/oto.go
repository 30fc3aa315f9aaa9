// Package oto implements the dawai audio interfaces on top of the
// ebitengine/oto/v3 playback library: mono little-endian float32 streams fed
// to the platform audio device.
package oto

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/ebitengine/oto/v3"
	dawai "github.com/jklim1015/Daw-AI"
)

type Context struct {
	ctx        *oto.Context
	sampleRate int
}

type output struct {
	player *oto.Player
	pw     *io.PipeWriter
}

// playerPollInterval is how often we check whether a player has drained.
const playerPollInterval = 10 * time.Millisecond

// NewContext initializes the audio device for mono float32 playback at the
// given sample rate. Initialization is asynchronous in oto; this blocks
// until the device is ready.
func NewContext(sampleRate int) (*Context, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &Context{ctx: ctx, sampleRate: sampleRate}, nil
}

// Output returns a sink streaming to the device. Writes block until the
// device consumes them.
func (c *Context) Output() dawai.AudioSink {
	pr, pw := io.Pipe()
	player := c.ctx.NewPlayer(pr)
	player.Play()
	return &output{player: player, pw: pw}
}

// PlayBuffer plays a whole buffer and blocks until playback finishes.
func (c *Context) PlayBuffer(buffer dawai.AudioBuffer) error {
	player := c.ctx.NewPlayer(bytes.NewReader(FloatBufferToLE(buffer, nil)))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(playerPollInterval)
	}
	if err := player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}

// Close releases the context. An oto v3 context cannot actually be torn
// down; it lives until the process exits, so this only suspends it.
func (c *Context) Close() error {
	if err := c.ctx.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (o *output) WriteAudio(buffer dawai.AudioBuffer) error {
	if _, err := o.pw.Write(FloatBufferToLE(buffer, nil)); err != nil {
		return fmt.Errorf("cannot write to player: %w", err)
	}
	return nil
}

// Close drains what the player has buffered and releases it.
func (o *output) Close() error {
	if err := o.pw.Close(); err != nil {
		return fmt.Errorf("cannot close player pipe: %w", err)
	}
	for o.player.IsPlaying() && o.player.BufferedSize() > 0 {
		time.Sleep(playerPollInterval)
	}
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
