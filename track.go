package dawai

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/viterin/vek/vek32"
	"gopkg.in/yaml.v3"
)

// AudioBuffer is a mono floating point buffer; one entry per sample at the
// owning config's sample rate.
type AudioBuffer []float32

type (
	// SynthConfig is a named bundle of synthesis parameters shared by
	// reference across tracks. It is treated as immutable once a song owns
	// it; edits produce a new config, never mutate one that has been
	// rendered. Attack, decay and release are in seconds, sustain is a
	// 0-1 level.
	SynthConfig struct {
		ID         string
		SampleRate int
		BPM        float64
		Volume     float64
		Waveform   Waveform
		Attack     float64
		Decay      float64
		Sustain    float64
		Release    float64
	}

	// Event places a note (or "+"-joined chord, or numeric frequency
	// literal, or a sample name on sample tracks) at a beat offset for a
	// number of beats.
	Event struct {
		Note     string
		Start    float64
		Duration float64
	}

	// Track is the synthesized variant: its events are resolved to
	// frequencies and run through the oscillator and envelope of its config.
	Track struct {
		Name   string
		Config *SynthConfig
		Events []Event
		Gain   float64
	}

	// SampleTrack is the sample-based variant: each event stamps the
	// preloaded sample buffer into the track. The sample is selected by the
	// track's own name as key into the song's sample map, not by any
	// per-event field.
	SampleTrack struct {
		Track
		Sample AudioBuffer
	}

	// TrackSource is the closed set of track variants. The variant is
	// resolved when a track is constructed (or loaded by the codec), never
	// by tag comparison at render time.
	TrackSource interface {
		// Render turns the event list into a time-domain buffer at the
		// config's sample rate. A track with no events returns an empty
		// buffer and no error.
		Render() (AudioBuffer, error)

		// trackData closes the variant set and gives the song and the codec
		// access to the common fields.
		trackData() *Track
	}
)

// DefaultSampleRate is used when a song has no track to derive a rate from.
const DefaultSampleRate = 44100

// NewSynthConfig returns a config with a fresh id and the default
// parameters: 44.1 kHz, 120 BPM, half volume, sine, and a short percussive
// envelope.
func NewSynthConfig() *SynthConfig {
	return &SynthConfig{
		ID:         uuid.NewString(),
		SampleRate: DefaultSampleRate,
		BPM:        120,
		Volume:     0.5,
		Waveform:   Sine,
		Attack:     0.01,
		Decay:      0.05,
		Sustain:    0.8,
		Release:    0.05,
	}
}

func NewTrack(name string, cfg *SynthConfig) *Track {
	return &Track{Name: name, Config: cfg, Gain: 1}
}

func NewSampleTrack(name string, cfg *SynthConfig, sample AudioBuffer) *SampleTrack {
	return &SampleTrack{Track: Track{Name: name, Config: cfg, Gain: 1}, Sample: sample}
}

// Add appends an event and returns the track for chaining.
func (t *Track) Add(note string, start, duration float64) *Track {
	t.Events = append(t.Events, Event{Note: note, Start: start, Duration: duration})
	return t
}

// Add appends an event and returns the sample track for chaining.
func (t *SampleTrack) Add(note string, start, duration float64) *SampleTrack {
	t.Track.Add(note, start, duration)
	return t
}

func (t *Track) trackData() *Track { return t }

// secondsPerBeat converts the config's tempo to the beat length in seconds.
func (c *SynthConfig) secondsPerBeat() float64 {
	return 60 / c.BPM
}

// beatEnd returns the number of beats up to the furthest event end.
func beatEnd(events []Event) float64 {
	var end float64
	for _, e := range events {
		if t := e.Start + e.Duration; t > end {
			end = t
		}
	}
	return end
}

// Render synthesizes the track: each event's oscillator output (a chord is
// the average of its constituent waveforms, which bounds amplitude growth
// with chord size) is shaped by the envelope, scaled by the track gain and
// accumulated into a buffer sized to the furthest event end. The buffer is
// then peak-normalized (a no-op when silent) and scaled by the config's
// master volume.
func (t *Track) Render() (AudioBuffer, error) {
	cfg := t.Config
	spb := cfg.secondsPerBeat()
	rate := float64(cfg.SampleRate)
	buf := make(AudioBuffer, int(beatEnd(t.Events)*spb*rate))
	for _, e := range t.Events {
		n := int(e.Duration * spb * rate)
		y, err := renderNote(cfg.Waveform, e.Note, timeAxis(n, cfg.SampleRate))
		if err != nil {
			return nil, fmt.Errorf("track %q: %w", t.Name, err)
		}
		env := Envelope(n, cfg.SampleRate, cfg.Attack, cfg.Decay, cfg.Sustain, cfg.Release)
		offset := int(e.Start * spb * rate)
		// offset+n can land one sample past the buffer when the two
		// truncations round differently than the combined one sizing it.
		end := offset + n
		if end > len(buf) {
			end = len(buf)
		}
		gain := float32(t.Gain)
		for i := offset; i < end; i++ {
			buf[i] += y[i-offset] * env[i-offset] * gain
		}
	}
	normalize(buf)
	scale(buf, float32(cfg.Volume))
	return buf, nil
}

// Render stamps the sample into a buffer with the same beat bookkeeping as
// the synth variant. The buffer covers the full sample placement, so a
// sample running past its event's nominal beat length is kept; copies are
// still clamped to the buffer bounds and never write past it.
func (t *SampleTrack) Render() (AudioBuffer, error) {
	if len(t.Events) == 0 {
		return AudioBuffer{}, nil
	}
	cfg := t.Config
	spb := cfg.secondsPerBeat()
	rate := float64(cfg.SampleRate)
	n := int(beatEnd(t.Events) * spb * rate)
	for _, e := range t.Events {
		if end := int(e.Start*spb*rate) + len(t.Sample); end > n {
			n = end
		}
	}
	buf := make(AudioBuffer, n)
	gain := float32(t.Gain)
	for _, e := range t.Events {
		offset := int(e.Start * spb * rate)
		end := offset + len(t.Sample)
		if end > len(buf) {
			end = len(buf)
		}
		for i := offset; i < end; i++ {
			buf[i] += t.Sample[i-offset] * gain
		}
	}
	normalize(buf)
	scale(buf, float32(cfg.Volume))
	return buf, nil
}

// renderNote generates the oscillator output for a note or chord token over
// the time axis. Chord constituents are resolved independently and averaged.
func renderNote(waveform Waveform, note string, t []float64) (AudioBuffer, error) {
	parts := strings.Split(note, "+")
	if len(parts) == 1 {
		freq, err := ParseNote(parts[0])
		if err != nil {
			return nil, err
		}
		return Oscillate(waveform, freq, t), nil
	}
	sum := make(AudioBuffer, len(t))
	for _, part := range parts {
		freq, err := ParseNote(part)
		if err != nil {
			return nil, err
		}
		if y := Oscillate(waveform, freq, t); len(sum) > 0 {
			vek32.Add_Inplace(sum, y)
		}
	}
	scale(sum, 1/float32(len(parts)))
	return sum, nil
}

// peak returns the maximum absolute sample value, 0 for an empty buffer.
func peak(buf AudioBuffer) float32 {
	if len(buf) == 0 {
		return 0
	}
	return vek32.Max(vek32.Abs(buf))
}

// normalize scales the buffer so its peak is 1; silent and empty buffers are
// left untouched.
func normalize(buf AudioBuffer) {
	if p := peak(buf); p > 0 {
		vek32.DivNumber_Inplace(buf, p)
	}
}

func scale(buf AudioBuffer, factor float32) {
	if len(buf) > 0 {
		vek32.MulNumber_Inplace(buf, factor)
	}
}

// Events marshal as [note, start, duration] triples; a note token that
// parses as a number is emitted as a number so frequency-literal events
// round-trip in their original form.

func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.asList())
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return e.fromList(raw)
}

func (e Event) MarshalYAML() (interface{}, error) {
	return e.asList(), nil
}

func (e *Event) UnmarshalYAML(value *yaml.Node) error {
	var raw []any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return e.fromList(raw)
}

func (e Event) asList() []any {
	var note any = e.Note
	if f, err := strconv.ParseFloat(e.Note, 64); err == nil {
		note = f
	}
	return []any{note, e.Start, e.Duration}
}

func (e *Event) fromList(raw []any) error {
	if len(raw) != 3 {
		return fmt.Errorf("event should be a [note, start, duration] triple, got %d elements", len(raw))
	}
	switch note := raw[0].(type) {
	case string:
		e.Note = note
	case float64:
		e.Note = strconv.FormatFloat(note, 'g', -1, 64)
	case int:
		e.Note = strconv.Itoa(note)
	default:
		return fmt.Errorf("event note should be a string or a number, got %T", raw[0])
	}
	var err error
	if e.Start, err = asFloat(raw[1]); err != nil {
		return fmt.Errorf("event start: %v", err)
	}
	if e.Duration, err = asFloat(raw[2]); err != nil {
		return fmt.Errorf("event duration: %v", err)
	}
	return nil
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
