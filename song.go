package dawai

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/viterin/vek/vek32"
)

// Song is an ordered list of tracks plus the map of sample names to their
// source paths. The set of SynthConfigs belonging to the song is whatever is
// reachable through the track references; it is not stored separately. A
// song is built once (or loaded by the codec) and then treated as an
// immutable snapshot: an edit produces a new song, and the snapshot history
// lives outside this package.
type Song struct {
	Tracks  []TrackSource
	Samples map[string]string
}

func NewSong() *Song {
	return &Song{Samples: make(map[string]string)}
}

// AddTrack appends a track and returns the song for chaining.
func (s *Song) AddTrack(t TrackSource) *Song {
	s.Tracks = append(s.Tracks, t)
	return s
}

// AddTracks appends several tracks at once.
func (s *Song) AddTracks(tracks ...TrackSource) *Song {
	s.Tracks = append(s.Tracks, tracks...)
	return s
}

// Configs returns the distinct SynthConfig instances referenced by the
// tracks, in order of first appearance. Dedup is by object identity: two
// separately constructed but value-identical configs stay distinct.
func (s *Song) Configs() []*SynthConfig {
	var configs []*SynthConfig
	seen := make(map[*SynthConfig]bool)
	for _, t := range s.Tracks {
		cfg := t.trackData().Config
		if cfg != nil && !seen[cfg] {
			seen[cfg] = true
			configs = append(configs, cfg)
		}
	}
	return configs
}

// SampleRate returns the rate the song renders at: the first track's config
// rate, or DefaultSampleRate for a song with no tracks.
func (s *Song) SampleRate() int {
	if len(s.Tracks) > 0 {
		if cfg := s.Tracks[0].trackData().Config; cfg != nil {
			return cfg.SampleRate
		}
	}
	return DefaultSampleRate
}

// Validate checks the song invariants: every track has a resolvable config,
// config ids are unique, track names are unique, every sample track's name
// is a key in the sample map, and event offsets/durations are non-negative.
func (s *Song) Validate() error {
	names := make(map[string]bool)
	ids := make(map[string]*SynthConfig)
	for _, t := range s.Tracks {
		data := t.trackData()
		if data.Config == nil {
			return fmt.Errorf("%w: track %q has no config", ErrDanglingReference, data.Name)
		}
		if data.Config.BPM <= 0 {
			return errors.New("BPM should be > 0")
		}
		if data.Config.SampleRate <= 0 {
			return errors.New("sample rate should be > 0")
		}
		if names[data.Name] {
			return fmt.Errorf("duplicate track name %q", data.Name)
		}
		names[data.Name] = true
		if prev, ok := ids[data.Config.ID]; ok && prev != data.Config {
			return fmt.Errorf("config id %q is used by two distinct configs", data.Config.ID)
		}
		ids[data.Config.ID] = data.Config
		for _, e := range data.Events {
			if e.Start < 0 || e.Duration < 0 {
				return fmt.Errorf("track %q: event start and duration should be non-negative", data.Name)
			}
		}
		if st, ok := t.(*SampleTrack); ok {
			if _, ok := s.Samples[st.Name]; !ok {
				return fmt.Errorf("%w: no sample named %q", ErrMissingSample, st.Name)
			}
		}
	}
	return nil
}

// Mixdown renders every track and sums the buffers into one, zero-padded to
// the longest. Tracks share no mutable state, so they are rendered in
// parallel. If the combined peak exceeds 1.0 the whole mix is scaled so the
// peak is exactly 1.0; a mix already within bounds is left untouched, so
// quiet mixes are never boosted.
func (s *Song) Mixdown() (AudioBuffer, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	buffers := make([]AudioBuffer, len(s.Tracks))
	errs := make([]error, len(s.Tracks))
	var wg sync.WaitGroup
	for i, t := range s.Tracks {
		wg.Add(1)
		go func(i int, t TrackSource) {
			defer wg.Done()
			buffers[i], errs[i] = t.Render()
		}(i, t)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	var n int
	for _, b := range buffers {
		if len(b) > n {
			n = len(b)
		}
	}
	mix := make(AudioBuffer, n)
	for _, b := range buffers {
		if len(b) > 0 {
			vek32.Add_Inplace(mix[:len(b)], b)
		}
	}
	if p := peak(mix); p > 1 {
		vek32.DivNumber_Inplace(mix, p)
	}
	return mix, nil
}

// RenderWav returns the mixdown encoded as a WAV byte stream, either 16-bit
// signed PCM or 32-bit float.
func (s *Song) RenderWav(pcm16 bool) ([]byte, error) {
	mix, err := s.Mixdown()
	if err != nil {
		return nil, err
	}
	return Wav(mix, s.SampleRate(), pcm16)
}

// WriteWavFile renders the mixdown into a WAV file on disk.
func (s *Song) WriteWavFile(path string, pcm16 bool) error {
	data, err := s.RenderWav(pcm16)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
