package dawai

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type (
	// SongDescriptor is the persisted/wire form of a song. The field names
	// and the event triples are the format the persistence layer and the
	// edit collaborator exchange verbatim; both JSON and YAML spellings are
	// supported (YAML for song files on disk, JSON on the wire).
	SongDescriptor struct {
		Samples map[string]string  `json:"samples" yaml:"samples"`
		Configs []ConfigDescriptor `json:"SynthConfigs" yaml:"SynthConfigs"`
		Tracks  []TrackDescriptor  `json:"Tracks" yaml:"Tracks"`
	}

	ConfigDescriptor struct {
		ID         string   `json:"id" yaml:"id"`
		SampleRate int      `json:"sample_rate" yaml:"sample_rate"`
		BPM        float64  `json:"bpm" yaml:"bpm"`
		Volume     float64  `json:"volume" yaml:"volume"`
		Waveform   Waveform `json:"waveform" yaml:"waveform"`
		Attack     float64  `json:"attack" yaml:"attack"`
		Decay      float64  `json:"decay" yaml:"decay"`
		Sustain    float64  `json:"sustain" yaml:"sustain"`
		Release    float64  `json:"release" yaml:"release"`
	}

	TrackDescriptor struct {
		Name   string  `json:"name" yaml:"name"`
		CfgID  string  `json:"cfg_id" yaml:"cfg_id"`
		Events []Event `json:"events" yaml:"events,flow"`
		Gain   float64 `json:"gain" yaml:"gain"`
		Type   string  `json:"type" yaml:"type"`
	}
)

// Config descriptors decode on top of the constructor defaults: a descriptor
// that omits a parameter loads it the way NewSynthConfig would have set it,
// while an explicit zero stays zero.

func (c *ConfigDescriptor) UnmarshalJSON(data []byte) error {
	c.applyDefaults()
	type plain ConfigDescriptor
	return json.Unmarshal(data, (*plain)(c))
}

func (c *ConfigDescriptor) UnmarshalYAML(value *yaml.Node) error {
	c.applyDefaults()
	type plain ConfigDescriptor
	return value.Decode((*plain)(c))
}

func (c *ConfigDescriptor) applyDefaults() {
	def := NewSynthConfig()
	c.SampleRate = def.SampleRate
	c.BPM = def.BPM
	c.Volume = def.Volume
	c.Waveform = def.Waveform
	c.Attack = def.Attack
	c.Decay = def.Decay
	c.Sustain = def.Sustain
	c.Release = def.Release
}

// Type tags of the track variants on the wire.
const (
	TrackTypeSynth  = "Track"
	TrackTypeSample = "WavTrack"
)

// SampleLoader resolves a sample-track sample buffer from the sample map
// entry it is keyed under. Injecting it keeps file and network access out of
// the synthesis core; WavFileLoader is the disk-backed default.
type SampleLoader func(name, path string) (AudioBuffer, error)

// SaveSong converts a song to its descriptor. The configs actually
// referenced by at least one track are collected in order of first
// appearance and deduplicated by object identity, so a config shared by two
// tracks serializes once but two value-identical instances stay two entries.
func SaveSong(song *Song) *SongDescriptor {
	desc := &SongDescriptor{
		Samples: make(map[string]string, len(song.Samples)),
		Configs: []ConfigDescriptor{},
		Tracks:  make([]TrackDescriptor, 0, len(song.Tracks)),
	}
	for name, path := range song.Samples {
		desc.Samples[name] = path
	}
	for _, cfg := range song.Configs() {
		desc.Configs = append(desc.Configs, ConfigDescriptor{
			ID:         cfg.ID,
			SampleRate: cfg.SampleRate,
			BPM:        cfg.BPM,
			Volume:     cfg.Volume,
			Waveform:   cfg.Waveform,
			Attack:     cfg.Attack,
			Decay:      cfg.Decay,
			Sustain:    cfg.Sustain,
			Release:    cfg.Release,
		})
	}
	for _, t := range song.Tracks {
		data := t.trackData()
		td := TrackDescriptor{
			Name:   data.Name,
			CfgID:  data.Config.ID,
			Events: append([]Event{}, data.Events...),
			Gain:   data.Gain,
		}
		switch t.(type) {
		case *SampleTrack:
			td.Type = TrackTypeSample
		default:
			td.Type = TrackTypeSynth
		}
		desc.Tracks = append(desc.Tracks, td)
	}
	return desc
}

// LoadSong rebuilds a song from its descriptor. Configs are rebuilt keyed by
// their descriptor id (the in-memory instances get fresh ids; values are
// preserved), tracks are constructed by their type tag, and sample tracks
// resolve their buffer through the loader using the track's own name as the
// sample-map key. Any failure aborts the whole load; no partial song is
// returned.
func LoadSong(desc *SongDescriptor, loader SampleLoader) (*Song, error) {
	if err := desc.validate(); err != nil {
		return nil, err
	}
	configs := make(map[string]*SynthConfig, len(desc.Configs))
	for _, cd := range desc.Configs {
		cfg := NewSynthConfig()
		if cd.SampleRate != 0 {
			cfg.SampleRate = cd.SampleRate
		}
		if cd.BPM != 0 {
			cfg.BPM = cd.BPM
		}
		cfg.Volume = cd.Volume
		cfg.Waveform = cd.Waveform
		cfg.Attack = cd.Attack
		cfg.Decay = cd.Decay
		cfg.Sustain = cd.Sustain
		cfg.Release = cd.Release
		configs[cd.ID] = cfg
	}
	song := NewSong()
	for name, path := range desc.Samples {
		song.Samples[name] = path
	}
	for _, td := range desc.Tracks {
		cfg, ok := configs[td.CfgID]
		if !ok {
			return nil, fmt.Errorf("%w: track %q references config %q", ErrDanglingReference, td.Name, td.CfgID)
		}
		events := append([]Event{}, td.Events...)
		switch td.Type {
		case TrackTypeSynth:
			track := NewTrack(td.Name, cfg)
			track.Events = events
			track.Gain = td.Gain
			song.AddTrack(track)
		case TrackTypeSample:
			path, ok := desc.Samples[td.Name]
			if !ok {
				return nil, fmt.Errorf("%w: no sample named %q", ErrMissingSample, td.Name)
			}
			sample, err := loader(td.Name, path)
			if err != nil {
				return nil, fmt.Errorf("could not load sample %q: %w", td.Name, err)
			}
			track := NewSampleTrack(td.Name, cfg, sample)
			track.Events = events
			track.Gain = td.Gain
			song.AddTrack(track)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedTrackType, td.Type)
		}
	}
	if err := song.Validate(); err != nil {
		return nil, err
	}
	return song, nil
}

// ParseSongDescriptor decodes descriptor bytes, trying JSON first and YAML
// second.
func ParseSongDescriptor(data []byte) (*SongDescriptor, error) {
	var desc SongDescriptor
	if errJSON := json.Unmarshal(data, &desc); errJSON != nil {
		desc = SongDescriptor{}
		if errYaml := yaml.Unmarshal(data, &desc); errYaml != nil {
			return nil, fmt.Errorf("the song could not be parsed as .json (%v) or .yml (%v)", errJSON, errYaml)
		}
	}
	return &desc, nil
}

// WriteFile persists the descriptor as indented JSON.
func (d *SongDescriptor) WriteFile(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal song descriptor: %v", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Map converts the descriptor to a generic JSON map, the form the edit
// collaborator and MergeDescriptors operate on.
func (d *SongDescriptor) Map() (map[string]any, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// DescriptorFromMap converts a generic JSON map back into a descriptor.
func DescriptorFromMap(m map[string]any) (*SongDescriptor, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var desc SongDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return &desc, nil
}

// validate checks that every required top-level key was present.
func (d *SongDescriptor) validate() error {
	if d.Samples == nil {
		return fmt.Errorf("%w: missing %q", ErrValidation, "samples")
	}
	if d.Configs == nil {
		return fmt.Errorf("%w: missing %q", ErrValidation, "SynthConfigs")
	}
	if d.Tracks == nil {
		return fmt.Errorf("%w: missing %q", ErrValidation, "Tracks")
	}
	return nil
}
