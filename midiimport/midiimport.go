// Package midiimport converts Standard MIDI Files into songs: note on/off
// pairs become [note, start, duration] events in beats, and the first tempo
// event sets the shared config's BPM. It is a score input path; live MIDI
// devices are out of scope.
package midiimport

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	dawai "github.com/jklim1015/Daw-AI"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName spells a MIDI key number so the resolver maps it back to the same
// pitch (key 69 is A4 at 440 Hz).
func noteName(key uint8) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], int(key)/12-1)
}

// ImportFile reads a Standard MIDI File and builds a song with one synth
// track per non-empty SMF track. All tracks share one config.
func ImportFile(path string) (*dawai.Song, error) {
	data, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read midi file %v: %v", path, err)
	}
	return Import(data)
}

// Import converts parsed SMF data into a song.
func Import(data *smf.SMF) (*dawai.Song, error) {
	ticks, ok := data.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("only metric (ticks per quarter note) midi files are supported, got %v", data.TimeFormat)
	}
	res := float64(ticks.Resolution())
	cfg := dawai.NewSynthConfig()
	song := dawai.NewSong()
	names := make(map[string]bool)
	tempoSet := false
	for i, tr := range data.Tracks {
		var (
			abs    uint32
			name   string
			events []dawai.Event
			onsets = make(map[uint8]uint32)
		)
		for _, ev := range tr {
			abs += ev.Delta
			var (
				channel, key, velocity uint8
				bpm                    float64
				trackName              string
			)
			switch {
			case ev.Message.GetNoteStart(&channel, &key, &velocity):
				onsets[key] = abs
			case ev.Message.GetNoteEnd(&channel, &key):
				start, ok := onsets[key]
				if !ok {
					continue
				}
				delete(onsets, key)
				events = append(events, dawai.Event{
					Note:     noteName(key),
					Start:    float64(start) / res,
					Duration: float64(abs-start) / res,
				})
			case ev.Message.GetMetaTempo(&bpm):
				if !tempoSet && bpm > 0 {
					cfg.BPM = bpm
					tempoSet = true
				}
			case ev.Message.GetMetaTrackName(&trackName):
				name = trackName
			}
		}
		// Notes still sounding at the end of the track close there.
		for key, start := range onsets {
			events = append(events, dawai.Event{
				Note:     noteName(key),
				Start:    float64(start) / res,
				Duration: float64(abs-start) / res,
			})
		}
		if len(events) == 0 {
			continue
		}
		if name == "" {
			name = fmt.Sprintf("track%d", i+1)
		}
		for base, n := name, 2; names[name]; n++ {
			name = fmt.Sprintf("%s (%d)", base, n)
		}
		names[name] = true
		track := dawai.NewTrack(name, cfg)
		track.Events = events
		song.AddTrack(track)
	}
	return song, nil
}
