// Package editor turns free-text instructions into song edits by asking a
// text-generation service for a modified song descriptor and deep-merging
// the (possibly partial) reply onto the original.
package editor

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	dawai "github.com/jklim1015/Daw-AI"
)

const systemPrompt = "You are a helpful music assistant."

// structureExplanation teaches the model the descriptor schema and the
// editing rules. The model may omit top-level keys it did not touch; the
// merge below restores them.
const structureExplanation = `
- "samples": a dictionary mapping sample names to file paths or metadata.
- "SynthConfigs": a list of synth settings, each with keys like "id", "sample_rate", "bpm", "volume", "waveform", "attack", "decay", "sustain", "release".
- "Tracks": a list of tracks. Each track has:
    - "name": the track name
    - "cfg_id": the id of the SynthConfig it uses (links to a SynthConfig id)
    - "events": a list of [note, start, duration] triples.
        - "note": the note or sample name (e.g., "C4" for Track or "kick" for WavTrack)
        - "start": the time (in beats) when the note or sample begins. For example, a start of 0 means the note starts at the very beginning, 1.5 means it starts halfway through the second beat, etc.
        - "duration": how many beats the note or sample lasts. Notes can overlap if their start and duration overlap.
    - "gain": the track's volume multiplier
    - "type": either "Track" (for synth/melody/chords) or "WavTrack" (for sample-based tracks; uses the corresponding sample by name)

IMPORTANT: You are allowed to modify the "events" and "gain" fields of tracks, the parameters inside "SynthConfigs", and you may ADD new tracks if needed.
Do NOT remove tracks, samples, or change other fields.
Return ONLY the modified JSON. Always preserve all top-level fields in the JSON, including "samples", even if you do not modify them.
`

var codeFenceRe = regexp.MustCompile("(?m)^```json|```$")

// Editor submits descriptor edits to a Provider and loads the merged result.
type Editor struct {
	provider Provider
	loader   dawai.SampleLoader
}

func New(provider Provider, loader dawai.SampleLoader) *Editor {
	return &Editor{provider: provider, loader: loader}
}

// Edit sends the song descriptor and the instruction to the provider,
// merges the reply onto the original descriptor and loads the merged song.
// The reply may omit top-level keys; every original key survives. A reply
// that cannot be parsed or does not load as a valid song is an error — no
// placeholder song is ever returned.
func (e *Editor) Edit(ctx context.Context, descriptor *dawai.SongDescriptor, instruction string) (*dawai.Song, error) {
	original, err := descriptor.Map()
	if err != nil {
		return nil, fmt.Errorf("could not convert descriptor: %v", err)
	}
	songJSON, err := json.MarshalIndent(original, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("could not marshal descriptor: %v", err)
	}
	prompt := structureExplanation +
		"\nHere is my song in JSON format:\n" + string(songJSON) +
		fmt.Sprintf("\nInstructions: %s\nPlease return ONLY the modified JSON.", instruction)
	content, err := e.provider.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	stripped := strings.TrimSpace(codeFenceRe.ReplaceAllString(content, ""))
	var edited map[string]any
	if err := json.Unmarshal([]byte(stripped), &edited); err != nil {
		return nil, fmt.Errorf("could not parse the edit response as JSON: %v", err)
	}
	merged := edited
	if !hasAllKeys(edited, original) {
		merged = dawai.MergeDescriptors(original, edited)
	}
	mergedDesc, err := dawai.DescriptorFromMap(merged)
	if err != nil {
		return nil, err
	}
	song, err := dawai.LoadSong(mergedDesc, e.loader)
	if err != nil {
		return nil, fmt.Errorf("edited song does not load: %w", err)
	}
	return song, nil
}

func hasAllKeys(m, reference map[string]any) bool {
	for k := range reference {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
