package dawai_test

import (
	"encoding/json"
	"testing"

	dawai "github.com/jklim1015/Daw-AI"
)

func toMap(t *testing.T, src string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("bad test fixture: %v", err)
	}
	return m
}

func TestMergeDescriptorsKeepsMissingTopLevelKeys(t *testing.T) {
	original := toMap(t, `{"samples": {"kick": "kick.wav"}, "SynthConfigs": [{"id": "c1"}], "Tracks": []}`)
	edited := toMap(t, `{"Tracks": []}`)
	merged := dawai.MergeDescriptors(original, edited)
	if _, ok := merged["samples"]; !ok {
		t.Error("samples key should survive a partial edit")
	}
	if _, ok := merged["SynthConfigs"]; !ok {
		t.Error("SynthConfigs key should survive a partial edit")
	}
}

func TestMergeDescriptorsTracksMergeByName(t *testing.T) {
	original := toMap(t, `{"Tracks": [
		{"name": "melody", "cfg_id": "c1", "events": [["C4", 0, 1]], "gain": 1, "type": "Track"},
		{"name": "bass", "cfg_id": "c1", "events": [["C2", 0, 4]], "gain": 1, "type": "Track"}
	]}`)
	edited := toMap(t, `{"Tracks": [
		{"name": "melody", "events": [["E4", 0, 1], ["G4", 1, 1]]},
		{"name": "drums", "cfg_id": "c1", "events": [], "gain": 0.8, "type": "Track"}
	]}`)
	merged := dawai.MergeDescriptors(original, edited)
	tracks := merged["Tracks"].([]any)
	if len(tracks) != 3 {
		t.Fatalf("expected 3 tracks after the merge, got %v", len(tracks))
	}
	melody := tracks[0].(map[string]any)
	if melody["name"] != "melody" {
		t.Fatalf("merged tracks should keep the original order, got %v first", melody["name"])
	}
	if events := melody["events"].([]any); len(events) != 2 {
		t.Errorf("edited events should replace the originals, got %v", events)
	}
	if melody["cfg_id"] != "c1" || melody["gain"] != 1.0 {
		t.Errorf("fields absent from the edit should be kept: %+v", melody)
	}
	if bass := tracks[1].(map[string]any); bass["name"] != "bass" {
		t.Errorf("untouched tracks should be preserved, got %v", bass["name"])
	}
	if drums := tracks[2].(map[string]any); drums["name"] != "drums" {
		t.Errorf("new tracks should be appended, got %v", drums["name"])
	}
}

func TestMergeDescriptorsNestedMaps(t *testing.T) {
	original := toMap(t, `{"samples": {"kick": "kick.wav", "snare": "snare.wav"}}`)
	edited := toMap(t, `{"samples": {"snare": "snare2.wav", "hat": "hat.wav"}}`)
	merged := dawai.MergeDescriptors(original, edited)
	samples := merged["samples"].(map[string]any)
	if samples["kick"] != "kick.wav" {
		t.Errorf("unedited entries should be kept, got %v", samples["kick"])
	}
	if samples["snare"] != "snare2.wav" {
		t.Errorf("edited entries should win, got %v", samples["snare"])
	}
	if samples["hat"] != "hat.wav" {
		t.Errorf("new entries should be added, got %v", samples["hat"])
	}
}

func TestMergeDescriptorsNonTrackListsReplace(t *testing.T) {
	original := toMap(t, `{"SynthConfigs": [{"id": "c1"}, {"id": "c2"}]}`)
	edited := toMap(t, `{"SynthConfigs": [{"id": "c3"}]}`)
	merged := dawai.MergeDescriptors(original, edited)
	configs := merged["SynthConfigs"].([]any)
	if len(configs) != 1 || configs[0].(map[string]any)["id"] != "c3" {
		t.Errorf("non-track lists should replace wholesale, got %v", configs)
	}
}

func TestMergeDescriptorsDoesNotMutateOriginal(t *testing.T) {
	original := toMap(t, `{"samples": {"kick": "kick.wav"}}`)
	edited := toMap(t, `{"samples": {"kick": "other.wav"}}`)
	dawai.MergeDescriptors(original, edited)
	if original["samples"].(map[string]any)["kick"] != "kick.wav" {
		t.Error("the original map should be left untouched")
	}
}
