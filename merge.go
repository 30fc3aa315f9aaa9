package dawai

// MergeDescriptors deep-merges an edited descriptor map onto the original.
// The edit collaborator is allowed to return a partial descriptor, so every
// top-level key of the original survives the merge. Nested maps merge
// recursively; the "Tracks" list merges by track name (matching names merge
// field-by-field, new names append in edit order); any other list replaces
// the original wholesale.
func MergeDescriptors(original, edited map[string]any) map[string]any {
	merged := make(map[string]any, len(original))
	for k, v := range original {
		merged[k] = v
	}
	for k, v := range edited {
		if k == "Tracks" {
			if editedTracks, ok := v.([]any); ok {
				if originalTracks, ok := merged[k].([]any); ok {
					merged[k] = mergeTrackLists(originalTracks, editedTracks)
					continue
				}
			}
		}
		if originalMap, ok := merged[k].(map[string]any); ok {
			if editedMap, ok := v.(map[string]any); ok {
				merged[k] = MergeDescriptors(originalMap, editedMap)
				continue
			}
		}
		merged[k] = v
	}
	return merged
}

// mergeTrackLists matches tracks on their "name" field: original tracks keep
// their position and are merged with their edited counterpart, edited tracks
// with unseen names are appended.
func mergeTrackLists(original, edited []any) []any {
	merged := make([]any, len(original))
	index := make(map[string]int, len(original))
	for i, t := range original {
		merged[i] = t
		if name, ok := trackName(t); ok {
			index[name] = i
		}
	}
	for _, t := range edited {
		editedMap, ok := t.(map[string]any)
		if !ok {
			merged = append(merged, t)
			continue
		}
		name, ok := trackName(t)
		if !ok {
			merged = append(merged, t)
			continue
		}
		if i, seen := index[name]; seen {
			if originalMap, ok := merged[i].(map[string]any); ok {
				merged[i] = MergeDescriptors(originalMap, editedMap)
				continue
			}
		}
		index[name] = len(merged)
		merged = append(merged, editedMap)
	}
	return merged
}

func trackName(t any) (string, bool) {
	m, ok := t.(map[string]any)
	if !ok {
		return "", false
	}
	name, ok := m["name"].(string)
	return name, ok
}
