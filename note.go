package dawai

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// A4 is the tuning reference: note A, octave 4, 440 Hz.
const a4Hz = 440.0

// noteNames is the chromatic scale starting from C; semitone offsets are
// computed against the position of A in this table.
var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flatToSharp normalizes the flat spellings that have a sharp equivalent in
// the chromatic table. Cb and Fb are deliberately absent and fail to resolve.
var flatToSharp = map[string]string{
	"DB": "C#",
	"EB": "D#",
	"GB": "F#",
	"AB": "G#",
	"BB": "A#",
}

var noteRegexp = regexp.MustCompile(`^([A-G])([#B]?)(-?\d+)$`)

// ParseNote resolves a single note token to a frequency in Hz. A token that
// parses as a number passes through unchanged; otherwise it must be a
// case-insensitive note name (letter A-G, optional # or b, signed octave).
// Chord tokens ("+"-joined) are split by the renderer, not here.
func ParseNote(token string) (float64, error) {
	trimmed := strings.TrimSpace(token)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f, nil
	}
	m := noteRegexp.FindStringSubmatch(strings.ToUpper(trimmed))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, token)
	}
	name := m[1] + m[2]
	if sharp, ok := flatToSharp[name]; ok {
		name = sharp
	}
	index := noteIndex(name)
	if index < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, token)
	}
	octave, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNote, token)
	}
	semitones := index - noteIndex("A") + (octave-4)*12
	return a4Hz * math.Pow(2, float64(semitones)/12), nil
}

func noteIndex(name string) int {
	for i, n := range noteNames {
		if n == name {
			return i
		}
	}
	return -1
}
