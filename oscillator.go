package dawai

import "math"

// Waveform selects the oscillator shape of a SynthConfig. The values are the
// wire spellings used by the song descriptor.
type Waveform string

const (
	Sine     Waveform = "sine"
	Square   Waveform = "square"
	Triangle Waveform = "triangle"
	Sawtooth Waveform = "saw"
)

// sawHarmonics is the number of partials summed for the sawtooth
// approximation. The cutoff is part of the output contract: rendering the
// same song must produce the same samples, so it must not be changed.
const sawHarmonics = 14

// Oscillate generates one waveform sample per entry of the time axis t
// (seconds at the track's sample rate). A frequency ≤ 0 is a rest and yields
// silence of matching length. An unknown waveform degrades to a sine; this
// is a documented graceful default, not an error.
func Oscillate(waveform Waveform, freq float64, t []float64) []float32 {
	out := make([]float32, len(t))
	if freq <= 0 {
		return out
	}
	w := 2 * math.Pi * freq
	switch waveform {
	case Square:
		for i, ti := range t {
			out[i] = float32(sign(math.Sin(w * ti)))
		}
	case Triangle:
		for i, ti := range t {
			out[i] = float32(2 / math.Pi * math.Asin(math.Sin(w*ti)))
		}
	case Sawtooth:
		// Additive band-limited approximation: first 14 harmonics with
		// amplitude 1/k, scaled by 2/π. Not a true sawtooth.
		for i, ti := range t {
			var y float64
			for k := 1; k <= sawHarmonics; k++ {
				y += math.Sin(2*math.Pi*float64(k)*freq*ti) / float64(k)
			}
			out[i] = float32(2 / math.Pi * y)
		}
	default: // Sine and anything unrecognized
		for i, ti := range t {
			out[i] = float32(math.Sin(w * ti))
		}
	}
	return out
}

// timeAxis returns n sample instants in seconds at the given rate.
func timeAxis(n, sampleRate int) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / float64(sampleRate)
	}
	return t
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
