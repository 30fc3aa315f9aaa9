package dawai

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// ReadSample decodes a WAV stream into a mono float buffer, averaging the
// channels of multi-channel material and scaling integer PCM to the -1..1
// range by the source bit depth. The sample's own rate is returned alongside;
// the core does no rate conversion, so callers are expected to feed samples
// recorded at the track's rate.
func ReadSample(r io.ReadSeeker) (AudioBuffer, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("could not decode wav stream: %v", err)
	}
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, 0, fmt.Errorf("wav stream has no audio format")
	}
	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int(1) << (bitDepth - 1))
	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	out := make(AudioBuffer, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = float32(sum / float64(channels) / scale)
	}
	return out, buf.Format.SampleRate, nil
}

// LoadSampleFile reads a WAV file from disk into a mono sample buffer.
func LoadSampleFile(path string) (AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sample, _, err := ReadSample(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", path, err)
	}
	return sample, nil
}

// WavFileLoader is the default SampleLoader: the sample map value is a path
// to a WAV file on disk.
func WavFileLoader(name, path string) (AudioBuffer, error) {
	return LoadSampleFile(path)
}
