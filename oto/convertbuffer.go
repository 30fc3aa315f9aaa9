package oto

import (
	"math"

	dawai "github.com/jklim1015/Daw-AI"
)

// FloatBufferToLE converts a float32 buffer to the little-endian byte stream
// oto consumes, appending to dst; pass dst with its length set to zero to
// reuse its capacity between writes.
func FloatBufferToLE(buffer dawai.AudioBuffer, dst []byte) []byte {
	for _, v := range buffer {
		bits := math.Float32bits(v)
		dst = append(dst, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return dst
}
