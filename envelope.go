package dawai

// Envelope produces an ADSR amplitude curve of exactly n samples: a linear
// ramp 0→1 over the attack, 1→sustain over the decay, a constant sustain
// segment filling whatever the other three leave of n, and a ramp sustain→0
// over the release. Segment sample counts are seconds×rate truncated toward
// zero; when their sum exceeds n the segments are simply cut off in order
// (attack, decay, sustain, release) and never rescaled. Valid for n = 0.
func Envelope(n, sampleRate int, attack, decay, sustain, release float64) []float32 {
	env := make([]float32, n)
	a := int(attack * float64(sampleRate))
	d := int(decay * float64(sampleRate))
	r := int(release * float64(sampleRate))
	s := n - (a + d + r)
	if s < 0 {
		s = 0
	}
	pos := 0
	for i := 0; i < a && pos < n; i++ {
		env[pos] = float32(float64(i) / float64(a))
		pos++
	}
	for i := 0; i < d && pos < n; i++ {
		env[pos] = float32(1 + (sustain-1)*float64(i)/float64(d))
		pos++
	}
	for i := 0; i < s && pos < n; i++ {
		env[pos] = float32(sustain)
		pos++
	}
	for i := 0; i < r && pos < n; i++ {
		if r > 1 {
			env[pos] = float32(sustain * (1 - float64(i)/float64(r-1)))
		} else {
			env[pos] = float32(sustain)
		}
		pos++
	}
	return env
}
