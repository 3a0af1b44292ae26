package sfx

import (
	"math"
	"math/rand/v2"
)

// MakeNoiseBuffer returns round(sampleRate*seconds) independent samples drawn
// uniformly from [-1, 1].
func MakeNoiseBuffer(sampleRate int, seconds float64) []float32 {
	n := int(math.Round(float64(sampleRate) * seconds))
	if n < 0 {
		n = 0
	}
	buf := make([]float32, n)
	for i := range buf {
		buf[i] = float32(rand.Float64()*2 - 1)
	}
	return buf
}
