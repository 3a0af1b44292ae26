package sfx

import "math"

// defaultQ matches a Web Audio biquad left at Q=1dB.
var defaultQ = math.Pow(10, 1.0/20)

// Biquad is a second-order high-pass filter (RBJ cookbook) with a fixed
// cutoff, processed in transposed direct form II.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
	z1, z2     float64
}

func NewHighPass(sampleRate int, cutoffHz, q float64) *Biquad {
	nyquist := float64(sampleRate) / 2
	if cutoffHz >= nyquist {
		cutoffHz = nyquist * 0.99
	}
	w0 := 2 * math.Pi * cutoffHz / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)
	a0 := 1 + alpha
	return &Biquad{
		b0: (1 + cosw) / 2 / a0,
		b1: -(1 + cosw) / a0,
		b2: (1 + cosw) / 2 / a0,
		a1: -2 * cosw / a0,
		a2: (1 - alpha) / a0,
	}
}

func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.z1
	f.z1 = f.b1*x - f.a1*y + f.z2
	f.z2 = f.b2*x - f.a2*y
	return y
}
