package sfx

import "math"

// Waveform is a periodic oscillator shape. All shapes start at zero phase
// and have peak amplitude 1.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Sawtooth
	Triangle
)

var waveformNames = [...]string{"sine", "square", "sawtooth", "triangle"}

func (w Waveform) String() string {
	if w < 0 || int(w) >= len(waveformNames) {
		return "unknown"
	}
	return waveformNames[w]
}

// At returns the waveform value at phase p, measured in cycles.
func (w Waveform) At(p float64) float64 {
	p -= math.Floor(p)
	switch w {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Sawtooth:
		q := p + 0.5
		return 2*(q-math.Floor(q)) - 1
	case Triangle:
		q := p + 0.75
		return 4*math.Abs(q-math.Floor(q)-0.5) - 1
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
