package sfx

// Source selects what drives a voice.
type Source int

const (
	SourceOscillator Source = iota
	SourceNoise
)

// Voice is one scheduled signal chain: source, optional high-pass, gain
// envelope. It sounds on [Start, Stop) of the context clock and is dropped by
// the mixer afterwards.
type Voice struct {
	Label     string
	Source    Source
	Waveform  Waveform
	Buffer    []float32 // noise voices play this once from the start
	Frequency Param
	Filter    *Biquad
	Gain      Param
	Start     float64
	Stop      float64

	phase  float64
	cursor int
}

func newOscillator(label string, w Waveform, start, stop float64) *Voice {
	return &Voice{
		Label:     label,
		Source:    SourceOscillator,
		Waveform:  w,
		Frequency: NewParam(440),
		Gain:      NewParam(1),
		Start:     start,
		Stop:      stop,
	}
}

func newNoise(label string, buf []float32, start, stop float64) *Voice {
	return &Voice{
		Label:  label,
		Source: SourceNoise,
		Buffer: buf,
		Gain:   NewParam(1),
		Start:  start,
		Stop:   stop,
	}
}

func (v *Voice) Duration() float64 { return v.Stop - v.Start }

func (v *Voice) active(t float64) bool { return t >= v.Start && t < v.Stop }

// next renders the sample at clock time t and advances the voice state.
func (v *Voice) next(t, sampleRate float64) float64 {
	var s float64
	switch v.Source {
	case SourceNoise:
		if v.cursor < len(v.Buffer) {
			s = float64(v.Buffer[v.cursor])
		}
		v.cursor++
	default:
		s = v.Waveform.At(v.phase)
		v.phase += v.Frequency.ValueAt(t) / sampleRate
		if v.phase >= 1 {
			v.phase -= float64(int(v.phase))
		}
	}
	if v.Filter != nil {
		s = v.Filter.Process(s)
	}
	return s * v.Gain.ValueAt(t)
}
