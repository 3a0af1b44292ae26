package sfx

import "sync"

// Mixer sums scheduled voices into a mono stream and owns the context clock:
// time advances only as frames are rendered. The output device calls Render
// from its own goroutine while effects schedule from the caller's.
type Mixer struct {
	sampleRate float64
	volume     float64

	mu     sync.Mutex
	frame  int64
	voices []*Voice
}

func NewMixer(sampleRate int, volume float64) *Mixer {
	return &Mixer{sampleRate: float64(sampleRate), volume: volume}
}

// Now returns the clock time in seconds of the next frame to be rendered.
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.frame) / m.sampleRate
}

func (m *Mixer) Schedule(vs ...*Voice) {
	m.mu.Lock()
	m.voices = append(m.voices, vs...)
	m.mu.Unlock()
}

// Active returns the number of voices that have not yet passed their stop time.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// Voices returns copies of the pending and sounding voices, taken under the
// lock. Render keeps advancing the originals; the copies share their filters.
func (m *Mixer) Voices() []Voice {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Voice, len(m.voices))
	for i, v := range m.voices {
		out[i] = *v
	}
	return out
}

// LastStop returns the latest stop time among pending voices, or Now.
func (m *Mixer) LastStop() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	end := float64(m.frame) / m.sampleRate
	for _, v := range m.voices {
		if v.Stop > end {
			end = v.Stop
		}
	}
	return end
}

func (m *Mixer) Render(out []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range out {
		t := float64(m.frame+int64(i)) / m.sampleRate
		var sum float64
		for _, v := range m.voices {
			if v.active(t) {
				sum += v.next(t, m.sampleRate)
			}
		}
		sum *= m.volume
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		out[i] = float32(sum)
	}
	m.frame += int64(len(out))

	now := float64(m.frame) / m.sampleRate
	live := m.voices[:0]
	for _, v := range m.voices {
		if now < v.Stop {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live
}
