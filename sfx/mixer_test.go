package sfx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func peak(samples []float32) float64 {
	var p float64
	for _, s := range samples {
		p = math.Max(p, math.Abs(float64(s)))
	}
	return p
}

func TestMixerClockAdvancesWithRender(t *testing.T) {
	m := NewMixer(1000, 1)
	assert.Equal(t, 0.0, m.Now())
	m.Render(make([]float32, 250))
	assert.InDelta(t, 0.25, m.Now(), 1e-12)
}

func TestMixerSilentWithoutVoices(t *testing.T) {
	m := NewMixer(DefaultSampleRate, 1)
	out := make([]float32, 512)
	out[3] = 0.7
	m.Render(out)
	assert.Equal(t, 0.0, peak(out))
}

func TestMixerDropsFinishedVoices(t *testing.T) {
	m := NewMixer(1000, 1)
	v := newOscillator("a", Sine, 0, 0.01)
	v.Gain.SetValueAtTime(0.5, 0).ExponentialRampToValueAtTime(envelopeFloor, 0.01)
	m.Schedule(v)
	require.Equal(t, 1, m.Active())

	m.Render(make([]float32, 5))
	assert.Equal(t, 1, m.Active(), "still sounding at 5ms")
	m.Render(make([]float32, 5))
	assert.Equal(t, 0, m.Active(), "gone once the clock reaches stop")
}

func TestMixerVoicesReturnsCopies(t *testing.T) {
	m := NewMixer(1000, 1)
	v := newOscillator("a", Sine, 0, 1)
	v.Frequency.SetValueAtTime(100, 0)
	m.Schedule(v)

	snap := m.Voices()
	require.Len(t, snap, 1)
	snap[0].Stop = 0
	m.Render(make([]float32, 7))
	assert.Equal(t, 1, m.Active(), "editing a snapshot must not touch the scheduled voice")
	assert.Zero(t, snap[0].phase, "rendering must not advance a snapshot")
	assert.NotZero(t, v.phase)
}

func TestMixerVoicesAreAdditive(t *testing.T) {
	mk := func() *Voice {
		v := newOscillator("sq", Square, 0, 1)
		v.Frequency.SetValueAtTime(10, 0)
		v.Gain.SetValueAtTime(0.2, 0)
		return v
	}
	single := NewMixer(1000, 1)
	single.Schedule(mk())
	a := make([]float32, 20)
	single.Render(a)

	double := NewMixer(1000, 1)
	double.Schedule(mk(), mk())
	b := make([]float32, 20)
	double.Render(b)

	for i := range a {
		assert.InDelta(t, 2*a[i], b[i], 1e-6)
	}
}

func TestMixerHonorsStartTime(t *testing.T) {
	m := NewMixer(1000, 1)
	v := newOscillator("late", Square, 0.01, 0.02)
	v.Frequency.SetValueAtTime(100, 0.01)
	v.Gain.SetValueAtTime(0.5, 0.01)
	m.Schedule(v)

	out := make([]float32, 30)
	m.Render(out)
	assert.Equal(t, 0.0, peak(out[:10]), "silent before start")
	assert.Greater(t, peak(out[10:20]), 0.4)
	assert.Equal(t, 0.0, peak(out[20:]), "silent after stop")
}

func TestMixerVolumeAndClamp(t *testing.T) {
	loud := func() *Voice {
		v := newOscillator("sq", Square, 0, 1)
		v.Gain.SetValueAtTime(0.8, 0)
		return v
	}
	m := NewMixer(1000, 1)
	m.Schedule(loud(), loud())
	out := make([]float32, 10)
	m.Render(out)
	assert.Equal(t, 1.0, peak(out), "two 0.8 squares clamp at full scale")

	quiet := NewMixer(1000, 0.5)
	quiet.Schedule(loud())
	quiet.Render(out)
	assert.InDelta(t, 0.4, peak(out), 1e-6)
}

func TestRenderEffectLengths(t *testing.T) {
	cases := map[Effect]float64{
		ClickEngage:  0.065,
		ClickRelease: 0.03,
		Ready:        0.6,
	}
	for fx, seconds := range cases {
		out := RenderEffect(fx, DefaultSampleRate)
		assert.InDelta(t, seconds*DefaultSampleRate, len(out), 1, fx.String())
	}
}

func TestRenderedEffectsDecay(t *testing.T) {
	for _, fx := range Effects() {
		out := RenderEffect(fx, DefaultSampleRate)
		require.NotEmpty(t, out)

		assert.Greater(t, peak(out), 0.05, "%s should be audible", fx)
		assert.LessOrEqual(t, peak(out), 1.0)

		// The final millisecond is already at the envelope floor.
		tail := out[len(out)-DefaultSampleRate/1000:]
		assert.Less(t, peak(tail), 0.01, "%s should fade out before stopping", fx)
	}
}

func TestProperty_MixerOutputBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMixer(8000, rapid.Float64Range(0, 1).Draw(t, "volume"))
		c := &Context{sampleRate: 8000, mixer: m}
		n := rapid.IntRange(1, 12).Draw(t, "effects")
		for i := 0; i < n; i++ {
			fx := Effect(rapid.IntRange(0, 2).Draw(t, "fx"))
			at := rapid.Float64Range(0, 0.2).Draw(t, "at")
			fx.schedule(c, at)
		}
		out := make([]float32, 8000)
		m.Render(out)
		for i, s := range out {
			if s < -1 || s > 1 || math.IsNaN(float64(s)) {
				t.Fatalf("sample %d = %g", i, s)
			}
		}
		if m.Active() != 0 {
			t.Fatalf("%d voices still pending after 1s", m.Active())
		}
	})
}

func TestProperty_EnvelopeEndsAboveZeroBelowAudible(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := newOfflineContext(DefaultSampleRate)
		now := rapid.Float64Range(0, 1000).Draw(t, "now")
		fx := Effect(rapid.IntRange(0, 2).Draw(t, "fx"))
		fx.schedule(c, now)
		for _, v := range c.mixer.Voices() {
			if v.Stop <= v.Start {
				t.Fatalf("%s: stop %g <= start %g", v.Label, v.Stop, v.Start)
			}
			g := v.Gain.ValueAt(v.Stop)
			if g <= 0 || g > 0.01 {
				t.Fatalf("%s: gain at stop = %g", v.Label, g)
			}
		}
	})
}
