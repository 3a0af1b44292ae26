package sfx

import (
	"errors"
	"fmt"
)

var ErrUnknownEffect = errors.New("unknown effect")

// Effect is a named composition of voices triggered as a unit.
type Effect int

const (
	ClickEngage Effect = iota
	ClickRelease
	Ready
)

var effectNames = [...]string{"click-engage", "click-release", "ready"}

func (fx Effect) String() string {
	if fx < 0 || int(fx) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", int(fx))
	}
	return effectNames[fx]
}

// Effects lists every effect in a stable order.
func Effects() []Effect {
	return []Effect{ClickEngage, ClickRelease, Ready}
}

func ParseEffect(name string) (Effect, error) {
	for i, n := range effectNames {
		if n == name {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// ClickEffect maps a button direction to its click effect.
func ClickEffect(d Direction) Effect {
	if d == Release {
		return ClickRelease
	}
	return ClickEngage
}

// schedule builds the effect's voices at trigger time now and hands them to
// the context. It returns the number of voices scheduled.
func (fx Effect) schedule(c *Context, now float64) int {
	switch fx {
	case ClickEngage:
		return c.playBursts(now, engageBursts)
	case ClickRelease:
		return c.playBursts(now, releaseBursts)
	case Ready:
		return c.playReady(now)
	}
	return 0
}

// playBursts renders a click as one or more bursts that share a single freshly
// generated noise buffer.
func (c *Context) playBursts(now float64, bursts []burst) int {
	noise := MakeNoiseBuffer(c.sampleRate, noiseDuration)
	n := 0
	for _, b := range bursts {
		n += c.playBurst(noise, now+b.offset, b.cutoffHz, b.volume, b.duration, b.toneHz)
	}
	return n
}

func (c *Context) playBurst(noise []float32, start, cutoffHz, peak, duration, toneHz float64) int {
	end := start + duration

	hiss := newNoise("noise", noise, start, end)
	hiss.Filter = NewHighPass(c.sampleRate, cutoffHz, defaultQ)
	hiss.Gain.SetValueAtTime(peak, start).
		ExponentialRampToValueAtTime(envelopeFloor, end)

	thump := newOscillator("tone", Sine, start, end)
	thump.Frequency.SetValueAtTime(toneHz, start).
		ExponentialRampToValueAtTime(toneFloorHz, end)
	thump.Gain.SetValueAtTime(peak*toneGain, start).
		ExponentialRampToValueAtTime(envelopeFloor, end)

	c.schedule(hiss, thump)
	return 2
}

func (c *Context) playReady(now float64) int {
	clunk := newOscillator("clunk", Square, now, now+clunkDuration)
	clunk.Frequency.SetValueAtTime(clunkStartHz, now).
		ExponentialRampToValueAtTime(clunkEndHz, now+clunkDuration)
	clunk.Gain.SetValueAtTime(clunkGain, now).
		ExponentialRampToValueAtTime(envelopeFloor, now+clunkDuration)

	echo := newOscillator("echo", Sawtooth, now+echoStart, now+echoStop)
	echo.Frequency.SetValueAtTime(echoHz, now+echoStart)
	echo.Gain.SetValueAtTime(echoGain, now+echoStart).
		ExponentialRampToValueAtTime(envelopeFloor, now+echoStop)

	chime := newOscillator("chime", Sine, now+chimeStart, now+chimeStop)
	chime.Frequency.SetValueAtTime(chimeHz, now+chimeStart)
	chime.Gain.SetValueAtTime(chimeGain, now+chimeStart).
		ExponentialRampToValueAtTime(envelopeFloor, now+chimeStop)

	c.schedule(clunk, echo, chime)
	return 3
}

// RenderEffect renders fx offline from time zero until its last voice stops.
func RenderEffect(fx Effect, sampleRate int) []float32 {
	c := newOfflineContext(sampleRate)
	fx.schedule(c, 0)
	n := int(c.mixer.LastStop()*float64(sampleRate) + 0.5)
	out := make([]float32, n)
	c.mixer.Render(out)
	return out
}
