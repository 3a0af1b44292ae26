package sfx

import (
	"math"
	"sort"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventExpRamp
)

type paramEvent struct {
	kind  eventKind
	value float64
	time  float64
}

// Param is an automated voice parameter (gain or frequency). Values hold
// between events; an exponential ramp interpolates from the preceding event's
// value and time to its own.
type Param struct {
	defaultValue float64
	events       []paramEvent
}

func NewParam(defaultValue float64) Param {
	return Param{defaultValue: defaultValue}
}

func (p *Param) insert(ev paramEvent) {
	i := sort.Search(len(p.events), func(i int) bool { return p.events[i].time > ev.time })
	p.events = append(p.events, paramEvent{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = ev
}

// SetValueAtTime jumps to v at time t.
func (p *Param) SetValueAtTime(v, t float64) *Param {
	p.insert(paramEvent{kind: eventSet, value: v, time: t})
	return p
}

// ExponentialRampToValueAtTime ramps exponentially to v, arriving at time t.
// Both ends of the ramp must be non-zero and of the same sign.
func (p *Param) ExponentialRampToValueAtTime(v, t float64) *Param {
	p.insert(paramEvent{kind: eventExpRamp, value: v, time: t})
	return p
}

// ValueAt evaluates the automation curve at time t.
func (p *Param) ValueAt(t float64) float64 {
	v, t0 := p.defaultValue, 0.0
	for i, ev := range p.events {
		if ev.time > t {
			if ev.kind == eventExpRamp && i > 0 {
				return expInterp(v, ev.value, t0, ev.time, t)
			}
			return v
		}
		v, t0 = ev.value, ev.time
	}
	return v
}

func expInterp(v0, v1, t0, t1, t float64) float64 {
	if v0 == 0 || v0*v1 <= 0 || t1 <= t0 {
		return v0
	}
	return v0 * math.Pow(v1/v0, (t-t0)/(t1-t0))
}
