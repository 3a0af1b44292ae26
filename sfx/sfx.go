// Package sfx synthesizes the rack's mechanical sound effects: button
// clicks, spring releases and the ready solenoid. Every effect is built from
// oscillators and filtered white noise at play time; there are no samples.
package sfx

const (
	DefaultSampleRate = 44100

	noiseDuration = 0.1   // seconds of white noise per click
	envelopeFloor = 0.001 // exponential ramps cannot reach zero
	toneFloorHz   = 40    // every burst tone sweeps down to this
	toneGain      = 1.5   // tone peak relative to the noise peak
)

// burst is one noise transient layered with a falling tone.
type burst struct {
	offset   float64 // seconds after the trigger
	cutoffHz float64 // high-pass on the noise
	volume   float64
	duration float64
	toneHz   float64
}

// Engage: a short bright latch impact, then a heavier settle 25ms later.
var engageBursts = []burst{
	{offset: 0, cutoffHz: 6000, volume: 0.2, duration: 0.02, toneHz: 120},
	{offset: 0.025, cutoffHz: 3000, volume: 0.3, duration: 0.04, toneHz: 120},
}

// Release: a single spring-return pop.
var releaseBursts = []burst{
	{offset: 0, cutoffHz: 4500, volume: 0.25, duration: 0.03, toneHz: 100},
}

// Ready solenoid.
const (
	clunkStartHz  = 45
	clunkEndHz    = 30
	clunkGain     = 0.3
	clunkDuration = 0.2

	echoHz    = 90
	echoGain  = 0.1
	echoStart = 0.05
	echoStop  = 0.15

	chimeHz    = 880
	chimeGain  = 0.1
	chimeStart = 0.1
	chimeStop  = 0.6
)

// Direction is the travel of a toggle button.
type Direction int

const (
	Engage Direction = iota
	Release
)

func (d Direction) String() string {
	if d == Release {
		return "release"
	}
	return "engage"
}
