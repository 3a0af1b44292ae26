package sfx

import "studiocheck/audio"

// Context is the shared output and clock handle every effect schedules
// against.
type Context struct {
	sampleRate int
	mixer      *Mixer
	actx       audio.Context
	out        audio.PlaybackDevice
}

func newOfflineContext(sampleRate int) *Context {
	return &Context{sampleRate: sampleRate, mixer: NewMixer(sampleRate, 1)}
}

func (c *Context) SampleRate() int { return c.sampleRate }

// CurrentTime is the monotonic audio clock in seconds.
func (c *Context) CurrentTime() float64 { return c.mixer.Now() }

func (c *Context) schedule(vs ...*Voice) { c.mixer.Schedule(vs...) }

func (c *Context) close() {
	if c.out != nil {
		c.out.Stop()
		c.out.Close()
	}
	if c.actx != nil {
		c.actx.Close()
	}
}
