package sfx

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"studiocheck/audio"
	"studiocheck/log"
)

type Option func(*Engine)

// WithOpener replaces the platform audio backend, mainly for tests.
func WithOpener(open func() (audio.Context, error)) Option {
	return func(e *Engine) { e.open = open }
}

// WithDevice selects a playback device by name or ID. Empty means the
// system default.
func WithDevice(nameOrID string) Option {
	return func(e *Engine) { e.device = nameOrID }
}

// WithVolume sets the master gain applied after mixing, clamped to [0, 1].
func WithVolume(v float64) Option {
	return func(e *Engine) { e.volume = min(max(v, 0), 1) }
}

func WithSampleRate(rate int) Option {
	return func(e *Engine) {
		if rate > 0 {
			e.sampleRate = rate
		}
	}
}

// Engine plays effects on a lazily opened output. Effects are fire and
// forget: they schedule voices and return immediately. When no output can be
// opened every effect is a silent no-op.
type Engine struct {
	open       func() (audio.Context, error)
	device     string
	volume     float64
	sampleRate int

	once     sync.Once
	ctx      *Context
	disabled atomic.Bool
	played   atomic.Int64
}

func New(opts ...Option) *Engine {
	e := &Engine{
		open:       audio.NewContext,
		volume:     1,
		sampleRate: DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Disable silences the engine without opening the output.
func (e *Engine) Disable() { e.disabled.Store(true) }

func (e *Engine) Disabled() bool { return e.disabled.Load() }

// ensureContext returns the shared context, opening it on first use. It
// returns nil when the platform has no usable output.
func (e *Engine) ensureContext() *Context {
	e.once.Do(func() {
		c, err := e.openContext()
		if err != nil {
			log.AudioUnavailable(err)
			return
		}
		e.ctx = c
	})
	return e.ctx
}

func (e *Engine) openContext() (*Context, error) {
	actx, err := e.open()
	if err != nil {
		return nil, err
	}

	var dev *audio.DeviceInfo
	if e.device != "" {
		dev, err = audio.FindDevice(actx, e.device)
		if err != nil {
			log.Warnf("falling back to default output: %v", err)
			dev = nil
		}
	}

	mixer := NewMixer(e.sampleRate, e.volume)
	out, err := actx.NewPlayback(dev, audio.PlaybackConfig{
		SampleRate: uint32(e.sampleRate),
		Channels:   1,
	}, mixer)
	if err != nil {
		actx.Close()
		return nil, fmt.Errorf("opening playback: %w", err)
	}
	if err := out.Start(); err != nil {
		out.Close()
		actx.Close()
		return nil, fmt.Errorf("starting playback: %w", err)
	}

	return &Context{
		sampleRate: e.sampleRate,
		mixer:      mixer,
		actx:       actx,
		out:        out,
	}, nil
}

// Available opens the output if needed and reports whether effects will be
// heard.
func (e *Engine) Available() bool {
	if e.Disabled() {
		return false
	}
	return e.ensureContext() != nil
}

func (e *Engine) Play(fx Effect) {
	if e.Disabled() {
		return
	}
	c := e.ensureContext()
	if c == nil {
		return
	}
	now := c.CurrentTime()
	n := fx.schedule(c, now)
	e.played.Add(1)
	log.Effect(fx.String(), n, now)
}

// PlayClick sonifies a button transition.
func (e *Engine) PlayClick(d Direction) { e.Play(ClickEffect(d)) }

func (e *Engine) PlayClickEngage()  { e.Play(ClickEngage) }
func (e *Engine) PlayClickRelease() { e.Play(ClickRelease) }

// PlayReady sonifies the checklist becoming complete.
func (e *Engine) PlayReady() { e.Play(Ready) }

// Played returns how many effects have been scheduled on a live output.
func (e *Engine) Played() int64 { return e.played.Load() }

// Wait blocks until every scheduled voice has finished or ctx is done. It
// returns immediately when the engine has no output.
func (e *Engine) Wait(ctx context.Context) error {
	if e.Disabled() || e.ctx == nil {
		return nil
	}
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for e.ctx.mixer.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Close releases the output. Only for process exit: the engine stays silent
// afterwards.
func (e *Engine) Close() {
	e.once.Do(func() {})
	e.Disable()
	if e.ctx != nil {
		e.ctx.close()
	}
}

var (
	stdMu sync.Mutex
	std   = New()
)

// Configure replaces the process-wide engine. Call it before the first
// effect plays.
func Configure(opts ...Option) *Engine {
	stdMu.Lock()
	defer stdMu.Unlock()
	std = New(opts...)
	return std
}

// Default returns the process-wide engine.
func Default() *Engine {
	stdMu.Lock()
	defer stdMu.Unlock()
	return std
}

func Disable()              { Default().Disable() }
func PlayClick(d Direction) { Default().PlayClick(d) }
func PlayReady()            { Default().PlayReady() }
