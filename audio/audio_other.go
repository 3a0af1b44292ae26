//go:build !linux && !darwin

package audio

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// oto allows a single context per process and has no device selection, so the
// device argument is ignored and Devices reports only the system default.
type otoContext struct{}

var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
	otoRate int
)

func NewContext() (Context, error) {
	return &otoContext{}, nil
}

func (o *otoContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "default", Name: "system default"}}, nil
}

func (o *otoContext) NewPlayback(_ *DeviceInfo, config PlaybackConfig, r Renderer) (PlaybackDevice, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   int(config.SampleRate),
			ChannelCount: int(config.Channels),
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   OutputLatency,
		})
		if otoErr == nil {
			<-ready
			otoRate = int(config.SampleRate)
		}
	})
	if otoErr != nil {
		return nil, fmt.Errorf("oto: %w", otoErr)
	}
	if otoRate != int(config.SampleRate) {
		return nil, fmt.Errorf("oto: context already running at %d Hz", otoRate)
	}
	pb := &otoPlayback{render: r, channels: int(config.Channels)}
	pb.player = otoCtx.NewPlayer(pb)
	// The default player buffer is half a second, and every byte it pulls
	// advances the mixer clock.
	pb.player.SetBufferSize(config.BufferBytes(OutputLatency))
	return pb, nil
}

func (o *otoContext) Close() {}

type otoPlayback struct {
	player   *oto.Player
	render   Renderer
	channels int
	scratch  []float32
}

// Read implements io.Reader for the oto player. It never reports EOF: the
// stream is continuous and silence is rendered while no voice is active.
func (p *otoPlayback) Read(buf []byte) (int, error) {
	frameBytes := 2 * p.channels
	n := len(buf) / frameBytes
	if cap(p.scratch) < n {
		p.scratch = make([]float32, n)
	}
	samples := p.scratch[:n]
	p.render.Render(samples)
	PutS16(buf, samples, p.channels)
	return n * frameBytes, nil
}

func (p *otoPlayback) Start() error {
	p.player.Play()
	return p.player.Err()
}

func (p *otoPlayback) Stop() {
	p.player.Pause()
}

func (p *otoPlayback) Close() {
	p.player.Close()
}
