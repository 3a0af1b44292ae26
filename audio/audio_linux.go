//go:build linux

package audio

import (
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"
	"github.com/jfreymuth/pulse/proto"
)

type pulseContext struct {
	client *pulse.Client
}

func NewContext() (Context, error) {
	c, err := pulse.NewClient(pulse.ClientApplicationName("studiocheck"))
	if err != nil {
		return nil, fmt.Errorf("pulse: %w", err)
	}
	return &pulseContext{client: c}, nil
}

func (p *pulseContext) Devices() ([]DeviceInfo, error) {
	sinks, err := p.client.ListSinks()
	if err != nil {
		return nil, fmt.Errorf("pulse list sinks: %w", err)
	}
	var devices []DeviceInfo
	for _, s := range sinks {
		devices = append(devices, DeviceInfo{
			ID:   s.ID(),
			Name: s.Name(),
		})
	}
	return devices, nil
}

func (p *pulseContext) NewPlayback(device *DeviceInfo, config PlaybackConfig, r Renderer) (PlaybackDevice, error) {
	pb := &pulsePlayback{
		client: p.client,
		device: device,
		config: config,
		render: r,
	}
	// Open the stream eagerly so a missing server surfaces here, not on Start.
	if err := pb.open(); err != nil {
		return nil, err
	}
	return pb, nil
}

func (p *pulseContext) Close() {
	p.client.Close()
}

type pulsePlayback struct {
	client *pulse.Client
	device *DeviceInfo
	config PlaybackConfig
	render Renderer

	mu      sync.Mutex
	stream  *pulse.PlaybackStream
	scratch []float32
}

func (pb *pulsePlayback) open() error {
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if cap(pb.scratch) < len(buf) {
			pb.scratch = make([]float32, len(buf))
		}
		samples := pb.scratch[:len(buf)]
		pb.render.Render(samples)
		ToS16(buf, samples)
		return len(buf), nil
	})

	opts := []pulse.PlaybackOption{
		pulse.PlaybackMono,
		pulse.PlaybackSampleRate(int(pb.config.SampleRate)),
		pulse.PlaybackLatency(OutputLatency.Seconds()),
		pulse.PlaybackRawOption(func(p *proto.CreatePlaybackStream) {
			p.ChannelVolumes = proto.ChannelVolumes{uint32(proto.VolumeNorm)}
		}),
	}
	if pb.device != nil {
		sink, err := pb.client.SinkByID(pb.device.ID)
		if err == nil && sink != nil {
			opts = append(opts, pulse.PlaybackSink(sink))
		}
	}

	stream, err := pb.client.NewPlayback(reader, opts...)
	if err != nil {
		return fmt.Errorf("pulse playback: %w", err)
	}
	pb.stream = stream
	return nil
}

func (pb *pulsePlayback) Start() error {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.stream == nil {
		if err := pb.open(); err != nil {
			return err
		}
	}
	pb.stream.Start()
	if err := pb.stream.Error(); err != nil {
		return fmt.Errorf("pulse start: %w", err)
	}
	return nil
}

func (pb *pulsePlayback) Stop() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.stream != nil {
		pb.stream.Stop()
	}
}

func (pb *pulsePlayback) Close() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.stream != nil {
		pb.stream.Close()
		pb.stream = nil
	}
}
