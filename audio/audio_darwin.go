//go:build darwin

package audio

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
)

type malgoContext struct {
	ctx *malgo.AllocatedContext
}

func NewContext() (Context, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, err
	}
	return &malgoContext{ctx: ctx}, nil
}

func (m *malgoContext) Devices() ([]DeviceInfo, error) {
	devices, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("malgo devices: %w", err)
	}
	var result []DeviceInfo
	for _, d := range devices {
		result = append(result, DeviceInfo{
			ID:   hex.EncodeToString(d.ID[:]),
			Name: d.Name(),
		})
	}
	return result, nil
}

func (m *malgoContext) NewPlayback(device *DeviceInfo, config PlaybackConfig, r Renderer) (PlaybackDevice, error) {
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = config.Channels
	deviceConfig.SampleRate = config.SampleRate

	if device != nil {
		idBytes, err := hex.DecodeString(device.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid device ID: %w", err)
		}
		var devID malgo.DeviceID
		copy(devID[:], idBytes)
		deviceConfig.Playback.DeviceID = devID.Pointer()
	}

	pb := &malgoPlayback{render: r, channels: int(config.Channels)}
	callbacks := malgo.DeviceCallbacks{
		Data: pb.dataCallback,
	}

	dev, err := malgo.InitDevice(m.ctx.Context, deviceConfig, callbacks)
	if err != nil {
		return nil, err
	}
	pb.device = dev
	return pb, nil
}

func (m *malgoContext) Close() {
	m.ctx.Uninit()
	m.ctx.Free()
}

type malgoPlayback struct {
	device   *malgo.Device
	render   Renderer
	channels int

	mu      sync.Mutex
	scratch []float32
}

func (p *malgoPlayback) dataCallback(pOutput, _ []byte, frameCount uint32) {
	n := int(frameCount)
	if cap(p.scratch) < n {
		p.scratch = make([]float32, n)
	}
	samples := p.scratch[:n]
	p.render.Render(samples)
	PutS16(pOutput, samples, p.channels)
}

func (p *malgoPlayback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.device.Start()
}

func (p *malgoPlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.Stop()
}

func (p *malgoPlayback) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.device.Uninit()
}
