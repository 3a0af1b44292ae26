package audio

import (
	"sync"
	"time"
)

// FakeContext is an in-memory playback context. Nothing is pulled from the
// renderer until the test calls Pull on the returned playback device.
type FakeContext struct {
	devices []DeviceInfo
	failErr error
	drain   bool

	mu        sync.Mutex
	playbacks []*FakePlayback
	closed    bool
}

func NewFakeContext(devices ...DeviceInfo) *FakeContext {
	return &FakeContext{devices: devices}
}

// NewDrainingContext returns a fake whose playbacks pull frames on their own
// goroutine once started, faster than real time.
func NewDrainingContext(devices ...DeviceInfo) *FakeContext {
	return &FakeContext{devices: devices, drain: true}
}

// NewFailingContext returns a context whose playback devices cannot be opened.
func NewFailingContext(err error) *FakeContext {
	if err == nil {
		err = ErrNoOutput
	}
	return &FakeContext{failErr: err}
}

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	return f.devices, nil
}

func (f *FakeContext) NewPlayback(device *DeviceInfo, config PlaybackConfig, r Renderer) (PlaybackDevice, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	p := &FakePlayback{device: device, config: config, render: r, drain: f.drain}
	f.mu.Lock()
	f.playbacks = append(f.playbacks, p)
	f.mu.Unlock()
	return p, nil
}

func (f *FakeContext) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *FakeContext) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Playbacks returns every device opened so far.
func (f *FakeContext) Playbacks() []*FakePlayback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakePlayback(nil), f.playbacks...)
}

type FakePlayback struct {
	device *DeviceInfo
	config PlaybackConfig
	render Renderer
	drain  bool

	mu      sync.Mutex
	started bool
	closed  bool
	stop    chan struct{}
}

func (p *FakePlayback) Device() *DeviceInfo    { return p.device }
func (p *FakePlayback) Config() PlaybackConfig { return p.config }

func (p *FakePlayback) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.drain && !p.started && !p.closed {
		p.stop = make(chan struct{})
		go p.run(p.stop)
	}
	p.started = true
	return nil
}

func (p *FakePlayback) run(stop <-chan struct{}) {
	chunk := max(int(p.config.SampleRate)/100, 1)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.Pull(chunk)
		}
	}
}

func (p *FakePlayback) halt() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	p.started = false
}

func (p *FakePlayback) Stop() {
	p.mu.Lock()
	p.halt()
	p.mu.Unlock()
}

func (p *FakePlayback) Close() {
	p.mu.Lock()
	p.halt()
	p.closed = true
	p.mu.Unlock()
}

func (p *FakePlayback) Started() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.started
}

// Pull renders n frames the way a real backend callback would.
func (p *FakePlayback) Pull(n int) []float32 {
	out := make([]float32, n)
	p.render.Render(out)
	return out
}
