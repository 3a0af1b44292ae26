package audio

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"time"
)

// ErrNoOutput is returned when the platform has no usable playback path.
var ErrNoOutput = errors.New("audio output unavailable")

var btKeywords = []string{
	"airpods", "beats", "bose", "wh-1000", "wf-1000",
	"sony wh-", "sony wf-",
	"jabra", "galaxy buds", "pixel buds", "powerbeats",
	"jbl ", "sennheiser momentum", "plantronics",
	"tozo", "anker soundcore", "skullcandy",
	"bluetooth", " bt ", " bt)", " bt]",
}

// IsBluetooth reports whether a device name looks like a wireless headset.
// Bluetooth sinks add 100-200ms of latency, which smears the click transients.
func IsBluetooth(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range btKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Renderer produces mono float samples in [-1, 1]. The playback device calls
// Render from its own goroutine whenever it needs more audio.
type Renderer interface {
	Render(out []float32)
}

// OutputLatency is how far a backend may buffer ahead of the speaker. The
// mixer clock leads what is heard by this much, so it bounds click delay.
const OutputLatency = 30 * time.Millisecond

type PlaybackConfig struct {
	SampleRate uint32
	Channels   uint32
}

// BufferBytes returns the size of d of interleaved S16 audio.
func (c PlaybackConfig) BufferBytes(d time.Duration) int {
	frames := int(time.Duration(c.SampleRate) * d / time.Second)
	return frames * int(c.Channels) * 2
}

type DeviceInfo struct {
	ID   string // opaque platform-specific identifier
	Name string
}

type Context interface {
	Devices() ([]DeviceInfo, error)
	NewPlayback(device *DeviceInfo, config PlaybackConfig, r Renderer) (PlaybackDevice, error)
	Close()
}

type PlaybackDevice interface {
	Start() error
	Stop()
	Close()
}

// PutS16 converts float samples to interleaved signed 16-bit little endian,
// duplicating each sample across channels.
func PutS16(dst []byte, src []float32, channels int) {
	for i, s := range src {
		v := toS16(s)
		for ch := 0; ch < channels; ch++ {
			binary.LittleEndian.PutUint16(dst[(i*channels+ch)*2:], uint16(v))
		}
	}
}

func toS16(s float32) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(float64(s) * 32767))
}

// ToS16 converts float samples to int16 samples.
func ToS16(dst []int16, src []float32) {
	for i, s := range src {
		dst[i] = toS16(s)
	}
}
