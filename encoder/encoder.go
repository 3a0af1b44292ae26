// Package encoder writes rendered effects as mono 16-bit FLAC.
package encoder

const (
	Channels      = 1
	BitsPerSample = 16
	BlockSize     = 4096
)

type Encoder interface {
	EncodeBlock(block []int16) error
	EncodeFloat(samples []float32) error
	Close() error
	Bytes() []byte
	TotalFrames() uint64
}
