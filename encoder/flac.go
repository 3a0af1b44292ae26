package encoder

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"studiocheck/audio"
)

type FlacEncoder struct {
	buf         bytes.Buffer
	enc         *flac.Encoder
	sampleRate  uint32
	totalFrames uint64
	scratch     []int16
	mu          sync.Mutex
}

func NewFlac(sampleRate int) (*FlacEncoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	e := &FlacEncoder{sampleRate: uint32(sampleRate)}
	info := &meta.StreamInfo{
		BlockSizeMin:  BlockSize,
		BlockSizeMax:  BlockSize,
		SampleRate:    e.sampleRate,
		NChannels:     Channels,
		BitsPerSample: BitsPerSample,
		NSamples:      0,
	}
	enc, err := flac.NewEncoder(&e.buf, info)
	if err != nil {
		return nil, fmt.Errorf("creating flac encoder: %w", err)
	}
	enc.EnablePredictionAnalysis(true)
	e.enc = enc
	return e, nil
}

func (e *FlacEncoder) EncodeBlock(block []int16) error {
	if len(block) == 0 {
		return nil
	}
	if len(block) > BlockSize {
		return fmt.Errorf("block of %d samples exceeds %d", len(block), BlockSize)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	samples32 := make([]int32, len(block))
	for i, s := range block {
		samples32[i] = int32(s)
	}

	subframe := &frame.Subframe{
		SubHeader: frame.SubHeader{
			Pred: frame.PredVerbatim,
		},
		Samples:  samples32,
		NSamples: len(block),
	}

	f := &frame.Frame{
		Header: frame.Header{
			BlockSize:     uint16(len(block)),
			SampleRate:    e.sampleRate,
			Channels:      frame.ChannelsMono,
			BitsPerSample: BitsPerSample,
		},
		Subframes: []*frame.Subframe{subframe},
	}

	if err := e.enc.WriteFrame(f); err != nil {
		return fmt.Errorf("writing flac frame: %w", err)
	}
	e.totalFrames += uint64(len(block))
	return nil
}

// EncodeFloat converts samples in [-1, 1] to 16-bit and encodes them in
// BlockSize frames.
func (e *FlacEncoder) EncodeFloat(samples []float32) error {
	for len(samples) > 0 {
		n := min(len(samples), BlockSize)
		if cap(e.scratch) < n {
			e.scratch = make([]int16, BlockSize)
		}
		block := e.scratch[:n]
		audio.ToS16(block, samples[:n])
		if err := e.EncodeBlock(block); err != nil {
			return err
		}
		samples = samples[n:]
	}
	return nil
}

func (e *FlacEncoder) Close() error {
	return e.enc.Close()
}

func (e *FlacEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *FlacEncoder) TotalFrames() uint64 {
	return e.totalFrames
}

// WriteFlac encodes samples as a complete FLAC stream into w.
func WriteFlac(w io.Writer, samples []float32, sampleRate int) error {
	enc, err := NewFlac(sampleRate)
	if err != nil {
		return err
	}
	if err := enc.EncodeFloat(samples); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing flac encoder: %w", err)
	}
	if _, err := w.Write(enc.Bytes()); err != nil {
		return fmt.Errorf("writing flac: %w", err)
	}
	return nil
}
