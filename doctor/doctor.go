package doctor

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"studiocheck/audio"
	"studiocheck/encoder"
	"studiocheck/sfx"
)

type Options struct {
	Out        io.Writer
	In         io.Reader
	Open       func() (audio.Context, error)
	Device     string
	SampleRate int
	// Volume is the master volume for the playback check; nil plays at full
	// scale. A configured 0 stays 0.
	Volume *float64
	// Confirm asks the user whether the effects were heard.
	Confirm bool
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Open == nil {
		o.Open = audio.NewContext
	}
	if o.SampleRate <= 0 {
		o.SampleRate = sfx.DefaultSampleRate
	}
	if o.Volume == nil {
		full := 1.0
		o.Volume = &full
	}
}

// Run executes the diagnostic checks and returns an exit code (0=all pass, 1=any fail).
func Run(ctx context.Context, opts Options) int {
	opts.defaults()
	w := opts.Out

	fmt.Fprintln(w, "studiocheck doctor - audio diagnostics")
	fmt.Fprintln(w, "======================================")

	checks := []func() bool{
		func() bool { return checkSynthesis(w, opts.SampleRate) },
		func() bool { return checkExport(w, opts.SampleRate) },
		func() bool { return checkOutput(w, opts) },
		func() bool { return checkPlayback(ctx, w, opts) },
	}
	allPass := true
	for _, check := range checks {
		if !check() {
			allPass = false
			break
		}
	}

	fmt.Fprintln(w)
	if allPass {
		fmt.Fprintln(w, "All checks passed!")
		return 0
	}
	fmt.Fprintln(w, "Some checks failed. See details above.")
	return 1
}

func peakOf(samples []float32) float64 {
	var p float64
	for _, s := range samples {
		p = math.Max(p, math.Abs(float64(s)))
	}
	return p
}

func checkSynthesis(w io.Writer, sampleRate int) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[1/4] Effect synthesis")

	ok := true
	for _, fx := range sfx.Effects() {
		out := sfx.RenderEffect(fx, sampleRate)
		if len(out) == 0 {
			fmt.Fprintf(w, "  FAIL: %s rendered no samples\n", fx)
			ok = false
			continue
		}
		peak := peakOf(out)
		tail := peakOf(out[max(0, len(out)-sampleRate/1000):])
		dur := float64(len(out)) / float64(sampleRate)
		switch {
		case peak < 0.05:
			fmt.Fprintf(w, "  FAIL: %s is inaudible (peak %.3f)\n", fx, peak)
			ok = false
		case tail > 0.01:
			fmt.Fprintf(w, "  FAIL: %s does not fade out (tail %.3f)\n", fx, tail)
			ok = false
		default:
			fmt.Fprintf(w, "  PASS: %-13s %4.0fms  peak %.2f\n", fx, dur*1000, peak)
		}
	}
	return ok
}

func checkExport(w io.Writer, sampleRate int) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[2/4] FLAC export")

	var buf bytes.Buffer
	if err := encoder.WriteFlac(&buf, sfx.RenderEffect(sfx.ClickEngage, sampleRate), sampleRate); err != nil {
		fmt.Fprintf(w, "  FAIL: %v\n", err)
		return false
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("fLaC")) {
		fmt.Fprintln(w, "  FAIL: output does not start with FLAC magic")
		return false
	}
	fmt.Fprintf(w, "  PASS: %d bytes\n", buf.Len())
	return true
}

func checkOutput(w io.Writer, opts Options) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[3/4] Audio output")

	actx, err := opts.Open()
	if err != nil {
		fmt.Fprintf(w, "  FAIL: cannot connect to audio: %v\n", err)
		return false
	}
	defer actx.Close()

	devices, err := actx.Devices()
	if err != nil {
		fmt.Fprintf(w, "  FAIL: cannot list devices: %v\n", err)
		return false
	}
	if len(devices) == 0 {
		fmt.Fprintln(w, "  (no playback devices reported, using system default)")
	}
	for _, d := range devices {
		note := ""
		if audio.IsBluetooth(d.Name) {
			note = "  [bluetooth adds latency]"
		}
		fmt.Fprintf(w, "  - %s%s\n", d.Name, note)
	}

	if opts.Device != "" {
		dev, err := audio.FindDevice(actx, opts.Device)
		if err != nil {
			fmt.Fprintf(w, "  FAIL: %v\n", err)
			return false
		}
		fmt.Fprintf(w, "  Selected: %s\n", dev.Name)
	}
	fmt.Fprintln(w, "  PASS: audio output reachable")
	return true
}

func checkPlayback(ctx context.Context, w io.Writer, opts Options) bool {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "[4/4] Playback")

	eng := sfx.New(
		sfx.WithOpener(opts.Open),
		sfx.WithDevice(opts.Device),
		sfx.WithSampleRate(opts.SampleRate),
		sfx.WithVolume(*opts.Volume),
	)
	defer eng.Close()

	fmt.Fprintf(w, "  Volume: %.2f\n", *opts.Volume)
	if *opts.Volume == 0 {
		fmt.Fprintln(w, "  WARNING: volume is 0, the effects will be silent")
	}

	if !eng.Available() {
		fmt.Fprintln(w, "  FAIL: could not start playback")
		return false
	}

	for _, fx := range sfx.Effects() {
		fmt.Fprintf(w, "  Playing %s...\n", fx)
		eng.Play(fx)
		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := eng.Wait(waitCtx)
		cancel()
		if err != nil {
			fmt.Fprintf(w, "  FAIL: %s did not finish: %v\n", fx, err)
			return false
		}
		time.Sleep(150 * time.Millisecond)
	}

	if !opts.Confirm {
		fmt.Fprintln(w, "  PASS: all effects played")
		return true
	}

	fmt.Fprint(w, "Did you hear two clicks and a chime? [y/n]: ")
	answer, _ := bufio.NewReader(opts.In).ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(w, "  FAIL: playback not confirmed")
		return false
	}
	fmt.Fprintln(w, "  PASS: playback verified by user")
	return true
}
