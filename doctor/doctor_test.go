package doctor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"studiocheck/audio"
)

func run(t *testing.T, opts Options) (int, string) {
	t.Helper()
	var out bytes.Buffer
	opts.Out = &out
	code := Run(context.Background(), opts)
	return code, out.String()
}

func TestDoctorPasses(t *testing.T) {
	fake := audio.NewDrainingContext(
		audio.DeviceInfo{ID: "sink.0", Name: "Built-in Speakers"},
		audio.DeviceInfo{ID: "sink.1", Name: "AirPods Pro"},
	)
	code, out := run(t, Options{
		Open:   func() (audio.Context, error) { return fake, nil },
		Device: "Built-in Speakers",
	})
	if code != 0 {
		t.Fatalf("exit code %d\n%s", code, out)
	}
	for _, want := range []string{
		"PASS: click-engage",
		"PASS: ready",
		"Selected: Built-in Speakers",
		"AirPods Pro  [bluetooth adds latency]",
		"Playing click-release",
		"All checks passed!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestDoctorConfirmation(t *testing.T) {
	open := func() (audio.Context, error) { return audio.NewDrainingContext(), nil }

	code, out := run(t, Options{Open: open, Confirm: true, In: strings.NewReader("y\n")})
	if code != 0 {
		t.Fatalf("confirmed run failed:\n%s", out)
	}

	code, out = run(t, Options{Open: open, Confirm: true, In: strings.NewReader("n\n")})
	if code != 1 || !strings.Contains(out, "playback not confirmed") {
		t.Fatalf("denied run: code %d\n%s", code, out)
	}
}

func TestDoctorNoOutput(t *testing.T) {
	code, out := run(t, Options{
		Open: func() (audio.Context, error) { return nil, errors.New("connection refused") },
	})
	if code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(out, "cannot connect to audio: connection refused") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "[4/4]") {
		t.Error("playback check should be skipped when output is unreachable")
	}
}

func TestDoctorUnknownDevice(t *testing.T) {
	code, out := run(t, Options{
		Open:   func() (audio.Context, error) { return audio.NewDrainingContext(), nil },
		Device: "Missing",
	})
	if code != 1 {
		t.Fatalf("exit code %d, want 1\n%s", code, out)
	}
}

func TestDoctorSkipsChecksAfterFailure(t *testing.T) {
	opened := false
	code, out := run(t, Options{
		// click effects are shorter than one frame at 1 Hz and render nothing
		SampleRate: 1,
		Open: func() (audio.Context, error) {
			opened = true
			return audio.NewDrainingContext(), nil
		},
	})
	if code != 1 {
		t.Fatalf("exit code %d, want 1\n%s", code, out)
	}
	if !strings.Contains(out, "rendered no samples") {
		t.Fatalf("synthesis should fail:\n%s", out)
	}
	for _, later := range []string{"[2/4]", "[3/4]", "[4/4]"} {
		if strings.Contains(out, later) {
			t.Errorf("%s ran after a failed check\n%s", later, out)
		}
	}
	if opened {
		t.Error("audio output opened after a failed check")
	}
}

func TestDoctorKeepsConfiguredVolume(t *testing.T) {
	zero := 0.0
	opts := Options{Volume: &zero}
	opts.defaults()
	if *opts.Volume != 0 {
		t.Fatalf("volume = %v, want the configured 0", *opts.Volume)
	}

	opts = Options{}
	opts.defaults()
	if *opts.Volume != 1 {
		t.Errorf("unset volume = %v, want 1", *opts.Volume)
	}

	code, out := run(t, Options{
		Open:   func() (audio.Context, error) { return audio.NewDrainingContext(), nil },
		Volume: &zero,
	})
	if code != 0 {
		t.Fatalf("exit code %d\n%s", code, out)
	}
	if !strings.Contains(out, "Volume: 0.00") || !strings.Contains(out, "effects will be silent") {
		t.Errorf("silent volume not reported:\n%s", out)
	}
}
