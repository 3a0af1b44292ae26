package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studiocheck/audio"
	"studiocheck/checklist"
	"studiocheck/sfx"
)

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestScriptEdgeTriggeredReady(t *testing.T) {
	p := &countingPlayer{}
	h := checklist.NewHost(p)
	var out bytes.Buffer

	err := runScript(context.Background(), script(
		"PRESS 1", "PRESS 2", "PRESS 3", "STATUS", "PRESS 4", "STATUS", "QUIT", "PRESS 1",
	), &out, h, nil)
	if err != nil {
		t.Fatal(err)
	}

	got := out.String()
	for _, want := range []string{
		"CAMERA engage ready=25%\n",
		"CAMERA=on SCREEN=on AUDIO=on MIDI=off ready=75%\n",
		"MIDI engage ready=100%\nREADY\n",
		"CAMERA=on SCREEN=on AUDIO=on MIDI=on ready=100%\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if p.readies != 1 {
		t.Errorf("readies = %d, want 1", p.readies)
	}
	if len(p.clicks) != 4 {
		t.Errorf("commands after QUIT ran: %d clicks", len(p.clicks))
	}
}

func TestScriptToggleByName(t *testing.T) {
	p := &countingPlayer{}
	h := checklist.NewHost(p)
	var out bytes.Buffer
	err := runScript(context.Background(), script(
		"toggle midi", "TOGGLE Midi", "# comment", "", "RESET", "STATUS",
	), &out, h, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "MIDI release ready=0%") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "RESET\nCAMERA=off") {
		t.Errorf("reset not reported:\n%s", out.String())
	}
}

func TestScriptReportsBadLines(t *testing.T) {
	h := checklist.NewHost(nil)
	var out bytes.Buffer
	err := runScript(context.Background(), script(
		"JUMP", "TOGGLE", "TOGGLE LIGHTS", "PRESS camera", "PRESS 9", "SLEEP soon", "PRESS 2",
	), &out, h, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(out.String(), "ERR "); n != 6 {
		t.Errorf("%d errors reported, want 6:\n%s", n, out.String())
	}
	if !h.Checked(checklist.Screen) {
		t.Error("valid line after errors was not executed")
	}
}

func TestScriptSleepHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := runScript(ctx, script("SLEEP 5000", "PRESS 1"), &bytes.Buffer{}, checklist.NewHost(nil), nil)
	if err != nil {
		t.Fatal(err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("SLEEP ignored cancellation")
	}
}

func TestScriptWaitDrainsEngine(t *testing.T) {
	fake := audio.NewDrainingContext()
	eng := sfx.New(sfx.WithOpener(func() (audio.Context, error) { return fake, nil }))
	defer eng.Close()
	h := checklist.NewHost(eng)

	err := runScript(context.Background(), script("PRESS 1", "PRESS 2", "PRESS 3", "PRESS 4", "WAIT"),
		&bytes.Buffer{}, h, eng)
	if err != nil {
		t.Fatal(err)
	}
	if n := eng.Played(); n != 5 {
		t.Errorf("played %d effects, want 4 clicks + ready", n)
	}
	if len(fake.Playbacks()) != 1 {
		t.Errorf("output opened %d times", len(fake.Playbacks()))
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestScriptReadError(t *testing.T) {
	err := runScript(context.Background(), errReader{}, &bytes.Buffer{}, checklist.NewHost(nil), nil)
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("err = %v", err)
	}
}

func TestPlayEffects(t *testing.T) {
	fake := audio.NewDrainingContext()
	eng := sfx.New(sfx.WithOpener(func() (audio.Context, error) { return fake, nil }))
	defer eng.Close()

	if err := playEffects(context.Background(), eng, []string{"click-engage", "ready"}); err != nil {
		t.Fatal(err)
	}
	if eng.Played() != 2 {
		t.Errorf("played %d", eng.Played())
	}

	err := playEffects(context.Background(), eng, []string{"ready", "boing"})
	if !errors.Is(err, sfx.ErrUnknownEffect) {
		t.Errorf("err = %v", err)
	}
	if eng.Played() != 2 {
		t.Error("nothing should play when any name is invalid")
	}
}

func TestExportEffects(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sounds")
	paths, err := exportEffects(dir, 22050)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != len(sfx.Effects()) {
		t.Fatalf("exported %d files", len(paths))
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(data, []byte("fLaC")) {
			t.Errorf("%s: missing FLAC magic", p)
		}
	}
	if filepath.Base(paths[2]) != "ready.flac" {
		t.Errorf("unexpected name %s", paths[2])
	}
}

func TestListDevices(t *testing.T) {
	fake := audio.NewFakeContext(
		audio.DeviceInfo{ID: "sink.0", Name: "Speakers"},
		audio.DeviceInfo{ID: "sink.1", Name: "Bose QC35"},
	)
	var out bytes.Buffer
	if err := listDevices(&out, fake, "Speakers"); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasPrefix(lines[0], "* Speakers") {
		t.Errorf("selected device not marked: %q", lines[0])
	}
	if !strings.Contains(lines[1], "(BT!)") {
		t.Errorf("bluetooth device not flagged: %q", lines[1])
	}

	out.Reset()
	if err := listDevices(&out, audio.NewFakeContext(), ""); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "system default") {
		t.Errorf("unexpected output %q", out.String())
	}

	if err := listDevices(&out, audio.NewFailingContext(nil), ""); err == nil {
		t.Error("expected enumeration error")
	}
}
