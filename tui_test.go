package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"studiocheck/audio"
	"studiocheck/checklist"
	"studiocheck/sfx"
)

type countingPlayer struct {
	clicks  []sfx.Direction
	readies int
}

func (p *countingPlayer) PlayClick(d sfx.Direction) { p.clicks = append(p.clicks, d) }
func (p *countingPlayer) PlayReady()                { p.readies++ }

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func send(t *testing.T, m rackModel, msgs ...tea.Msg) rackModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(rackModel)
	}
	return m
}

func newTestRack() (rackModel, *countingPlayer) {
	p := &countingPlayer{}
	return newRackModel(checklist.NewHost(p), nil, ""), p
}

func TestRackNumberKeysToggle(t *testing.T) {
	m, p := newTestRack()
	m = send(t, m, keyRune('1'), keyRune('3'))

	snap := m.host.Snapshot()
	if !snap[0] || snap[1] || !snap[2] || snap[3] {
		t.Fatalf("snapshot = %v", snap)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (last pressed)", m.cursor)
	}
	if len(p.clicks) != 2 {
		t.Errorf("clicks = %d, want 2", len(p.clicks))
	}
}

func TestRackReadyOnceThroughKeys(t *testing.T) {
	m, p := newTestRack()
	m = send(t, m, keyRune('1'), keyRune('2'), keyRune('3'), keyRune('4'))
	if p.readies != 1 {
		t.Fatalf("readies = %d, want 1", p.readies)
	}

	m = send(t, m, keyRune('4'))
	if p.readies != 1 {
		t.Errorf("releasing a button must not fire ready")
	}
	send(t, m, keyRune('4'))
	if p.readies != 2 {
		t.Errorf("readies = %d after re-entry, want 2", p.readies)
	}
	want := []sfx.Direction{sfx.Engage, sfx.Engage, sfx.Engage, sfx.Engage, sfx.Release, sfx.Engage}
	for i, d := range want {
		if p.clicks[i] != d {
			t.Errorf("click %d = %v, want %v", i, p.clicks[i], d)
		}
	}
}

func TestRackCursorNavigation(t *testing.T) {
	m, _ := newTestRack()
	steps := []struct {
		msg  tea.Msg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, 1},
		{tea.KeyMsg{Type: tea.KeyDown}, 3},
		{tea.KeyMsg{Type: tea.KeyLeft}, 2},
		{tea.KeyMsg{Type: tea.KeyUp}, 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
		{tea.KeyMsg{Type: tea.KeyTab}, 1},
	}
	for i, s := range steps {
		m = send(t, m, s.msg)
		if m.cursor != s.want {
			t.Fatalf("step %d: cursor = %d, want %d", i, m.cursor, s.want)
		}
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.host.Checked(checklist.Screen) {
		t.Error("enter should toggle the focused button")
	}
	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.host.Checked(checklist.Screen) {
		t.Error("space should toggle the focused button")
	}
}

func TestRackResetIsSilent(t *testing.T) {
	m, p := newTestRack()
	m = send(t, m, keyRune('1'), keyRune('2'), keyRune('r'))
	if m.host.ReadyPercent() != 0 {
		t.Errorf("ready = %d after reset", m.host.ReadyPercent())
	}
	if len(p.clicks) != 2 {
		t.Errorf("reset played sounds")
	}
}

func TestRackQuit(t *testing.T) {
	for _, msg := range []tea.Msg{keyRune('q'), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		m, _ := newTestRack()
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatalf("%v: no command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%v: expected quit", msg)
		}
	}
}

func TestRackNeedleEasesToTarget(t *testing.T) {
	m, _ := newTestRack()
	m = send(t, m, keyRune('1'), keyRune('2'))
	m = send(t, m, tickMsg{})
	if m.needle <= 0 || m.needle >= 50 {
		t.Fatalf("needle = %.1f after one tick, want between 0 and 50", m.needle)
	}
	for i := 0; i < 40; i++ {
		m = send(t, m, tickMsg{})
	}
	if m.needle != 50 {
		t.Errorf("needle = %.2f, want 50", m.needle)
	}
}

func TestRackView(t *testing.T) {
	m, _ := newTestRack()
	view := m.View()
	for _, want := range []string{"CAMERA", "SCREEN", "AUDIO", "MIDI", "READY   0%", "out: system default"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "AUTHORIZED") {
		t.Error("AUTHORIZED shown before all buttons are on")
	}

	m = send(t, m, keyRune('1'), keyRune('2'), keyRune('3'), keyRune('4'))
	for i := 0; i < 40; i++ {
		m = send(t, m, tickMsg{})
	}
	m.frame = 0
	view = m.View()
	if !strings.Contains(view, "AUTHORIZED") {
		t.Error("AUTHORIZED lamp missing when ready")
	}
	if !strings.Contains(view, "READY 100%") {
		t.Error("meter should read 100%")
	}
}

func TestRackSoundStatus(t *testing.T) {
	e := sfx.New(sfx.WithOpener(func() (audio.Context, error) { return nil, audio.ErrNoOutput }))
	m := newRackModel(checklist.NewHost(e), e, "")
	m = send(t, m, keyRune('1'), keyRune('2'))
	if !m.host.Checked(checklist.Screen) {
		t.Fatal("rack must keep working without an output")
	}
	if strings.Contains(m.View(), "sound:") {
		t.Error("missing output must not be shown in the rack")
	}

	muted := sfx.New()
	muted.Disable()
	m = newRackModel(checklist.NewHost(muted), muted, "")
	if !strings.Contains(m.View(), "sound: muted") {
		t.Error("missing muted notice")
	}
}

func TestRenderMeterClamps(t *testing.T) {
	for _, pct := range []float64{-10, 0, 50, 100, 150} {
		line := strings.Split(renderMeter(pct), "\n")[1]
		if n := strings.Count(line, "▼"); n != 1 {
			t.Errorf("pct %.0f: %d needles", pct, n)
		}
	}
}
