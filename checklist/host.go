package checklist

import (
	"sync"

	"studiocheck/log"
	"studiocheck/sfx"
)

// Player is the sound side of the host. *sfx.Engine satisfies it.
type Player interface {
	PlayClick(d sfx.Direction)
	PlayReady()
}

type silent struct{}

func (silent) PlayClick(sfx.Direction) {}
func (silent) PlayReady()              {}

// Host owns a checklist and drives the player: a click on every toggle and
// the ready effect exactly once per false to true edge of AllReady.
type Host struct {
	mu      sync.Mutex
	list    Checklist
	player  Player
	toggles int
	readies int
}

// NewHost wraps p. A nil player makes the host silent.
func NewHost(p Player) *Host {
	if p == nil {
		p = silent{}
	}
	return &Host{player: p}
}

func (h *Host) Toggle(it Item) Transition {
	h.mu.Lock()
	tr := h.list.Toggle(it)
	h.toggles++
	if tr.BecameReady {
		h.readies++
	}
	pct := h.list.ReadyPercent()
	readies := h.readies
	h.mu.Unlock()

	h.player.PlayClick(tr.Direction)
	log.Toggle(it.String(), tr.Direction == sfx.Engage, pct)
	if tr.BecameReady {
		h.player.PlayReady()
		log.Ready(readies)
	}
	return tr
}

// Reset clears the flags silently.
func (h *Host) Reset() {
	h.mu.Lock()
	h.list.Reset()
	h.mu.Unlock()
}

func (h *Host) Checked(it Item) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.Checked(it)
}

func (h *Host) AllReady() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.AllReady()
}

func (h *Host) ReadyPercent() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.ReadyPercent()
}

func (h *Host) Snapshot() [NumItems]bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.Snapshot()
}

func (h *Host) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.list.String()
}

// Stats returns the number of toggles and ready edges seen so far.
func (h *Host) Stats() (toggles, readies int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.toggles, h.readies
}
