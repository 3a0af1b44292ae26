// Package checklist holds the rack's four toggle flags and notifies a sound
// player on every toggle and on the rising edge of "all ready".
package checklist

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"studiocheck/sfx"
)

var ErrUnknownItem = errors.New("unknown checklist item")

type Item int

const (
	Camera Item = iota
	Screen
	Audio
	MIDI
)

const NumItems = 4

var itemNames = [NumItems]string{"CAMERA", "SCREEN", "AUDIO", "MIDI"}

func (it Item) String() string {
	if it < 0 || int(it) >= NumItems {
		return fmt.Sprintf("item(%d)", int(it))
	}
	return itemNames[it]
}

// Items returns the items in panel order.
func Items() []Item { return []Item{Camera, Screen, Audio, MIDI} }

// ParseItem accepts an item name (case-insensitive) or its 1-based panel
// position.
func ParseItem(s string) (Item, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= NumItems {
			return Item(n - 1), nil
		}
		return 0, fmt.Errorf("%w: position %d", ErrUnknownItem, n)
	}
	for i, name := range itemNames {
		if strings.EqualFold(name, s) {
			return Item(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownItem, s)
}

// Transition describes what a single toggle changed.
type Transition struct {
	Item        Item
	Direction   sfx.Direction
	BecameReady bool
	LostReady   bool
}

// Checklist is the plain state. It is not safe for concurrent use; Host
// serializes access.
type Checklist struct {
	flags [NumItems]bool
}

func (c *Checklist) Checked(it Item) bool { return c.flags[it] }

func (c *Checklist) Count() int {
	n := 0
	for _, f := range c.flags {
		if f {
			n++
		}
	}
	return n
}

func (c *Checklist) AllReady() bool { return c.Count() == NumItems }

// ReadyPercent is the meter reading: 0, 25, 50, 75 or 100.
func (c *Checklist) ReadyPercent() int { return c.Count() * 100 / NumItems }

// Toggle flips one flag. The direction is taken from the flag's value before
// the flip: an unchecked button engages, a checked one releases.
func (c *Checklist) Toggle(it Item) Transition {
	was := c.AllReady()
	dir := sfx.Engage
	if c.flags[it] {
		dir = sfx.Release
	}
	c.flags[it] = !c.flags[it]
	now := c.AllReady()
	return Transition{
		Item:        it,
		Direction:   dir,
		BecameReady: !was && now,
		LostReady:   was && !now,
	}
}

// Reset clears every flag without producing transitions.
func (c *Checklist) Reset() { c.flags = [NumItems]bool{} }

// Snapshot returns the flags in panel order.
func (c *Checklist) Snapshot() [NumItems]bool { return c.flags }

// String renders the state as "CAMERA=on SCREEN=off ...".
func (c *Checklist) String() string {
	var b strings.Builder
	for i, f := range c.flags {
		if i > 0 {
			b.WriteByte(' ')
		}
		state := "off"
		if f {
			state = "on"
		}
		b.WriteString(itemNames[i] + "=" + state)
	}
	return b.String()
}
