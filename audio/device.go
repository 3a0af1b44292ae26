package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrPickerCancelled is returned when the user aborts the device picker.
var ErrPickerCancelled = errors.New("device selection cancelled")

type pickerKey int

const (
	keyNone pickerKey = iota
	keyUp
	keyDown
	keyConfirm
	keyCancel
)

// decodeKey maps one raw-mode read to a picker action.
func decodeKey(buf []byte) pickerKey {
	switch {
	case len(buf) == 1:
		switch buf[0] {
		case '\r', '\n':
			return keyConfirm
		case 3, 'q': // Ctrl+C
			return keyCancel
		case 'j':
			return keyDown
		case 'k':
			return keyUp
		}
	case len(buf) == 3 && buf[0] == 0x1b && buf[1] == '[':
		switch buf[2] {
		case 'A':
			return keyUp
		case 'B':
			return keyDown
		}
	}
	return keyNone
}

func moveCursor(cursor, n int, k pickerKey) int {
	switch k {
	case keyUp:
		if cursor > 0 {
			cursor--
		}
	case keyDown:
		if cursor < n-1 {
			cursor++
		}
	}
	return cursor
}

func renderPicker(w io.Writer, devices []DeviceInfo, cursor int) {
	fmt.Fprint(w, "\r\x1b[J")
	fmt.Fprint(w, "Select output device (↑/↓, Enter to confirm):\r\n\r\n")
	for i, d := range devices {
		btTag := ""
		if IsBluetooth(d.Name) {
			btTag = " \x1b[33m[⚠ adds latency]\x1b[0m"
		}
		if i == cursor {
			fmt.Fprintf(w, "  \x1b[1;36m▶ %s%s\x1b[0m\r\n", d.Name, btTag)
		} else {
			fmt.Fprintf(w, "    %s%s\r\n", d.Name, btTag)
		}
	}
}

// SelectDevice presents an interactive playback-device picker on the terminal.
// If only one device is available it is returned without prompting.
func SelectDevice(ctx Context) (*DeviceInfo, error) {
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no playback devices found")
	}
	if len(devices) == 1 {
		return &devices[0], nil
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	cursor := 0
	renderPicker(os.Stdout, devices, cursor)

	buf := make([]byte, 3)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("reading input: %w", err)
		}

		switch k := decodeKey(buf[:n]); k {
		case keyConfirm:
			fmt.Print("\r\n")
			return &devices[cursor], nil
		case keyCancel:
			fmt.Print("\r\n")
			return nil, ErrPickerCancelled
		default:
			cursor = moveCursor(cursor, len(devices), k)
		}

		fmt.Printf("\x1b[%dA", len(devices)+2)
		renderPicker(os.Stdout, devices, cursor)
	}
}

// FindDevice returns the device whose name or ID matches, or nil.
func FindDevice(ctx Context, nameOrID string) (*DeviceInfo, error) {
	if nameOrID == "" {
		return nil, nil
	}
	devices, err := ctx.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerating devices: %w", err)
	}
	for i := range devices {
		if devices[i].Name == nameOrID || devices[i].ID == nameOrID {
			return &devices[i], nil
		}
	}
	return nil, fmt.Errorf("device %q not found", nameOrID)
}
