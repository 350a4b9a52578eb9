// Package keyboard supplies the two host capabilities the matching engine
// leaves to collaborators: capturing typed characters and synthesizing
// output keystrokes.
//
// On Linux, capture reads the kernel's /dev/input event devices and output
// goes through a /dev/uinput virtual keyboard. Other platforms get explicit
// not-supported stubs.
package keyboard

import (
	"context"
	"errors"
)

var (
	// ErrNotSupported is returned on platforms without an implementation.
	ErrNotSupported = errors.New("keyboard: not supported on this platform")

	// ErrNoKeyboard is returned when no readable keyboard device exists
	// (on Linux this usually means the user is not in the input group).
	ErrNoKeyboard = errors.New("keyboard: no readable keyboard device found")
)

// Capturer streams typed characters in the order they occurred. The
// backspace key arrives as '\b'; keys with no character meaning (arrows,
// function keys, shortcuts held with ctrl or alt) are dropped at the
// source.
type Capturer interface {
	// Start begins capturing. The stream ends when ctx is canceled or
	// the capturer is closed.
	Start(ctx context.Context) error

	// Events returns the character stream. The channel is closed when
	// capture stops.
	Events() <-chan rune

	// Close stops capturing and releases the devices.
	Close() error
}

// Typer synthesizes keystrokes into the focused application.
type Typer interface {
	// Backspaces emits n backspace key taps.
	Backspaces(n int) error

	// TypeString emits key taps producing s. Characters the active
	// keymap cannot produce are skipped.
	TypeString(s string) error

	// Close releases the output device.
	Close() error
}
