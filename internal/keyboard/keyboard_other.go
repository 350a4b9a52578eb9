//go:build !linux

package keyboard

import "time"

// NewCapturer is not available on this platform.
func NewCapturer(device string) (Capturer, error) {
	return nil, ErrNotSupported
}

// NewTyper is not available on this platform.
func NewTyper(keyDelay time.Duration) (Typer, error) {
	return nil, ErrNotSupported
}
