//go:build linux

package keyboard

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"hotstringd/internal/logging"
)

// virtualDeviceName identifies the synthesis device so the capturer can
// skip it and expansions are not re-captured as input.
const virtualDeviceName = "hotstringd virtual keyboard"

// uinput ioctl request numbers from linux/uinput.h.
const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	evSyn     = 0
	synReport = 0
)

// uinputUserDev matches struct uinput_user_device from linux/uinput.h.
type uinputUserDev struct {
	Name      [80]byte
	ID        inputID
	FFEffects uint32
	AbsMax    [64]int32
	AbsMin    [64]int32
	AbsFuzz   [64]int32
	AbsFlat   [64]int32
}

type inputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// UinputTyper synthesizes key events through a /dev/uinput virtual keyboard.
type UinputTyper struct {
	f        *os.File
	keyDelay time.Duration
	log      *logging.Logger
}

// NewTyper creates the virtual keyboard. keyDelay is the pause between
// synthesized key taps; some toolkits drop events injected back to back.
func NewTyper(keyDelay time.Duration) (Typer, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("opening /dev/uinput: %w", err)
	}

	fd := int(f.Fd())
	if err := unix.IoctlSetInt(fd, uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("enabling key events: %w", err)
	}
	codes := map[uint16]bool{keyLeftShift: true}
	for code := range usLayout {
		codes[code] = true
	}
	for code := range codes {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("registering key %d: %w", code, err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], virtualDeviceName)
	dev.ID = inputID{BusType: 0x03, Vendor: 0x1, Product: 0x1, Version: 1}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return nil, fmt.Errorf("configuring virtual keyboard: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}

	// The device node takes a moment to appear; typing into it before
	// the compositor has picked it up loses events.
	time.Sleep(200 * time.Millisecond)

	return &UinputTyper{
		f:        f,
		keyDelay: keyDelay,
		log:      logging.Default().WithComponent("keyboard"),
	}, nil
}

// Backspaces taps the backspace key n times.
func (t *UinputTyper) Backspaces(n int) error {
	for i := 0; i < n; i++ {
		if err := t.tap(keyBackspace, false); err != nil {
			return err
		}
	}
	return nil
}

// TypeString types s on the virtual keyboard. Characters outside the
// layout are skipped with a warning rather than aborting the expansion.
func (t *UinputTyper) TypeString(s string) error {
	for _, r := range s {
		ks, ok := keystrokeForRune(r)
		if !ok {
			t.log.Warn("character not typeable on layout", "char", string(r))
			continue
		}
		if err := t.tap(ks.code, ks.shift); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the virtual keyboard.
func (t *UinputTyper) Close() error {
	unix.IoctlSetInt(int(t.f.Fd()), uiDevDestroy, 0)
	return t.f.Close()
}

// tap presses and releases a key, wrapping it in shift when needed.
func (t *UinputTyper) tap(code uint16, shift bool) error {
	if shift {
		if err := t.emit(evKey, keyLeftShift, keyPress); err != nil {
			return err
		}
		if err := t.emit(evSyn, synReport, 0); err != nil {
			return err
		}
	}
	if err := t.emit(evKey, code, keyPress); err != nil {
		return err
	}
	if err := t.emit(evSyn, synReport, 0); err != nil {
		return err
	}
	if err := t.emit(evKey, code, keyRelease); err != nil {
		return err
	}
	if err := t.emit(evSyn, synReport, 0); err != nil {
		return err
	}
	if shift {
		if err := t.emit(evKey, keyLeftShift, keyRelease); err != nil {
			return err
		}
		if err := t.emit(evSyn, synReport, 0); err != nil {
			return err
		}
	}
	if t.keyDelay > 0 {
		time.Sleep(t.keyDelay)
	}
	return nil
}

func (t *UinputTyper) emit(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &ev); err != nil {
		return err
	}
	_, err := t.f.Write(buf.Bytes())
	return err
}
