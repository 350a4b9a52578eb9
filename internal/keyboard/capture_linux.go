//go:build linux

package keyboard

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"hotstringd/internal/logging"
)

// inputEvent matches the Linux input_event struct on 64-bit platforms.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

const (
	evKey = 1

	keyRelease = 0
	keyPress   = 1
	keyRepeat  = 2
)

// EvdevCapturer reads key events from /dev/input devices and translates
// them to characters using the US layout tables.
type EvdevCapturer struct {
	devices   []string
	events    chan rune
	quit      chan struct{}
	files     []*os.File
	wg        sync.WaitGroup
	closeOnce sync.Once
	log       *logging.Logger
}

// NewCapturer opens the keyboard devices found on the system. When device
// is non-empty only that event device is opened. The daemon's own virtual
// keyboard is always skipped so typed expansions are not captured again.
func NewCapturer(device string) (Capturer, error) {
	var devices []string
	if device != "" {
		devices = []string{device}
	} else {
		found, err := findKeyboardDevices()
		if err != nil {
			return nil, fmt.Errorf("scanning input devices: %w", err)
		}
		devices = found
	}
	if len(devices) == 0 {
		return nil, ErrNoKeyboard
	}

	c := &EvdevCapturer{
		devices: devices,
		events:  make(chan rune, 64),
		quit:    make(chan struct{}),
		log:     logging.Default().WithComponent("keyboard"),
	}
	return c, nil
}

// findKeyboardDevices parses /proc/bus/input/devices for devices with key
// capabilities and returns their event handler paths.
func findKeyboardDevices() ([]string, error) {
	f, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var devices []string
	var handler, name string
	isKeyboard := false

	flush := func() {
		if isKeyboard && handler != "" && name != virtualDeviceName {
			devices = append(devices, handler)
		}
		handler, name = "", ""
		isKeyboard = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "N: Name="):
			name = strings.Trim(strings.TrimPrefix(line, "N: Name="), `"`)
		case strings.HasPrefix(line, "H: Handlers="):
			for _, part := range strings.Fields(line) {
				if strings.HasPrefix(part, "event") {
					handler = "/dev/input/" + part
				}
			}
		case strings.HasPrefix(line, "B: KEY="):
			// A long KEY bitmap means the device carries real keys,
			// not just power or media buttons.
			if len(strings.TrimPrefix(line, "B: KEY=")) > 8 {
				isKeyboard = true
			}
		case line == "":
			flush()
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return devices, nil
}

// Start opens the devices and begins translating key events. The channel
// returned by Events is closed once all device readers have stopped.
func (c *EvdevCapturer) Start(ctx context.Context) error {
	var opened []*os.File
	for _, dev := range c.devices {
		f, err := os.OpenFile(dev, os.O_RDONLY, 0)
		if err != nil {
			c.log.Warn("cannot open input device", "device", dev, "error", err)
			continue
		}
		opened = append(opened, f)
	}
	if len(opened) == 0 {
		return fmt.Errorf("%w (need to be in the 'input' group or run as root)", ErrNoKeyboard)
	}
	c.files = opened

	for _, f := range opened {
		c.wg.Add(1)
		go c.readLoop(f)
	}
	go func() {
		c.wg.Wait()
		close(c.events)
	}()
	go func() {
		<-ctx.Done()
		c.Close()
	}()

	c.log.Info("capturing keyboard input", "devices", len(opened))
	return nil
}

// Events returns the stream of translated characters.
func (c *EvdevCapturer) Events() <-chan rune {
	return c.events
}

// Close stops all device readers. Safe to call more than once.
func (c *EvdevCapturer) Close() error {
	c.closeOnce.Do(func() {
		close(c.quit)
		// Closing the files unblocks readers stuck in a blocking read.
		for _, f := range c.files {
			f.Close()
		}
	})
	return nil
}

func (c *EvdevCapturer) readLoop(f *os.File) {
	defer c.wg.Done()
	defer f.Close()

	var shift, ctrl, alt, capsLock bool
	var ev inputEvent

	for {
		if err := binary.Read(f, binary.NativeEndian, &ev); err != nil {
			return
		}
		if ev.Type != evKey {
			continue
		}
		pressed := ev.Value == keyPress || ev.Value == keyRepeat

		switch ev.Code {
		case keyLeftShift, keyRightShift:
			shift = ev.Value != keyRelease
			continue
		case keyLeftCtrl, keyRightCtrl:
			ctrl = ev.Value != keyRelease
			continue
		case keyLeftAlt, keyRightAlt:
			alt = ev.Value != keyRelease
			continue
		case keyCapsLock:
			if ev.Value == keyPress {
				capsLock = !capsLock
			}
			continue
		}

		if !pressed {
			continue
		}
		// Chorded shortcuts are not text input.
		if ctrl || alt {
			continue
		}
		ch, ok := runeForKey(ev.Code, shift, capsLock)
		if !ok {
			continue
		}
		select {
		case c.events <- ch:
		case <-c.quit:
			return
		}
	}
}
