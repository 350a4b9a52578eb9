package hotstring

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Action produces the raw replacement text for a fired definition. The
// engine never invokes an Action itself; it hands the caller a deferred
// Expansion whose Produce method runs the action at most once. Actions may
// have side effects (spawning a process) and may block; any timeout policy
// belongs to the caller.
type Action interface {
	Produce() (string, error)
}

// LiteralText expands to a fixed string.
type LiteralText string

func (t LiteralText) Produce() (string, error) { return string(t), nil }

// CommandCaptured runs a command and expands to its stdout with leading and
// trailing whitespace trimmed.
type CommandCaptured []string

func (c CommandCaptured) Produce() (string, error) {
	out, err := runCapture(c)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CommandCapturedRaw runs a command and expands to its stdout verbatim.
type CommandCapturedRaw []string

func (c CommandCapturedRaw) Produce() (string, error) {
	return runCapture(c)
}

// CommandFireAndForget runs a command for its side effects and expands to
// the empty string.
type CommandFireAndForget []string

func (c CommandFireAndForget) Produce() (string, error) {
	if _, err := runCapture(c); err != nil {
		return "", err
	}
	return "", nil
}

func runCapture(argv []string) (string, error) {
	if len(argv) == 0 {
		return "", errors.New("hotstring: empty command")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run %s: %w", argv[0], err)
	}
	return out.String(), nil
}
