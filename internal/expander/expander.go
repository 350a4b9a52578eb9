// Package expander drives the matching engine from a character stream and
// executes the expansions it resolves: erasing the trigger, typing the
// replacement, and recording what fired.
package expander

import (
	"context"
	"regexp"
	"sync"
	"unicode/utf8"

	"hotstringd/internal/hotstring"
	"hotstringd/internal/keyboard"
	"hotstringd/internal/logging"
)

// Recorder receives one call per executed expansion. The sqlite stats
// store satisfies it; a nil Recorder disables recording.
type Recorder interface {
	Record(pattern string) error
}

// Notifier surfaces expansion failures to the desktop. A nil Notifier
// leaves failures in the log only.
type Notifier interface {
	Error(summary, body string) error
}

// Processor owns a detector and a typer and runs the capture-match-type
// loop. The detector can be swapped at runtime when the definition file
// changes; keys arriving during the swap go to one detector or the other,
// never both.
type Processor struct {
	mu       sync.Mutex
	detector *hotstring.Detector

	typer    keyboard.Typer
	stats    Recorder
	notifier Notifier
	log      *logging.Logger
}

// New creates a Processor. stats and notifier may be nil.
func New(det *hotstring.Detector, typer keyboard.Typer, stats Recorder, notifier Notifier) *Processor {
	return &Processor{
		detector: det,
		typer:    typer,
		stats:    stats,
		notifier: notifier,
		log:      logging.Default().WithComponent("expander"),
	}
}

// Swap replaces the detector, dropping any partially typed trigger state.
// Used on definition hot reload.
func (p *Processor) Swap(det *hotstring.Detector) {
	p.mu.Lock()
	p.detector = det
	p.mu.Unlock()
	p.log.Info("definitions swapped")
}

// Run consumes events until the channel closes or ctx is canceled. Failed
// expansions are logged and the loop continues; only typer errors stop it,
// since without a working output device nothing further can be expanded.
func (p *Processor) Run(ctx context.Context, events <-chan rune) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ch, ok := <-events:
			if !ok {
				return nil
			}
			if err := p.handle(ch); err != nil {
				return err
			}
		}
	}
}

// Characters typed as text arrive as '\n'; the virtual keyboard's enter
// key round-trips as '\r' through most terminals, so replacements carry CR.
var newlineRe = regexp.MustCompile(`\r?\n`)

func normalizeNewlines(s string) string {
	return newlineRe.ReplaceAllString(s, "\r")
}

func (p *Processor) handle(ch rune) error {
	p.mu.Lock()
	exp, fired := p.detector.OnKey(ch)
	p.mu.Unlock()
	if !fired {
		return nil
	}

	text, err := exp.Produce()
	if err != nil {
		p.log.Error("expansion failed", "pattern", exp.Pattern(), "error", err)
		if p.notifier != nil {
			if nerr := p.notifier.Error("Expansion failed", exp.Pattern()+": "+err.Error()); nerr != nil {
				p.log.Warn("notification failed", "error", nerr)
			}
		}
		return nil
	}

	if n := utf8.RuneCountInString(exp.Erase); n > 0 {
		if err := p.typer.Backspaces(n); err != nil {
			return err
		}
	}
	if err := p.typer.TypeString(normalizeNewlines(text)); err != nil {
		return err
	}
	p.log.Debug("expanded", "pattern", exp.Pattern(), "erased", len(exp.Erase), "typed", len(text))

	if p.stats != nil {
		if err := p.stats.Record(exp.Pattern()); err != nil {
			p.log.Warn("recording expansion failed", "pattern", exp.Pattern(), "error", err)
		}
	}
	return nil
}
