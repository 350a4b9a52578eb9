// Package hotstring implements the streaming abbreviation-matching engine
// behind hotstringd.
//
// The engine consumes one typed character per call and decides whether the
// recently typed text completes a registered abbreviation, which definition
// wins when several could match, and what text the caller should erase and
// insert. It performs no I/O of its own: capturing keystrokes, producing
// replacement text with side effects, and synthesizing output keystrokes are
// all supplied by collaborators.
//
// Matching is layered: end-character-qualified matches are scoped to the
// word currently being typed, while NoEndChar definitions fire the instant
// their pattern is completed anywhere in the retained buffer. Precedence
// between overlapping definitions is registration order, with exact-case
// matches preferred over case-folded fallbacks.
package hotstring

import (
	"fmt"
	"strings"
)

// Flags adjust how a definition matches and how its replacement is emitted.
type Flags uint8

const (
	// NoEndChar fires the definition immediately on completing the
	// pattern, without requiring a trailing end character.
	NoEndChar Flags = 1 << iota

	// CaseSensitive requires exact character case and disables the
	// case-insensitive fallback entry.
	CaseSensitive

	// MatchSuffix lets the pattern match as a suffix of the typed word
	// instead of requiring the whole word.
	MatchSuffix

	// IgnoreCase skips the case-conformance transform on the replacement.
	IgnoreCase

	// NoBackspace leaves the typed trigger text in place.
	NoBackspace

	// OmitEndChar does not re-append the end character that triggered
	// the match.
	OmitEndChar
)

// Has reports whether flag is set.
func (f Flags) Has(flag Flags) bool { return f&flag != 0 }

// Backspace is the event rune that undoes the previously typed character.
const Backspace = '\b'

// DefaultEndChars is the default word-boundary character set, matching
// AutoHotkey's stock EndChars.
const DefaultEndChars = "-()[]{}:;'\"/\\,.?!\n \t"

// Definition is a single registered abbreviation. Definitions are immutable
// once a Registry has been built from them; precedence between definitions
// is their position in the slice handed to Build.
type Definition struct {
	Pattern string
	Action  Action
	Flags   Flags
}

// Options holds settings shared by all definitions.
type Options struct {
	// EndChars is the set of characters that terminate a triggering word.
	EndChars string
}

// DefaultOptions returns Options with the stock end-character set.
func DefaultOptions() Options {
	return Options{EndChars: DefaultEndChars}
}

func (o Options) isEndChar(r rune) bool {
	return strings.ContainsRune(o.EndChars, r)
}

// DefinitionError reports a malformed definition handed to Build.
type DefinitionError struct {
	Index   int
	Pattern string
	Reason  string
}

func (e *DefinitionError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("hotstring: definition %d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("hotstring: definition %d (%q): %s", e.Index, e.Pattern, e.Reason)
}
