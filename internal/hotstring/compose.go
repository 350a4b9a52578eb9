package hotstring

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// transformOp identifies one post-processing step applied to an action's
// raw output. Transforms are kept as data rather than closures so a
// composed pipeline can be inspected in tests.
type transformOp int

const (
	opAppendEndChar transformOp = iota
	opUppercase
	opCapitalize
)

type transform struct {
	op  transformOp
	arg string
}

func (t transform) apply(s string) string {
	switch t.op {
	case opAppendEndChar:
		return s + t.arg
	case opUppercase:
		return strings.ToUpper(s)
	case opCapitalize:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || r == utf8.RuneError && size == 1 {
			return s
		}
		return string(unicode.ToUpper(r)) + s[size:]
	}
	return s
}

// Expansion is a resolved trigger waiting to be executed by the caller.
// Erase is the typed text to remove (empty under NoBackspace); Produce
// yields the replacement text to insert in its place.
type Expansion struct {
	// Erase is the trigger text, including the end character when one
	// qualified the match, that the caller should backspace over.
	Erase string

	def        *Definition
	transforms []transform

	once   sync.Once
	result string
	err    error
}

// compose builds the expansion for a resolved match. trigger is the typed
// text that matched the pattern, in the case it was typed; end is zero when
// the match fired without an end character.
func compose(trigger string, def *Definition, end rune) *Expansion {
	exp := &Expansion{def: def}

	erase := trigger
	if end != 0 {
		erase += string(end)
	}
	if !def.Flags.Has(NoBackspace) {
		exp.Erase = erase
	}

	// The end character was consumed by the trigger, so it is re-appended
	// to the replacement unless the typed text stays put (NoBackspace) or
	// the definition omits it.
	if end != 0 && !def.Flags.Has(NoBackspace) && !def.Flags.Has(OmitEndChar) {
		exp.transforms = append(exp.transforms, transform{op: opAppendEndChar, arg: string(end)})
	}

	if !def.Flags.Has(IgnoreCase) {
		switch {
		case isAllUpper(trigger):
			exp.transforms = append(exp.transforms, transform{op: opUppercase})
		case leadingUpper(trigger):
			exp.transforms = append(exp.transforms, transform{op: opCapitalize})
		}
	}

	return exp
}

// Produce invokes the definition's action and applies the transform
// pipeline to its output. The action runs at most once; repeated calls
// return the first outcome. Action failures propagate unwrapped so the
// caller decides how to surface them.
func (e *Expansion) Produce() (string, error) {
	e.once.Do(func() {
		raw, err := e.def.Action.Produce()
		if err != nil {
			e.err = err
			return
		}
		for _, t := range e.transforms {
			raw = t.apply(raw)
		}
		e.result = raw
	})
	return e.result, e.err
}

// Pattern returns the pattern of the definition that fired.
func (e *Expansion) Pattern() string { return e.def.Pattern }

// isAllUpper reports whether s contains at least one cased character and no
// lower-case ones, mirroring how the whole-word case conformance decides to
// upper-case the replacement.
func isAllUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func leadingUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}
