package hotstring

// Detector is the engine's entry point. It feeds each typed character into
// its buffer, resolves the highest-precedence triggered definition, and
// returns the pending expansion. A Detector is single-threaded: calls to
// OnKey must be serialized by the caller, in the order the characters were
// actually typed.
type Detector struct {
	reg  *Registry
	opts Options
	buf  *charBuffer
}

// New creates a Detector over a built registry. The registry and options
// are read-only for the detector's lifetime. An empty registry is valid;
// no character sequence will ever trigger.
func New(reg *Registry, opts Options) *Detector {
	return &Detector{
		reg:  reg,
		opts: opts,
		buf:  newCharBuffer(reg.longest),
	}
}

// OnKey processes one typed character. The Backspace rune undoes the
// previously typed character instead of being buffered. When the character
// completes a registered abbreviation, OnKey clears the buffer (so residual
// characters cannot re-trigger) and returns the expansion for the caller to
// execute. OnKey never blocks and never fails.
func (d *Detector) OnKey(ch rune) (*Expansion, bool) {
	backspace := ch == Backspace
	if backspace {
		d.buf.pop()
	} else {
		d.buf.push(ch)
	}
	snap := d.buf.snapshot()

	// End-char-qualified matches are scoped to the word being typed, so a
	// hotstring cannot reach back across a previously finished word. They
	// only apply when the event itself is an end character.
	if !backspace && d.opts.isEndChar(ch) {
		if exp, ok := d.matchCurrentWord(snap, ch); ok {
			d.buf.clear()
			return exp, true
		}
	}

	// NoEndChar definitions scan the whole retained buffer; they are meant
	// to fire mid-word, including after a corrective backspace.
	if exp, ok := d.matchWholeBuffer(snap); ok {
		d.buf.clear()
		return exp, true
	}

	return nil, false
}

// matchCurrentWord matches non-NoEndChar definitions against the word
// typed immediately before the end character, which sits at the end of the
// snapshot.
func (d *Detector) matchCurrentWord(snap []rune, end rune) (*Expansion, bool) {
	word := snap[:len(snap)-1]
	start := len(word)
	for start > 0 && !d.opts.isEndChar(word[start-1]) {
		start--
	}
	word = word[start:]
	if len(word) == 0 {
		return nil, false
	}

	cand, ok := d.reg.match(word, false, nil)
	if !ok {
		return nil, false
	}
	matched := string(word[len(word)-cand.length:])
	return compose(matched, cand.def, end), true
}

// matchWholeBuffer matches NoEndChar definitions against suffixes of the
// full buffer. Without MatchSuffix the match must start a word: at the
// buffer's beginning or right after an end character, so a pattern cannot
// fire inside a longer word, but does fire after earlier untriggered words
// still held in history.
func (d *Detector) matchWholeBuffer(snap []rune) (*Expansion, bool) {
	if len(snap) == 0 {
		return nil, false
	}
	cand, ok := d.reg.match(snap, true, func(start int) bool {
		return d.opts.isEndChar(snap[start-1])
	})
	if !ok {
		return nil, false
	}
	matched := string(snap[len(snap)-cand.length:])
	return compose(matched, cand.def, 0), true
}
