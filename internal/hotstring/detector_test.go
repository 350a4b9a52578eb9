package hotstring

import (
	"testing"
)

// fired captures the observable outcome of one triggered expansion.
type fired struct {
	erase string
	text  string
}

func newTestDetector(t *testing.T, defs []Definition) *Detector {
	t.Helper()
	reg, err := Build(defs)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return New(reg, DefaultOptions())
}

// feed types each character of typed into the detector and returns the
// per-keystroke outcomes, nil where nothing triggered.
func feed(t *testing.T, d *Detector, typed string) []*fired {
	t.Helper()
	var out []*fired
	for _, ch := range typed {
		exp, ok := d.OnKey(ch)
		if !ok {
			out = append(out, nil)
			continue
		}
		text, err := exp.Produce()
		if err != nil {
			t.Fatalf("produce: %v", err)
		}
		out = append(out, &fired{erase: exp.Erase, text: text})
	}
	return out
}

func checkFired(t *testing.T, got []*fired, want map[int]fired, typed string) {
	t.Helper()
	for i, g := range got {
		w, expect := want[i]
		switch {
		case g == nil && expect:
			t.Errorf("typed %q: no trigger at position %d, want erase=%q text=%q", typed, i, w.erase, w.text)
		case g != nil && !expect:
			t.Errorf("typed %q: unexpected trigger at position %d: erase=%q text=%q", typed, i, g.erase, g.text)
		case g != nil && expect && *g != w:
			t.Errorf("typed %q: trigger at position %d = (erase=%q, text=%q), want (erase=%q, text=%q)",
				typed, i, g.erase, g.text, w.erase, w.text)
		}
	}
}

func TestDetectorSequences(t *testing.T) {
	cases := []struct {
		name  string
		defs  []Definition
		typed string
		want  map[int]fired
	}{
		{
			name:  "whole word with end char",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield")}},
			typed: "yl ",
			want:  map[int]fired{2: {"yl ", "yield "}},
		},
		{
			name:  "buffer cleared after trigger",
			defs:  []Definition{{Pattern: "ab", Action: LiteralText("abc")}},
			typed: "ab \b\bb ",
			want:  map[int]fired{2: {"ab ", "abc "}},
		},
		{
			name:  "upper case definition matches lower typing",
			defs:  []Definition{{Pattern: "YL", Action: LiteralText("yield")}},
			typed: "yl ",
			want:  map[int]fired{2: {"yl ", "yield "}},
		},
		{
			name:  "capitalized typing capitalizes replacement",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield")}},
			typed: "Yl ",
			want:  map[int]fired{2: {"Yl ", "Yield "}},
		},
		{
			name:  "upper typing upper-cases replacement",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield")}},
			typed: "YL ",
			want:  map[int]fired{2: {"YL ", "YIELD "}},
		},
		{
			name:  "no trigger when pattern ends a longer word",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield")}},
			typed: "ayl ",
			want:  nil,
		},
		{
			name:  "no trigger when pattern starts a longer word",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield")}},
			typed: "yla ",
			want:  nil,
		},
		{
			name:  "no end char fires on completion",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield"), Flags: NoEndChar}},
			typed: "yl",
			want:  map[int]fired{1: {"yl", "yield"}},
		},
		{
			name:  "no end char fires back to back",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "a.a.",
			want:  map[int]fired{1: {"a.", "abracadabra"}, 3: {"a.", "abracadabra"}},
		},
		{
			name:  "no end char does not fire on a substring",
			defs:  []Definition{{Pattern: "a", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "Za",
			want:  nil,
		},
		{
			name:  "no end char fires after an earlier word",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "x a.",
			want:  map[int]fired{3: {"a.", "abracadabra"}},
		},
		{
			name:  "no end char fires with untriggered history in the buffer",
			defs:  []Definition{{Pattern: "btw", Action: LiteralText("by the way"), Flags: NoEndChar}},
			typed: "ok btw",
			want:  map[int]fired{5: {"btw", "by the way"}},
		},
		{
			name:  "no end char does not fire at the end of a longer word",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "xa.",
			want:  nil,
		},
		{
			name:  "no end char with suffix matching fires inside a word",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar | MatchSuffix}},
			typed: "xa.",
			want:  map[int]fired{2: {"a.", "abracadabra"}},
		},
		{
			name:  "backspace repairs the buffer",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "a \b.",
			want:  map[int]fired{3: {"a.", "abracadabra"}},
		},
		{
			name:  "backspace fully undoes typed characters",
			defs:  []Definition{{Pattern: "a.", Action: LiteralText("abracadabra"), Flags: NoEndChar}},
			typed: "a\b\b.",
			want:  nil,
		},
		{
			name:  "suffix match inside a longer word",
			defs:  []Definition{{Pattern: "al", Action: LiteralText("airline"), Flags: MatchSuffix}},
			typed: "practical ",
			want:  map[int]fired{9: {"al ", "airline "}},
		},
		{
			name:  "no backspace keeps typed text and drops end char",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield"), Flags: NoBackspace}},
			typed: "yl.",
			want:  map[int]fired{2: {"", "yield"}},
		},
		{
			name:  "omit end char erases it without re-appending",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield"), Flags: OmitEndChar}},
			typed: "yl.",
			want:  map[int]fired{2: {"yl.", "yield"}},
		},
		{
			name:  "ignore case skips case conformance",
			defs:  []Definition{{Pattern: "yl", Action: LiteralText("yield"), Flags: IgnoreCase}},
			typed: "YL ",
			want:  map[int]fired{2: {"YL ", "yield "}},
		},
		{
			name: "registration order breaks ties",
			defs: []Definition{
				{Pattern: "al", Action: LiteralText("airline"), Flags: MatchSuffix},
				{Pattern: "cal", Action: LiteralText("calcium"), Flags: MatchSuffix},
			},
			typed: "practical ",
			want:  map[int]fired{9: {"al ", "airline "}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := newTestDetector(t, tc.defs)
			got := feed(t, d, tc.typed)
			checkFired(t, got, tc.want, tc.typed)
		})
	}
}

func TestDetectorEmptyRegistry(t *testing.T) {
	d := newTestDetector(t, nil)
	got := feed(t, d, "anything at all\b\b ")
	checkFired(t, got, nil, "anything at all\\b\\b ")
}

func TestDetectorBackspaceOnEmptyBuffer(t *testing.T) {
	d := newTestDetector(t, []Definition{{Pattern: "yl", Action: LiteralText("yield")}})
	if _, ok := d.OnKey(Backspace); ok {
		t.Fatal("backspace on empty buffer must not trigger")
	}
	// The buffer must still accumulate normally afterwards.
	got := feed(t, d, "yl ")
	checkFired(t, got, map[int]fired{2: {"yl ", "yield "}}, "yl ")
}

func TestDetectorCaseSensitiveShadowsFoldedEntry(t *testing.T) {
	// A case-sensitive definition occupies the folded key first, so the
	// later case-insensitive definition loses its fallback entry. This
	// collision behavior is deliberate and relied upon by existing
	// configurations.
	defs := []Definition{
		{Pattern: "btw", Action: LiteralText("by the way"), Flags: CaseSensitive},
		{Pattern: "BTW", Action: LiteralText("by the way")},
	}
	d := newTestDetector(t, defs)

	got := feed(t, d, "btw ")
	checkFired(t, got, map[int]fired{3: {"btw ", "by the way "}}, "btw ")

	got = feed(t, d, "BTW ")
	checkFired(t, got, map[int]fired{3: {"BTW ", "BY THE WAY "}}, "BTW ")

	// Mixed case matches neither the exact entries nor a folded fallback.
	got = feed(t, d, "Btw ")
	checkFired(t, got, nil, "Btw ")
}

func TestDetectorCustomEndChars(t *testing.T) {
	reg, err := Build([]Definition{{Pattern: "yl", Action: LiteralText("yield")}})
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	d := New(reg, Options{EndChars: " "})

	got := feed(t, d, "yl.")
	checkFired(t, got, nil, "yl.")

	d.buf.clear()
	got = feed(t, d, "yl ")
	checkFired(t, got, map[int]fired{2: {"yl ", "yield "}}, "yl ")
}

func TestDetectorEndCharBoundsWord(t *testing.T) {
	// The word being matched stops at the nearest preceding end char, so
	// an abbreviation typed right after punctuation still triggers.
	d := newTestDetector(t, []Definition{{Pattern: "yl", Action: LiteralText("yield")}})
	got := feed(t, d, "so,yl ")
	checkFired(t, got, map[int]fired{5: {"yl ", "yield "}}, "so,yl ")
}
