package keyboard

import "testing"

func TestRuneForKey(t *testing.T) {
	cases := []struct {
		name  string
		code  uint16
		shift bool
		caps  bool
		want  rune
	}{
		{"letter", 30, false, false, 'a'},
		{"shifted letter", 30, true, false, 'A'},
		{"caps lock letter", 30, false, true, 'A'},
		{"caps lock with shift cancels", 30, true, true, 'a'},
		{"digit", 2, false, false, '1'},
		{"shifted digit", 2, true, false, '!'},
		{"caps lock leaves digits alone", 2, false, true, '1'},
		{"space", keySpace, false, false, ' '},
		{"backspace", keyBackspace, false, false, '\b'},
		{"enter", keyEnter, true, false, '\n'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := runeForKey(tc.code, tc.shift, tc.caps)
			if !ok {
				t.Fatalf("runeForKey(%d) not mapped", tc.code)
			}
			if got != tc.want {
				t.Errorf("runeForKey(%d, shift=%v, caps=%v) = %q, want %q", tc.code, tc.shift, tc.caps, got, tc.want)
			}
		})
	}
}

func TestRuneForKeyUnmappedCodes(t *testing.T) {
	for _, code := range []uint16{0, 1, keyLeftShift, keyLeftCtrl, keyCapsLock, 200} {
		if _, ok := runeForKey(code, false, false); ok {
			t.Errorf("code %d should not map to a character", code)
		}
	}
}

func TestKeystrokeRoundTrip(t *testing.T) {
	// Every printable ASCII character must be typeable, and typing it must
	// produce the same character back through the capture translation.
	for r := rune(' '); r <= '~'; r++ {
		ks, ok := keystrokeForRune(r)
		if !ok {
			t.Errorf("no keystroke for %q", r)
			continue
		}
		got, ok := runeForKey(ks.code, ks.shift, false)
		if !ok || got != r {
			t.Errorf("round trip for %q: got %q (mapped=%v)", r, got, ok)
		}
	}
}

func TestKeystrokeForControlCharacters(t *testing.T) {
	for _, r := range "\n\r\t\b" {
		if _, ok := keystrokeForRune(r); !ok {
			t.Errorf("no keystroke for control character %q", r)
		}
	}
	// Carriage return and newline share the enter key.
	cr, _ := keystrokeForRune('\r')
	nl, _ := keystrokeForRune('\n')
	if cr.code != nl.code {
		t.Errorf("CR maps to code %d, NL to %d; want the same key", cr.code, nl.code)
	}
}

func TestKeystrokeForRuneOutsideLayout(t *testing.T) {
	if _, ok := keystrokeForRune('é'); ok {
		t.Error("é should not be typeable on the US layout")
	}
}
