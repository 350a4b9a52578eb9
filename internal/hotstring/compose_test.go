package hotstring

import (
	"errors"
	"testing"
)

type countingAction struct {
	calls int
	text  string
}

func (a *countingAction) Produce() (string, error) {
	a.calls++
	return a.text, nil
}

type failingAction struct{ err error }

func (a failingAction) Produce() (string, error) { return "", a.err }

func TestTransformApply(t *testing.T) {
	cases := []struct {
		name string
		tr   transform
		in   string
		want string
	}{
		{"append end char", transform{op: opAppendEndChar, arg: "."}, "yield", "yield."},
		{"uppercase", transform{op: opUppercase}, "yield.", "YIELD."},
		{"capitalize first rune only", transform{op: opCapitalize}, "yield now", "Yield now"},
		{"capitalize empty string", transform{op: opCapitalize}, "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tr.apply(tc.in); got != tc.want {
				t.Errorf("apply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsAllUpper(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"YL", true},
		{"A.", true},
		{"Yl", false},
		{"yl", false},
		{"..", false}, // no cased characters at all
		{"", false},
	}
	for _, tc := range cases {
		if got := isAllUpper(tc.in); got != tc.want {
			t.Errorf("isAllUpper(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExpansionProducesActionOnce(t *testing.T) {
	action := &countingAction{text: "yield"}
	def := &Definition{Pattern: "yl", Action: action}
	exp := compose("yl", def, ' ')

	for i := 0; i < 3; i++ {
		got, err := exp.Produce()
		if err != nil {
			t.Fatalf("produce: %v", err)
		}
		if got != "yield " {
			t.Errorf("Produce() = %q, want %q", got, "yield ")
		}
	}
	if action.calls != 1 {
		t.Errorf("action ran %d times, want exactly 1", action.calls)
	}
}

func TestExpansionPropagatesActionFailure(t *testing.T) {
	boom := errors.New("command exploded")
	def := &Definition{Pattern: "yl", Action: failingAction{err: boom}}
	exp := compose("yl", def, ' ')

	if _, err := exp.Produce(); !errors.Is(err, boom) {
		t.Fatalf("Produce() error = %v, want %v", err, boom)
	}
	// The failure is sticky, like the success path.
	if _, err := exp.Produce(); !errors.Is(err, boom) {
		t.Fatalf("second Produce() error = %v, want %v", err, boom)
	}
}

func TestComposeTransformOrder(t *testing.T) {
	// The end character is appended before case conformance runs, so a
	// capitalized trigger capitalizes the replacement text, not the
	// appended delimiter.
	def := &Definition{Pattern: "yl", Action: LiteralText("yield")}
	exp := compose("Yl", def, ' ')

	got, err := exp.Produce()
	if err != nil {
		t.Fatalf("produce: %v", err)
	}
	if got != "Yield " {
		t.Errorf("Produce() = %q, want %q", got, "Yield ")
	}
}
