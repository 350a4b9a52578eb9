package hotjson

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotstringd/internal/hotstring"
)

func TestParseDocument(t *testing.T) {
	doc := `{
	  "endchars": ". \n",
	  "hotstrings": {
	    "btw":  {"replace": "by the way"},
	    "now":  {"run-replace": ["date", "+%H:%M"]},
	    "week": {"run-replace-raw": "cal -w"},
	    "lock": {"run": ["loginctl", "lock-session"], "flags": ["no-end-char"]}
	  }
	}`

	defs, opts, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, defs, 4)

	assert.Equal(t, ". \n", opts.EndChars)

	assert.Equal(t, "btw", defs[0].Pattern)
	assert.Equal(t, hotstring.LiteralText("by the way"), defs[0].Action)

	assert.Equal(t, "now", defs[1].Pattern)
	assert.Equal(t, hotstring.CommandCaptured{"date", "+%H:%M"}, defs[1].Action)

	assert.Equal(t, "week", defs[2].Pattern)
	assert.Equal(t, hotstring.CommandCapturedRaw{"/bin/sh", "-c", "cal -w"}, defs[2].Action)

	assert.Equal(t, "lock", defs[3].Pattern)
	assert.Equal(t, hotstring.CommandFireAndForget{"loginctl", "lock-session"}, defs[3].Action)
	assert.True(t, defs[3].Flags.Has(hotstring.NoEndChar))
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	// Registration order is the precedence tie-break, so the decoder must
	// not lose the document's key order to a map.
	var b strings.Builder
	b.WriteString(`{"hotstrings":{`)
	for i := 0; i < 50; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `"p%02d":{"replace":"r"}`, i)
	}
	b.WriteString("}}")

	defs, _, err := Parse(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, defs, 50)
	for i, def := range defs {
		assert.Equal(t, fmt.Sprintf("p%02d", i), def.Pattern)
	}
}

func TestParseDefaultEndChars(t *testing.T) {
	defs, opts, err := Parse(strings.NewReader(`{"hotstrings":{"btw":{"replace":"by the way"}}}`))
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, hotstring.DefaultEndChars, opts.EndChars)
}

func TestParseAllFlags(t *testing.T) {
	doc := `{"hotstrings":{"x":{"replace":"y","flags":
	  ["no-end-char","case-sensitive","match-suffix","ignore-case","no-backspace","omit-end-char"]}}}`
	defs, _, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	want := hotstring.NoEndChar | hotstring.CaseSensitive | hotstring.MatchSuffix |
		hotstring.IgnoreCase | hotstring.NoBackspace | hotstring.OmitEndChar
	assert.Equal(t, want, defs[0].Flags)
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"missing hotstrings", `{"endchars": "."}`},
		{"empty hotstrings", `{"hotstrings": {}}`},
		{"empty pattern", `{"hotstrings": {"": {"replace": "x"}}}`},
		{"no action", `{"hotstrings": {"btw": {}}}`},
		{"two actions", `{"hotstrings": {"btw": {"replace": "a", "run": "b"}}}`},
		{"unknown action", `{"hotstrings": {"btw": {"paste": "a"}}}`},
		{"unknown flag", `{"hotstrings": {"btw": {"replace": "a", "flags": ["sideways"]}}}`},
		{"empty argv", `{"hotstrings": {"btw": {"run": []}}}`},
		{"top-level array", `["btw"]`},
		{"stray top-level key", `{"hotstrings": {"btw": {"replace": "a"}}, "extra": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}
}
