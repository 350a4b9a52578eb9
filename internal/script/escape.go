package script

import "strings"

// escapes is the backtick escape table, longest sequence first so `:: wins
// over shorter matches.
var escapes = []struct {
	seq  string
	repl string
}{
	{"`::", "::"},
	{"``", "`"},
	{"`,", ","},
	{"`%", "%"},
	{"`;", ";"},
	{"`n", "\n"},
	{"`r", "\r"},
	{"`b", "\b"},
	{"`t", "\t"},
	{"`v", "\v"},
	{"`a", "\a"},
	{"`f", "\f"},
}

// Unescape resolves backtick escape sequences. Unrecognized sequences are
// passed through untouched.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '`') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '`' {
			b.WriteByte(s[i])
			i++
			continue
		}
		matched := false
		for _, e := range escapes {
			if strings.HasPrefix(s[i:], e.seq) {
				b.WriteString(e.repl)
				i += len(e.seq)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
