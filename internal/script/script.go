// Package script parses AutoHotkey-style hotstring scripts into
// definitions the matching engine can register.
//
// The format is line oriented:
//
//	#Hotstring EndChars -()[]{}:;'"/\,.?!`n `t
//	::btw::by the way
//	:*:sig::`n-- `nJ. Smith
//
// Hotstring lines take the form :options:pattern::replacement. Blank lines
// and lines that are neither directives nor hotstrings are ignored, like
// the formats this mirrors.
package script

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"hotstringd/internal/hotstring"
)

// ParseError reports a malformed line with its position in the input.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("script: line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

var endCharsDirective = regexp.MustCompile(`^#Hotstring\s+EndChars\s+`)

// Parse reads hotstring definitions from r, in file order. The returned
// options carry the end-character set, which an EndChars directive may
// override anywhere in the file.
func Parse(r io.Reader) ([]hotstring.Definition, hotstring.Options, error) {
	opts := hotstring.DefaultOptions()
	var defs []hotstring.Definition

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, ":"):
			def, err := parseHotstringLine(line)
			if err != nil {
				return nil, opts, &ParseError{Line: lineno, Err: err}
			}
			defs = append(defs, def)
		case strings.HasPrefix(line, "#"):
			endChars, err := parseDirective(line)
			if err != nil {
				return nil, opts, &ParseError{Line: lineno, Err: err}
			}
			opts.EndChars = endChars
		}
	}
	if err := sc.Err(); err != nil {
		return nil, opts, fmt.Errorf("script: read: %w", err)
	}

	return defs, opts, nil
}

// parseDirective handles #Hotstring EndChars lines. The character set is
// unescaped so control characters like `n and `t can appear in it.
func parseDirective(line string) (string, error) {
	loc := endCharsDirective.FindStringIndex(line)
	if loc == nil {
		return "", fmt.Errorf("unsupported directive %q", line)
	}
	return Unescape(line[loc[1]:]), nil
}

// parseHotstringLine splits :options:pattern::replacement. The separator is
// the first unescaped "::" after the options block; pattern and replacement
// both honor the backtick escape table.
func parseHotstringLine(line string) (hotstring.Definition, error) {
	var def hotstring.Definition

	rest, ok := strings.CutPrefix(line, ":")
	if !ok {
		return def, fmt.Errorf("hotstring line must start with ':'")
	}
	optEnd := strings.IndexByte(rest, ':')
	if optEnd < 0 {
		return def, fmt.Errorf("missing options terminator ':'")
	}
	flags, err := parseFlags(rest[:optEnd])
	if err != nil {
		return def, err
	}
	rest = rest[optEnd+1:]

	sep := -1
	for i := 0; i < len(rest)-1; {
		if rest[i] == '`' {
			i += 2
			continue
		}
		if rest[i] == ':' && rest[i+1] == ':' {
			sep = i
			break
		}
		i++
	}
	if sep < 0 {
		return def, fmt.Errorf("missing '::' separator")
	}

	pattern := Unescape(rest[:sep])
	if pattern == "" {
		return def, fmt.Errorf("empty pattern")
	}

	def.Pattern = pattern
	def.Action = hotstring.LiteralText(Unescape(rest[sep+2:]))
	def.Flags = flags
	return def, nil
}

// parseFlags maps AutoHotkey option letters onto engine flags:
//
//	*   fire without an end character
//	C   case sensitive
//	?   match as a word suffix
//	B0  keep the typed text (no backspacing)
//	O   omit the end character from the replacement
//	R   raw replacement, no case conformance
func parseFlags(options string) (hotstring.Flags, error) {
	var flags hotstring.Flags
	for i := 0; i < len(options); i++ {
		switch c := options[i]; c {
		case '*':
			flags |= hotstring.NoEndChar
		case 'C', 'c':
			flags |= hotstring.CaseSensitive
		case '?':
			flags |= hotstring.MatchSuffix
		case 'B', 'b':
			if i+1 >= len(options) || options[i+1] != '0' {
				return 0, fmt.Errorf("option B must be B0")
			}
			flags |= hotstring.NoBackspace
			i++
		case 'O', 'o':
			flags |= hotstring.OmitEndChar
		case 'R', 'r':
			flags |= hotstring.IgnoreCase
		case ' ', '\t':
		default:
			return 0, fmt.Errorf("unknown option %q", string(c))
		}
	}
	return flags, nil
}
