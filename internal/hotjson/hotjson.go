// Package hotjson loads hotstring definitions from JSON documents.
//
// A document maps patterns to action descriptors:
//
//	{
//	  "endchars": "-.,!? \n\t",
//	  "hotstrings": {
//	    "btw":  {"replace": "by the way"},
//	    "now":  {"run-replace": ["date", "+%H:%M"]},
//	    "week": {"run-replace-raw": "cal -w"},
//	    "lock": {"run": ["loginctl", "lock-session"], "flags": ["no-end-char"]}
//	  }
//	}
//
// Pattern order in the document is registration order, which decides
// precedence between overlapping hotstrings, so decoding preserves object
// key order instead of round-tripping through a Go map.
package hotjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"hotstringd/internal/hotstring"
)

// Parse validates and decodes a definitions document.
func Parse(r io.Reader) ([]hotstring.Definition, hotstring.Options, error) {
	opts := hotstring.DefaultOptions()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, opts, fmt.Errorf("hotjson: read: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, opts, fmt.Errorf("hotjson: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, opts, fmt.Errorf("hotjson: %w", err)
	}

	return decode(data)
}

func decode(data []byte) ([]hotstring.Definition, hotstring.Options, error) {
	opts := hotstring.DefaultOptions()
	var defs []hotstring.Definition

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, opts, fmt.Errorf("hotjson: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, opts, fmt.Errorf("hotjson: %w", err)
		}
		switch key := tok.(string); key {
		case "endchars":
			var s string
			if err := dec.Decode(&s); err != nil {
				return nil, opts, fmt.Errorf("hotjson: endchars: %w", err)
			}
			opts.EndChars = s
		case "hotstrings":
			defs, err = decodeHotstrings(dec)
			if err != nil {
				return nil, opts, err
			}
		}
	}

	return defs, opts, nil
}

func decodeHotstrings(dec *json.Decoder) ([]hotstring.Definition, error) {
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("hotjson: %w", err)
	}

	var defs []hotstring.Definition
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("hotjson: %w", err)
		}
		pattern := tok.(string)

		var d descriptor
		if err := dec.Decode(&d); err != nil {
			return nil, fmt.Errorf("hotjson: hotstring %q: %w", pattern, err)
		}
		def, err := d.definition(pattern)
		if err != nil {
			return nil, fmt.Errorf("hotjson: hotstring %q: %w", pattern, err)
		}
		defs = append(defs, def)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("hotjson: %w", err)
	}
	return defs, nil
}

// descriptor is one pattern's entry in the document.
type descriptor struct {
	Replace       *string     `json:"replace"`
	RunReplace    *commandArg `json:"run-replace"`
	RunReplaceRaw *commandArg `json:"run-replace-raw"`
	Run           *commandArg `json:"run"`
	Flags         []string    `json:"flags"`
}

func (d *descriptor) definition(pattern string) (hotstring.Definition, error) {
	def := hotstring.Definition{Pattern: pattern}

	flags, err := parseFlags(d.Flags)
	if err != nil {
		return def, err
	}
	def.Flags = flags

	// The schema requires exactly one action key; this is a backstop.
	actions := 0
	if d.Replace != nil {
		def.Action = hotstring.LiteralText(*d.Replace)
		actions++
	}
	if d.RunReplace != nil {
		def.Action = hotstring.CommandCaptured(*d.RunReplace)
		actions++
	}
	if d.RunReplaceRaw != nil {
		def.Action = hotstring.CommandCapturedRaw(*d.RunReplaceRaw)
		actions++
	}
	if d.Run != nil {
		def.Action = hotstring.CommandFireAndForget(*d.Run)
		actions++
	}
	if actions != 1 {
		return def, fmt.Errorf("want exactly one action, got %d", actions)
	}

	return def, nil
}

// commandArg accepts either an argv array or a single string, which is run
// through the shell.
type commandArg []string

func (c *commandArg) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = commandArg{"/bin/sh", "-c", s}
		return nil
	}
	var argv []string
	if err := json.Unmarshal(b, &argv); err != nil {
		return err
	}
	*c = commandArg(argv)
	return nil
}

func parseFlags(names []string) (hotstring.Flags, error) {
	var flags hotstring.Flags
	for _, name := range names {
		switch name {
		case "no-end-char":
			flags |= hotstring.NoEndChar
		case "case-sensitive":
			flags |= hotstring.CaseSensitive
		case "match-suffix":
			flags |= hotstring.MatchSuffix
		case "ignore-case":
			flags |= hotstring.IgnoreCase
		case "no-backspace":
			flags |= hotstring.NoBackspace
		case "omit-end-char":
			flags |= hotstring.OmitEndChar
		default:
			return 0, fmt.Errorf("unknown flag %q", name)
		}
	}
	return flags, nil
}
