package hotstring

import (
	"strings"
	"unicode/utf8"
)

// entry is one indexed definition. order is the registration position and
// the sole precedence tie-break between definitions.
type entry struct {
	order int
	def   *Definition
}

// slot holds the entries indexed under one reversed-pattern key: the entry
// registered under its exact characters and the case-folded fallback.
type slot struct {
	exact  *entry
	folded *entry
}

// Registry is the immutable matching index built once from an ordered list
// of definitions. Keys are the reverse of each pattern so that suffixes of
// the typed text become prefix lookups. A Registry is read-only after Build
// and may be shared across detectors.
type Registry struct {
	defs    []Definition
	slots   map[string]slot
	longest int
}

// Build constructs the Registry. Definitions are indexed in input order;
// lower positions take precedence. If a definition is not CaseSensitive, a
// case-folded fallback entry is also indexed, unless that key is already
// held by a case-sensitive definition's exact entry. Two definitions that
// normalize to the same key silently collide: the later registration
// replaces the earlier one in that slot.
func Build(defs []Definition) (*Registry, error) {
	r := &Registry{
		defs:  append([]Definition(nil), defs...),
		slots: make(map[string]slot, 2*len(defs)),
	}

	for i := range r.defs {
		def := &r.defs[i]
		if def.Pattern == "" {
			return nil, &DefinitionError{Index: i, Reason: "empty pattern"}
		}
		if def.Action == nil {
			return nil, &DefinitionError{Index: i, Pattern: def.Pattern, Reason: "nil action"}
		}

		key := reverse(def.Pattern)
		s := r.slots[key]
		s.exact = &entry{order: i, def: def}
		r.slots[key] = s

		if !def.Flags.Has(CaseSensitive) {
			foldedKey := strings.ToLower(key)
			fs := r.slots[foldedKey]
			if fs.exact == nil || !fs.exact.def.Flags.Has(CaseSensitive) {
				fs.folded = &entry{order: i, def: def}
				r.slots[foldedKey] = fs
			}
		}

		if n := utf8.RuneCountInString(def.Pattern); n > r.longest {
			r.longest = n
		}
	}

	return r, nil
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int { return len(r.defs) }

// candidate is a definition that matched some suffix of the queried text.
type candidate struct {
	order  int
	def    *Definition
	folded bool
	length int // matched suffix length in runes
}

// better reports whether c should win over cur: lowest registration order
// first, exact-case over folded on ties.
func (c candidate) better(cur candidate) bool {
	if c.order != cur.order {
		return c.order < cur.order
	}
	return cur.folded && !c.folded
}

// match finds the highest-precedence definition matching a suffix of text,
// read in typed order. A definition lacking MatchSuffix qualifies only when
// its match starts at a word boundary: the start of text, or an index
// atBoundary accepts. A nil atBoundary accepts the start of text alone, so
// the pattern must equal all of text. wantNoEndChar selects which
// definition class participates.
func (r *Registry) match(text []rune, wantNoEndChar bool, atBoundary func(start int) bool) (candidate, bool) {
	var best candidate
	found := false

	consider := func(c candidate) {
		if !found || c.better(best) {
			best = c
			found = true
		}
	}

	maxLen := r.longest
	if len(text) < maxLen {
		maxLen = len(text)
	}

	for n := 1; n <= maxLen; n++ {
		start := len(text) - n
		suffix := text[start:]
		bounded := start == 0 || (atBoundary != nil && atBoundary(start))
		key := reverseRunes(suffix)

		if s, ok := r.slots[key]; ok && s.exact != nil {
			if qualifies(s.exact.def, wantNoEndChar, bounded) {
				consider(candidate{order: s.exact.order, def: s.exact.def, length: n})
			}
		}
		if s, ok := r.slots[strings.ToLower(key)]; ok && s.folded != nil {
			if qualifies(s.folded.def, wantNoEndChar, bounded) {
				consider(candidate{order: s.folded.order, def: s.folded.def, folded: true, length: n})
			}
		}
	}

	return best, found
}

func qualifies(def *Definition, wantNoEndChar, bounded bool) bool {
	if def.Flags.Has(NoEndChar) != wantNoEndChar {
		return false
	}
	return bounded || def.Flags.Has(MatchSuffix)
}

func reverse(s string) string {
	return reverseRunes([]rune(s))
}

func reverseRunes(runes []rune) string {
	out := make([]rune, len(runes))
	for i, r := range runes {
		out[len(runes)-1-i] = r
	}
	return string(out)
}
