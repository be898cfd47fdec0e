// Package fusedmatch is the sole point of contact with
// github.com/petar-dambovaliev/aho-corasick, the Go port of the Rust
// aho-corasick crate that spec.md §6's "library contracts" section
// describes verbatim (DFA-backed, ascii_case_insensitive, overlapping
// (pattern_index, start, end) matches). Isolating the contact point here
// keeps the rest of the module talking to the small Hit/Automaton shape
// below instead of the third-party package directly.
package fusedmatch

import (
	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// Automaton is a built multi-pattern literal matcher over one needle set.
type Automaton struct {
	ac *ahocorasick.AhoCorasick
}

// Hit is one overlapping occurrence of a needle in a haystack.
type Hit struct {
	Pattern int
	Start   int
	End     int
}

// Build compiles needles into a DFA-backed automaton. MatchKind is left at
// its standard (non-leftmost) setting deliberately: only the standard match
// kind supports overlapping iteration, which the solver's per-needle
// anchoring re-check (spec.md §4.2.4) depends on -- a leftmost-longest or
// leftmost-first automaton would silently drop the overlapping hits a
// StartsWith/EndsWith/Exact tag needs to see.
func Build(needles []string, insensitive bool) *Automaton {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: insensitive,
		MatchKind:            ahocorasick.StandardMatch,
		DFA:                  true,
	})
	ac := builder.Build(needles)
	return &Automaton{ac: &ac}
}

// Overlapping returns every overlapping occurrence of any needle in value.
func (a *Automaton) Overlapping(value string) []Hit {
	it := a.ac.IterOverlapping(value)
	var hits []Hit
	for {
		m := it.Next()
		if m == nil {
			break
		}
		hits = append(hits, Hit{Pattern: m.Pattern(), Start: m.Start(), End: m.End()})
	}
	return hits
}
