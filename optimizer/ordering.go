package optimizer

import (
	"sort"

	"github.com/ruleforge/detectengine/ir"
)

// needleValue extracts the literal string an anchored Search child was
// built from, for length-based sorting.
func needleValue(e ir.Expression) string {
	search, ok := e.(ir.Search)
	if !ok {
		return ""
	}
	switch k := search.Kind.(type) {
	case ir.ExactKind:
		return k.Value
	case ir.StartsWithKind:
		return k.Value
	case ir.EndsWithKind:
		return k.Value
	case ir.ContainsKind:
		return k.Value
	default:
		return ""
	}
}

// sortByNeedleLen orders anchored literal children by ascending needle
// length (canonical order positions 2-5: exact/starts_with/ends_with/contains).
func sortByNeedleLen(xs []ir.Expression) {
	sort.SliceStable(xs, func(i, j int) bool {
		return len(needleValue(xs[i])) < len(needleValue(xs[j]))
	})
}

// sortAho orders fused automata by descending needle count, the larger
// automaton first; ties favour the case-insensitive automaton.
func sortAho(xs []ir.Expression) {
	sort.SliceStable(xs, func(i, j int) bool {
		a := xs[i].(ir.Search).Kind.(ir.AhoCorasickKind)
		b := xs[j].(ir.Search).Kind.(ir.AhoCorasickKind)
		if len(a.Needles) != len(b.Needles) {
			return len(a.Needles) > len(b.Needles)
		}
		return a.Insensitive && !b.Insensitive
	})
}

// sortRegex orders single-pattern regex children lexicographically by
// pattern text, then case-sensitive before case-insensitive.
func sortRegex(xs []ir.Expression) {
	sort.SliceStable(xs, func(i, j int) bool {
		a := xs[i].(ir.Search).Kind.(ir.RegexKind)
		b := xs[j].(ir.Search).Kind.(ir.RegexKind)
		if a.Pattern != b.Pattern {
			return a.Pattern < b.Pattern
		}
		return !a.Insensitive && b.Insensitive
	})
}

// sortRegexSet orders regex-set children by their pattern vector
// lexicographically, then case-sensitive before case-insensitive.
func sortRegexSet(xs []ir.Expression) {
	sort.SliceStable(xs, func(i, j int) bool {
		a := xs[i].(ir.Search).Kind.(ir.RegexSetKind)
		b := xs[j].(ir.Search).Kind.(ir.RegexSetKind)
		if c := compareStringSlices(a.Patterns, b.Patterns); c != 0 {
			return c < 0
		}
		return !a.Insensitive && b.Insensitive
	})
}

// compareStringSlices is a lexicographic element-wise comparison, matching
// Rust's derived Vec<String> Ord (shorter common-prefix slice sorts first).
func compareStringSlices(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
