package solver

import (
	"strings"

	"github.com/ruleforge/detectengine/document"
	"github.com/ruleforge/detectengine/ir"
)

func (ev *evaluator) solveSearch(e ir.Search, doc document.Document) Result {
	v, ok := doc.Find(e.Field)
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating missing, field not found")
		return Missing
	}

	var res Result
	if s, ok := v.AsString(); ok {
		res = search(e.Kind, s)
	} else if arr, ok := v.AsArray(); ok {
		res = False
		for _, item := range arr {
			s, ok := item.AsString()
			if !ok {
				continue
			}
			if search(e.Kind, s) == True {
				res = True
				break
			}
		}
	} else if s, ok := v.ToString(); ok && e.Cast {
		// A cast search stringifies a scalar (int, float, bool) before
		// matching; non-string array elements are still skipped above.
		res = search(e.Kind, s)
	} else {
		// Matches solver.rs's search arm exactly: a value that is neither a
		// string nor an array of strings (nor, for a cast search, a scalar
		// that stringifies) is Missing, not False, despite its own debug
		// trace text saying "false".
		ev.log.WithField("expr", e).Debug("evaluating missing, field is not a string or array of strings")
		return Missing
	}

	ev.log.WithField("expr", e).Debugf("evaluating %s", res)
	return res
}

// search dispatches a single string value against kind. Grounded on
// solver.rs's fn search(kind, value).
func search(kind ir.SearchKind, value string) Result {
	switch k := kind.(type) {
	case ir.AnyKind:
		return True
	case ir.ExactKind:
		if value == k.Value {
			return True
		}
	case ir.ContainsKind:
		if strings.Contains(value, k.Value) {
			return True
		}
	case ir.EndsWithKind:
		if strings.HasSuffix(value, k.Value) {
			return True
		}
	case ir.StartsWithKind:
		if strings.HasPrefix(value, k.Value) {
			return True
		}
	case ir.RegexKind:
		if k.Matcher.Match(value) {
			return True
		}
	case ir.RegexSetKind:
		for _, m := range k.Matchers {
			if m.Match(value) {
				return True
			}
		}
	case ir.AhoCorasickKind:
		return searchAho(k, value)
	}
	return False
}

// searchAho walks every overlapping hit in value and re-checks it against
// the needle's original anchoring (spec.md §4.2.4) -- a fused automaton
// only tells you a needle occurred somewhere, not that it occurred as a
// full match, prefix or suffix, so the context re-check below recovers
// that. A Contains hit is accepted on sight; the others need the hit's
// (start, end) to line up with the value's bounds.
func searchAho(k ir.AhoCorasickKind, value string) Result {
	for _, hit := range k.Automaton.Overlapping(value) {
		switch k.Contexts[hit.Pattern].(type) {
		case ir.MatchContains:
			return True
		case ir.MatchEndsWith:
			if hit.End == len(value) {
				return True
			}
		case ir.MatchExact:
			if hit.Start == 0 && hit.End == len(value) {
				return True
			}
		case ir.MatchStartsWith:
			if hit.Start == 0 {
				return True
			}
		}
	}
	return False
}
