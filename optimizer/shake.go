package optimizer

import (
	"github.com/ruleforge/detectengine/internal/fusedmatch"
	"github.com/ruleforge/detectengine/internal/regexengine"
	"github.com/ruleforge/detectengine/ir"
)

// shaker carries the configuration shake needs while it recurses -- the
// regex backend fused Regex/RegexSet nodes are compiled against. A struct
// rather than a package global keeps Optimise safe to call concurrently
// with different options (optimiser.rs's shake is a bare function because
// Rust's regex crate has no pluggable-backend concern; this project's does,
// spec.md §9 Open Question c).
type shaker struct {
	regexEngine string
}

// shake is the normalise-and-fuse pass: it flattens associative And/Or
// nodes, applies De Morgan and double-negation, rewrites the one safe
// quantifier identity, and fuses Or-group literal/regex children into
// batched matchers. Ported from optimiser.rs's shake.
func (s *shaker) shake(expr ir.Expression) ir.Expression {
	switch e := expr.(type) {
	case ir.BooleanGroup:
		return s.shakeBooleanGroup(e)
	case ir.BooleanExpression:
		return s.shakeBooleanExpression(e)
	case ir.Match:
		// Only the All-over-Or identity is safe; Of(k) and any other
		// All shape pass through untouched, and -- deliberately, matching
		// optimiser.rs -- neither branch recurses into e.Expr. A Match's
		// child only ever reaches this point already shaken, produced by
		// a nested shake() call higher up the rewrite (e.g. the Negate/Or
		// rewrite below), never by walking into Match itself.
		if e.Mode == ir.MatchAll {
			if g, ok := e.Expr.(ir.BooleanGroup); ok && g.Op == ir.Or {
				return ir.BooleanGroup{Op: ir.And, Children: g.Children}
			}
		}
		return e
	case ir.Negate:
		switch inner := e.Expr.(type) {
		case ir.BooleanGroup:
			if inner.Op == ir.Or {
				return s.shake(ir.Match{Mode: ir.MatchOf, K: 0, Expr: inner})
			}
		case ir.Negate:
			return s.shake(inner.Expr)
		}
		return ir.Negate{Expr: s.shake(e.Expr)}
	case ir.Nested:
		return ir.Nested{Field: e.Field, Expr: s.shake(e.Expr)}
	default:
		// Boolean, Integer, Float, Null, Field, Cast, Search, Identifier:
		// nothing left for shake to do.
		return expr
	}
}

// shakeBooleanExpression flattens a binary And/Or node into a BooleanGroup
// wherever either side already is one (or a same-op binary node), applies
// the De Morgan rewrite, and otherwise leaves comparison operators (and
// mismatched-op binaries) untouched. Arm order matches optimiser.rs's match
// exactly -- the first applicable rule wins.
func (s *shaker) shakeBooleanExpression(e ir.BooleanExpression) ir.Expression {
	left := s.shake(e.Left)
	right := s.shake(e.Right)
	op := e.Op

	if op == ir.And {
		if lg, ok := left.(ir.BooleanGroup); ok && lg.Op == ir.And {
			if rg, ok := right.(ir.BooleanGroup); ok && rg.Op == ir.And {
				children := append(append([]ir.Expression{}, lg.Children...), rg.Children...)
				return s.shake(ir.BooleanGroup{Op: ir.And, Children: children})
			}
			children := append(append([]ir.Expression{}, lg.Children...), right)
			return s.shake(ir.BooleanGroup{Op: ir.And, Children: children})
		}
		if rg, ok := right.(ir.BooleanGroup); ok && rg.Op == ir.And {
			children := append([]ir.Expression{left}, rg.Children...)
			return s.shake(ir.BooleanGroup{Op: ir.And, Children: children})
		}
	}

	if op == ir.Or {
		if lg, ok := left.(ir.BooleanGroup); ok && lg.Op == ir.Or {
			if rg, ok := right.(ir.BooleanGroup); ok && rg.Op == ir.Or {
				children := append(append([]ir.Expression{}, lg.Children...), rg.Children...)
				return s.shake(ir.BooleanGroup{Op: ir.Or, Children: children})
			}
			children := append(append([]ir.Expression{}, lg.Children...), right)
			return s.shake(ir.BooleanGroup{Op: ir.Or, Children: children})
		}
		if rg, ok := right.(ir.BooleanGroup); ok && rg.Op == ir.Or {
			children := append([]ir.Expression{left}, rg.Children...)
			return s.shake(ir.BooleanGroup{Op: ir.Or, Children: children})
		}
	}

	if op == ir.And {
		if lb, ok := left.(ir.BooleanExpression); ok && lb.Op == ir.And {
			return s.shake(ir.BooleanGroup{Op: ir.And, Children: []ir.Expression{lb.Left, lb.Right, right}})
		}
		if rb, ok := right.(ir.BooleanExpression); ok && rb.Op == ir.And {
			return s.shake(ir.BooleanGroup{Op: ir.And, Children: []ir.Expression{left, rb.Left, rb.Right}})
		}
	}

	if op == ir.Or {
		if lb, ok := left.(ir.BooleanExpression); ok && lb.Op == ir.Or {
			return s.shake(ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{lb.Left, lb.Right, right}})
		}
		if rb, ok := right.(ir.BooleanExpression); ok && rb.Op == ir.Or {
			return s.shake(ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{left, rb.Left, rb.Right}})
		}
	}

	if op == ir.And {
		if ln, ok := left.(ir.Negate); ok {
			if rn, ok := right.(ir.Negate); ok {
				inner := s.shake(ir.NewOr(ln.Expr, rn.Expr))
				return s.shake(ir.Negate{Expr: inner})
			}
		}
	}

	return ir.BooleanExpression{Left: left, Op: op, Right: right}
}

// shakeBooleanGroup shakes a flattened n-ary And/Or group, then re-shakes
// if fusion changed the child count or collapses a singleton group to its
// sole child -- the termination argument optimiser.rs documents as
// strictly reducing a well-founded metric on the group's shape.
func (s *shaker) shakeBooleanGroup(e ir.BooleanGroup) ir.Expression {
	origLen := len(e.Children)

	var result []ir.Expression
	switch e.Op {
	case ir.And:
		result = make([]ir.Expression, len(e.Children))
		for i, c := range e.Children {
			result[i] = s.shake(c)
		}
	case ir.Or:
		result = s.shakeOrChildren(e.Children)
	default:
		panic("optimizer: BooleanGroup with non-logical op " + e.Op.String())
	}

	if len(result) != origLen {
		return s.shake(ir.BooleanGroup{Op: e.Op, Children: result})
	}
	if len(result) == 1 {
		return result[0]
	}
	return ir.BooleanGroup{Op: e.Op, Children: result}
}

// bucketKey groups Or-group children that can be fused together: same
// field, same cast, same case sensitivity.
type bucketKey struct {
	field       string
	cast        bool
	insensitive bool
}

type needleEntry struct {
	context ir.MatchType
	value   string
}

// shakeOrChildren is the fusion hot path: bucket shaken children by kind
// and (field, cast, insensitive), fuse each bucket into the fewest
// children possible, then emit them in canonical order (optimiser.rs's
// BoolSym::Or arm).
func (s *shaker) shakeOrChildren(children []ir.Expression) []ir.Expression {
	needles := newOrderedBucket[bucketKey, needleEntry]()
	nested := newOrderedBucket[string, ir.Expression]()
	patterns := newOrderedBucket[bucketKey, string]()

	var anyChildren, exact, startsWith, endsWith, contains, aho, regex, regexSet, rest []ir.Expression

	for _, child := range children {
		shaken := s.shake(child)

		if n, ok := shaken.(ir.Nested); ok {
			nested.push(n.Field, n.Expr)
			continue
		}

		search, ok := shaken.(ir.Search)
		if !ok {
			rest = append(rest, shaken)
			continue
		}

		switch k := search.Kind.(type) {
		case ir.AnyKind:
			anyChildren = append(anyChildren, shaken)
		case ir.AhoCorasickKind:
			key := bucketKey{search.Field, search.Cast, k.Insensitive}
			for i, ctx := range k.Contexts {
				needles.push(key, needleEntry{context: ctx, value: k.Needles[i]})
			}
		case ir.ContainsKind:
			key := bucketKey{search.Field, search.Cast, false}
			needles.push(key, needleEntry{context: ir.MatchContains{V: k.Value}, value: k.Value})
		case ir.EndsWithKind:
			key := bucketKey{search.Field, search.Cast, false}
			needles.push(key, needleEntry{context: ir.MatchEndsWith{V: k.Value}, value: k.Value})
		case ir.ExactKind:
			key := bucketKey{search.Field, search.Cast, false}
			needles.push(key, needleEntry{context: ir.MatchExact{V: k.Value}, value: k.Value})
		case ir.StartsWithKind:
			key := bucketKey{search.Field, search.Cast, false}
			needles.push(key, needleEntry{context: ir.MatchStartsWith{V: k.Value}, value: k.Value})
		case ir.RegexKind:
			key := bucketKey{search.Field, search.Cast, k.Insensitive}
			patterns.push(key, k.Pattern)
		case ir.RegexSetKind:
			key := bucketKey{search.Field, search.Cast, k.Insensitive}
			for _, p := range k.Patterns {
				patterns.push(key, p)
			}
		default:
			rest = append(rest, shaken)
		}
	}

	for _, key := range needles.order {
		entries := needles.m[key]
		if !key.insensitive && len(entries) == 1 {
			entry := entries[0]
			switch ctx := entry.context.(type) {
			case ir.MatchContains:
				contains = append(contains, ir.Search{Kind: ir.ContainsKind{Value: ctx.V}, Field: key.field, Cast: key.cast})
			case ir.MatchEndsWith:
				endsWith = append(endsWith, ir.Search{Kind: ir.EndsWithKind{Value: ctx.V}, Field: key.field, Cast: key.cast})
			case ir.MatchExact:
				exact = append(exact, ir.Search{Kind: ir.ExactKind{Value: ctx.V}, Field: key.field, Cast: key.cast})
			case ir.MatchStartsWith:
				startsWith = append(startsWith, ir.Search{Kind: ir.StartsWithKind{Value: ctx.V}, Field: key.field, Cast: key.cast})
			}
			continue
		}

		contexts := make([]ir.MatchType, len(entries))
		values := make([]string, len(entries))
		for i, entry := range entries {
			contexts[i] = entry.context
			values[i] = entry.value
		}
		aho = append(aho, ir.Search{
			Kind: ir.AhoCorasickKind{
				Automaton:   fusedmatch.Build(values, key.insensitive),
				Contexts:    contexts,
				Needles:     values,
				Insensitive: key.insensitive,
			},
			Field: key.field,
			Cast:  key.cast,
		})
	}

	for _, field := range nested.order {
		group := nested.m[field]
		var child ir.Expression
		if len(group) == 1 {
			child = s.shake(group[0])
		} else {
			child = s.shake(ir.BooleanGroup{Op: ir.Or, Children: group})
		}
		rest = append(rest, ir.Nested{Field: field, Expr: child})
	}

	for _, key := range patterns.order {
		ps := patterns.m[key]
		if len(ps) == 1 {
			matcher, err := regexengine.New(s.regexEngine, ps[0], key.insensitive)
			if err != nil {
				panic(ErrRegexBuild.New(ps[0], key.field, err))
			}
			regex = append(regex, ir.Search{
				Kind:  ir.RegexKind{Matcher: matcher, Pattern: ps[0], Insensitive: key.insensitive},
				Field: key.field,
				Cast:  key.cast,
			})
			continue
		}

		matchers := make([]regexengine.Matcher, len(ps))
		for i, p := range ps {
			m, err := regexengine.New(s.regexEngine, p, key.insensitive)
			if err != nil {
				panic(ErrRegexBuild.New(p, key.field, err))
			}
			matchers[i] = m
		}
		regexSet = append(regexSet, ir.Search{
			Kind:  ir.RegexSetKind{Matchers: matchers, Patterns: append([]string{}, ps...), Insensitive: key.insensitive},
			Field: key.field,
			Cast:  key.cast,
		})
	}

	sortByNeedleLen(exact)
	sortByNeedleLen(startsWith)
	sortByNeedleLen(endsWith)
	sortByNeedleLen(contains)
	sortAho(aho)
	sortRegex(regex)
	sortRegexSet(regexSet)

	result := make([]ir.Expression, 0, len(children))
	result = append(result, anyChildren...)
	result = append(result, exact...)
	result = append(result, startsWith...)
	result = append(result, endsWith...)
	result = append(result, contains...)
	result = append(result, aho...)
	result = append(result, regex...)
	result = append(result, regexSet...)
	result = append(result, rest...)
	return result
}

// orderedBucket is a map that remembers first-insertion key order, so
// output built from it doesn't depend on Go's randomised map iteration --
// ties within a sort key then resolve by input order instead of by chance.
type orderedBucket[K comparable, T any] struct {
	order []K
	m     map[K][]T
}

func newOrderedBucket[K comparable, T any]() *orderedBucket[K, T] {
	return &orderedBucket[K, T]{m: make(map[K][]T)}
}

func (b *orderedBucket[K, T]) push(key K, v T) {
	if _, ok := b.m[key]; !ok {
		b.order = append(b.order, key)
	}
	b.m[key] = append(b.m[key], v)
}
