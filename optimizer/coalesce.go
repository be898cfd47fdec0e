package optimizer

import "github.com/ruleforge/detectengine/ir"

// coalesce is a bottom-up substitution pass: every ir.Identifier is replaced
// by the expression it names. It performs no fusion and never changes the
// shape of any other node (ir invariant 1; optimiser.rs's coalesce).
func coalesce(expr ir.Expression, identifiers map[string]ir.Expression) ir.Expression {
	switch e := expr.(type) {
	case ir.Identifier:
		resolved, ok := identifiers[e.Name]
		if !ok {
			panic(ErrUnresolvedIdentifier.New(e.Name))
		}
		return resolved
	case ir.BooleanGroup:
		children := make([]ir.Expression, len(e.Children))
		for i, c := range e.Children {
			children[i] = coalesce(c, identifiers)
		}
		return ir.BooleanGroup{Op: e.Op, Children: children}
	case ir.BooleanExpression:
		return ir.BooleanExpression{
			Left:  coalesce(e.Left, identifiers),
			Op:    e.Op,
			Right: coalesce(e.Right, identifiers),
		}
	case ir.Match:
		return ir.Match{Mode: e.Mode, K: e.K, Expr: coalesce(e.Expr, identifiers)}
	case ir.Negate:
		return ir.Negate{Expr: coalesce(e.Expr, identifiers)}
	case ir.Nested:
		return ir.Nested{Field: e.Field, Expr: coalesce(e.Expr, identifiers)}
	default:
		// Boolean, Integer, Float, Null, Field, Cast, Search: leaf-like
		// nodes with nothing to substitute into.
		return expr
	}
}
