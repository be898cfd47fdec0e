package optimizer

import (
	"testing"

	"github.com/mitchellh/hashstructure"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/detectengine/ir"
)

func TestOptimiseIdentifierInlining(t *testing.T) {
	identifiers := map[string]ir.Expression{
		"A": ir.BooleanExpression{Left: ir.Field{Path: "count"}, Op: ir.Eq, Right: ir.Integer(1)},
	}
	got := Optimise(ir.Identifier{Name: "A"}, identifiers)
	want := ir.BooleanExpression{Left: ir.Field{Path: "count"}, Op: ir.Eq, Right: ir.Integer(1)}
	requireExprEqual(t, want, got)
}

func TestOptimiseIsIdempotent(t *testing.T) {
	require := require.New(t)

	expr := ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{
		ir.Search{Kind: ir.ExactKind{Value: "baz"}, Field: "name"},
		ir.Search{Kind: ir.ContainsKind{Value: "foo"}, Field: "name"},
		ir.Search{Kind: ir.EndsWithKind{Value: "bar"}, Field: "name"},
	}}

	once := Optimise(expr, nil)
	twice := Optimise(once, nil)

	h1, err := hashstructure.Hash(once, nil)
	require.NoError(err)
	h2, err := hashstructure.Hash(twice, nil)
	require.NoError(err)
	require.Equal(h1, h2, "optimise(optimise(e)) should hash equal to optimise(e)")
}

func TestOptimiseDeMorgan(t *testing.T) {
	expr := ir.BooleanExpression{
		Left:  ir.Negate{Expr: ir.Null{}},
		Op:    ir.And,
		Right: ir.Negate{Expr: ir.Null{}},
	}
	want := ir.Negate{Expr: ir.BooleanExpression{Left: ir.Null{}, Op: ir.Or, Right: ir.Null{}}}
	requireExprEqual(t, want, Optimise(expr, nil))
}

func TestOptimiseQuantifierRewrite(t *testing.T) {
	expr := ir.Match{
		Mode: ir.MatchAll,
		Expr: ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{ir.Null{}, ir.Null{}}},
	}
	want := ir.BooleanGroup{Op: ir.And, Children: []ir.Expression{ir.Null{}, ir.Null{}}}
	requireExprEqual(t, want, Optimise(expr, nil))
}

func TestOptimiseUnknownRegexEnginePanics(t *testing.T) {
	require := require.New(t)
	require.Panics(func() {
		Optimise(ir.Null{}, nil, WithRegexEngine("does-not-exist"))
	})
}

func TestOptimiseWithAlternateRegexEngine(t *testing.T) {
	require := require.New(t)

	expr := ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{
		ir.Search{Kind: ir.RegexKind{Pattern: "fo+", Insensitive: false}, Field: "name"},
		ir.Search{Kind: ir.RegexKind{Pattern: "ba+r", Insensitive: false}, Field: "name"},
	}}

	got := Optimise(expr, nil, WithRegexEngine("regexp2"))

	// The one-child Or group collapses to its sole fused child.
	search, ok := got.(ir.Search)
	require.True(ok)
	require.Equal("name", search.Field)
	set, ok := search.Kind.(ir.RegexSetKind)
	require.True(ok)
	require.Equal([]string{"fo+", "ba+r"}, set.Patterns)
}
