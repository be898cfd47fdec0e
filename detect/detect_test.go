package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruleforge/detectengine/document"
	"github.com/ruleforge/detectengine/ir"
)

type mapDocument map[string]document.Value

func (m mapDocument) Find(path string) (document.Value, bool) {
	v, ok := m[path]
	return v, ok
}

func TestOptimiseThenSolve(t *testing.T) {
	identifiers := map[string]ir.Expression{
		"A": ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{
			ir.Search{Kind: ir.ExactKind{Value: "cmd.exe"}, Field: "name"},
			ir.Search{Kind: ir.ExactKind{Value: "powershell.exe"}, Field: "name"},
		}},
	}

	d := Optimise(context.Background(), ir.Identifier{Name: "A"}, identifiers)

	doc := mapDocument{"name": document.String("powershell.exe")}
	require.True(t, Solve(context.Background(), d, doc))

	doc2 := mapDocument{"name": document.String("notepad.exe")}
	require.False(t, Solve(context.Background(), d, doc2))
}

func TestOptimiseWithRegexEngineOption(t *testing.T) {
	expr := ir.BooleanGroup{Op: ir.Or, Children: []ir.Expression{
		ir.Search{Kind: ir.RegexKind{Pattern: "fo+"}, Field: "name"},
		ir.Search{Kind: ir.RegexKind{Pattern: "ba+r"}, Field: "name"},
	}}

	d := Optimise(context.Background(), expr, nil, WithRegexEngine("regexp2"))

	// The one-child Or group collapses to its sole fused child.
	search, ok := d.Expression.(ir.Search)
	require.True(t, ok)
	require.Equal(t, "name", search.Field)
	_, ok = search.Kind.(ir.RegexSetKind)
	require.True(t, ok)
}

func TestSolveDirectlyOnUnoptimisedExpression(t *testing.T) {
	// invariant 6: solve(e) and solve(optimise(e)) must agree for every e --
	// Solve accepts a raw, un-optimised Detection just as well.
	expr := ir.BooleanExpression{Left: ir.Field{Path: "count"}, Op: ir.Eq, Right: ir.Integer(1)}
	d := Detection{Expression: expr, Identifiers: nil}
	require.True(t, Solve(context.Background(), d, mapDocument{"count": document.Int(1)}))
}
