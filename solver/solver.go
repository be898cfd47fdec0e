package solver

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/ruleforge/detectengine/document"
	"github.com/ruleforge/detectengine/ir"
)

// Result is the tri-valued outcome of evaluating an expression: a field
// that does not exist in the document is Missing, distinct from a field
// that exists but fails the test (False).
type Result int

const (
	True Result = iota
	False
	Missing
)

func (r Result) String() string {
	switch r {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "missing"
	}
}

// Option configures an evaluator.
type Option func(*config)

type config struct {
	log logrus.FieldLogger
}

// WithLogger sets the logger the evaluator emits per-node debug traces to.
// Defaults to logrus's standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

// Solve evaluates expr against document, resolving any Identifier through
// identifiers. Both Missing and False collapse to a plain false -- a rule
// only ever fires on a definite match (mirrors solver.rs's pub fn solve).
func Solve(expr ir.Expression, identifiers map[string]ir.Expression, doc document.Document, opts ...Option) bool {
	c := config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&c)
	}
	e := &evaluator{identifiers: identifiers, log: c.log}
	switch e.solve(expr, doc) {
	case True:
		return true
	default:
		return false
	}
}

type evaluator struct {
	identifiers map[string]ir.Expression
	log         logrus.FieldLogger
}

func (ev *evaluator) solve(expr ir.Expression, doc document.Document) Result {
	switch e := expr.(type) {
	case ir.BooleanExpression:
		return ev.solveBooleanExpression(e, doc)
	case ir.BooleanGroup:
		return ev.solveBooleanGroup(e, doc)
	case ir.Identifier:
		resolved, ok := ev.identifiers[e.Name]
		if !ok {
			panic(ErrUnresolvedIdentifier.New(e.Name))
		}
		return ev.solve(resolved, doc)
	case ir.Negate:
		res := ev.negate(ev.solve(e.Expr, doc))
		ev.log.WithField("expr", expr).Debugf("evaluating %s", res)
		return res
	case ir.Nested:
		return ev.solveNested(e, doc)
	case ir.Search:
		return ev.solveSearch(e, doc)
	case ir.Match:
		return ev.solveMatch(e, doc)
	default:
		panic(ErrUnexpectedNode.New(expr))
	}
}

func (ev *evaluator) negate(r Result) Result {
	switch r {
	case True:
		return False
	case False:
		return True
	default:
		return False
	}
}

func (ev *evaluator) solveBooleanExpression(e ir.BooleanExpression, doc document.Document) Result {
	if e.Op == ir.Eq {
		if lc, ok := e.Left.(ir.Cast); ok && lc.Kind == ir.CastStr {
			if rc, ok := e.Right.(ir.Cast); ok && rc.Kind == ir.CastStr {
				return ev.solveStringCastEq(e, lc.Path, rc.Path, doc)
			}
		}
		if lf, ok := e.Left.(ir.Field); ok {
			if rb, ok := e.Right.(ir.Boolean); ok {
				return ev.solveFieldEqBool(e, lf.Path, bool(rb), doc)
			}
		}
	}

	if e.Op.IsLogical() {
		if e.Op == ir.And {
			return ev.solveAnd(e, doc)
		}
		return ev.solveOr(e, doc)
	}

	return ev.solveCompare(e, doc)
}

func (ev *evaluator) solveStringCastEq(e ir.BooleanExpression, leftPath, rightPath string, doc document.Document) Result {
	xv, ok := doc.Find(leftPath)
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating missing, no left hand side")
		return Missing
	}
	x, ok := xv.ToString()
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating false, could not cast left field to string")
		return False
	}
	yv, ok := doc.Find(rightPath)
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating missing, no right hand side")
		return Missing
	}
	y, ok := yv.ToString()
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating false, could not cast right field to string")
		return False
	}
	if x == y {
		return True
	}
	return False
}

func (ev *evaluator) solveFieldEqBool(e ir.BooleanExpression, path string, want bool, doc document.Document) Result {
	xv, ok := doc.Find(path)
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating missing, no left hand side")
		return Missing
	}
	x, ok := xv.AsBool()
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating false, could not cast left field to boolean")
		return False
	}
	if x == want {
		return True
	}
	return False
}

// lookupStatus distinguishes "got a usable int64" from the two ways
// resolving a comparison operand can come up short.
type lookupStatus int

const (
	lookupOK lookupStatus = iota
	lookupMissing
	lookupInvalid
)

func (ev *evaluator) resolveInt64(expr ir.Expression, doc document.Document) (int64, lookupStatus) {
	switch e := expr.(type) {
	case ir.Field:
		v, ok := doc.Find(e.Path)
		if !ok {
			return 0, lookupMissing
		}
		i, ok := v.ToInt64()
		if !ok {
			return 0, lookupInvalid
		}
		return i, lookupOK
	case ir.Cast:
		if e.Kind != ir.CastInt {
			return 0, lookupInvalid
		}
		v, ok := doc.Find(e.Path)
		if !ok {
			return 0, lookupMissing
		}
		s, ok := v.ToString()
		if !ok {
			return 0, lookupInvalid
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, lookupInvalid
		}
		return i, lookupOK
	case ir.Integer:
		return int64(e), lookupOK
	default:
		return 0, lookupInvalid
	}
}

func (ev *evaluator) solveCompare(e ir.BooleanExpression, doc document.Document) Result {
	x, xs := ev.resolveInt64(e.Left, doc)
	switch xs {
	case lookupMissing:
		ev.log.WithField("expr", e).Debug("evaluating missing, no left hand side")
		return Missing
	case lookupInvalid:
		ev.log.WithField("expr", e).Debug("evaluating false, invalid left hand side")
		return False
	}

	y, ys := ev.resolveInt64(e.Right, doc)
	switch ys {
	case lookupMissing:
		ev.log.WithField("expr", e).Debug("evaluating missing, no right hand side")
		return Missing
	case lookupInvalid:
		ev.log.WithField("expr", e).Debug("evaluating false, invalid right hand side")
		return False
	}

	var ok bool
	switch e.Op {
	case ir.Eq:
		ok = x == y
	case ir.Gt:
		ok = x > y
	case ir.Ge:
		ok = x >= y
	case ir.Lt:
		ok = x < y
	case ir.Le:
		ok = x <= y
	}
	if ok {
		return True
	}
	return False
}

func (ev *evaluator) solveAnd(e ir.BooleanExpression, doc document.Document) Result {
	left := ev.solve(e.Left, doc)
	if left == False {
		return False
	}
	right := ev.solve(e.Right, doc)

	res := andResult(left, right)
	ev.log.WithField("expr", e).Debugf("evaluating %s", res)
	return res
}

func andResult(left, right Result) Result {
	if right == False {
		return False
	}
	if left == Missing || right == Missing {
		return Missing
	}
	return True
}

func (ev *evaluator) solveOr(e ir.BooleanExpression, doc document.Document) Result {
	left := ev.solve(e.Left, doc)
	if left == True {
		return True
	}
	right := ev.solve(e.Right, doc)

	var res Result
	switch {
	case right == True:
		res = True
	case left == Missing || right == Missing:
		res = Missing
	default:
		res = False
	}
	ev.log.WithField("expr", e).Debugf("evaluating %s", res)
	return res
}

// solveBooleanGroup folds an n-ary And/Or group with the same pair-threading
// algebra as solveAnd/solveOr, short-circuiting on the first conclusive
// child (spec.md §4.2.1's tri-valued table generalised to N children; shake
// produces these groups but never evaluates them, so the fold lives here).
func (ev *evaluator) solveBooleanGroup(e ir.BooleanGroup, doc document.Document) Result {
	if e.Op == ir.Or {
		anyMissing := false
		for _, c := range e.Children {
			switch ev.solve(c, doc) {
			case True:
				return True
			case Missing:
				anyMissing = true
			}
		}
		if anyMissing {
			return Missing
		}
		return False
	}

	anyMissing := false
	for _, c := range e.Children {
		switch ev.solve(c, doc) {
		case False:
			return False
		case Missing:
			anyMissing = true
		}
	}
	if anyMissing {
		return Missing
	}
	return True
}

func (ev *evaluator) solveNested(e ir.Nested, doc document.Document) Result {
	v, ok := doc.Find(e.Field)
	if !ok {
		ev.log.WithField("expr", e).Debug("evaluating missing, field not found")
		return Missing
	}
	if obj, ok := v.AsObject(); ok {
		return ev.solve(e.Expr, obj)
	}
	if arr, ok := v.AsArray(); ok {
		for _, item := range arr {
			obj, ok := item.AsObject()
			if !ok {
				continue
			}
			if ev.solve(e.Expr, obj) == True {
				return True
			}
		}
		return False
	}
	ev.log.WithField("expr", e).Debug("evaluating false, field is not an object or array of objects")
	return False
}

func (ev *evaluator) solveMatch(e ir.Match, doc document.Document) Result {
	children := matchChildren(e.Expr)
	if e.Mode == ir.MatchAll {
		return ev.solveMatchOf(len(children), children, doc)
	}
	if e.K == 0 {
		return ev.solveNoneOf(children, doc)
	}
	return ev.solveMatchOf(e.K, children, doc)
}

// solveNoneOf implements Match(Of(0), group) -- "none match" (spec.md
// §4.1.2), the solver side of the De Morgan identity shake uses to rewrite
// Negate(BooleanGroup(Or, xs)). This is deliberately NOT routed through the
// general "at least k true" counter below: "at least 0 true" is a
// tautology for any non-negative count, which would make Match(Of(0))
// vacuously always True and silently break that rewrite. Negating the
// group directly instead -- any True child forces False, any Missing
// child (with no True yet seen) also forces False since Negate(Missing) is
// False, and only all-False children produce True -- is what the rewrite
// actually needs, so that is what this evaluates.
func (ev *evaluator) solveNoneOf(children []ir.Expression, doc document.Document) Result {
	for _, c := range children {
		if ev.solve(c, doc) != False {
			return False
		}
	}
	return True
}

func matchChildren(expr ir.Expression) []ir.Expression {
	if g, ok := expr.(ir.BooleanGroup); ok {
		return g.Children
	}
	return []ir.Expression{expr}
}

// solveMatchOf counts True children, stopping as soon as k have been seen
// (True) or as soon as the remaining unevaluated children can no longer
// reach k even in the best case (False, unless a child evaluated so far was
// Missing, in which case the honest answer is Missing -- spec.md §4.2.5).
// Children after an early stop are not evaluated.
func (ev *evaluator) solveMatchOf(k int, children []ir.Expression, doc document.Document) Result {
	n := len(children)
	trueCount := 0
	anyMissing := false

	for i, c := range children {
		switch ev.solve(c, doc) {
		case True:
			trueCount++
			if trueCount >= k {
				return True
			}
		case Missing:
			anyMissing = true
		}

		remaining := n - i - 1
		if trueCount+remaining < k {
			break
		}
	}

	if trueCount >= k {
		return True
	}
	if anyMissing {
		return Missing
	}
	return False
}
