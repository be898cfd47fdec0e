// Package detect is the single public entry point: compile a rule
// expression into a Detection once with Optimise, then run it against as
// many documents as arrive with Solve. Internally it is only a thin,
// observed wrapper over optimizer.Optimise and solver.Solve (spec.md §6).
package detect

import (
	"context"
	"strconv"

	"github.com/opentracing/opentracing-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/ruleforge/detectengine/document"
	"github.com/ruleforge/detectengine/ir"
	"github.com/ruleforge/detectengine/optimizer"
	"github.com/ruleforge/detectengine/solver"
)

// Detection bundles a fully optimised expression tree with the identifier
// map it was coalesced against (solver.Solve still accepts a raw,
// unoptimised expression directly; Detection exists so a caller doesn't pay
// the optimisation cost more than once per rule).
type Detection struct {
	Expression  ir.Expression
	Identifiers map[string]ir.Expression
}

// Option configures Optimise and Solve.
type Option func(*config)

type config struct {
	regexEngine string
	log         logrus.FieldLogger
}

// WithRegexEngine selects the optimizer's regex backend by name (see
// internal/regexengine.Engines). Only meaningful on Optimise.
func WithRegexEngine(name string) Option {
	return func(c *config) { c.regexEngine = name }
}

// WithLogger sets the logger the solver emits per-node debug traces to.
// Only meaningful on Solve.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) { c.log = log }
}

// Optimise rewrites expr (identifiers inlined and fused) into a Detection.
func Optimise(ctx context.Context, expr ir.Expression, identifiers map[string]ir.Expression, opts ...Option) Detection {
	span, _ := opentracing.StartSpanFromContext(ctx, "detect.Optimise")
	defer span.Finish()

	timer := prometheus.NewTimer(optimiseDuration)
	defer timer.ObserveDuration()
	optimiseTotal.Inc()

	c := config{}
	for _, opt := range opts {
		opt(&c)
	}

	var optOpts []optimizer.Option
	if c.regexEngine != "" {
		optOpts = append(optOpts, optimizer.WithRegexEngine(c.regexEngine))
	}

	return Detection{
		Expression:  optimizer.Optimise(expr, identifiers, optOpts...),
		Identifiers: identifiers,
	}
}

// Solve evaluates d against doc, returning a plain boolean match.
func Solve(ctx context.Context, d Detection, doc document.Document, opts ...Option) bool {
	span, _ := opentracing.StartSpanFromContext(ctx, "detect.Solve")
	defer span.Finish()

	timer := prometheus.NewTimer(solveDuration)
	defer timer.ObserveDuration()

	c := config{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&c)
	}

	matched := solver.Solve(d.Expression, d.Identifiers, doc, solver.WithLogger(c.log))
	solveTotal.WithLabelValues(strconv.FormatBool(matched)).Inc()
	return matched
}
