package optimizer

import (
	"fmt"

	"github.com/ruleforge/detectengine/internal/regexengine"
	"github.com/ruleforge/detectengine/ir"
)

// Option configures a single Optimise call.
type Option func(*config)

type config struct {
	regexEngine string
}

// WithRegexEngine selects the regexengine backend that fused Regex/
// RegexSet nodes compile against (spec.md §9 Open Question c -- pick one
// engine and use it uniformly). Defaults to regexengine.Default(). The
// name is validated against the engine registry when Optimise runs, not
// when this option is constructed.
func WithRegexEngine(name string) Option {
	return func(c *config) { c.regexEngine = name }
}

// Optimise rewrites expr into its normalised, fused form: optimise = shake
// ∘ coalesce (spec.md §4.1). identifiers resolves any ir.Identifier node in
// expr; a name missing from identifiers is a programmer error and panics
// with ErrUnresolvedIdentifier, matching optimiser.rs's coalesce.
func Optimise(expr ir.Expression, identifiers map[string]ir.Expression, opts ...Option) ir.Expression {
	c := config{regexEngine: regexengine.Default()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.regexEngine != "" {
		if !engineRegistered(c.regexEngine) {
			panic(ErrRegexEngine.New(fmt.Sprintf("unknown regex engine %q", c.regexEngine)))
		}
	}

	s := &shaker{regexEngine: c.regexEngine}
	return s.shake(coalesce(expr, identifiers))
}

func engineRegistered(name string) bool {
	for _, e := range regexengine.Engines() {
		if e == name {
			return true
		}
	}
	return false
}
