// Package optimizer implements optimise = shake ∘ coalesce: the two-pass
// rewriter that inlines identifiers, flattens and normalises boolean nodes,
// and fuses disjunctions of literal/regex string predicates into batched
// multi-pattern matchers (grounded on
// _examples/original_source/src/optimiser.rs).
package optimizer

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnresolvedIdentifier is a programmer error: coalesce was asked to
// substitute a name that is not present in the identifier map. The parser is
// responsible for guaranteeing closure (spec.md §6), so this can only
// happen if that upstream invariant was violated.
var ErrUnresolvedIdentifier = goerrors.NewKind("optimizer: unresolved identifier %q")

// ErrRegexBuild is a programmer error: shake could not compile a fused
// regex or regex-set.
var ErrRegexBuild = goerrors.NewKind("optimizer: could not build regex %q for field %q: %s")

// ErrRegexEngine is the error Optimise panics with when the caller named
// (through WithRegexEngine) a regex backend that is not registered.
var ErrRegexEngine = goerrors.NewKind("optimizer: %s")
