// Package solver evaluates an optimised expression tree against a Document
// and returns a boolean match, threading a tri-valued True/False/Missing
// result through the boolean connectives along the way (grounded on
// _examples/original_source/src/solver.rs).
package solver

import (
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrUnexpectedNode is a programmer error: a node kind that can only ever
// appear as an operand (Boolean, Integer, Float, Null, Cast, Field) was
// handed to solve directly. The parser and
// optimizer together guarantee a well-formed tree never does this.
var ErrUnexpectedNode = goerrors.NewKind("solver: %T cannot appear in expression position")

// ErrUnresolvedIdentifier mirrors optimizer.ErrUnresolvedIdentifier: an
// Identifier should never survive optimisation, but solve accepts a raw
// tree too (invariant 6 requires solve(e) and solve(optimise(e)) to agree
// for every e), so the lookup is re-checked here rather than assumed.
var ErrUnresolvedIdentifier = goerrors.NewKind("solver: unresolved identifier %q")
