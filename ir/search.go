package ir

import (
	"fmt"
	"strings"

	"github.com/ruleforge/detectengine/internal/fusedmatch"
	"github.com/ruleforge/detectengine/internal/regexengine"
)

// SearchKind is the sealed variant carried by a Search node.
type SearchKind interface {
	fmt.Stringer
	searchKindNode()
}

// AnyKind reports whether the field exists and is a string or an array of
// strings; it never inspects the value's content.
type AnyKind struct{}

func (AnyKind) searchKindNode() {}
func (AnyKind) String() string { return "*" }

// ExactKind requires the value to equal Value exactly.
type ExactKind struct{ Value string }

func (ExactKind) searchKindNode() {}
func (e ExactKind) String() string { return fmt.Sprintf("== %q", e.Value) }

// StartsWithKind requires the value to begin with Value.
type StartsWithKind struct{ Value string }

func (StartsWithKind) searchKindNode() {}
func (s StartsWithKind) String() string { return fmt.Sprintf("startswith %q", s.Value) }

// EndsWithKind requires the value to end with Value.
type EndsWithKind struct{ Value string }

func (EndsWithKind) searchKindNode() {}
func (e EndsWithKind) String() string { return fmt.Sprintf("endswith %q", e.Value) }

// ContainsKind requires the value to contain Value as a substring.
type ContainsKind struct{ Value string }

func (ContainsKind) searchKindNode() {}
func (c ContainsKind) String() string { return fmt.Sprintf("contains %q", c.Value) }

// RegexKind matches the value against a single compiled pattern.
type RegexKind struct {
	Matcher     regexengine.Matcher
	Pattern     string
	Insensitive bool
}

func (RegexKind) searchKindNode() {}
func (r RegexKind) String() string {
	return fmt.Sprintf("regex(%s, insensitive=%t)", r.Pattern, r.Insensitive)
}

// RegexSetKind matches the value against any of several compiled patterns.
type RegexSetKind struct {
	Matchers    []regexengine.Matcher
	Patterns    []string
	Insensitive bool
}

func (RegexSetKind) searchKindNode() {}
func (r RegexSetKind) String() string {
	return fmt.Sprintf("regexset(%s, insensitive=%t)", strings.Join(r.Patterns, "|"), r.Insensitive)
}

// AhoCorasickKind is the fused literal-needle matcher produced by shake. It
// batches N Exact/StartsWith/EndsWith/Contains needles that share a
// (field, cast, insensitive) key into one automaton; Contexts[i] records the
// original anchoring of needle i so the solver can re-check hits against it.
type AhoCorasickKind struct {
	Automaton   *fusedmatch.Automaton
	Contexts    []MatchType
	Needles     []string
	Insensitive bool
}

func (AhoCorasickKind) searchKindNode() {}
func (a AhoCorasickKind) String() string {
	return fmt.Sprintf("aho(%d needles, insensitive=%t)", len(a.Needles), a.Insensitive)
}

// MatchType tags a needle inside a fused AhoCorasickKind with its original
// anchored form, so a hit can be re-checked for Exact/StartsWith/EndsWith
// full-string semantics rather than treated as a bare substring hit.
type MatchType interface {
	fmt.Stringer
	matchTypeNode()
	// Value returns the original needle text this tag carries.
	Value() string
}

type MatchExact struct{ V string }

func (MatchExact) matchTypeNode() {}
func (m MatchExact) Value() string { return m.V }
func (m MatchExact) String() string { return fmt.Sprintf("exact(%q)", m.V) }

type MatchStartsWith struct{ V string }

func (MatchStartsWith) matchTypeNode() {}
func (m MatchStartsWith) Value() string { return m.V }
func (m MatchStartsWith) String() string { return fmt.Sprintf("startswith(%q)", m.V) }

type MatchEndsWith struct{ V string }

func (MatchEndsWith) matchTypeNode() {}
func (m MatchEndsWith) Value() string { return m.V }
func (m MatchEndsWith) String() string { return fmt.Sprintf("endswith(%q)", m.V) }

type MatchContains struct{ V string }

func (MatchContains) matchTypeNode() {}
func (m MatchContains) Value() string { return m.V }
func (m MatchContains) String() string { return fmt.Sprintf("contains(%q)", m.V) }
