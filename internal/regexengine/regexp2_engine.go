package regexengine

import (
	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

func init() {
	register("regexp2", buildRegexp2)
}

type regexp2Matcher struct {
	re *regexp2.Regexp
}

func (m *regexp2Matcher) Match(s string) bool {
	ok, err := m.re.MatchString(s)
	if err != nil {
		// A matching engine that can itself error (regexp2 supports
		// backtracking and can time out) treats its own failure as a
		// non-match rather than propagating into the tri-valued solver --
		// the solver's Missing state means "field absent", not "regex
		// engine gave up".
		return false
	}
	return ok
}

// buildRegexp2 is the alternate backend: github.com/dlclark/regexp2, a
// .NET-style backtracking engine supporting lookaround and backreferences
// that grafana/regexp's RE2 engine cannot express. Never selected as the
// default (spec.md §9 Open Question c calls for one engine used uniformly);
// registered so a caller can opt a specific rule set into it explicitly via
// optimizer.WithRegexEngine.
func buildRegexp2(pattern string, insensitive bool) (Matcher, error) {
	opts := regexp2.None
	if insensitive {
		opts = regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling pattern %q", pattern)
	}
	return &regexp2Matcher{re: re}, nil
}
