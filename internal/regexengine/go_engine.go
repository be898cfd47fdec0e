package regexengine

import (
	"github.com/grafana/regexp"
	"github.com/pkg/errors"
)

func init() {
	register("go", buildGoRegex)
}

type goMatcher struct {
	re *regexp.Regexp
}

func (m *goMatcher) Match(s string) bool { return m.re.MatchString(s) }

// buildGoRegex is the default backend: github.com/grafana/regexp, a
// drop-in, lower-allocation replacement for the standard library's regexp
// (grounded via sourcegraph/zoekt's use of the same package for its own
// boolean-tree-over-regex search engine). RE2 syntax has no inline
// case-insensitivity flag toggle per-match, so insensitive is applied via
// the "(?i)" prefix, the same trick grafana/regexp's own RE2 engine expects.
func buildGoRegex(pattern string, insensitive bool) (Matcher, error) {
	p := pattern
	if insensitive {
		p = "(?i)" + p
	}
	re, err := regexp.Compile(p)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling pattern %q", pattern)
	}
	return &goMatcher{re: re}, nil
}
