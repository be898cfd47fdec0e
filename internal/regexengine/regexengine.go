// Package regexengine is a pluggable regex backend registry, the same
// registry idiom as the teacher's internal/regex package (Register/Engines/
// Default/SetDefault/New, exercised in regex_test.go — only the test
// survived retrieval, the implementation below is written to satisfy it).
// Where the teacher registered MySQL-facing engines ("go", "oniguruma"),
// this registers string-search regex engines for the detection core.
package regexengine

import (
	"sync"

	"github.com/pkg/errors"
	goerrors "gopkg.in/src-d/go-errors.v1"
)

// ErrEngineNameEmpty is returned when Register is called with an empty
// engine name.
var ErrEngineNameEmpty = goerrors.NewKind("regex engine name cannot be empty")

// ErrEngineNotFound is returned when New is asked for an unregistered
// engine name.
var ErrEngineNotFound = goerrors.NewKind("regex engine %q is not registered")

// Matcher is the capability every regex backend exposes: a yes/no match
// against a candidate string. It deliberately does not expose submatches —
// the solver only ever needs is_match semantics (spec.md §6).
type Matcher interface {
	Match(s string) bool
}

// Factory builds a Matcher for pattern, honouring insensitive if the
// backend supports it.
type Factory func(pattern string, insensitive bool) (Matcher, error)

var (
	mu      sync.RWMutex
	engines = map[string]Factory{}
	def     = "go"
)

func register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	engines[name] = f
}

// Register adds a new engine under name, overwriting any existing
// registration with that name. Returns ErrEngineNameEmpty if name is "".
func Register(name string, f Factory) error {
	if name == "" {
		return ErrEngineNameEmpty.New()
	}
	register(name, f)
	return nil
}

// Engines returns the currently registered engine names, in no particular
// order.
func Engines() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	return names
}

// Default returns the name of the engine New uses when none is specified.
func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return def
}

// SetDefault changes the default engine. An empty name resets to "go",
// matching the teacher's SetDefault("") reset-to-builtin behaviour.
func SetDefault(name string) {
	mu.Lock()
	defer mu.Unlock()
	if name == "" {
		def = "go"
		return
	}
	def = name
}

// New builds a Matcher for pattern using the named engine. An empty name
// uses the current default engine.
func New(name, pattern string, insensitive bool) (Matcher, error) {
	if name == "" {
		name = Default()
	}
	mu.RLock()
	f, ok := engines[name]
	mu.RUnlock()
	if !ok {
		return nil, ErrEngineNotFound.New(name)
	}
	m, err := f(pattern, insensitive)
	if err != nil {
		return nil, errors.Wrapf(err, "building %q regex for pattern %q", name, pattern)
	}
	return m, nil
}
