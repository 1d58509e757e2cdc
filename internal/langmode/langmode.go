// Package langmode binds a compiled grammar to a named, immutable
// per-language editing context, the way the teacher's internal/config
// assembles named, immutable lookup tables (AllOperators, BuiltinTypes) as
// the single source of truth consulted by the rest of the engine — here,
// one Mode per language replaces one global table.
package langmode

import (
	"fmt"
	"sync"

	"github.com/opgindent/opgindent/internal/indent"
	"github.com/opgindent/opgindent/internal/opg"
)

// Mode is the immutable context produced by Setup: a solved LevelTable, a
// RuleTable, and a basic indentation step, bound to a language name. Per
// spec §9 ("no ambient state"), a Mode is passed explicitly to every
// scan/indent call rather than held in a package-level variable.
type Mode struct {
	Name   string
	Levels *opg.LevelTable
	Rules  *indent.RuleTable
	Basic  int
}

// NewCalculator builds an indent.Calculator bound to this mode and host
// buffer. Each call to indentLine/indentCalculate gets a fresh Calculator;
// a Mode holds no mutable state of its own.
func (m *Mode) NewCalculator(buf indent.Host) *indent.Calculator {
	return indent.NewCalculator(m.Levels, m.Rules, m.Basic, buf)
}

var (
	mu       sync.Mutex
	registry = map[string]*Mode{}
)

// Setup binds a level table and rule table under name and installs it in
// the mode registry, returning the Mode a host uses as indentLine's
// context object. basic is indent-basic; 0 selects the Calculator default.
func Setup(name string, levels *opg.LevelTable, rules *indent.RuleTable, basic int) *Mode {
	m := &Mode{Name: name, Levels: levels, Rules: rules, Basic: basic}
	mu.Lock()
	defer mu.Unlock()
	registry[name] = m
	return m
}

// Get looks up a previously set-up mode by name.
func Get(name string) (*Mode, bool) {
	mu.Lock()
	defer mu.Unlock()
	m, ok := registry[name]
	return m, ok
}

// MustGet is Get, panicking on a missing mode; for CLI/test call sites
// where the mode name comes from a literal, not user input.
func MustGet(name string) *Mode {
	m, ok := Get(name)
	if !ok {
		panic(fmt.Sprintf("langmode: no mode set up named %q", name))
	}
	return m
}

// Names lists every registered mode name.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	return out
}
