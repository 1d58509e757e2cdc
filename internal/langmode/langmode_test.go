package langmode_test

import (
	"testing"

	"github.com/opgindent/opgindent/internal/indent"
	"github.com/opgindent/opgindent/internal/langmode"
	"github.com/opgindent/opgindent/internal/opg"
)

func TestSetupAndGetRoundTrip(t *testing.T) {
	bnf := opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"E", "+", "E"},
			}},
		},
	}
	lvl, err := opg.Prec2Levels(opg.BnfPrecedenceTable(bnf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	name := "langmode-test-roundtrip"
	mode := langmode.Setup(name, lvl, indent.NewRuleTable(), 2)
	if mode.Basic != 2 {
		t.Errorf("expected Basic to round-trip, got %d", mode.Basic)
	}

	got, ok := langmode.Get(name)
	if !ok || got != mode {
		t.Fatalf("expected Get to return the same Mode just set up")
	}
}

func TestGetMissingModeReportsFalse(t *testing.T) {
	if _, ok := langmode.Get("no-such-mode-ever-registered"); ok {
		t.Errorf("expected a lookup of an unregistered mode to report false")
	}
}

func TestNamesIncludesRegisteredMode(t *testing.T) {
	lvl, err := opg.Prec2Levels(opg.NewPrec2Table())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name := "langmode-test-names"
	langmode.Setup(name, lvl, indent.NewRuleTable(), 0)

	found := false
	for _, n := range langmode.Names() {
		if n == name {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %q to appear in Names()", name)
	}
}
