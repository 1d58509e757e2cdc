package compiler_test

import (
	"testing"

	"github.com/opgindent/opgindent/internal/compiler"
	"github.com/opgindent/opgindent/internal/opg"
)

func TestCompileBNFWithPrecedenceOverride(t *testing.T) {
	bnf := opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"E", "+", "E"},
				{"E", "*", "E"},
			}},
		},
	}
	precs := []opg.OperatorGroup{
		{Assoc: opg.LEFT, Tokens: []opg.Token{"+"}},
		{Assoc: opg.LEFT, Tokens: []opg.Token{"*"}},
	}

	lvl, err := compiler.Compile(bnf, precs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lvl == nil {
		t.Fatalf("expected a non-nil level table")
	}
	if !lvl.Known("+") || !lvl.Known("*") {
		t.Fatalf("expected both operators to be known in the solved table")
	}
}

func TestCompilePrecedenceListAloneWithoutBNF(t *testing.T) {
	precs := []opg.OperatorGroup{
		{Assoc: opg.LEFT, Tokens: []opg.Token{"+"}},
	}
	lvl, err := compiler.Compile(opg.Grammar{}, precs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lvl.Known("+") {
		t.Fatalf("expected + to be known from the precedence list alone")
	}
}

func TestCompileSurfacesUnresolvableCycle(t *testing.T) {
	override := opg.NewPrec2Table()
	override.Set("a", "a", opg.EQ)
	override.Set("b", "b", opg.EQ)
	override.Set("a", "b", opg.LT)
	override.Set("b", "a", opg.LT)

	_, err := compiler.Compile(opg.Grammar{}, nil, override)
	if err == nil {
		t.Fatalf("expected an unresolvable cycle to surface as an error")
	}
}
