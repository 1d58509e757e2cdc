package demolang

import (
	"github.com/opgindent/opgindent/internal/compiler"
	"github.com/opgindent/opgindent/internal/indent"
	"github.com/opgindent/opgindent/internal/langmode"
	"github.com/opgindent/opgindent/internal/opg"
)

// Grammar is the demo language's BNF: arithmetic, ";" sequencing, an
// "if/then/else" conditional (bracket-equality grounded on spec scenario
// S3), a right-associative "->" chain (S4), and parenthesized,
// comma-separated call arguments (S5).
func Grammar() opg.Grammar {
	return opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"E", "+", "E"},
				{"E", "*", "E"},
				{"E", ";", "E"},
				{"E", "->", "E"},
				{"if", "E", "then", "E", "else", "E"},
				{"E", "(", "Args", ")"},
			}},
			{NonTerminal: "Args", Alternatives: [][]opg.Token{
				{"Args", ",", "E"},
				{"E"},
			}},
		},
	}
}

// Precedences is the override precedence list: "->" loosest and
// right-associative, then ";" sequencing, then left-associative "+" before
// the tighter-binding left-associative "*", matching the arithmetic
// grouping from spec scenario S1.
func Precedences() []opg.OperatorGroup {
	return []opg.OperatorGroup{
		{Assoc: opg.RIGHT, Tokens: []opg.Token{"->"}},
		{Assoc: opg.LEFT, Tokens: []opg.Token{";"}},
		{Assoc: opg.LEFT, Tokens: []opg.Token{"+"}},
		{Assoc: opg.LEFT, Tokens: []opg.Token{"*"}},
	}
}

// Rules is the demo language's indentation rule table: "->" aligns with its
// wildcard-parent chain at offset 0 (S4), "then" opens a block at the
// basic step, and calls place their first argument ARGS-offset past the
// function (S5).
func Rules() *indent.RuleTable {
	return indent.NewRuleTable().
		SetWildcardPair("->", 0).
		SetToken("then", 4).
		SetToken("else", 0).
		SetListIntro().
		SetArgs(4).
		SetWildcard(4)
}

// Setup compiles Grammar/Precedences/Rules and registers the result under
// name in the langmode registry, returning the Mode ready for
// Mode.NewCalculator.
func Setup(name string) (*langmode.Mode, error) {
	levels, err := compiler.Compile(Grammar(), Precedences())
	if err != nil {
		return nil, err
	}
	return langmode.Setup(name, levels, Rules(), 4), nil
}
