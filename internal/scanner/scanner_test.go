package scanner

import (
	"testing"

	"github.com/opgindent/opgindent/internal/opg"
	"github.com/opgindent/opgindent/internal/tokenizer"
)

// buildLevels compiles a small arithmetic grammar (bracket equality from
// BNF, "+"/"*" precedence disambiguated by an override list, matching the
// way internal/demolang wires the two input forms together) into a
// LevelTable for the scanner to run against.
func buildLevels(t *testing.T) *opg.LevelTable {
	t.Helper()
	grammar := opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"E", "+", "E"},
				{"E", "*", "E"},
				{"(", "E", ")"},
			}},
		},
	}
	override := opg.PrecsPrecedenceTable([]opg.OperatorGroup{
		{Assoc: opg.LEFT, Tokens: []opg.Token{"+"}},
		{Assoc: opg.LEFT, Tokens: []opg.Token{"*"}},
	})
	t2 := opg.BnfPrecedenceTable(grammar, override)
	lvl, err := opg.Prec2Levels(t2)
	if err != nil {
		t.Fatalf("unexpected grammar error: %v", err)
	}
	return lvl
}

func bufAt(tokens []string, pos int) *tokenizer.SliceBuffer {
	pt := make([]tokenizer.PosToken, len(tokens))
	for i, tok := range tokens {
		pt[i] = tokenizer.PosToken{Text: tok, Line: 1, Col: i + 1}
	}
	buf := tokenizer.NewSliceBuffer("", pt)
	buf.SetPos(pos)
	return buf
}

func TestBackwardSexpSkipsPlainAtom(t *testing.T) {
	lvl := buildLevels(t)
	buf := bufAt([]string{"a", "+", "b"}, 3)

	res, err := BackwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != SkippedPlain || res.Token != "b" {
		t.Errorf("expected SkippedPlain b, got %+v", res)
	}
}

func TestBackwardSexpStopsAtOperator(t *testing.T) {
	lvl := buildLevels(t)
	buf := bufAt([]string{"a", "+", "b"}, 2)

	res, err := BackwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != StoppedAtOp || res.Token != "+" {
		t.Errorf("expected StoppedAtOp +, got %+v", res)
	}
}

func TestBackwardSexpSkipsBalancedParens(t *testing.T) {
	lvl := buildLevels(t)
	// "a + ( b * c )" -- cursor after the closing paren.
	buf := bufAt([]string{"a", "+", "(", "b", "*", "c", ")"}, 7)

	res, err := BackwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != SkippedPair || res.Token != "(" {
		t.Errorf("expected SkippedPair landing on (, got %+v", res)
	}
	if buf.Pos() != 2 {
		t.Errorf("expected cursor to land just after \"+\" (pos 2), got %d", buf.Pos())
	}
}

func TestForwardSexpSkipsBalancedParens(t *testing.T) {
	lvl := buildLevels(t)
	buf := bufAt([]string{"(", "b", "*", "c", ")", "+", "d"}, 0)

	res, err := ForwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != SkippedPair || res.Token != ")" {
		t.Errorf("expected SkippedPair landing on ), got %+v", res)
	}
	if buf.Pos() != 5 {
		t.Errorf("expected cursor to land just after ) (pos 5), got %d", buf.Pos())
	}
}

func TestBackwardSexpReachesBufferStart(t *testing.T) {
	lvl := buildLevels(t)
	buf := bufAt([]string{"a", "+", "b"}, 1)

	res, err := BackwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != SkippedPlain || res.Token != "a" {
		t.Errorf("expected SkippedPlain a at buffer start, got %+v", res)
	}
}

func TestBackwardSexpHalfsexpConsumesLeftOperand(t *testing.T) {
	lvl := buildLevels(t)
	// Cursor right after "+" in "a + b": halfsexp should walk back over "a"
	// and, with "+"'s left level still pending, on to the buffer start.
	buf := bufAt([]string{"a", "+", "b"}, 2)

	res, err := BackwardSexp(lvl, buf, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != StoppedAtOpener || res.Pos != 0 {
		t.Errorf("expected halfsexp to consume the left operand a and stop at the buffer start, got %+v", res)
	}
}

func TestBackwardSexpOperatorLevelMatchesTable(t *testing.T) {
	lvl := buildLevels(t)
	buf := bufAt([]string{"a", "+", "b"}, 2)

	res, err := BackwardSexp(lvl, buf, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := lvl.Get("+").Left
	if want == nil || res.Level != *want {
		t.Errorf("expected reported Level to match the table's left level for +, got %d want %v", res.Level, want)
	}
}
