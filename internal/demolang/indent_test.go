package demolang_test

import (
	"testing"

	"github.com/opgindent/opgindent/internal/demolang"
	"github.com/opgindent/opgindent/internal/tokenizer"
)

func tok(text string, line, col int, first, last bool) tokenizer.PosToken {
	return tokenizer.PosToken{Text: text, Line: line, Col: col, FirstOnLine: first, LastOnLine: last}
}

func posOfLine(tokens []tokenizer.PosToken, line int) int {
	for i, t := range tokens {
		if t.Line >= line {
			return i
		}
	}
	return len(tokens)
}

// TestIndentLineIfThenElseAlignsWithIf exercises the "if/then/else"
// bracket-equality grounding: "then" and "else" both relate to "if" through
// an EQ chain in the BNF, so a line opening with either keyword walks all
// the way back to "if"'s own column rather than trusting a sibling line's
// pre-existing indentation.
func TestIndentLineIfThenElseAlignsWithIf(t *testing.T) {
	source := "if a\nthen b\nelse c"
	tokens := []tokenizer.PosToken{
		tok("if", 1, 1, true, false),
		tok("a", 1, 4, false, true),
		tok("then", 2, 1, true, false),
		tok("b", 2, 6, false, true),
		tok("else", 3, 1, true, false),
		tok("c", 3, 6, false, true),
	}
	mode, err := demolang.Setup("demo-test-s3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := tokenizer.NewSliceBuffer(source, tokens)
	c := mode.NewCalculator(buf)

	buf.SetPos(posOfLine(tokens, 2))
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected \"then\" to align with \"if\"'s column (0), got %d", got)
	}

	buf.SetPos(posOfLine(tokens, 3))
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected \"else\" to align with \"if\"'s column (0), got %d", got)
	}
}

// TestIndentLineArrowChainWalksToEarliestOccurrence is the end-to-end
// regression test for the chain-walk fix: "->" is right-associative, so a
// line continuing a "->" chain must walk back across every earlier link in
// the chain, not stop at the nearest one's own (possibly misleading)
// pre-existing line indentation.
func TestIndentLineArrowChainWalksToEarliestOccurrence(t *testing.T) {
	source := "a ->\n  b ->\n  c"
	tokens := []tokenizer.PosToken{
		tok("a", 1, 1, true, false),
		tok("->", 1, 3, false, true),
		tok("b", 2, 3, true, false),
		tok("->", 2, 5, false, true),
		tok("c", 3, 3, true, true),
	}
	mode, err := demolang.Setup("demo-test-s4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := tokenizer.NewSliceBuffer(source, tokens)
	c := mode.NewCalculator(buf)

	buf.SetPos(posOfLine(tokens, 3))
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected the chain's continuation to align with \"a\"'s column (0), got %d", got)
	}
}

// TestIndentLineCallArgumentsFollowEnclosingIndent exercises a
// parenthesized, comma-separated call spanning multiple lines: the
// argument list's continuation lines and the closing paren both resolve
// through the scanner's call-argument grammar rather than erroring out.
func TestIndentLineCallArgumentsFollowEnclosingIndent(t *testing.T) {
	source := "foo(\n  1\n)"
	tokens := []tokenizer.PosToken{
		tok("foo", 1, 1, true, false),
		tok("(", 1, 4, false, true),
		tok("1", 2, 3, true, true),
		tok(")", 3, 1, true, true),
	}
	mode, err := demolang.Setup("demo-test-s5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := tokenizer.NewSliceBuffer(source, tokens)
	c := mode.NewCalculator(buf)

	buf.SetPos(posOfLine(tokens, 2))
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected the lone argument to follow \"foo\"'s line indent (0), got %d", got)
	}

	buf.SetPos(posOfLine(tokens, 3))
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected the closing paren to follow \"foo\"'s line indent (0), got %d", got)
	}
}

// TestIndentLineStrayCloserDoesNotPanic covers malformed input: a closing
// delimiter with nothing open to match still produces a clamped column
// instead of panicking or propagating a scanner error out of IndentLine.
func TestIndentLineStrayCloserDoesNotPanic(t *testing.T) {
	source := ")"
	tokens := []tokenizer.PosToken{
		tok(")", 1, 1, true, true),
	}
	mode, err := demolang.Setup("demo-test-s6-stray")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := tokenizer.NewSliceBuffer(source, tokens)
	c := mode.NewCalculator(buf)

	buf.SetPos(0)
	if got := c.IndentLine(); got != 0 {
		t.Errorf("expected a stray closer to resolve to column 0, got %d", got)
	}
}

// TestIndentLineUnclosedCallIsIdempotent covers malformed input from the
// other direction: an opening "(" that's never closed. IndentLine must
// still return a stable answer, and recomputing it from the same position
// must return the identical column every time.
func TestIndentLineUnclosedCallIsIdempotent(t *testing.T) {
	source := "foo(1\nbar"
	tokens := []tokenizer.PosToken{
		tok("foo", 1, 1, true, false),
		tok("(", 1, 4, false, false),
		tok("1", 1, 5, false, true),
		tok("bar", 2, 1, true, true),
	}
	mode, err := demolang.Setup("demo-test-s6-unclosed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := tokenizer.NewSliceBuffer(source, tokens)
	c := mode.NewCalculator(buf)

	buf.SetPos(posOfLine(tokens, 2))
	first := c.IndentLine()
	if first != 4 {
		t.Errorf("expected the dangling continuation to land one wildcard step past its unmatched opener (4), got %d", first)
	}

	buf.SetPos(posOfLine(tokens, 2))
	second := c.IndentLine()
	if second != first {
		t.Errorf("expected IndentLine to be idempotent, got %d then %d", first, second)
	}
}
