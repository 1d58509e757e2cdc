package demolang_test

import (
	"testing"

	"github.com/opgindent/opgindent/internal/demolang"
)

func TestSetupCompilesWithoutError(t *testing.T) {
	mode, err := demolang.Setup("demo-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode.Name != "demo-test" {
		t.Errorf("expected mode name to round-trip, got %q", mode.Name)
	}
	if !mode.Levels.IsOpener("(") || !mode.Levels.IsCloser(")") {
		t.Errorf("expected ( and ) to solve to opener/closer levels")
	}
}

func TestLexProducesLineEdgeMetadata(t *testing.T) {
	tokens := demolang.Lex("a -> b\nc")
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].Text != "a" || !tokens[0].FirstOnLine {
		t.Errorf("expected a to be first on its line, got %+v", tokens[0])
	}
	if tokens[1].Text != "->" {
		t.Errorf("expected -> to lex as a single token, got %q", tokens[1].Text)
	}
	if !tokens[2].LastOnLine || tokens[2].Text != "b" {
		t.Errorf("expected b to be last on its line, got %+v", tokens[2])
	}
	if tokens[3].Text != "c" || !tokens[3].FirstOnLine || !tokens[3].LastOnLine {
		t.Errorf("expected c alone on line 2, got %+v", tokens[3])
	}
}

func TestLexSkipsLineComments(t *testing.T) {
	tokens := demolang.Lex("a -- trailing comment\n+ b")
	var texts []string
	for _, tk := range tokens {
		texts = append(texts, tk.Text)
	}
	want := []string{"a", "+", "b"}
	if len(texts) != len(want) {
		t.Fatalf("expected %v, got %v", want, texts)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], texts[i])
		}
	}
}

func TestIsKeyword(t *testing.T) {
	for _, kw := range []string{"if", "then", "else"} {
		if !demolang.IsKeyword(kw) {
			t.Errorf("expected %q to be a keyword", kw)
		}
	}
	if demolang.IsKeyword("x") {
		t.Errorf("expected x not to be a keyword")
	}
}
