package opg

import "testing"

func TestPrec2TableSetConflictKeepsOriginal(t *testing.T) {
	t2 := NewPrec2Table()
	t2.Set("a", "b", LT)
	t2.Set("a", "b", GT) // conflicting write, should be rejected

	got, ok := t2.Get("a", "b")
	if !ok || got != LT {
		t.Fatalf("expected original LT to survive a conflicting write, got %v ok=%v", got, ok)
	}
	if len(t2.Diagnostics()) != 1 {
		t.Fatalf("expected one conflict diagnostic, got %d", len(t2.Diagnostics()))
	}
}

func TestMergePrec2LaterTableWins(t *testing.T) {
	a := NewPrec2Table()
	a.Set("x", "y", LT)

	b := NewPrec2Table()
	b.Set("x", "y", GT)

	merged := MergePrec2([]*Prec2Table{a, b})
	got, ok := merged.Get("x", "y")
	if !ok || got != GT {
		t.Fatalf("expected later table's GT to win, got %v ok=%v", got, ok)
	}
	if len(merged.Diagnostics()) != 1 {
		t.Fatalf("expected the disagreement to be recorded, got %d diagnostics", len(merged.Diagnostics()))
	}
}

func TestPrecsPrecedenceTableIntraGroupAssociativity(t *testing.T) {
	groups := []OperatorGroup{{Assoc: LEFT, Tokens: []Token{"+", "-"}}}
	t2 := PrecsPrecedenceTable(groups)

	rel, ok := t2.Get("+", "-")
	if !ok || rel != GT {
		t.Errorf("left-associative group members should relate GT to each other, got %v ok=%v", rel, ok)
	}
}
