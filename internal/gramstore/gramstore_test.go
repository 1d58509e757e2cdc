package gramstore_test

import (
	"path/filepath"
	"testing"

	"github.com/opgindent/opgindent/internal/gramstore"
	"github.com/opgindent/opgindent/internal/opg"
)

func sampleGrammar() (opg.Grammar, []opg.OperatorGroup) {
	return opg.Grammar{
			Productions: []opg.Production{
				{NonTerminal: "E", Alternatives: [][]opg.Token{
					{"E", "+", "E"},
					{"(", "E", ")"},
				}},
			},
		}, []opg.OperatorGroup{
			{Assoc: opg.LEFT, Tokens: []opg.Token{"+"}},
		}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	bnf, precs := sampleGrammar()
	t2 := opg.BnfPrecedenceTable(bnf, opg.PrecsPrecedenceTable(precs))
	lvl, err := opg.Prec2Levels(t2)
	if err != nil {
		t.Fatalf("unexpected grammar error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "grammars.db")
	store, err := gramstore.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	key := gramstore.Key(bnf, precs)

	if _, ok, err := store.Load(key); err != nil || ok {
		t.Fatalf("expected a clean miss before Save, got ok=%v err=%v", ok, err)
	}

	if err := store.Save(key, lvl); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok, err := store.Load(key)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatalf("expected a cache hit after Save")
	}
	if !got.IsOpener("(") || !got.IsCloser(")") {
		t.Errorf("round-tripped table lost opener/closer shape: %+v", got.Entries())
	}
}

func TestKeyDiffersForDifferentGrammars(t *testing.T) {
	bnf, precs := sampleGrammar()
	other := opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"E", "*", "E"},
			}},
		},
	}
	if gramstore.Key(bnf, precs) == gramstore.Key(other, precs) {
		t.Errorf("expected different grammars to hash to different keys")
	}
}

func TestKeyIgnoresProductionOrder(t *testing.T) {
	bnf, precs := sampleGrammar()
	reordered := opg.Grammar{
		Productions: []opg.Production{
			{NonTerminal: "E", Alternatives: [][]opg.Token{
				{"(", "E", ")"},
				{"E", "+", "E"},
			}},
		},
	}
	if gramstore.Key(bnf, precs) != gramstore.Key(reordered, precs) {
		t.Errorf("expected reordered alternatives to still hash to the same key")
	}
}
