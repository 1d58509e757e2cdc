package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opgindent/opgindent/internal/compiler"
	"github.com/opgindent/opgindent/internal/demolang"
	"github.com/opgindent/opgindent/internal/gramstore"
	"github.com/opgindent/opgindent/internal/indent"
	"github.com/opgindent/opgindent/internal/langmode"
	"github.com/opgindent/opgindent/internal/opg"
)

// grammarFile is the on-disk JSON shape accepted by --lang. It mirrors the
// BNF/precedence-list/rule-table input forms described in SPEC_FULL.md §4.1
// and §4.5, kept intentionally flat so a host editor's config generator can
// emit it without depending on this module's Go types.
type grammarFile struct {
	Name        string           `json:"name"`
	BasicOffset int              `json:"basicOffset"`
	Productions []productionJSON `json:"productions"`
	Precedences []precedenceJSON `json:"precedences"`
	Rules       *rulesJSON       `json:"rules"`
}

type productionJSON struct {
	NonTerminal  string     `json:"nonTerminal"`
	Alternatives [][]string `json:"alternatives"`
}

type precedenceJSON struct {
	Assoc  string   `json:"assoc"` // "left", "right", "nonassoc", "assoc"
	Tokens []string `json:"tokens"`
}

type rulesJSON struct {
	Tokens        map[string]int    `json:"tokens"`
	HangingTokens map[string][2]int `json:"hangingTokens"`
	Pairs         map[string]int    `json:"pairs"` // key "opener|closer"
	WildcardPairs map[string]int    `json:"wildcardPairs"`
	ListIntro     []string          `json:"listIntro"`
	Wildcard      *int              `json:"wildcard"`
	Args          *int              `json:"args"`
}

func assoc(s string) opg.Associativity {
	switch s {
	case "right":
		return opg.RIGHT
	case "nonassoc":
		return opg.NONASSOC
	case "assoc":
		return opg.ASSOC
	default:
		return opg.LEFT
	}
}

func (gf *grammarFile) grammar() opg.Grammar {
	g := opg.Grammar{}
	for _, p := range gf.Productions {
		alts := make([][]opg.Token, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			toks := make([]opg.Token, len(alt))
			for j, t := range alt {
				toks[j] = opg.Token(t)
			}
			alts[i] = toks
		}
		g.Productions = append(g.Productions, opg.Production{
			NonTerminal:  opg.Token(p.NonTerminal),
			Alternatives: alts,
		})
	}
	return g
}

func (gf *grammarFile) precedences() []opg.OperatorGroup {
	groups := make([]opg.OperatorGroup, len(gf.Precedences))
	for i, p := range gf.Precedences {
		toks := make([]opg.Token, len(p.Tokens))
		for j, t := range p.Tokens {
			toks[j] = opg.Token(t)
		}
		groups[i] = opg.OperatorGroup{Assoc: assoc(p.Assoc), Tokens: toks}
	}
	return groups
}

func (gf *grammarFile) rules() *indent.RuleTable {
	rt := indent.NewRuleTable()
	if gf.Rules == nil {
		return rt
	}
	r := gf.Rules
	for tok, off := range r.Tokens {
		rt.SetToken(tok, off)
	}
	for tok, pair := range r.HangingTokens {
		rt.SetTokenHanging(tok, pair[0], pair[1])
	}
	for key, off := range r.Pairs {
		a, b := splitPairKey(key)
		rt.SetPair(a, b, off)
	}
	for tok, off := range r.WildcardPairs {
		rt.SetWildcardPair(tok, off)
	}
	rt.SetListIntro(r.ListIntro...)
	if r.Wildcard != nil {
		rt.SetWildcard(*r.Wildcard)
	}
	if r.Args != nil {
		rt.SetArgs(*r.Args)
	}
	return rt
}

func splitPairKey(key string) (string, string) {
	for i, r := range key {
		if r == '|' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// loadMode resolves the --lang argument into a ready langmode.Mode: the
// literal name "demo" selects the built-in reference language
// (internal/demolang), anything else is read as a grammar-file path. When
// store is non-nil, a compiled grammar is looked up and saved there by its
// content-hash key, so a second CLI invocation with the same grammar file
// skips recompilation (SPEC_FULL.md C8).
func loadMode(langArg string, store *gramstore.Store) (*langmode.Mode, error) {
	if langArg == "demo" {
		return demolang.Setup("demo")
	}

	raw, err := os.ReadFile(langArg)
	if err != nil {
		return nil, fmt.Errorf("reading grammar file: %w", err)
	}
	var gf grammarFile
	if err := json.Unmarshal(raw, &gf); err != nil {
		return nil, fmt.Errorf("parsing grammar file %s: %w", langArg, err)
	}
	if gf.Name == "" {
		gf.Name = langArg
	}

	bnf := gf.grammar()
	precs := gf.precedences()

	var levels *opg.LevelTable
	key := ""
	if store != nil {
		key = gramstore.Key(bnf, precs)
		if cached, ok, err := store.Load(key); err == nil && ok {
			levels = cached
		}
	}

	if levels == nil {
		levels, err = compiler.Compile(bnf, precs)
		if err != nil {
			return nil, fmt.Errorf("compiling grammar: %w", err)
		}
		if store != nil {
			if err := store.Save(key, levels); err != nil {
				fmt.Fprintf(os.Stderr, "warning: caching grammar %s: %s\n", gf.Name, err)
			}
		}
	}

	return langmode.Setup(gf.Name, levels, gf.rules(), gf.BasicOffset), nil
}
