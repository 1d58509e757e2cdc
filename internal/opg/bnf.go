package opg

// Production is one named non-terminal of a BNF grammar: an ordered set of
// alternatives, each a non-empty ordered sequence of symbols (tokens).
// A symbol is a non-terminal iff it names the LHS of some Production in
// the same Grammar; otherwise it is a literal operator. The grammar is
// assumed to be an operator grammar: no two adjacent non-terminals appear
// in any alternative.
type Production struct {
	NonTerminal  Token
	Alternatives [][]Token
}

type Grammar struct {
	Productions []Production
}

func (g Grammar) nonTerminals() map[Token]bool {
	set := make(map[Token]bool, len(g.Productions))
	for _, p := range g.Productions {
		set[p.NonTerminal] = true
	}
	return set
}

// firstLastOps computes FIRST-OPS(N) and LAST-OPS(N) for every non-terminal
// N: the set of operators that can appear as the first (resp. last)
// operator in any derivation starting from N. Uses worklist propagation
// (a non-terminal is only re-examined when a production it depends on
// changes) to bound the fixed-point pass, per the design note preferring
// this over naive re-iteration.
func firstLastOps(g Grammar, isNT map[Token]bool) (first, last map[Token]map[Token]bool) {
	first = make(map[Token]map[Token]bool)
	last = make(map[Token]map[Token]bool)
	for _, p := range g.Productions {
		first[p.NonTerminal] = make(map[Token]bool)
		last[p.NonTerminal] = make(map[Token]bool)
	}

	// dependents[M] = set of non-terminals N that have an alternative
	// beginning (resp. ending) with M, and therefore need to be
	// re-examined whenever FIRST-OPS(M) (resp. LAST-OPS(M)) grows.
	firstDependents := make(map[Token][]Token)
	lastDependents := make(map[Token][]Token)

	seedOrEnqueue := func(alt []Token, n Token, queue *[]Token, inQueue map[Token]bool) {
		if len(alt) == 0 {
			return
		}
		s1 := alt[0]
		if isNT[s1] {
			firstDependents[s1] = append(firstDependents[s1], n)
			if len(alt) < 2 {
				return // lone non-terminal: nothing to seed, only propagation
			}
			first[n][alt[1]] = true
		} else {
			first[n][s1] = true
		}
	}
	seedOrEnqueueLast := func(alt []Token, n Token) {
		if len(alt) == 0 {
			return
		}
		sk := alt[len(alt)-1]
		if isNT[sk] {
			lastDependents[sk] = append(lastDependents[sk], n)
			if len(alt) < 2 {
				return
			}
			last[n][alt[len(alt)-2]] = true
		} else {
			last[n][sk] = true
		}
	}

	var queue []Token
	inQueue := make(map[Token]bool)
	for _, p := range g.Productions {
		for _, alt := range p.Alternatives {
			seedOrEnqueue(alt, p.NonTerminal, &queue, inQueue)
			seedOrEnqueueLast(alt, p.NonTerminal)
		}
		queue = append(queue, p.NonTerminal)
		inQueue[p.NonTerminal] = true
	}

	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		inQueue[m] = false

		for _, n := range firstDependents[m] {
			changed := false
			for op := range first[m] {
				if !first[n][op] {
					first[n][op] = true
					changed = true
				}
			}
			if changed && !inQueue[n] {
				queue = append(queue, n)
				inQueue[n] = true
			}
		}
		for _, n := range lastDependents[m] {
			changed := false
			for op := range last[m] {
				if !last[n][op] {
					last[n][op] = true
					changed = true
				}
			}
			if changed && !inQueue[n] {
				queue = append(queue, n)
				inQueue[n] = true
			}
		}
	}

	return first, last
}

// BnfPrecedenceTable compiles a BNF grammar into a Prec2Table. overrides, if
// given, are pre-merged precedence-list tables (see PrecsPrecedenceTable
// and MergePrec2) that silently resolve per-cell conflicts in favor of the
// override value — while still recording both values when they disagree.
func BnfPrecedenceTable(g Grammar, overrides ...*Prec2Table) *Prec2Table {
	override := MergePrec2(overrides)
	isNT := g.nonTerminals()
	first, last := firstLastOps(g, isNT)

	t := NewPrec2Table()

	for _, p := range g.Productions {
		for _, alt := range p.Alternatives {
			for i := 0; i+1 < len(alt); i++ {
				si, sj := alt[i], alt[i+1]
				siNT, sjNT := isNT[si], isNT[sj]

				switch {
				case !siNT && !sjNT:
					t.setOverridden(si, sj, EQ, override)

				case siNT && !sjNT:
					for l := range last[si] {
						t.setOverridden(l, sj, GT, override)
					}

				case !siNT && sjNT:
					for f := range first[sj] {
						t.setOverridden(si, f, LT, override)
					}
					if i+2 < len(alt) {
						sk := alt[i+2]
						if !isNT[sk] {
							t.setOverridden(si, sk, EQ, override)
						}
					}

				default: // siNT && sjNT: violates the operator-grammar assumption
					t.diags.Add(grammarInconsistency(si, sj))
				}
			}
		}
	}

	return t
}
