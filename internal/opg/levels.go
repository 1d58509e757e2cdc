package opg

import "github.com/opgindent/opgindent/internal/diagnostics"

// Level holds the optional left/right precedence level of one token. A nil
// Left means the token is an opener (nothing to its left can bind with
// it); a nil Right means it is a closer.
type Level struct {
	Left, Right *int
}

// LevelTable is the solved, one-dimensional precedence table: Token ->
// (optional left level, optional right level).
type LevelTable struct {
	levels map[Token]Level
	diags  []*diagnostics.Diagnostic
}

func (lt *LevelTable) Get(t Token) Level { return lt.levels[t] }

func (lt *LevelTable) IsOpener(t Token) bool {
	lvl, ok := lt.levels[t]
	return !ok || lvl.Left == nil
}

func (lt *LevelTable) IsCloser(t Token) bool {
	lvl, ok := lt.levels[t]
	return !ok || lvl.Right == nil
}

func (lt *LevelTable) Known(t Token) bool {
	_, ok := lt.levels[t]
	return ok
}

func (lt *LevelTable) Diagnostics() []*diagnostics.Diagnostic { return lt.diags }

// Entries returns every token's solved Level, for callers that need to
// enumerate or persist the whole table (e.g. gramstore).
func (lt *LevelTable) Entries() map[Token]Level {
	out := make(map[Token]Level, len(lt.levels))
	for k, v := range lt.levels {
		out[k] = v
	}
	return out
}

// FromEntries rebuilds a LevelTable from a previously-saved Entries map,
// for gramstore.Load.
func FromEntries(entries map[Token]Level) *LevelTable {
	levels := make(map[Token]Level, len(entries))
	for k, v := range entries {
		levels[k] = v
	}
	return &LevelTable{levels: levels}
}

func intp(v int) *int { return &v }

// Prec2Levels solves a Prec2Table into a LevelTable using the three-phase
// algorithm from the spec: (1) union-find unification of equality
// constraints, (2) topological batch assignment of integer levels to the
// inequality graph, (3) propagation of those integers back across the
// equality groups formed in phase 1.
//
// The one fatal error condition is an unresolvable cycle in the inequality
// constraints (G001). A self-equal level surviving to phase 3 (G004) is
// also treated as fatal, per the resolved open question in the spec's
// design notes: the reference's ambiguous debug-trap case is rejected at
// compile time rather than left for the scanner to puzzle over.
func Prec2Levels(t *Prec2Table) (*LevelTable, error) {
	// Collect every token that participates in at least one cell, and
	// allocate two level-variable ids (left, right) per token.
	leftVar := make(map[Token]int)
	rightVar := make(map[Token]int)
	var tokens []Token
	ensure := func(tok Token) {
		if _, ok := leftVar[tok]; ok {
			return
		}
		leftVar[tok] = len(tokens) * 2
		rightVar[tok] = len(tokens)*2 + 1
		tokens = append(tokens, tok)
	}
	cells := t.Cells()
	for _, c := range cells {
		ensure(c.Left)
		ensure(c.Right)
	}

	n := len(tokens) * 2
	uf := newUnionFind(n)

	type edge struct{ src, dst int }
	var edges []edge

	for _, c := range cells {
		switch c.Rel {
		case EQ:
			uf.union(rightVar[c.Left], leftVar[c.Right])
		case LT:
			edges = append(edges, edge{rightVar[c.Left], leftVar[c.Right]})
		case GT:
			edges = append(edges, edge{leftVar[c.Right], rightVar[c.Left]})
		}
	}

	// Phase 2: topological batch assignment over representative vertices.
	adj := make(map[int]map[int]bool)
	indegree := make(map[int]int)
	vertices := make(map[int]bool)
	addVertex := func(v int) {
		if !vertices[v] {
			vertices[v] = true
			indegree[v] = 0
		}
	}
	for _, e := range edges {
		src, dst := uf.find(e.src), uf.find(e.dst)
		if src == dst {
			continue // equality already made them the same level; no ordering needed
		}
		addVertex(src)
		addVertex(dst)
		if adj[src] == nil {
			adj[src] = make(map[int]bool)
		}
		if !adj[src][dst] {
			adj[src][dst] = true
			indegree[dst]++
		}
	}

	assigned := make(map[int]int)
	remaining := len(vertices)
	var queue []int
	for v := range vertices {
		if indegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	level := 0
	var diags []*diagnostics.Diagnostic
	for remaining > 0 {
		if len(queue) == 0 {
			diags = append(diags, diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG001, true,
				"remaining precedence constraints"))
			return &LevelTable{levels: map[Token]Level{}, diags: diags}, diags[len(diags)-1]
		}
		var next []int
		for _, v := range queue {
			assigned[v] = level
			remaining--
			for succ := range adj[v] {
				indegree[succ]--
				if indegree[succ] == 0 {
					next = append(next, succ)
				}
			}
		}
		queue = next
		level++
	}

	// Phase 3: propagate integer levels back across equality groups and
	// assemble the per-token Level.
	levelOf := func(varID int) *int {
		rep := uf.find(varID)
		if v, ok := assigned[rep]; ok {
			return intp(v)
		}
		return nil
	}

	out := make(map[Token]Level, len(tokens))
	for _, tok := range tokens {
		l := levelOf(leftVar[tok])
		r := levelOf(rightVar[tok])
		if l != nil && r != nil && *l == *r {
			diags = append(diags, diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG004, true,
				string(tok), *l))
		}
		out[tok] = Level{Left: l, Right: r}
	}

	lt := &LevelTable{levels: out, diags: diags}
	for _, d := range diags {
		if d.Fatal {
			return lt, d
		}
	}
	return lt, nil
}
