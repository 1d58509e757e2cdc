package opg

import "github.com/opgindent/opgindent/internal/diagnostics"

type pairKey struct {
	Left, Right Token
}

// Prec2Table is the two-argument precedence relation table: the
// intermediate representation between grammar declarations and the level
// table. Writes are monotonic with conflict detection: setting a cell that
// already holds a different value is either resolved by an override table
// or reported as a (non-fatal) conflict, and the original value is kept.
type Prec2Table struct {
	cells map[pairKey]Rel
	diags diagnostics.Bag
}

func NewPrec2Table() *Prec2Table {
	return &Prec2Table{cells: make(map[pairKey]Rel)}
}

// Get returns the relation declared between left and right, if any.
func (t *Prec2Table) Get(left, right Token) (Rel, bool) {
	v, ok := t.cells[pairKey{left, right}]
	return v, ok
}

// Set writes v into cell (left,right). If the cell already holds a
// different value, the write is rejected (the original value is kept) and
// a G002 conflict diagnostic is recorded.
func (t *Prec2Table) Set(left, right Token, v Rel) {
	key := pairKey{left, right}
	if existing, ok := t.cells[key]; ok {
		if existing != v {
			t.diags.Add(diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG002, false,
				string(left), string(right), existing.String(), v.String()))
		}
		return
	}
	t.cells[key] = v
}

// setOverridden writes v (the value computed from a grammar rule), but if
// overrides declares a different value for the same cell, the override
// wins. Both values are retained in the diagnostic when they disagree, per
// the resolved open question in the spec's design notes: overrides must
// not silently hide a real conflict.
func (t *Prec2Table) setOverridden(left, right Token, computed Rel, overrides *Prec2Table) {
	final := computed
	if overrides != nil {
		if ov, ok := overrides.Get(left, right); ok {
			if ov != computed {
				t.diags.Add(diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG003, false,
					string(left), string(right), ov.String(), computed.String()))
			}
			final = ov
		}
	}
	t.Set(left, right, final)
}

// Cells returns a copy of every declared (left,right)->rel triple. Intended
// for diagnostics/inspection tooling (e.g. the CLI's `compile` dump), not
// for hot paths.
type Cell struct {
	Left, Right Token
	Rel         Rel
}

func (t *Prec2Table) Cells() []Cell {
	out := make([]Cell, 0, len(t.cells))
	for k, v := range t.cells {
		out = append(out, Cell{Left: k.Left, Right: k.Right, Rel: v})
	}
	return out
}

func (t *Prec2Table) Diagnostics() []*diagnostics.Diagnostic { return t.diags.All() }

// overwrite forcibly sets a cell, recording a G003 diagnostic (both values
// retained) when it disagrees with what is already there. Used by
// MergePrec2, where later tables are meant to win over earlier ones.
func (t *Prec2Table) overwrite(left, right Token, v Rel) {
	key := pairKey{left, right}
	if existing, ok := t.cells[key]; ok && existing != v {
		t.diags.Add(diagnostics.New(diagnostics.PhaseGrammar, diagnostics.ErrG003, false,
			string(left), string(right), v.String(), existing.String()))
	}
	t.cells[key] = v
}

// MergePrec2 combines several prec2 tables into one. Later tables in the
// list act as overrides for earlier ones: a disagreement is recorded (both
// values retained in the diagnostic) but the later table's value wins.
func MergePrec2(tables []*Prec2Table) *Prec2Table {
	out := NewPrec2Table()
	for _, tbl := range tables {
		if tbl == nil {
			continue
		}
		for _, c := range tbl.Cells() {
			out.overwrite(c.Left, c.Right, c.Rel)
		}
	}
	return out
}
