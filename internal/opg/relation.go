// Package opg builds and solves operator-precedence grammars: it turns a
// BNF description or a precedence-list into a two-dimensional precedence
// relation table (Prec2Table), then compresses that table into a
// one-dimensional table of per-token integer levels (LevelTable).
package opg

import "fmt"

// Token is an opaque token string as returned by a host tokenizer. The
// package never interprets characters within it.
type Token string

// Rel is one of the three precedence relation values that can hold between
// two adjacent tokens. The fourth outcome described by the spec, "absent",
// is represented by the relation simply not being present in a Prec2Table.
type Rel int

const (
	LT Rel = iota // left token binds looser than the right
	EQ            // both belong to the same construct
	GT            // left token binds tighter than the right
)

func (r Rel) String() string {
	switch r {
	case LT:
		return "<"
	case EQ:
		return "="
	case GT:
		return ">"
	default:
		return fmt.Sprintf("Rel(%d)", int(r))
	}
}
