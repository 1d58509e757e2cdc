// Package tokenizer defines the pluggable interface between the OPG scanner
// (internal/scanner) and a host text buffer. Tokenization of the buffer
// itself, comment skipping and character-level paren matching are host
// capabilities per the spec: this package only describes the contract, plus
// one reference implementation (SliceBuffer) backed by a pre-lexed token
// slice, used by the engine's own tests and its CLI.
package tokenizer

// Signal classifies the outcome of one host balanced-delimiter skip,
// invoked by the scanner whenever a token is absent from the level table.
type Signal int

const (
	// SignalAtom means exactly one plain token was consumed (an
	// identifier, literal, or any symbol the host doesn't treat as a
	// paired delimiter).
	SignalAtom Signal = iota
	// SignalOpen means the skip landed on an opening delimiter with
	// nothing further to match going the direction of travel: the scan
	// has reached a boundary it cannot cross.
	SignalOpen
	// SignalClose means the skip crossed one fully matched delimiter pair
	// in a single step (e.g. ")" all the way back to its "("). Pos is the
	// position of the delimiter at the far end of the pair.
	SignalClose
	// SignalBoundary means nothing was consumed: beginning or end of
	// buffer.
	SignalBoundary
)

// BalancedSkip is the result of one host-provided balanced-delimiter skip.
type BalancedSkip struct {
	Signal Signal
	Pos    int
	Text   string
}

// Interface is the contract a host buffer implements so the scanner and
// indentation calculator can navigate it without knowing its concrete
// representation.
type Interface interface {
	// Pos returns the current cursor position.
	Pos() int
	// SetPos moves the cursor to an absolute position previously obtained
	// from Pos, ForwardToken or BackwardToken.
	SetPos(pos int)

	// BackwardToken skips comments/whitespace backward, then returns the
	// token string immediately before the cursor and leaves the cursor at
	// the token's start. Returns "" if no token was consumed.
	BackwardToken() string
	// ForwardToken is the mirror image of BackwardToken.
	ForwardToken() string

	// BackwardBalanced performs one balanced-delimiter skip backward from
	// the current cursor, for use when the token at the cursor is absent
	// from the level table (including when BackwardToken returned "").
	BackwardBalanced() (BalancedSkip, error)
	// ForwardBalanced is the mirror image of BackwardBalanced.
	ForwardBalanced() (BalancedSkip, error)
}
