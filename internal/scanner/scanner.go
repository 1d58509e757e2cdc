// Package scanner implements the bidirectional OPG scanner: BackwardSexp
// and ForwardSexp skip exactly one logical sub-expression, using a
// LevelTable to decide where one sub-expression ends and the next begins.
//
// The algorithm is the usual precedence-climbing stack, run in both
// directions (spec §4.4). A token that starts a group in the direction of
// travel (a closer when going backward, an opener when going forward)
// always pushes and continues: it expects its partner further along and
// cannot itself be a stopping point. A token that bounds travel in this
// direction (an opener backward, a closer forward) pops every
// tighter-binding entry ahead of it, then either completes a match against
// what's left on the stack or, finding nothing to match, stops the scan
// right there. An ordinary operator does the same popping but, on a
// level tie, replaces the top of the stack rather than removing it,
// since it both resolves the looser obligation and opens a new one of
// its own (the then/else arms of an if, for instance, relate to each
// other this way). The two functions are written out separately rather
// than unified behind one direction-parameterized helper, since the
// mirroring is in which *field* is read, not in extra control flow worth
// abstracting over.
package scanner

import (
	"github.com/opgindent/opgindent/internal/diagnostics"
	"github.com/opgindent/opgindent/internal/opg"
	"github.com/opgindent/opgindent/internal/tokenizer"
)

type Kind int

const (
	SkippedPlain Kind = iota
	StoppedAtOp
	StoppedAtOpener
	SkippedPair
)

func (k Kind) String() string {
	switch k {
	case SkippedPlain:
		return "SkippedPlain"
	case StoppedAtOp:
		return "StoppedAtOp"
	case StoppedAtOpener:
		return "StoppedAtOpener"
	case SkippedPair:
		return "SkippedPair"
	default:
		return "Kind(?)"
	}
}

// Result is the outcome of one BackwardSexp/ForwardSexp call.
type Result struct {
	Kind  Kind
	Pos   int
	Token string
	// Level is populated only for StoppedAtOp: the level (left level when
	// scanning backward, right level when scanning forward) of the token
	// that stopped the scan.
	Level int
}

// BackwardSexp skips backward over exactly one sub-expression starting at
// buf's current cursor position. halfsexp, if true, allows the scan to
// start on an operator token and consume its left operand.
func BackwardSexp(levels *opg.LevelTable, buf tokenizer.Interface, halfsexp bool) (Result, error) {
	var stack []int

	for {
		startPos := buf.Pos()
		tok := buf.BackwardToken()

		if tok == "" || !levels.Known(opg.Token(tok)) {
			// Unknown/absent token: treat as an atom via the host's
			// balanced-delimiter skip (spec §4.4 step 1).
			if tok != "" {
				// BackwardToken already consumed it; nothing further to do
				// for a plain in-band atom.
				if len(stack) == 0 {
					return Result{Kind: SkippedPlain, Pos: buf.Pos(), Token: tok}, nil
				}
				continue
			}
			skip, err := buf.BackwardBalanced()
			if err != nil {
				return Result{Kind: StoppedAtOpener, Pos: startPos}, nil
			}
			if skip.Text == "" {
				return Result{Kind: StoppedAtOpener, Pos: buf.Pos()}, nil
			}
			if len(stack) == 0 {
				return Result{Kind: SkippedPlain, Pos: buf.Pos(), Token: skip.Text}, nil
			}
			continue
		}

		lvl := levels.Get(opg.Token(tok))
		pos := buf.Pos()

		switch {
		case lvl.Right == nil: // true closer (e.g. ")"): always expects a match further left
			stack = append(stack, *lvl.Left)

		case lvl.Left == nil: // true opener (e.g. "("): bounds backward travel
			r := *lvl.Right
			for len(stack) > 0 && stack[len(stack)-1] > r {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return Result{Kind: StoppedAtOpener, Pos: pos, Token: tok}, nil
			}
			if stack[len(stack)-1] != r {
				return Result{}, diagnostics.NewAt(diagnostics.PhaseScan, diagnostics.ErrS004, true, pos, tok)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return Result{Kind: SkippedPair, Pos: pos, Token: tok}, nil
			}

		default: // ordinary operator: both levels present
			r := *lvl.Right
			for len(stack) > 0 && stack[len(stack)-1] > r {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				if halfsexp {
					halfsexp = false
					stack = append(stack, *lvl.Left)
					continue
				}
				return Result{Kind: StoppedAtOp, Pos: pos, Token: tok, Level: *lvl.Left}, nil
			}
			if stack[len(stack)-1] == r {
				if *lvl.Left == r {
					return Result{}, diagnostics.NewAt(diagnostics.PhaseScan, diagnostics.ErrS003, true, pos, tok, r)
				}
				stack[len(stack)-1] = *lvl.Left
			} else {
				stack = append(stack, *lvl.Left)
			}
		}
	}
}

// ForwardSexp is the mirror image of BackwardSexp: openers push and
// continue, closers pop/match against the stack, operators do both.
func ForwardSexp(levels *opg.LevelTable, buf tokenizer.Interface, halfsexp bool) (Result, error) {
	var stack []int

	for {
		tok := buf.ForwardToken()

		if tok == "" || !levels.Known(opg.Token(tok)) {
			if tok != "" {
				if len(stack) == 0 {
					return Result{Kind: SkippedPlain, Pos: buf.Pos(), Token: tok}, nil
				}
				continue
			}
			skip, err := buf.ForwardBalanced()
			if err != nil {
				return Result{Kind: StoppedAtOpener, Pos: buf.Pos()}, nil
			}
			if skip.Text == "" {
				return Result{Kind: StoppedAtOpener, Pos: buf.Pos()}, nil
			}
			if len(stack) == 0 {
				return Result{Kind: SkippedPlain, Pos: buf.Pos(), Token: skip.Text}, nil
			}
			continue
		}

		lvl := levels.Get(opg.Token(tok))
		pos := buf.Pos()

		switch {
		case lvl.Left == nil: // true opener (e.g. "("): always expects a match further right
			stack = append(stack, *lvl.Right)

		case lvl.Right == nil: // true closer (e.g. ")"): bounds forward travel
			l := *lvl.Left
			for len(stack) > 0 && stack[len(stack)-1] > l {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				return Result{Kind: StoppedAtOpener, Pos: pos, Token: tok}, nil
			}
			if stack[len(stack)-1] != l {
				return Result{}, diagnostics.NewAt(diagnostics.PhaseScan, diagnostics.ErrS004, true, pos, tok)
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return Result{Kind: SkippedPair, Pos: pos, Token: tok}, nil
			}

		default: // ordinary operator: both levels present
			l := *lvl.Left
			for len(stack) > 0 && stack[len(stack)-1] > l {
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 {
				if halfsexp {
					halfsexp = false
					stack = append(stack, *lvl.Right)
					continue
				}
				return Result{Kind: StoppedAtOp, Pos: pos, Token: tok, Level: *lvl.Right}, nil
			}
			if stack[len(stack)-1] == l {
				if *lvl.Right == l {
					return Result{}, diagnostics.NewAt(diagnostics.PhaseScan, diagnostics.ErrS003, true, pos, tok, l)
				}
				stack[len(stack)-1] = *lvl.Right
			} else {
				stack = append(stack, *lvl.Right)
			}
		}
	}
}
