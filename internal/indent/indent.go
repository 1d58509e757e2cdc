package indent

import (
	"github.com/opgindent/opgindent/internal/diagnostics"
	"github.com/opgindent/opgindent/internal/opg"
	"github.com/opgindent/opgindent/internal/scanner"
	"github.com/opgindent/opgindent/internal/tokenizer"
)

// Virtual selects how much the cascade trusts a line's pre-existing
// indentation before recomputing it.
type Virtual int

const (
	VirtualNone Virtual = iota
	VirtualBOLP
	VirtualHanging
)

// maxDepth bounds the cascade's recursion. The spec's resource model treats
// runaway recursion as impossible by construction (each step moves the
// cursor strictly backward or narrows the rule applied); this is a backstop
// against a malformed rule table or grammar, not an expected path.
const maxDepth = 500

// Host is the buffer capability the calculator needs beyond the scanner's
// tokenizer.Interface: column/line-start/existing-indentation queries. A
// real editor host implements this directly over its own buffer;
// tokenizer.SliceBuffer is the reference implementation used by tests and
// the CLI.
type Host interface {
	tokenizer.Interface
	Column() int
	AtLineStart() bool
	CurrentIndent() int
	IsHanging() bool
}

// Calculator computes indentation columns for one immutable (levels, rules)
// language-mode pair over a mutable host buffer.
type Calculator struct {
	Levels *opg.LevelTable
	Rules  *RuleTable
	Basic  int
	buf    Host
	diags  diagnostics.Bag
}

// NewCalculator builds a Calculator bound to buf. Basic is the fallback
// step width (spec's indent-basic, default 4 if 0).
func NewCalculator(levels *opg.LevelTable, rules *RuleTable, basic int, buf Host) *Calculator {
	if basic == 0 {
		basic = 4
	}
	return &Calculator{Levels: levels, Rules: rules, Basic: basic, buf: buf}
}

func (c *Calculator) Diagnostics() []*diagnostics.Diagnostic { return c.diags.All() }

// IndentLine is the entry point: run the cascade from the cursor, and
// return a column clamped to >= 0. It does not move the cursor to the
// line's first token itself; the caller places it there. Any internal error
// is caught and column 0 substituted (spec §7).
func (c *Calculator) IndentLine() int {
	col, err := c.Calculate(VirtualNone)
	if err != nil {
		c.diags.Add(diagnostics.NewAt(diagnostics.PhaseIndent, diagnostics.ErrI001, false, c.buf.Pos(), err.Error()))
		return 0
	}
	if col < 0 {
		return 0
	}
	return col
}

// Calculate runs the rule cascade once and returns the first rule's result.
func (c *Calculator) Calculate(virtual Virtual) (int, error) {
	return c.calculate(virtual, 0)
}

func (c *Calculator) calculate(virtual Virtual, depth int) (int, error) {
	if depth > maxDepth {
		return 0, diagnostics.NewAt(diagnostics.PhaseIndent, diagnostics.ErrI001, false, c.buf.Pos(), "cascade depth exceeded")
	}

	if col, ok := c.rule1TrustPreExisting(virtual); ok {
		return col, nil
	}
	if col, ok, err := c.rule2ClosingParen(depth); ok || err != nil {
		return col, err
	}
	if col, ok, err := c.rule3AligningToken(depth); ok || err != nil {
		return col, err
	}
	if col, ok, err := c.rule4CommentAlign(); ok || err != nil {
		return col, err
	}
	if col, ok, err := c.rule5AfterOpeningKeyword(virtual, depth); ok || err != nil {
		return col, err
	}
	return c.rule6MainWalk(depth)
}

// rule1TrustPreExisting implements cascade step 1.
func (c *Calculator) rule1TrustPreExisting(virtual Virtual) (int, bool) {
	switch virtual {
	case VirtualBOLP:
		if c.buf.AtLineStart() {
			return c.buf.CurrentIndent(), true
		}
	case VirtualHanging:
		if !c.buf.IsHanging() {
			return c.buf.CurrentIndent(), true
		}
	}
	return 0, false
}

// rule2ClosingParen implements cascade step 2: if the cursor sits at a
// close-delimiter, walk to its matching opener and recurse with HANGING.
func (c *Calculator) rule2ClosingParen(depth int) (int, bool, error) {
	saved := c.buf.Pos()
	tok := c.peekForward()
	if tok == "" || !c.Levels.Known(opg.Token(tok)) || !c.Levels.IsCloser(opg.Token(tok)) {
		return 0, false, nil
	}
	c.buf.ForwardToken()
	res, err := scanner.BackwardSexp(c.Levels, c.buf, false)
	if err != nil {
		c.buf.SetPos(saved)
		return 0, false, err
	}
	if res.Kind != scanner.SkippedPair && res.Kind != scanner.StoppedAtOpener {
		c.buf.SetPos(saved)
		return 0, false, nil
	}
	c.buf.SetPos(res.Pos)
	col, err := c.calculate(VirtualHanging, depth+1)
	return col, true, err
}

// rule3AligningToken implements cascade step 3.
func (c *Calculator) rule3AligningToken(depth int) (int, bool, error) {
	saved := c.buf.Pos()
	tok := c.peekForward()
	if tok == "" || !c.Levels.Known(opg.Token(tok)) {
		return 0, false, nil
	}
	lvl := c.Levels.Get(opg.Token(tok))
	if lvl.Left == nil {
		return 0, false, nil
	}

	res, err := scanner.BackwardSexp(c.Levels, c.buf, true)
	if err != nil {
		c.buf.SetPos(saved)
		return 0, false, err
	}

	if res.Token != "" && res.Token == string(tok) {
		// Same operator recurring: walk back over one left operand at a
		// time until an earlier occurrence stops matching, then recurse
		// from the earliest one found.
		cur := res
		anchor := cur.Pos
		for {
			c.buf.SetPos(cur.Pos)
			pos, stop, err := c.skipLeftOperand()
			if err != nil {
				return 0, false, err
			}
			anchor = pos
			if stop.Token == string(tok) {
				cur = stop
				continue
			}
			break
		}
		c.buf.SetPos(anchor)
		col, err := c.calculate(VirtualBOLP, depth+1)
		return col, true, err
	}

	if res.Token != "" && c.Levels.Known(opg.Token(res.Token)) && sameRight(c.Levels, res.Token, string(tok)) {
		c.buf.SetPos(res.Pos)
		col, err := c.calculate(VirtualBOLP, depth+1)
		return col, true, err
	}

	parent := res.Token
	var offset int
	if parent != "" {
		if o, ok := c.Rules.PairOffset(parent, string(tok)); ok {
			offset = o
		} else if o, ok := c.Rules.WildcardPairOffset(string(tok)); ok {
			offset = o
		}
	}
	c.buf.SetPos(res.Pos)
	col, err := c.calculate(VirtualBOLP, depth+1)
	if err != nil {
		return 0, false, err
	}
	return col + offset, true, nil
}

// rule4CommentAlign implements cascade step 4. Comment structure is a host
// capability the reference tokenizer.SliceBuffer doesn't model (spec
// Non-goals: comment skipping); a host exposing one can satisfy the
// optional commentHost interface to participate in this rule.
func (c *Calculator) rule4CommentAlign() (int, bool, error) {
	ch, ok := c.buf.(commentHost)
	if !ok {
		return 0, false, nil
	}
	col, aligned, err := ch.CommentAlign()
	if err != nil || !aligned {
		return 0, false, err
	}
	return col, true, nil
}

// commentHost is an optional capability: a host whose buffer tracks
// comment structure can implement it to participate in rule4CommentAlign.
type commentHost interface {
	CommentAlign() (col int, ok bool, err error)
}

// rule5AfterOpeningKeyword implements cascade step 5.
func (c *Calculator) rule5AfterOpeningKeyword(virtual Virtual, depth int) (int, bool, error) {
	saved := c.buf.Pos()
	prev := c.peekBackward()
	if prev == "" {
		return 0, false, nil
	}
	_, hasRule := c.Rules.TokenOffset(prev)
	isCloserLike := !c.Levels.Known(opg.Token(prev)) || c.Levels.IsCloser(opg.Token(prev))
	if !hasRule && !isCloserLike {
		return 0, false, nil
	}

	hanging := c.buf.IsHanging()
	offset := c.Basic
	if o, ok := c.Rules.TokenHangingOffset(prev); ok {
		if hanging {
			offset = o
		} else if o2, ok2 := c.Rules.TokenOffset(prev); ok2 {
			offset = o2
		} else {
			offset = o
		}
	} else if o, ok := c.Rules.Wildcard(); ok {
		offset = o
	}

	c.buf.BackwardToken()
	next := VirtualNone
	if hanging || virtual != VirtualNone {
		next = VirtualBOLP
	}
	col, err := c.calculate(next, depth+1)
	if err != nil {
		c.buf.SetPos(saved)
		return 0, false, err
	}
	return col + offset, true, nil
}

// rule6MainWalk implements cascade step 6, the default fallback.
func (c *Calculator) rule6MainWalk(depth int) (int, error) {
	var positions []int
	var last scanner.Result

	for {
		res, err := scanner.BackwardSexp(c.Levels, c.buf, false)
		if err != nil {
			return 0, err
		}
		if res.Kind != scanner.SkippedPlain && res.Kind != scanner.SkippedPair {
			last = res
			break
		}
		positions = append(positions, res.Pos)
		if c.buf.AtLineStart() {
			last = scanner.Result{Kind: scanner.StoppedAtOpener, Pos: res.Pos}
			break
		}
	}

	if len(positions) > 0 {
		if last.Kind == scanner.StoppedAtOpener && c.atLineStart(last.Pos) && !c.Rules.IsListIntro(last.Token) {
			funcCol := c.columnAt(last.Pos)
			off, ok := c.Rules.Args()
			if !ok {
				off = c.Basic
			}
			return funcCol + off, nil
		}
		return c.columnAt(positions[len(positions)-1]), nil
	}

	if last.Kind == scanner.StoppedAtOp {
		// Chain of same-precedence operators (spec §4.5 rule 6): repeatedly
		// skip the left operand of each occurrence found, the way rule3's
		// earliest-occurrence walk does, rather than stopping the instant
		// the operand is more than one token long.
		cur := last
		anchor := cur.Pos
		for {
			c.buf.SetPos(cur.Pos)
			pos, stop, err := c.skipLeftOperand()
			if err != nil {
				return 0, err
			}
			anchor = pos
			if stop.Kind == scanner.StoppedAtOp && stop.Token == cur.Token {
				cur = stop
				continue
			}
			break
		}
		c.buf.SetPos(anchor)
		return c.calculate(VirtualHanging, depth+1)
	}

	return c.buf.Column(), nil
}

// skipLeftOperand walks backward over exactly one full operand -- a run of
// plain atoms and balanced pairs -- starting at the cursor's current
// position, the way the top of rule6MainWalk does for the cascade's
// default case. It returns the leftmost position reached (the cursor's
// starting position if nothing was consumed) and the Result that finally
// stopped the walk: an operator, an opener, or a buffer boundary.
func (c *Calculator) skipLeftOperand() (int, scanner.Result, error) {
	leftmost := c.buf.Pos()
	for {
		res, err := scanner.BackwardSexp(c.Levels, c.buf, false)
		if err != nil {
			return 0, scanner.Result{}, err
		}
		if res.Kind != scanner.SkippedPlain && res.Kind != scanner.SkippedPair {
			return leftmost, res, nil
		}
		leftmost = res.Pos
	}
}

func (c *Calculator) peekForward() string {
	p := c.buf.Pos()
	tok := c.buf.ForwardToken()
	c.buf.SetPos(p)
	return tok
}

func (c *Calculator) peekBackward() string {
	p := c.buf.Pos()
	tok := c.buf.BackwardToken()
	c.buf.SetPos(p)
	return tok
}

func (c *Calculator) columnAt(pos int) int {
	saved := c.buf.Pos()
	c.buf.SetPos(pos)
	col := c.buf.Column()
	c.buf.SetPos(saved)
	return col
}

func (c *Calculator) atLineStart(pos int) bool {
	saved := c.buf.Pos()
	c.buf.SetPos(pos)
	ok := c.buf.AtLineStart()
	c.buf.SetPos(saved)
	return ok
}

func sameRight(lt *opg.LevelTable, a, b string) bool {
	la, lb := lt.Get(opg.Token(a)), lt.Get(opg.Token(b))
	if la.Right == nil || lb.Right == nil {
		return false
	}
	return *la.Right == *lb.Right
}
