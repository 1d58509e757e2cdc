// Package indent implements the indentation rule cascade: given a solved
// opg.LevelTable, a RuleTable of per-language offsets, and a host buffer, it
// computes the indentation column of the line at the cursor.
package indent

// tokenRule is the value stored for a single Token -> offset entry, with an
// optional distinct offset used when the following token is hanging.
type tokenRule struct {
	offset  int
	hanging *int
}

// RuleTable is the keyed mapping described in the data model: a language
// author builds one with the Set* methods, then passes it to NewCalculator.
// The zero value is an empty table (every lookup misses).
type RuleTable struct {
	tokens       map[string]tokenRule
	pairs        map[[2]string]int
	wildcardPair map[string]int
	listIntro    map[string]bool
	wildcard     *int
	args         *int
}

// NewRuleTable returns an empty rule table ready for Set* calls.
func NewRuleTable() *RuleTable {
	return &RuleTable{
		tokens:       make(map[string]tokenRule),
		pairs:        make(map[[2]string]int),
		wildcardPair: make(map[string]int),
		listIntro:    make(map[string]bool),
	}
}

// SetToken records the offset to add when indenting just after tok.
func (rt *RuleTable) SetToken(tok string, offset int) *RuleTable {
	rt.tokens[tok] = tokenRule{offset: offset}
	return rt
}

// SetTokenHanging records both the default offset and the offset used when
// tok is hanging.
func (rt *RuleTable) SetTokenHanging(tok string, offset, hangingOffset int) *RuleTable {
	h := hangingOffset
	rt.tokens[tok] = tokenRule{offset: offset, hanging: &h}
	return rt
}

// SetPair records the offset of b relative to a when a is b's enclosing
// opener.
func (rt *RuleTable) SetPair(a, b string, offset int) *RuleTable {
	rt.pairs[[2]string{a, b}] = offset
	return rt
}

// SetWildcardPair records the offset of tok relative to its parent,
// regardless of the parent's identity.
func (rt *RuleTable) SetWildcardPair(tok string, offset int) *RuleTable {
	rt.wildcardPair[tok] = offset
	return rt
}

// SetListIntro marks tokens after which a sequence of expressions follows
// (as opposed to a function-call argument list).
func (rt *RuleTable) SetListIntro(toks ...string) *RuleTable {
	for _, t := range toks {
		rt.listIntro[t] = true
	}
	return rt
}

// SetWildcard records the basic fallback step used when no more specific
// rule matches.
func (rt *RuleTable) SetWildcard(offset int) *RuleTable {
	o := offset
	rt.wildcard = &o
	return rt
}

// SetArgs records the offset used for a call's first argument, relative to
// the function token's column.
func (rt *RuleTable) SetArgs(offset int) *RuleTable {
	o := offset
	rt.args = &o
	return rt
}

func (rt *RuleTable) TokenOffset(tok string) (int, bool) {
	if rt == nil {
		return 0, false
	}
	r, ok := rt.tokens[tok]
	return r.offset, ok
}

// TokenHangingOffset returns the hanging-variant offset for tok if one was
// set, else its plain offset, else false.
func (rt *RuleTable) TokenHangingOffset(tok string) (int, bool) {
	if rt == nil {
		return 0, false
	}
	r, ok := rt.tokens[tok]
	if !ok {
		return 0, false
	}
	if r.hanging != nil {
		return *r.hanging, true
	}
	return r.offset, true
}

func (rt *RuleTable) PairOffset(a, b string) (int, bool) {
	if rt == nil {
		return 0, false
	}
	v, ok := rt.pairs[[2]string{a, b}]
	return v, ok
}

func (rt *RuleTable) WildcardPairOffset(tok string) (int, bool) {
	if rt == nil {
		return 0, false
	}
	v, ok := rt.wildcardPair[tok]
	return v, ok
}

func (rt *RuleTable) IsListIntro(tok string) bool {
	if rt == nil {
		return false
	}
	return rt.listIntro[tok]
}

func (rt *RuleTable) Wildcard() (int, bool) {
	if rt == nil || rt.wildcard == nil {
		return 0, false
	}
	return *rt.wildcard, true
}

func (rt *RuleTable) Args() (int, bool) {
	if rt == nil || rt.args == nil {
		return 0, false
	}
	return *rt.args, true
}
