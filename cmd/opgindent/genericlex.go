package main

import (
	"strings"
	"unicode"

	"github.com/opgindent/opgindent/internal/tokenizer"
)

// genericLex tokenizes source for a user-supplied grammar file by splitting
// on whitespace, treating each whitespace-separated run as one token. A
// grammar file's productions/precedences name whole tokens (e.g. "->",
// "then"), so its source is expected to keep those tokens
// whitespace-separated; internal/demolang's own lexer is used instead
// whenever --lang demo selects the bundled reference language, which can
// tokenize "a->b" without spaces.
func genericLex(source string) []tokenizer.PosToken {
	var out []tokenizer.PosToken
	line := 1
	col := 0
	inComment := false

	var cur strings.Builder
	curLine, curCol := 0, 0

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		out = append(out, tokenizer.PosToken{Text: cur.String(), Line: curLine, Col: curCol})
		cur.Reset()
	}

	runes := []rune(source)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		col++
		if ch == '\n' {
			flush()
			line++
			col = 0
			inComment = false
			continue
		}
		if inComment {
			continue
		}
		if ch == '-' && i+1 < len(runes) && runes[i+1] == '-' && cur.Len() == 0 {
			inComment = true
			continue
		}
		if unicode.IsSpace(ch) {
			flush()
			continue
		}
		if cur.Len() == 0 {
			curLine, curCol = line, col
		}
		cur.WriteRune(ch)
	}
	flush()

	markLineEdges(out)
	return out
}

func markLineEdges(tokens []tokenizer.PosToken) {
	for i := range tokens {
		line := tokens[i].Line
		tokens[i].FirstOnLine = i == 0 || tokens[i-1].Line != line
		tokens[i].LastOnLine = i == len(tokens)-1 || tokens[i+1].Line != line
	}
}
