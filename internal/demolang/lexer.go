// Package demolang is a small reference language used to exercise the
// engine end to end: arithmetic with "+"/"*", ";" sequencing, parenthesized
// function calls with comma-separated arguments, "if/then/else", and a
// right-associative "->" chain operator. Its lexer follows the teacher's
// byte-scanning Lexer (internal/lexer/lexer.go: position/readPosition/ch,
// a switch over the current byte, peekChar lookahead) but, since the
// engine needs bidirectional access rather than a forward token stream, it
// lexes eagerly into a []tokenizer.PosToken slice instead of exposing
// NextToken.
package demolang

import (
	"unicode"
	"unicode/utf8"

	"github.com/opgindent/opgindent/internal/tokenizer"
)

var keywords = map[string]bool{
	"if": true, "then": true, "else": true,
}

type lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	col          int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, col: 0}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.col++
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '-' && l.peekChar() == '-':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentPart(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

// Lex tokenizes source into a flat token slice with line/column/line-edge
// metadata, ready for tokenizer.NewSliceBuffer.
func Lex(source string) []tokenizer.PosToken {
	l := newLexer(source)
	var out []tokenizer.PosToken

	emit := func(text string, line, col int) {
		out = append(out, tokenizer.PosToken{Text: text, Line: line, Col: col})
	}

	for {
		l.skipWhitespaceAndComments()
		if l.ch == 0 {
			break
		}

		line, col := l.line, l.col

		switch {
		case l.ch == '-' && l.peekChar() == '>':
			l.readChar()
			l.readChar()
			emit("->", line, col)
		case isIdentStart(l.ch):
			start := l.position
			for isIdentPart(l.ch) {
				l.readChar()
			}
			emit(l.input[start:l.position], line, col)
		case unicode.IsDigit(l.ch):
			start := l.position
			for unicode.IsDigit(l.ch) {
				l.readChar()
			}
			emit(l.input[start:l.position], line, col)
		default:
			ch := l.ch
			l.readChar()
			emit(string(ch), line, col)
		}
	}

	markLineEdges(out)
	return out
}

// markLineEdges fills in FirstOnLine/LastOnLine now that the whole line
// layout is known.
func markLineEdges(tokens []tokenizer.PosToken) {
	for i := range tokens {
		line := tokens[i].Line
		tokens[i].FirstOnLine = i == 0 || tokens[i-1].Line != line
		tokens[i].LastOnLine = i == len(tokens)-1 || tokens[i+1].Line != line
	}
}

// IsKeyword reports whether text is one of the demo language's reserved
// words, distinct from an ordinary identifier atom.
func IsKeyword(text string) bool { return keywords[text] }
