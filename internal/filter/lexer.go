package filter

import (
	"fmt"
	"strings"

	"github.com/scopekit/scopekit/internal/aspect"
)

type lexer struct {
	input  string
	pos    int
	tokens []token
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	if err := l.run(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

func (l *lexer) run() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		start := l.pos

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.pos++

		case ch == '"':
			if err := l.readString(); err != nil {
				return err
			}

		case ch == '(':
			l.emit(token{typ: tokenLParen, val: "(", pos: start})
			l.pos++

		case ch == ')':
			l.emit(token{typ: tokenRParen, val: ")", pos: start})
			l.pos++

		case ch == '=':
			l.emit(token{typ: tokenOperator, val: "=", op: aspect.Equals, pos: start})
			l.pos++

		case ch == '!' && l.peekNext() == '=':
			l.emit(token{typ: tokenOperator, val: "!=", op: aspect.NotEquals, pos: start})
			l.pos += 2

		case ch == '!' && l.peekNext() == '~':
			l.emit(token{typ: tokenOperator, val: "!~", op: aspect.NotContains, pos: start})
			l.pos += 2

		case ch == '>' && l.peekNext() == '=':
			l.emit(token{typ: tokenOperator, val: ">=", op: aspect.GreaterThanOrEqual, pos: start})
			l.pos += 2

		case ch == '>':
			l.emit(token{typ: tokenOperator, val: ">", op: aspect.GreaterThan, pos: start})
			l.pos++

		case ch == '<' && l.peekNext() == '=':
			l.emit(token{typ: tokenOperator, val: "<=", op: aspect.LessThanOrEqual, pos: start})
			l.pos += 2

		case ch == '<':
			l.emit(token{typ: tokenOperator, val: "<", op: aspect.LessThan, pos: start})
			l.pos++

		case ch == '~':
			l.emit(token{typ: tokenOperator, val: "~", op: aspect.Contains, pos: start})
			l.pos++

		case isWordByte(ch):
			l.readWord()

		default:
			return &LexError{Pos: l.pos, Msg: fmt.Sprintf("unexpected character %q", rune(ch))}
		}
	}
	l.emit(token{typ: tokenEOF, pos: len(l.input)})
	return nil
}

func (l *lexer) emit(t token) {
	l.tokens = append(l.tokens, t)
}

func (l *lexer) peekNext() byte {
	if l.pos+1 < len(l.input) {
		return l.input[l.pos+1]
	}
	return 0
}

// readString consumes a double-quoted literal. Backslash escapes the next
// character verbatim.
func (l *lexer) readString() error {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '\\' && l.pos+1 < len(l.input) {
			l.pos++
			b.WriteByte(l.input[l.pos])
			l.pos++
			continue
		}
		if ch == '"' {
			l.pos++
			l.emit(token{typ: tokenString, val: b.String(), pos: start})
			return nil
		}
		b.WriteByte(ch)
		l.pos++
	}
	return &LexError{Pos: start, Msg: "unterminated string literal"}
}

// readWord consumes an identifier or keyword. Key validation is deferred
// to criteria resolution, so a word may start with a digit here.
func (l *lexer) readWord() {
	start := l.pos
	for l.pos < len(l.input) && isWordByte(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]

	switch strings.ToUpper(word) {
	case "AND":
		l.emit(token{typ: tokenAnd, val: word, pos: start})
	case "OR":
		l.emit(token{typ: tokenOr, val: word, pos: start})
	case "NOT":
		l.emit(token{typ: tokenNot, val: word, pos: start})
	default:
		l.emit(token{typ: tokenIdent, val: word, pos: start})
	}
}

// isWordByte reports bytes that may appear in a bare word: letters,
// digits, underscore, hyphen, and dot (so unquoted numbers like 2.5 lex
// as a single word).
func isWordByte(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_' || ch == '-' || ch == '.'
}
