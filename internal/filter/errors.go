package filter

import "fmt"

// LexError reports a character the lexer could not place in any token, or
// an unterminated string literal. Pos is the zero-based offset into the
// filter string.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("filter: %s at position %d", e.Msg, e.Pos)
}

// SyntaxError reports malformed token ordering: a missing operand, an
// unbalanced parenthesis, or trailing input after a complete expression.
// Pos is the offset of the offending token.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at position %d", e.Msg, e.Pos)
}

// ResolveError reports a well-formed comparison whose key or value failed
// aspect validation. Leaf is the offending text; Err is the underlying
// validation error.
type ResolveError struct {
	Leaf string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("filter: invalid comparison %q: %v", e.Leaf, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }
