// Package filter implements the aspect filter-query language: a small
// DSL that selects scopes by metadata predicates such as
//
//	"priority">"5" AND NOT "status"="done"
//
// Compile runs the whole pipeline: lexing the raw string into
// position-tagged tokens, recursive-descent parsing into an expression
// tree (precedence NOT > AND > OR, explicit parentheses preserved), and
// resolving comparison leaves into validated criteria. The three failure
// kinds stay disjoint: LexError, SyntaxError, and ResolveError. A
// compiled Criteria is immutable and evaluation never fails; absent or
// mismatched data degrades to false.
package filter

// Compile turns a filter string into an evaluable criteria tree.
func Compile(input string) (Criteria, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	expr, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	return Resolve(expr)
}
