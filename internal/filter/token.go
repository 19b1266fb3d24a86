package filter

import "github.com/scopekit/scopekit/internal/aspect"

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenIdent
	tokenString
	tokenOperator
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

func (t tokenType) String() string {
	switch t {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenString:
		return "string literal"
	case tokenOperator:
		return "operator"
	case tokenAnd:
		return "AND"
	case tokenOr:
		return "OR"
	case tokenNot:
		return "NOT"
	case tokenLParen:
		return "("
	case tokenRParen:
		return ")"
	default:
		return "unknown token"
	}
}

// token is one lexical unit. pos is the zero-based offset of the token's
// first character, carried for diagnostics only. op is set for
// tokenOperator tokens.
type token struct {
	typ tokenType
	val string
	op  aspect.ComparisonOperator
	pos int
}
