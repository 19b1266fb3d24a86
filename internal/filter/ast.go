package filter

import "github.com/scopekit/scopekit/internal/aspect"

// Expr is a node in the filter expression tree. The tree is immutable
// once built: every node owns its children and the parser builds strictly
// bottom-up, so it is acyclic by construction.
type Expr interface {
	expr()
}

// Comparison is a single predicate leaf. Key and Value are the raw token
// texts; they are validated as aspect key/value during resolution, not
// here, so lexical and semantic failures stay distinguishable.
type Comparison struct {
	Key   string
	Op    aspect.ComparisonOperator
	Value string
	Pos   int // offset of the key token, for resolution diagnostics
}

func (*Comparison) expr() {}

// And is a logical conjunction of two expressions.
type And struct {
	Left, Right Expr
}

func (*And) expr() {}

// Or is a logical disjunction of two expressions.
type Or struct {
	Left, Right Expr
}

func (*Or) expr() {}

// Not negates an expression.
type Not struct {
	Inner Expr
}

func (*Not) expr() {}

// Parens records explicit grouping. It is preserved rather than flattened
// so diagnostics and round-tripping keep the user's parentheses.
type Parens struct {
	Inner Expr
}

func (*Parens) expr() {}
