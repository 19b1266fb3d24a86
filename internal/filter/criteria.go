package filter

import (
	"fmt"
	"strings"

	"github.com/scopekit/scopekit/internal/aspect"
)

// Criterion is one resolved predicate: a validated key, a comparison
// operator, and a validated target value.
type Criterion struct {
	Key   aspect.Key
	Op    aspect.ComparisonOperator
	Value aspect.Value
}

// Evaluate tests the criterion against a single aspect value. A nil value
// (the aspect is absent) is false for every operator, including negated
// ones: absence never satisfies NOT_EQUALS.
func (c Criterion) Evaluate(v *aspect.Value) bool {
	if v == nil {
		return false
	}
	switch c.Op {
	case aspect.Equals:
		return v.String() == c.Value.String()
	case aspect.NotEquals:
		return v.String() != c.Value.String()
	case aspect.GreaterThan:
		return v.Compare(c.Value) > 0
	case aspect.GreaterThanOrEqual:
		return v.Compare(c.Value) >= 0
	case aspect.LessThan:
		return v.Compare(c.Value) < 0
	case aspect.LessThanOrEqual:
		return v.Compare(c.Value) <= 0
	case aspect.Contains:
		return containsFold(v.String(), c.Value.String())
	case aspect.NotContains:
		return !containsFold(v.String(), c.Value.String())
	default:
		return false
	}
}

// EvaluateMany tests the criterion against a multi-valued aspect. An
// absent or empty list is false. Positive operators match if any value
// qualifies; negative operators (NotEquals, NotContains) match only if
// every value does, so no value triggers the excluded condition.
func (c Criterion) EvaluateMany(vs []aspect.Value) bool {
	if len(vs) == 0 {
		return false
	}
	if c.Op.Negative() {
		for i := range vs {
			if !c.Evaluate(&vs[i]) {
				return false
			}
		}
		return true
	}
	for i := range vs {
		if c.Evaluate(&vs[i]) {
			return true
		}
	}
	return false
}

// containsFold is a case-insensitive substring test on raw text.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Criteria is a resolved, evaluable predicate tree. Implementations are
// immutable and safe for concurrent evaluation across many scopes.
type Criteria interface {
	criteria()

	// Evaluate tests the predicate against single-valued aspects.
	Evaluate(aspects map[aspect.Key]aspect.Value) bool

	// EvaluateMulti tests the predicate against multi-valued aspects.
	EvaluateMulti(aspects map[aspect.Key][]aspect.Value) bool
}

// Single wraps one criterion.
type Single struct {
	Criterion Criterion
}

func (*Single) criteria() {}

func (s *Single) Evaluate(aspects map[aspect.Key]aspect.Value) bool {
	v, ok := aspects[s.Criterion.Key]
	if !ok {
		return s.Criterion.Evaluate(nil)
	}
	return s.Criterion.Evaluate(&v)
}

func (s *Single) EvaluateMulti(aspects map[aspect.Key][]aspect.Value) bool {
	return s.Criterion.EvaluateMany(aspects[s.Criterion.Key])
}

// Compound combines two criteria with AND or OR.
type Compound struct {
	Left  Criteria
	Op    aspect.LogicalOperator
	Right Criteria
}

func (*Compound) criteria() {}

func (c *Compound) Evaluate(aspects map[aspect.Key]aspect.Value) bool {
	if c.Op == aspect.And {
		return c.Left.Evaluate(aspects) && c.Right.Evaluate(aspects)
	}
	return c.Left.Evaluate(aspects) || c.Right.Evaluate(aspects)
}

func (c *Compound) EvaluateMulti(aspects map[aspect.Key][]aspect.Value) bool {
	if c.Op == aspect.And {
		return c.Left.EvaluateMulti(aspects) && c.Right.EvaluateMulti(aspects)
	}
	return c.Left.EvaluateMulti(aspects) || c.Right.EvaluateMulti(aspects)
}

// Negated inverts a criteria subtree. Negation evaluates the inner tree
// and flips the result; it never rewrites comparison operators, so an
// absent aspect under NOT still follows the absence-is-false rule of the
// inner comparison before the flip.
type Negated struct {
	Inner Criteria
}

func (*Negated) criteria() {}

func (n *Negated) Evaluate(aspects map[aspect.Key]aspect.Value) bool {
	return !n.Inner.Evaluate(aspects)
}

func (n *Negated) EvaluateMulti(aspects map[aspect.Key][]aspect.Value) bool {
	return !n.Inner.EvaluateMulti(aspects)
}

// Resolve walks an expression tree once and converts every comparison
// leaf into a criterion, validating its key and value. The first
// validation failure aborts with a ResolveError; no partial tree is
// returned. Parentheses are transparent.
func Resolve(expr Expr) (Criteria, error) {
	switch e := expr.(type) {
	case *Comparison:
		key, err := aspect.NewKey(e.Key)
		if err != nil {
			return nil, &ResolveError{Leaf: comparisonText(e), Err: err}
		}
		value, err := aspect.NewValue(e.Value)
		if err != nil {
			return nil, &ResolveError{Leaf: comparisonText(e), Err: err}
		}
		return &Single{Criterion: Criterion{Key: key, Op: e.Op, Value: value}}, nil

	case *And:
		return resolveCompound(e.Left, aspect.And, e.Right)

	case *Or:
		return resolveCompound(e.Left, aspect.Or, e.Right)

	case *Not:
		inner, err := Resolve(e.Inner)
		if err != nil {
			return nil, err
		}
		return &Negated{Inner: inner}, nil

	case *Parens:
		return Resolve(e.Inner)

	default:
		return nil, fmt.Errorf("filter: unknown expression node %T", expr)
	}
}

func resolveCompound(left Expr, op aspect.LogicalOperator, right Expr) (Criteria, error) {
	l, err := Resolve(left)
	if err != nil {
		return nil, err
	}
	r, err := Resolve(right)
	if err != nil {
		return nil, err
	}
	return &Compound{Left: l, Op: op, Right: r}, nil
}

func comparisonText(c *Comparison) string {
	return fmt.Sprintf("%s %s %s", c.Key, c.Op, c.Value)
}
