package aspect

// ComparisonOperator is one comparison in a filter predicate.
type ComparisonOperator int

const (
	Equals ComparisonOperator = iota
	NotEquals
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	Contains
	NotContains
)

// String returns the operator's filter-language lexeme.
func (op ComparisonOperator) String() string {
	switch op {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case Contains:
		return "~"
	case NotContains:
		return "!~"
	default:
		return "?"
	}
}

// Negative reports whether the operator expresses an exclusion. Against a
// multi-valued aspect, negative operators require every value to satisfy
// the test, while positive operators require at least one.
func (op ComparisonOperator) Negative() bool {
	return op == NotEquals || op == NotContains
}

// LogicalOperator combines two criteria.
type LogicalOperator int

const (
	And LogicalOperator = iota
	Or
)

// String returns the operator's filter-language keyword.
func (op LogicalOperator) String() string {
	if op == And {
		return "AND"
	}
	return "OR"
}
