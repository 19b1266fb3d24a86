package filter

import (
	"errors"
	"testing"

	"github.com/scopekit/scopekit/internal/aspect"
)

func mustParse(t *testing.T, input string) Expr {
	t.Helper()
	tokens, err := lex(input)
	if err != nil {
		t.Fatalf("lex(%q): %v", input, err)
	}
	expr, err := parse(tokens)
	if err != nil {
		t.Fatalf("parse(%q): %v", input, err)
	}
	return expr
}

func TestParseComparison(t *testing.T) {
	expr := mustParse(t, `"priority" > "5"`)
	cmp, ok := expr.(*Comparison)
	if !ok {
		t.Fatalf("expr type = %T, want *Comparison", expr)
	}
	if cmp.Key != "priority" || cmp.Op != aspect.GreaterThan || cmp.Value != "5" {
		t.Errorf("comparison = %+v", cmp)
	}
}

func TestParseBareWords(t *testing.T) {
	expr := mustParse(t, `status = done`)
	cmp, ok := expr.(*Comparison)
	if !ok {
		t.Fatalf("expr type = %T, want *Comparison", expr)
	}
	if cmp.Key != "status" || cmp.Value != "done" {
		t.Errorf("comparison = %+v", cmp)
	}
}

func TestParsePrecedenceOrOverAnd(t *testing.T) {
	// A OR B AND C parses as A OR (B AND C).
	expr := mustParse(t, `a = 1 OR b = 2 AND c = 3`)
	or, ok := expr.(*Or)
	if !ok {
		t.Fatalf("root = %T, want *Or", expr)
	}
	if _, ok := or.Left.(*Comparison); !ok {
		t.Errorf("left of OR = %T, want *Comparison", or.Left)
	}
	if _, ok := or.Right.(*And); !ok {
		t.Errorf("right of OR = %T, want *And", or.Right)
	}
}

func TestParsePrecedenceNotOverAnd(t *testing.T) {
	// NOT A AND B parses as (NOT A) AND B.
	expr := mustParse(t, `NOT a = 1 AND b = 2`)
	and, ok := expr.(*And)
	if !ok {
		t.Fatalf("root = %T, want *And", expr)
	}
	if _, ok := and.Left.(*Not); !ok {
		t.Errorf("left of AND = %T, want *Not", and.Left)
	}
	if _, ok := and.Right.(*Comparison); !ok {
		t.Errorf("right of AND = %T, want *Comparison", and.Right)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	expr := mustParse(t, `a = 1 AND b = 2 AND c = 3`)
	outer, ok := expr.(*And)
	if !ok {
		t.Fatalf("root = %T, want *And", expr)
	}
	if _, ok := outer.Left.(*And); !ok {
		t.Errorf("left of outer AND = %T, want *And (left-associative)", outer.Left)
	}
	if _, ok := outer.Right.(*Comparison); !ok {
		t.Errorf("right of outer AND = %T, want *Comparison", outer.Right)
	}
}

func TestParseParensOverridePrecedence(t *testing.T) {
	// (A OR B) AND C keeps the grouping as an explicit Parens node.
	expr := mustParse(t, `(a = 1 OR b = 2) AND c = 3`)
	and, ok := expr.(*And)
	if !ok {
		t.Fatalf("root = %T, want *And", expr)
	}
	parens, ok := and.Left.(*Parens)
	if !ok {
		t.Fatalf("left of AND = %T, want *Parens", and.Left)
	}
	if _, ok := parens.Inner.(*Or); !ok {
		t.Errorf("inside parens = %T, want *Or", parens.Inner)
	}
}

func TestParseNestedNot(t *testing.T) {
	expr := mustParse(t, `NOT NOT a = 1`)
	outer, ok := expr.(*Not)
	if !ok {
		t.Fatalf("root = %T, want *Not", expr)
	}
	if _, ok := outer.Inner.(*Not); !ok {
		t.Errorf("inner = %T, want *Not", outer.Inner)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ``},
		{"only whitespace", `   `},
		{"missing value", `a =`},
		{"missing operator", `a b`},
		{"dangling AND", `a = 1 AND`},
		{"leading OR", `OR a = 1`},
		{"unbalanced open paren", `(a = 1`},
		{"unbalanced close paren", `a = 1)`},
		{"trailing token", `a = 1 b`},
		{"operator as key", `= 1`},
		{"NOT without operand", `NOT`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lex(tt.input)
			if err != nil {
				t.Fatalf("lex(%q): %v", tt.input, err)
			}
			_, err = parse(tokens)
			if err == nil {
				t.Fatalf("parse(%q) succeeded, want syntax error", tt.input)
			}
			var synErr *SyntaxError
			if !errors.As(err, &synErr) {
				t.Errorf("error type = %T, want *SyntaxError", err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	tokens, err := lex(`a = 1 banana`)
	if err != nil {
		t.Fatalf("lex: %v", err)
	}
	_, err = parse(tokens)
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("error = %v, want *SyntaxError", err)
	}
	if synErr.Pos != 6 {
		t.Errorf("error position = %d, want 6 (start of trailing token)", synErr.Pos)
	}
}
