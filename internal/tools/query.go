package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// QueryTool handles the scope_query MCP tool.
type QueryTool struct {
	store *scope.Store
}

// NewQueryTool creates a QueryTool.
func NewQueryTool(store *scope.Store) *QueryTool {
	return &QueryTool{store: store}
}

// Definition returns the MCP tool definition for scope_query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_query",
		mcp.WithDescription(
			"Select scopes by aspect predicates. The filter language supports "+
				`comparisons (= != > >= < <= ~ !~), AND/OR/NOT, and parentheses, e.g. `+
				`"priority">"5" AND NOT "status"="done". Values compare numerically, `+
				"as booleans (true/yes/1, false/no/0), or as text. The ~ operator is "+
				"a case-insensitive substring match. Omit the filter to list everything.",
		),
		mcp.WithString("filter",
			mcp.Description("Filter expression; empty matches all scopes"),
		),
	)
}

// Handle processes the scope_query tool call.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filterStr := strings.TrimSpace(req.GetString("filter", ""))

	var (
		scopes []scope.Scope
		err    error
	)
	if filterStr == "" {
		scopes, err = t.store.List("")
	} else {
		scopes, err = t.store.Query(filterStr)
	}
	if err != nil {
		// Compile errors carry position/rule context; pass them through.
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}

	if len(scopes) == 0 {
		return mcp.NewToolResultText("No scopes match."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d matching scope(s):\n\n", len(scopes))
	for _, sc := range scopes {
		writeScope(&b, sc)
		aspects, err := t.store.Aspects(sc.ID)
		if err == nil {
			writeAspects(&b, aspects)
		}
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}
