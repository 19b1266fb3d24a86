package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// ListTool handles the scope_list MCP tool.
type ListTool struct {
	store *scope.Store
}

// NewListTool creates a ListTool.
func NewListTool(store *scope.Store) *ListTool {
	return &ListTool{store: store}
}

// Definition returns the MCP tool definition for scope_list.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_list",
		mcp.WithDescription("List scopes, newest first, optionally narrowed to one status."),
		mcp.WithString("status",
			mcp.Description("Only scopes with this status: pending, started, done, or dropped"),
		),
	)
}

// Handle processes the scope_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := req.GetString("status", "")

	scopes, err := t.store.List(scope.Status(status))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing failed: %v", err)), nil
	}
	if len(scopes) == 0 {
		return mcp.NewToolResultText("No scopes found."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d scope(s):\n\n", len(scopes))
	for _, sc := range scopes {
		writeScope(&b, sc)
		b.WriteByte('\n')
	}
	return mcp.NewToolResultText(b.String()), nil
}
