package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// StatusTool handles the scope_status MCP tool.
type StatusTool struct {
	store *scope.Store
}

// NewStatusTool creates a StatusTool.
func NewStatusTool(store *scope.Store) *StatusTool {
	return &StatusTool{store: store}
}

// Definition returns the MCP tool definition for scope_status.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_status",
		mcp.WithDescription("Move a scope to a new status."),
		mcp.WithString("scope",
			mcp.Required(),
			mcp.Description("Scope ULID or alias"),
		),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status: pending, started, done, or dropped"),
		),
	)
}

// Handle processes the scope_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("scope", "")
	status := req.GetString("status", "")
	if ref == "" || status == "" {
		return mcp.NewToolResultError("'scope' and 'status' are required"), nil
	}

	sc, err := t.store.SetStatus(ref, scope.Status(status))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status change failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scope moved to %s:\n", sc.Status)
	writeScope(&b, sc)
	return mcp.NewToolResultText(b.String()), nil
}
