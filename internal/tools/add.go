package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// AddTool handles the scope_add MCP tool.
type AddTool struct {
	store *scope.Store
}

// NewAddTool creates an AddTool.
func NewAddTool(store *scope.Store) *AddTool {
	return &AddTool{store: store}
}

// Definition returns the MCP tool definition for scope_add.
func (t *AddTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_add",
		mcp.WithDescription(
			"Create a new scope (a tracked unit of work). Returns its ULID and a "+
				"short alias derived from the title; both work for later lookups.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("What this scope is about (1-500 characters)"),
		),
	)
}

// Handle processes the scope_add tool call.
func (t *AddTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if strings.TrimSpace(title) == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	sc, err := t.store.Add(title)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("adding scope failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString("Scope created:\n")
	writeScope(&b, sc)
	return mcp.NewToolResultText(b.String()), nil
}
