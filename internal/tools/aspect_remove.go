package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// AspectRemoveTool handles the scope_aspect_remove MCP tool.
type AspectRemoveTool struct {
	store *scope.Store
}

// NewAspectRemoveTool creates an AspectRemoveTool.
func NewAspectRemoveTool(store *scope.Store) *AspectRemoveTool {
	return &AspectRemoveTool{store: store}
}

// Definition returns the MCP tool definition for scope_aspect_remove.
func (t *AspectRemoveTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_aspect_remove",
		mcp.WithDescription("Remove an aspect (all of its values) from a scope."),
		mcp.WithString("scope",
			mcp.Required(),
			mcp.Description("Scope ULID or alias"),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Aspect key to remove"),
		),
	)
}

// Handle processes the scope_aspect_remove tool call.
func (t *AspectRemoveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("scope", "")
	key := req.GetString("key", "")
	if ref == "" || key == "" {
		return mcp.NewToolResultError("'scope' and 'key' are required"), nil
	}

	if err := t.store.RemoveAspect(ref, key); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("removing aspect failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Aspect %s removed from %s.", key, ref)), nil
}
