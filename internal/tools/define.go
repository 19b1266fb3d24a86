package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/aspect"
	"github.com/scopekit/scopekit/internal/scope"
)

// DefineTool handles the scope_define_aspect MCP tool.
type DefineTool struct {
	store *scope.Store
}

// NewDefineTool creates a DefineTool.
func NewDefineTool(store *scope.Store) *DefineTool {
	return &DefineTool{store: store}
}

// Definition returns the MCP tool definition for scope_define_aspect.
func (t *DefineTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_define_aspect",
		mcp.WithDescription(
			"Declare the expected type of an aspect key. Once defined, values set "+
				"for that key must conform. Ordered aspects list their allowed values "+
				"from lowest to highest.",
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Aspect key to define"),
		),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Aspect type: text, numeric, boolean, duration, or ordered"),
		),
		mcp.WithArray("allowed",
			mcp.Description("Allowed values, required for (and exclusive to) the ordered type"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the scope_define_aspect tool call.
func (t *DefineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := req.GetString("key", "")
	typ := req.GetString("type", "")
	if key == "" || typ == "" {
		return mcp.NewToolResultError("'key' and 'type' are required"), nil
	}
	allowed := stringsArg(req, "allowed")

	if err := t.store.DefineAspect(key, aspect.Type(typ), allowed); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("defining aspect failed: %v", err)), nil
	}

	msg := fmt.Sprintf("Aspect %s defined as %s.", key, typ)
	if len(allowed) > 0 {
		msg = fmt.Sprintf("Aspect %s defined as %s [%s].", key, typ, strings.Join(allowed, " < "))
	}
	return mcp.NewToolResultText(msg), nil
}
