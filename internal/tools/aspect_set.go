package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// AspectSetTool handles the scope_aspect_set MCP tool.
type AspectSetTool struct {
	store *scope.Store
}

// NewAspectSetTool creates an AspectSetTool.
func NewAspectSetTool(store *scope.Store) *AspectSetTool {
	return &AspectSetTool{store: store}
}

// Definition returns the MCP tool definition for scope_aspect_set.
func (t *AspectSetTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_aspect_set",
		mcp.WithDescription(
			"Set an aspect on a scope, replacing any previous values for that key. "+
				"Pass several values to make the aspect multi-valued (e.g. tags).",
		),
		mcp.WithString("scope",
			mcp.Required(),
			mcp.Description("Scope ULID or alias"),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Aspect key: 1-50 chars, letter first, then letters/digits/-/_"),
		),
		mcp.WithString("value",
			mcp.Description("Single aspect value (1-1000 characters)"),
		),
		mcp.WithArray("values",
			mcp.Description("Multiple aspect values; overrides 'value' when present"),
			mcp.Items(map[string]any{"type": "string"}),
		),
	)
}

// Handle processes the scope_aspect_set tool call.
func (t *AspectSetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("scope", "")
	key := req.GetString("key", "")
	if ref == "" || key == "" {
		return mcp.NewToolResultError("'scope' and 'key' are required"), nil
	}

	values := stringsArg(req, "values")
	if len(values) == 0 {
		if v := req.GetString("value", ""); v != "" {
			values = []string{v}
		}
	}
	if len(values) == 0 {
		return mcp.NewToolResultError("provide 'value' or a non-empty 'values' array"), nil
	}

	if err := t.store.SetAspect(ref, key, values); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("setting aspect failed: %v", err)), nil
	}

	return mcp.NewToolResultText(
		fmt.Sprintf("Aspect %s set to [%s] on %s.", key, strings.Join(values, ", "), ref),
	), nil
}
