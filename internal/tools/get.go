package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/scope"
)

// GetTool handles the scope_get MCP tool.
type GetTool struct {
	store *scope.Store
}

// NewGetTool creates a GetTool.
func NewGetTool(store *scope.Store) *GetTool {
	return &GetTool{store: store}
}

// Definition returns the MCP tool definition for scope_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("scope_get",
		mcp.WithDescription(
			"Show one scope with all of its aspects. Accepts a ULID or an alias.",
		),
		mcp.WithString("scope",
			mcp.Required(),
			mcp.Description("Scope ULID or alias"),
		),
	)
}

// Handle processes the scope_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := req.GetString("scope", "")
	if ref == "" {
		return mcp.NewToolResultError("'scope' is required"), nil
	}

	sc, err := t.store.Get(ref)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	aspects, err := t.store.Aspects(sc.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading aspects failed: %v", err)), nil
	}

	var b strings.Builder
	writeScope(&b, sc)
	b.WriteString("Aspects:\n")
	writeAspects(&b, aspects)
	return mcp.NewToolResultText(b.String()), nil
}
