// Package tools provides the MCP tool handlers for the scope tracker.
//
// Each tool follows the same pattern:
// - A struct with its dependency (scope.Store) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Handlers report user mistakes (bad filters, unknown scopes, validation
// failures) as tool errors with full context; they never fail the server.
package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/scopekit/scopekit/internal/aspect"
	"github.com/scopekit/scopekit/internal/scope"
)

// stringsArg extracts a string-array argument from a tool request.
// JSON arrays arrive as []any; non-string elements are skipped.
func stringsArg(req mcp.CallToolRequest, key string) []string {
	raw, ok := req.GetArguments()[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// writeScope renders one scope as a compact text block.
func writeScope(b *strings.Builder, sc scope.Scope) {
	fmt.Fprintf(b, "%s  [%s]  %s\n  alias: %s | created: %s | updated: %s\n",
		sc.ID, sc.Status, sc.Title, sc.Alias, sc.CreatedAt, sc.UpdatedAt)
}

// writeAspects renders an aspect map with keys in sorted order so the
// output is stable across calls.
func writeAspects(b *strings.Builder, aspects map[aspect.Key][]aspect.Value) {
	if len(aspects) == 0 {
		b.WriteString("  (no aspects)\n")
		return
	}
	keys := make([]string, 0, len(aspects))
	byName := make(map[string][]aspect.Value, len(aspects))
	for key, values := range aspects {
		keys = append(keys, key.String())
		byName[key.String()] = values
	}
	sort.Strings(keys)
	for _, name := range keys {
		parts := make([]string, len(byName[name]))
		for i, v := range byName[name] {
			parts[i] = v.String()
		}
		fmt.Fprintf(b, "  %s = %s\n", name, strings.Join(parts, ", "))
	}
}
