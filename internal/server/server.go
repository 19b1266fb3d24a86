// Package server wires the scope store and MCP tools into a server
// instance. This is the composition root: it creates concrete
// implementations and injects them into the tools that depend on them.
// No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/scopekit/scopekit/internal/scope"
	"github.com/scopekit/scopekit/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all scope tools
// registered.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer).
func New() (*server.MCPServer, func(), error) {
	store, err := scope.New(scope.DefaultConfig())
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening scope store: %w", err)
	}
	cleanup := func() { _ = store.Close() }

	s := server.NewMCPServer(
		"scopekit",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	addTool := tools.NewAddTool(store)
	s.AddTool(addTool.Definition(), addTool.Handle)

	getTool := tools.NewGetTool(store)
	s.AddTool(getTool.Definition(), getTool.Handle)

	statusTool := tools.NewStatusTool(store)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	listTool := tools.NewListTool(store)
	s.AddTool(listTool.Definition(), listTool.Handle)

	aspectSetTool := tools.NewAspectSetTool(store)
	s.AddTool(aspectSetTool.Definition(), aspectSetTool.Handle)

	aspectRemoveTool := tools.NewAspectRemoveTool(store)
	s.AddTool(aspectRemoveTool.Definition(), aspectRemoveTool.Handle)

	defineTool := tools.NewDefineTool(store)
	s.AddTool(defineTool.Definition(), defineTool.Handle)

	queryTool := tools.NewQueryTool(store)
	s.AddTool(queryTool.Definition(), queryTool.Handle)

	return s, cleanup, nil
}

func serverInstructions() string {
	return `scopekit tracks personal scopes (units of work) with free-form
aspect metadata. Create scopes with scope_add, attach metadata with
scope_aspect_set (multi-valued aspects like tags are fine), and select
scopes with scope_query using filters such as:

    "priority" > "5" AND NOT "status" = "done"
    tag = "urgent" OR (estimate <= "PT2H" AND status != "blocked")

Values compare numerically when both sides are numbers, as booleans for
true/yes/1 and false/no/0, and as text otherwise. Durations use a
restricted ISO-8601 form (P1D, PT2H30M, P1W). The ~ operator is a
case-insensitive substring match; != and !~ against a multi-valued
aspect require every value to pass. scope_define_aspect pins a key to a
type (numeric, boolean, duration, ordered, text) so later values are
validated.`
}
