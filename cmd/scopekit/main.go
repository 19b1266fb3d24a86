// Scopekit: a personal scope tracker as an MCP server.
//
// Scopes are units of work carrying free-form aspect metadata; the
// aspect filter language selects them by typed predicates. Any MCP
// client (AI coding tools included) can drive it over stdio.
//
// Usage:
//
//	scopekit serve     # Start the MCP server (stdio transport)
//	scopekit version   # Print the version
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	scopeserver "github.com/scopekit/scopekit/internal/server"
	"github.com/scopekit/scopekit/internal/updater"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "update":
		runUpdateCheck()
	case "--help", "-h", "help":
		printUsage()
	case "--version", "-v", "version":
		fmt.Printf("scopekit v%s\n", scopeserver.Version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := scopeserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Version check output goes to stderr so it doesn't interfere
	// with MCP's stdio transport on stdout.
	go notifyOnUpdate()

	return server.ServeStdio(s)
}

// notifyOnUpdate runs a best-effort version check and prints a notice to
// stderr when a newer release exists. Network failures stay silent.
func notifyOnUpdate() {
	result := updater.CheckVersion(scopeserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  Update available: v%s -> v%s\n  Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdateCheck reports whether a newer release exists.
func runUpdateCheck() {
	result := updater.CheckVersion(scopeserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}
	fmt.Fprintf(os.Stderr, "New version available: v%s -> v%s\nDownload: %s\n",
		result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `scopekit v%s - personal scope tracker (MCP server)

Usage:
  scopekit serve     Start the MCP server (stdio transport)
  scopekit update    Check for a newer release
  scopekit version   Print the version

Configuration:
  Add to your MCP client's config:

  {
    "mcpServers": {
      "scopekit": {
        "command": "scopekit",
        "args": ["serve"]
      }
    }
  }
`, scopeserver.Version)
}
