// thinkgraph: a debugging knowledge graph MCP server.
//
// It records problems, hypotheses, experiments, observations, learnings
// and solutions as a typed graph, and answers "have I seen something
// like this before?" for any AI coding tool speaking MCP.
//
// Usage:
//
//	thinkgraph serve    # Start MCP server (stdio transport)
package main

import (
	"fmt"
	"os"

	graphserver "github.com/thinkgraph/thinkgraph/internal/server"
	"github.com/mark3labs/mcp-go/server"
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
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("thinkgraph v%s\n", graphserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func run() error {
	s, cleanup, err := graphserver.New()
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// The stdio server manages its own lifecycle: it returns when the
	// host closes stdin.
	return server.ServeStdio(s)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `thinkgraph v%s — Debugging Knowledge Graph MCP Server

Usage:
  thinkgraph serve      Start the MCP server (stdio transport)
  thinkgraph version    Print version
  thinkgraph help       Show this help

Data directory:
  %s (override with THINKGRAPH_DATA_DIR)

Add to your MCP client configuration:
  {
    "mcpServers": {
      "thinkgraph": { "command": "thinkgraph", "args": ["serve"] }
    }
  }
`, graphserver.Version, "~/.thinkgraph")
}
