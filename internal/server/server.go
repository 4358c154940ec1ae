// Package server wires all MCP components and creates the server
// instance.
//
// This is the composition root: it restores the graph from the journal
// on disk, creates concrete implementations, and injects them into the
// tools/prompts/resources that depend on them. No business logic lives
// here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/thinkgraph/thinkgraph/internal/config"
	"github.com/thinkgraph/thinkgraph/internal/graph"
	"github.com/thinkgraph/thinkgraph/internal/graphtools"
	"github.com/thinkgraph/thinkgraph/internal/journal"
	"github.com/thinkgraph/thinkgraph/internal/prompts"
	"github.com/thinkgraph/thinkgraph/internal/resources"
	"go.uber.org/zap"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered, restoring the graph from disk first.
//
// The returned cleanup function flushes the logger and must be called
// on shutdown (typically via defer). It is always non-nil and safe to
// call even when initialization failed.
func New() (*server.MCPServer, func(), error) {
	logger, err := newLogger()
	if err != nil {
		return nil, noop, fmt.Errorf("creating logger: %w", err)
	}
	cleanup := func() { _ = logger.Sync() }

	// --- Restore the graph from the journal ---

	dataDir := config.DataDir()
	jnl, err := journal.Open(dataDir, logger)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("opening journal: %w", err)
	}

	state, err := jnl.Load()
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("replaying journal: %w", err)
	}

	store := graph.NewStore(graph.WithJournal(jnl), graph.WithLogger(logger))
	if err := store.Restore(state); err != nil {
		// a failed snapshot write is not fatal; the in-memory graph is usable
		logger.Warn("session snapshot not persisted", zap.Error(err))
	}
	logger.Info("graph restored",
		zap.String("dir", dataDir),
		zap.Int("nodes", store.NodeCount()),
		zap.Int("edges", store.EdgeCount()),
	)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"thinkgraph",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register graph tools ---

	createTool := graphtools.NewCreateTool(store)
	s.AddTool(createTool.Definition(), createTool.Handle)

	connectTool := graphtools.NewConnectTool(store)
	s.AddTool(connectTool.Definition(), connectTool.Handle)

	queryTool := graphtools.NewQueryTool(store)
	s.AddTool(queryTool.Definition(), queryTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(store)
	s.AddResource(resourceHandler.StatsResource(), resourceHandler.HandleStats)

	return s, cleanup, nil
}

// newLogger builds a production logger on stderr — stdout belongs to
// the MCP stdio transport.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// noop is the default cleanup when initialization failed early.
func noop() {}

func serverInstructions() string {
	return `thinkgraph records debugging sessions as a typed knowledge graph and
answers "have I seen something like this before?".

Workflow:
1. Before diving into a new error, call debug_query (similar-problems) with the
   error text — a solved past problem comes back with its solution and the full
   debug path that led there.
2. Record the problem with debug_create (node_type=problem, error text verbatim).
3. Record each hypothesis/experiment/observation/learning with debug_create and
   parent_id — structural relationships are inferred automatically.
4. Record judgment explicitly with debug_connect: supports/contradicts between
   observations and hypotheses, solves between a solution and its problem.

Everything is persisted across sessions. Nothing is ever deleted.`
}
