// Package resources implements MCP resource handlers for the debugging
// graph.
//
// Resources provide read-only data that the host can consume for
// context. They use URI-based addressing (graph://...) following MCP
// conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/thinkgraph/thinkgraph/internal/graph"
)

// Handler manages graph resource endpoints.
type Handler struct {
	store *graph.Store
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store *graph.Store) *Handler {
	return &Handler{store: store}
}

// StatsResource returns the MCP resource definition for graph
// statistics.
func (h *Handler) StatsResource() mcp.Resource {
	return mcp.NewResource(
		"graph://stats",
		"Debugging Graph Statistics",
		mcp.WithResourceDescription("Node/edge counts by type, root problems, and session metadata"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleStats returns the current graph statistics as JSON.
func (h *Handler) HandleStats(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(h.store.Stats(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling stats: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
