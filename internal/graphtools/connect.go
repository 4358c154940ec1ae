package graphtools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/thinkgraph/thinkgraph/internal/graph"
)

// ConnectTool handles the debug_connect MCP tool.
type ConnectTool struct {
	store *graph.Store
}

// NewConnectTool creates a ConnectTool backed by the given store.
func NewConnectTool(store *graph.Store) *ConnectTool {
	return &ConnectTool{store: store}
}

// Definition returns the MCP tool definition for debug_connect.
func (t *ConnectTool) Definition() mcp.Tool {
	return mcp.NewTool("debug_connect",
		mcp.WithDescription(
			"Create an explicit typed relationship between two existing nodes. "+
				"Use evidentiary types to record judgment: 'supports' and 'contradicts' for how an observation bears on a hypothesis, "+
				"'solves' to mark a solution resolving a problem. Structural types (decomposes, hypothesizes, tests, produces, learns) "+
				"are usually created automatically via debug_create's parent_id instead.",
		),
		mcp.WithString("from",
			mcp.Required(),
			mcp.Description("Source node ID"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Target node ID"),
		),
		mcp.WithString("edge_type",
			mcp.Required(),
			mcp.Description("Edge type: decomposes, hypothesizes, tests, produces, learns, contradicts, supports, solves"),
		),
		mcp.WithNumber("strength",
			mcp.Description("Relationship strength, clamped into [0,1] (default: 1)"),
		),
		mcp.WithString("reasoning",
			mcp.Description("Why these nodes are related"),
		),
		mcp.WithString("evidence",
			mcp.Description("Supporting evidence for the relationship"),
		),
	)
}

// connectResponse is the JSON envelope returned by debug_connect.
// Conflicts lists already-recorded edges of the opposing evidentiary
// type over the same endpoints; they never block the connect.
type connectResponse struct {
	EdgeID    string            `json:"edgeId"`
	Type      graph.EdgeType    `json:"type"`
	Strength  float64           `json:"strength"`
	Conflicts []conflictingEdge `json:"conflicts,omitempty"`
	Warning   string            `json:"warning,omitempty"`
}

type conflictingEdge struct {
	EdgeID string         `json:"edgeId"`
	Type   graph.EdgeType `json:"type"`
}

// Handle processes the debug_connect tool call.
func (t *ConnectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := req.GetString("from", "")
	if from == "" {
		return mcp.NewToolResultError("'from' is required"), nil
	}
	to := req.GetString("to", "")
	if to == "" {
		return mcp.NewToolResultError("'to' is required"), nil
	}
	edgeType := req.GetString("edge_type", "")
	if edgeType == "" {
		return mcp.NewToolResultError("'edge_type' is required"), nil
	}

	params := graph.ConnectParams{
		From: from,
		To:   to,
		Type: graph.EdgeType(edgeType),
	}
	if v, ok := floatArg(req, "strength"); ok {
		params.Strength = &v
	}
	params.Metadata.Reasoning = req.GetString("reasoning", "")
	params.Metadata.Evidence = req.GetString("evidence", "")

	res, err := t.store.Connect(params)
	if res == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := connectResponse{
		EdgeID:   res.Edge.ID,
		Type:     res.Edge.Type,
		Strength: res.Edge.Strength,
	}
	for _, c := range res.Conflicts {
		out.Conflicts = append(out.Conflicts, conflictingEdge{EdgeID: c.ID, Type: c.Type})
	}
	if err != nil {
		// the edge exists in memory; only the append failed
		out.Warning = err.Error()
	}
	return jsonResult(out), nil
}
