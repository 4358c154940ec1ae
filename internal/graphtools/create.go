package graphtools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/thinkgraph/thinkgraph/internal/graph"
)

// CreateTool handles the debug_create MCP tool.
type CreateTool struct {
	store *graph.Store
}

// NewCreateTool creates a CreateTool backed by the given store.
func NewCreateTool(store *graph.Store) *CreateTool {
	return &CreateTool{store: store}
}

// Definition returns the MCP tool definition for debug_create.
func (t *CreateTool) Definition() mcp.Tool {
	return mcp.NewTool("debug_create",
		mcp.WithDescription(
			"Record one step of a debugging process as a graph node. "+
				"Start with a 'problem', then add 'hypothesis', 'experiment', 'observation', 'learning' and 'solution' nodes as you work. "+
				"Pass parent_id to link a step to the one it came from — the relationship type is inferred automatically "+
				"(problem→hypothesis becomes 'hypothesizes', hypothesis→experiment becomes 'tests', and so on).",
		),
		mcp.WithString("node_type",
			mcp.Required(),
			mcp.Description("Node type: problem, hypothesis, experiment, observation, learning, solution"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("Free-form text describing this step (for problems, include the error message verbatim — it drives indexing)"),
		),
		mcp.WithString("parent_id",
			mcp.Description("ID of the node this step descends from"),
		),
		mcp.WithNumber("confidence",
			mcp.Description("Confidence 0-100 (hypothesis defaults to 50, learning to 70)"),
		),
		mcp.WithString("status",
			mcp.Description("Problem status: open, investigating, solved, abandoned (default: open)"),
		),
		mcp.WithString("tags",
			mcp.Description("Comma-separated tags"),
		),
	)
}

// createResponse is the JSON envelope returned by debug_create.
type createResponse struct {
	NodeID   string         `json:"nodeId"`
	Type     graph.NodeType `json:"type"`
	EdgeID   string         `json:"edgeId,omitempty"`
	EdgeType graph.EdgeType `json:"edgeType,omitempty"`
	Warning  string         `json:"warning,omitempty"`
}

// Handle processes the debug_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodeType := req.GetString("node_type", "")
	if nodeType == "" {
		return mcp.NewToolResultError("'node_type' is required"), nil
	}
	content := req.GetString("content", "")
	if content == "" {
		return mcp.NewToolResultError("'content' is required"), nil
	}

	params := graph.CreateParams{
		Type:     graph.NodeType(nodeType),
		Content:  content,
		ParentID: req.GetString("parent_id", ""),
	}
	params.Metadata.Tags = splitTags(req.GetString("tags", ""))
	params.Metadata.Status = graph.Status(req.GetString("status", ""))
	if c, ok := floatArg(req, "confidence"); ok {
		conf := int(c)
		params.Metadata.Confidence = &conf
	}

	res, err := t.store.CreateNode(params)
	if res == nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	out := createResponse{NodeID: res.Node.ID, Type: res.Node.Type}
	if res.Edge != nil {
		out.EdgeID = res.Edge.ID
		out.EdgeType = res.Edge.Type
	}
	if err != nil {
		// the node exists; the parent was missing or the append failed
		out.Warning = err.Error()
	}
	return jsonResult(out), nil
}
