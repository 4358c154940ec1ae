package graphtools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/thinkgraph/thinkgraph/internal/graph"
)

// Query type names accepted by debug_query.
const (
	QuerySimilarProblems = "similar-problems"
	QueryRecentActivity  = "recent-activity"
)

// QueryTool handles the debug_query MCP tool.
type QueryTool struct {
	store *graph.Store
}

// NewQueryTool creates a QueryTool backed by the given store.
func NewQueryTool(store *graph.Store) *QueryTool {
	return &QueryTool{store: store}
}

// Definition returns the MCP tool definition for debug_query.
func (t *QueryTool) Definition() mcp.Tool {
	return mcp.NewTool("debug_query",
		mcp.WithDescription(
			"Query the debugging knowledge graph. "+
				"'similar-problems' answers \"have I seen something like this before?\" — it ranks past problems against your "+
				"error text and attaches known solutions with their full debug paths. "+
				"'recent-activity' lists the latest recorded steps with their relationships.",
		),
		mcp.WithString("query_type",
			mcp.Required(),
			mcp.Description("Query type: similar-problems or recent-activity"),
		),
		mcp.WithString("pattern",
			mcp.Description("Error text to match against past problems (required for similar-problems)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 10)"),
		),
		mcp.WithNumber("min_similarity",
			mcp.Description("Minimum similarity score in [0,1] for similar-problems (default: 0.3)"),
		),
	)
}

// similarProblemsResponse is the JSON envelope for similar-problems.
type similarProblemsResponse struct {
	Pattern string                  `json:"pattern"`
	Matches []*graph.SimilarProblem `json:"matches"`
}

// recentActivityResponse is the JSON envelope for recent-activity.
type recentActivityResponse struct {
	Entries []*graph.ActivityEntry `json:"entries"`
}

// Handle processes the debug_query tool call.
func (t *QueryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	queryType := req.GetString("query_type", "")
	limit := intArg(req, "limit", 0)

	switch queryType {
	case QuerySimilarProblems:
		pattern := req.GetString("pattern", "")
		minSim, _ := floatArg(req, "min_similarity")
		matches := t.store.SimilarProblems(pattern, limit, minSim)
		if matches == nil {
			matches = []*graph.SimilarProblem{}
		}
		return jsonResult(similarProblemsResponse{Pattern: pattern, Matches: matches}), nil

	case QueryRecentActivity:
		entries := t.store.RecentActivity(limit)
		if entries == nil {
			entries = []*graph.ActivityEntry{}
		}
		return jsonResult(recentActivityResponse{Entries: entries}), nil

	case "":
		return mcp.NewToolResultError("'query_type' is required"), nil

	default:
		return mcp.NewToolResultError(fmt.Sprintf(
			"unknown query type %q: must be %s or %s", queryType, QuerySimilarProblems, QueryRecentActivity)), nil
	}
}
