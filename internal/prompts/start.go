// Package prompts implements MCP prompt handlers for the debugging
// graph.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the debug-start MCP prompt. It guides the AI
// through a structured debugging session backed by the graph.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("debug-start",
		mcp.WithPromptDescription(
			"Start a structured debugging session. "+
				"Checks the knowledge graph for similar past problems first, then records "+
				"the problem and walks the hypothesis → experiment → observation loop.",
		),
		mcp.WithArgument("problem",
			mcp.ArgumentDescription("The error message or problem description (paste it verbatim)"),
		),
	)
}

// Handle processes the debug-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	problem := "the problem I'm about to describe"
	if args := req.Params.Arguments; args != nil {
		if v, ok := args["problem"]; ok && v != "" {
			problem = fmt.Sprintf("this problem:\n\n%s", v)
		}
	}

	return &mcp.GetPromptResult{
		Description: "Start a structured debugging session",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to debug %s\n\n"+
						"Please:\n"+
						"1. Run `debug_query` with query_type='similar-problems' and the error text as pattern — if a solved match exists, surface its solution and debug path before anything else\n"+
						"2. Record the problem with `debug_create` (node_type='problem', the error message verbatim as content)\n"+
						"3. For each idea, record a hypothesis with parent_id set to the problem, then experiments under the hypothesis, observations under each experiment, and learnings under observations\n"+
						"4. Use `debug_connect` with 'supports' or 'contradicts' to record how observations bear on hypotheses\n"+
						"5. When it's fixed, create a solution node and `debug_connect` it to the problem with 'solves'",
					problem,
				)),
			},
		},
	}, nil
}
