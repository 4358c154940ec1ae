// Package graph implements the typed debugging knowledge graph: the
// node/edge model, the store that owns it, the derived indexes that
// keep similarity search sub-linear, and the query engine on top.
//
// The model is append-only. Nodes and edges are immutable once created
// and nothing is ever updated or deleted — a debugging session grows a
// tree of problems, hypotheses, experiments, observations, learnings
// and solutions, connected by typed, weighted edges.
package graph

import (
	"fmt"
	"time"
)

// timeNow is a package-level variable for testability.
// Tests can replace this to control timestamps in assertions.
var timeNow = time.Now

// --- Node type enum ---

// NodeType classifies one step of a debugging process.
type NodeType string

const (
	NodeProblem     NodeType = "problem"
	NodeHypothesis  NodeType = "hypothesis"
	NodeExperiment  NodeType = "experiment"
	NodeObservation NodeType = "observation"
	NodeLearning    NodeType = "learning"
	NodeSolution    NodeType = "solution"
)

// validNodeTypes is the closed set of allowed node types.
var validNodeTypes = map[NodeType]bool{
	NodeProblem:     true,
	NodeHypothesis:  true,
	NodeExperiment:  true,
	NodeObservation: true,
	NodeLearning:    true,
	NodeSolution:    true,
}

// ValidateNodeType returns an error if the type is not recognized.
func ValidateNodeType(t NodeType) error {
	if !validNodeTypes[t] {
		return fmt.Errorf("invalid node type %q: must be one of: problem, hypothesis, experiment, observation, learning, solution", t)
	}
	return nil
}

// --- Status enum ---

// Status tracks the lifecycle of a problem node.
type Status string

const (
	StatusOpen          Status = "open"
	StatusInvestigating Status = "investigating"
	StatusSolved        Status = "solved"
	StatusAbandoned     Status = "abandoned"
)

// validStatuses is the closed set of allowed problem statuses.
var validStatuses = map[Status]bool{
	StatusOpen:          true,
	StatusInvestigating: true,
	StatusSolved:        true,
	StatusAbandoned:     true,
}

// ValidateStatus returns an error if the status is not recognized.
func ValidateStatus(s Status) error {
	if !validStatuses[s] {
		return fmt.Errorf("invalid status %q: must be one of: open, investigating, solved, abandoned", s)
	}
	return nil
}

// --- Node ---

// Node is one immutable step in a debugging process.
type Node struct {
	ID       string       `json:"id"`
	Type     NodeType     `json:"type"`
	Content  string       `json:"content"`
	Metadata NodeMetadata `json:"metadata"`
}

// NodeMetadata carries the known, strongly typed per-node fields plus
// an open Extra map for forward-compatible attributes that are stored
// verbatim and never validated.
//
// CreatedAt and UpdatedAt are set once and equal: no update path
// exists, the second timestamp is kept for on-disk compatibility.
type NodeMetadata struct {
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	Tags       []string       `json:"tags,omitempty"`
	Confidence *int           `json:"confidence,omitempty"` // 0-100
	Status     Status         `json:"status,omitempty"`     // meaningful for problem nodes
	IsRoot     *bool          `json:"isRoot,omitempty"`     // problem created without a parent
	Testable   *bool          `json:"testable,omitempty"`   // hypothesis
	Verified   *bool          `json:"verified,omitempty"`   // solution
	Extra      map[string]any `json:"extra,omitempty"`
}

// applyDefaults injects the type-specific defaults for fields the
// caller left unset. This is the only mutation a node ever sees, and it
// happens exactly once, synchronously with creation.
func (n *Node) applyDefaults(parentSpecified bool) {
	switch n.Type {
	case NodeProblem:
		if n.Metadata.Status == "" {
			n.Metadata.Status = StatusOpen
		}
		if n.Metadata.IsRoot == nil {
			n.Metadata.IsRoot = boolPtr(!parentSpecified)
		}
	case NodeHypothesis:
		if n.Metadata.Confidence == nil {
			n.Metadata.Confidence = intPtr(50)
		}
		if n.Metadata.Testable == nil {
			n.Metadata.Testable = boolPtr(true)
		}
	case NodeLearning:
		if n.Metadata.Confidence == nil {
			n.Metadata.Confidence = intPtr(70)
		}
	}
}

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
