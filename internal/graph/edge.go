package graph

import (
	"fmt"
	"time"
)

// --- Edge type enum ---

// EdgeType classifies a directed relationship between two nodes.
type EdgeType string

const (
	EdgeDecomposes   EdgeType = "decomposes"
	EdgeHypothesizes EdgeType = "hypothesizes"
	EdgeTests        EdgeType = "tests"
	EdgeProduces     EdgeType = "produces"
	EdgeLearns       EdgeType = "learns"
	EdgeContradicts  EdgeType = "contradicts"
	EdgeSupports     EdgeType = "supports"
	EdgeSolves       EdgeType = "solves"
)

// validEdgeTypes is the closed set of allowed edge types.
var validEdgeTypes = map[EdgeType]bool{
	EdgeDecomposes:   true,
	EdgeHypothesizes: true,
	EdgeTests:        true,
	EdgeProduces:     true,
	EdgeLearns:       true,
	EdgeContradicts:  true,
	EdgeSupports:     true,
	EdgeSolves:       true,
}

// ValidateEdgeType returns an error if the type is not recognized.
func ValidateEdgeType(t EdgeType) error {
	if !validEdgeTypes[t] {
		return fmt.Errorf("invalid edge type %q: must be one of: decomposes, hypothesizes, tests, produces, learns, contradicts, supports, solves", t)
	}
	return nil
}

// structuralEdgeTypes are the edge types produced by automatic
// parent→child inference. Only these drive the parent index; the
// evidentiary types (supports, contradicts, solves) express judgment
// about other nodes, not structural descent.
var structuralEdgeTypes = map[EdgeType]bool{
	EdgeDecomposes:   true,
	EdgeHypothesizes: true,
	EdgeTests:        true,
	EdgeProduces:     true,
	EdgeLearns:       true,
}

// Structural reports whether the edge type is a parent→child structural
// relationship, as opposed to an evidentiary one.
func (t EdgeType) Structural() bool { return structuralEdgeTypes[t] }

// autoEdges maps (parentType, childType) to the edge type inferred when
// a node is created with a parent. Pairs outside the table yield no
// automatic edge and no error.
var autoEdges = map[[2]NodeType]EdgeType{
	{NodeProblem, NodeProblem}:        EdgeDecomposes,
	{NodeProblem, NodeHypothesis}:     EdgeHypothesizes,
	{NodeHypothesis, NodeExperiment}:  EdgeTests,
	{NodeExperiment, NodeObservation}: EdgeProduces,
	{NodeObservation, NodeLearning}:   EdgeLearns,
	{NodeSolution, NodeProblem}:       EdgeSolves,
}

// AutoEdgeType returns the inferred edge type for a parent/child pair.
func AutoEdgeType(parent, child NodeType) (EdgeType, bool) {
	t, ok := autoEdges[[2]NodeType{parent, child}]
	return t, ok
}

// conflictingTypes pairs each evidentiary type with the type it
// contradicts when recorded over the same (from, to).
var conflictingTypes = map[EdgeType]EdgeType{
	EdgeContradicts: EdgeSupports,
	EdgeSupports:    EdgeContradicts,
}

// --- Edge ---

// Edge is an immutable typed, directed, weighted relationship between
// two nodes. Self-loops are permitted, and duplicate edges over the
// same (from, to, type) each get a distinct id — relationships are
// never deduplicated.
type Edge struct {
	ID       string       `json:"id"`
	Type     EdgeType     `json:"type"`
	From     string       `json:"from"`
	To       string       `json:"to"`
	Strength float64      `json:"strength"`
	Metadata EdgeMetadata `json:"metadata"`
}

// EdgeMetadata carries optional context recorded with an edge.
type EdgeMetadata struct {
	CreatedAt time.Time `json:"createdAt"`
	Reasoning string    `json:"reasoning,omitempty"`
	Evidence  string    `json:"evidence,omitempty"`
}

// ClampStrength forces a strength value into [0,1].
func ClampStrength(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
