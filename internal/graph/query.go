package graph

import (
	"sort"

	"github.com/thinkgraph/thinkgraph/internal/similarity"
)

// Defaults applied when callers pass non-positive query parameters.
const (
	DefaultQueryLimit    = 10
	DefaultMinSimilarity = 0.3
)

// SimilarProblem is one ranked result of a similar-problems query.
type SimilarProblem struct {
	Node       *Node           `json:"node"`
	Similarity float64         `json:"similarity"`
	Solutions  []*SolutionPath `json:"solutions,omitempty"`
}

// SolutionPath pairs a solution node with the reconstructed debug path
// leading from the queried problem to it.
type SolutionPath struct {
	Solution *Node   `json:"solution"`
	Path     []*Node `json:"path"`
}

// SimilarProblems ranks past problem nodes against a query pattern.
//
// Candidates come from the error-type bucket matching the pattern (the
// "other" bucket when no type is extractable); scanning every problem
// node is a defensive fallback for an unbuilt index, not the common
// path. Solved problems sort before unsolved ones regardless of raw
// similarity; within each group, higher similarity first.
func (s *Store) SimilarProblems(pattern string, limit int, minSimilarity float64) []*SimilarProblem {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*SimilarProblem
	for _, id := range s.candidateProblemsLocked(pattern) {
		node := s.nodes[id]
		score := similarity.Score(pattern, node.Content)
		if score < minSimilarity {
			continue
		}
		matches = append(matches, &SimilarProblem{
			Node:       node,
			Similarity: score,
			Solutions:  s.solutionsForLocked(id),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		si := matches[i].Node.Metadata.Status == StatusSolved
		sj := matches[j].Node.Metadata.Status == StatusSolved
		if si != sj {
			return si
		}
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// candidateProblemsLocked selects the candidate set for a similarity
// query through the error-type index, in deterministic order.
func (s *Store) candidateProblemsLocked(pattern string) []string {
	if len(s.idx.byType) == 0 && len(s.nodes) > 0 {
		// index never built; fall back to scanning every problem node
		var out []string
		for _, id := range s.nodeOrder {
			if s.nodes[id].Type == NodeProblem {
				out = append(out, id)
			}
		}
		return out
	}

	bucket := s.idx.ErrorTypeBucket(errorBucket(pattern))
	out := make([]string, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// solutionsForLocked gathers the solutions attached to a problem via
// incoming solves edges and reconstructs each solution's debug path.
func (s *Store) solutionsForLocked(problemID string) []*SolutionPath {
	adj := s.idx.adjacency[problemID]
	if adj == nil {
		return nil
	}
	var out []*SolutionPath
	for _, e := range adj.Incoming {
		if e.Type != EdgeSolves {
			continue
		}
		sol, ok := s.nodes[e.From]
		if !ok {
			continue
		}
		out = append(out, &SolutionPath{
			Solution: sol,
			Path:     s.buildPathLocked(problemID, e.From),
		})
	}
	return out
}

// BuildPath reconstructs the ordered chain of nodes from a problem to a
// solution by walking upward from the solution: parent pointer first,
// first incoming edge as fallback. The walk terminates on reaching the
// problem, running out of links, or revisiting a node, so it is bounded
// even on a graph containing cycles.
func (s *Store) BuildPath(problemID, solutionID string) []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildPathLocked(problemID, solutionID)
}

func (s *Store) buildPathLocked(problemID, solutionID string) []*Node {
	sol, ok := s.nodes[solutionID]
	if !ok {
		return nil
	}

	path := []*Node{sol}
	visited := map[string]bool{solutionID: true}
	current := solutionID

	for current != problemID {
		next, ok := s.idx.parents[current]
		if !ok {
			adj := s.idx.adjacency[current]
			if adj == nil || len(adj.Incoming) == 0 {
				break
			}
			next = adj.Incoming[0].From
		}
		if visited[next] {
			break
		}
		node, ok := s.nodes[next]
		if !ok {
			break
		}
		visited[next] = true
		path = append([]*Node{node}, path...)
		current = next
	}

	if problem, ok := s.nodes[problemID]; ok && path[0].ID != problemID {
		path = append([]*Node{problem}, path...)
	}
	return path
}

// ActivityEdge annotates an adjacent edge with its direction relative
// to the listed node and the other endpoint's id.
type ActivityEdge struct {
	Edge      *Edge  `json:"edge"`
	Direction string `json:"direction"` // "incoming" or "outgoing"
	OtherID   string `json:"otherId"`
}

// ActivityEntry is one node in the recent-activity listing.
type ActivityEntry struct {
	Node   *Node          `json:"node"`
	Parent *Node          `json:"parent,omitempty"`
	Edges  []ActivityEdge `json:"edges,omitempty"`
}

// RecentActivity lists the most recently created nodes, each with its
// structural parent and all adjacent edges.
func (s *Store) RecentActivity(limit int) []*ActivityEntry {
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// reverse insertion order first so creation-time ties resolve to
	// the later-inserted node
	ids := make([]string, 0, len(s.nodeOrder))
	for i := len(s.nodeOrder) - 1; i >= 0; i-- {
		ids = append(ids, s.nodeOrder[i])
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return s.nodes[ids[i]].Metadata.CreatedAt.After(s.nodes[ids[j]].Metadata.CreatedAt)
	})
	if len(ids) > limit {
		ids = ids[:limit]
	}

	out := make([]*ActivityEntry, 0, len(ids))
	for _, id := range ids {
		entry := &ActivityEntry{Node: s.nodes[id]}
		if pid, ok := s.idx.parents[id]; ok {
			entry.Parent = s.nodes[pid]
		}
		adj := s.idx.adjacency[id]
		for _, e := range adj.Incoming {
			entry.Edges = append(entry.Edges, ActivityEdge{Edge: e, Direction: "incoming", OtherID: e.From})
		}
		for _, e := range adj.Outgoing {
			entry.Edges = append(entry.Edges, ActivityEdge{Edge: e, Direction: "outgoing", OtherID: e.To})
		}
		out = append(out, entry)
	}
	return out
}
