package graph

import (
	"github.com/thinkgraph/thinkgraph/internal/similarity"
)

// Index holds the four derived structures that keep queries sub-linear:
// error-type buckets over problem nodes, nodes by type, adjacency
// lists, and the parent pointer derived from structural edges.
//
// Every structure is updated incrementally on each store mutation and
// can be rebuilt in full from the store's contents; both paths must
// produce identical results (tested directly).
type Index struct {
	byErrorType map[string]map[string]struct{}
	byType      map[NodeType]map[string]struct{}
	adjacency   map[string]*Adjacency
	parents     map[string]string
}

// Adjacency lists a node's incoming and outgoing edges in insertion
// order. A bucket exists for every node, even with no edges, so lookups
// never need an existence check.
type Adjacency struct {
	Incoming []*Edge
	Outgoing []*Edge
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		byErrorType: make(map[string]map[string]struct{}),
		byType:      make(map[NodeType]map[string]struct{}),
		adjacency:   make(map[string]*Adjacency),
		parents:     make(map[string]string),
	}
}

// AddNode indexes a newly created node: its type bucket, an empty
// adjacency bucket, and — for problems — its error-type bucket.
func (ix *Index) AddNode(n *Node) {
	addToBucket(ix.byType, n.Type, n.ID)
	ix.ensureAdjacency(n.ID)
	if n.Type == NodeProblem {
		addToBucket(ix.byErrorType, errorBucket(n.Content), n.ID)
	}
}

// AddEdge indexes a newly created edge. Structural edges also set the
// child's parent pointer; evidentiary ones never do.
func (ix *Index) AddEdge(e *Edge) {
	from := ix.ensureAdjacency(e.From)
	from.Outgoing = append(from.Outgoing, e)
	to := ix.ensureAdjacency(e.To)
	to.Incoming = append(to.Incoming, e)
	if e.Type.Structural() {
		ix.parents[e.To] = e.From
	}
}

// ErrorTypeBucket returns the problem ids classified under the given
// token (similarity.ErrorTypeOther for unclassifiable text).
func (ix *Index) ErrorTypeBucket(token string) map[string]struct{} {
	return ix.byErrorType[token]
}

// NodesOfType returns the ids of all nodes with the given type.
func (ix *Index) NodesOfType(t NodeType) map[string]struct{} {
	return ix.byType[t]
}

// EdgesOf returns the adjacency bucket for a node; nil only for ids the
// index has never seen.
func (ix *Index) EdgesOf(id string) *Adjacency {
	return ix.adjacency[id]
}

// Parent returns the structural parent of a node, if any.
func (ix *Index) Parent(id string) (string, bool) {
	p, ok := ix.parents[id]
	return p, ok
}

func (ix *Index) ensureAdjacency(id string) *Adjacency {
	adj, ok := ix.adjacency[id]
	if !ok {
		adj = &Adjacency{}
		ix.adjacency[id] = adj
	}
	return adj
}

// errorBucket classifies problem text into its error-type bucket, with
// the reserved "other" bucket for text carrying no recognizable type.
func errorBucket(content string) string {
	tok, ok := similarity.ExtractErrorType(content)
	if !ok {
		return similarity.ErrorTypeOther
	}
	return tok
}

func addToBucket[K comparable](m map[K]map[string]struct{}, key K, id string) {
	set, ok := m[key]
	if !ok {
		set = make(map[string]struct{})
		m[key] = set
	}
	set[id] = struct{}{}
}

// RebuildIndex reconstructs all four indexes from the current graph in
// insertion order, producing contents identical to what the
// incremental path built.
func (s *Store) RebuildIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildIndexLocked()
}

func (s *Store) rebuildIndexLocked() {
	ix := NewIndex()
	for _, id := range s.nodeOrder {
		ix.AddNode(s.nodes[id])
	}
	for _, id := range s.edgeOrder {
		ix.AddEdge(s.edges[id])
	}
	s.idx = ix
}
