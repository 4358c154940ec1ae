package graph

import (
	"reflect"
	"testing"

	"github.com/thinkgraph/thinkgraph/internal/similarity"
)

// buildSampleGraph exercises every index path: typed nodes, auto edges,
// explicit structural and evidentiary edges, and an orphan connect.
func buildSampleGraph(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	p := mustCreate(t, s, NodeProblem, "TypeError: cannot read property 'id' of undefined", "")
	h := mustCreate(t, s, NodeHypothesis, "the user record is missing", p.Node.ID)
	e := mustCreate(t, s, NodeExperiment, "log the record before access", h.Node.ID)
	o := mustCreate(t, s, NodeObservation, "record is nil on first login", e.Node.ID)
	mustCreate(t, s, NodeLearning, "first login skips hydration", o.Node.ID)
	sol := mustCreate(t, s, NodeSolution, "hydrate on login", "")
	mustConnect(t, s, o.Node.ID, h.Node.ID, EdgeSupports)
	mustConnect(t, s, sol.Node.ID, p.Node.ID, EdgeSolves)
	mustCreate(t, s, NodeProblem, "deploy script hangs", "")
	return s
}

// ─── Incremental vs rebuild equivalence ─────────────────────────────

func TestRebuildIndex_MatchesIncremental(t *testing.T) {
	s := buildSampleGraph(t)

	incremental := s.idx
	s.RebuildIndex()
	rebuilt := s.idx

	if !reflect.DeepEqual(incremental.byType, rebuilt.byType) {
		t.Error("byType diverges between incremental and rebuilt index")
	}
	if !reflect.DeepEqual(incremental.byErrorType, rebuilt.byErrorType) {
		t.Error("byErrorType diverges between incremental and rebuilt index")
	}
	if !reflect.DeepEqual(incremental.parents, rebuilt.parents) {
		t.Error("parents diverges between incremental and rebuilt index")
	}
	if !reflect.DeepEqual(incremental.adjacency, rebuilt.adjacency) {
		t.Error("adjacency diverges between incremental and rebuilt index")
	}
}

// ─── Bucket contents ────────────────────────────────────────────────

func TestIndex_ErrorTypeBuckets(t *testing.T) {
	s := NewStore()
	typed := mustCreate(t, s, NodeProblem, "TypeError: x is undefined", "")
	other := mustCreate(t, s, NodeProblem, "deploy script hangs forever", "")
	// non-problem nodes never enter error buckets
	mustCreate(t, s, NodeObservation, "TypeError seen in logs", "")

	bucket := s.idx.ErrorTypeBucket("type error")
	if _, ok := bucket[typed.Node.ID]; !ok || len(bucket) != 1 {
		t.Errorf("type error bucket = %v, want exactly the typed problem", bucket)
	}

	fallback := s.idx.ErrorTypeBucket(similarity.ErrorTypeOther)
	if _, ok := fallback[other.Node.ID]; !ok || len(fallback) != 1 {
		t.Errorf("other bucket = %v, want exactly the unclassifiable problem", fallback)
	}
}

func TestIndex_NodesOfType(t *testing.T) {
	s := buildSampleGraph(t)
	if got := len(s.idx.NodesOfType(NodeProblem)); got != 2 {
		t.Errorf("problem bucket size = %d, want 2", got)
	}
	if got := len(s.idx.NodesOfType(NodeSolution)); got != 1 {
		t.Errorf("solution bucket size = %d, want 1", got)
	}
}

func TestIndex_AdjacencyBothDirections(t *testing.T) {
	s := NewStore()
	a := mustCreate(t, s, NodeObservation, "a", "")
	b := mustCreate(t, s, NodeHypothesis, "b", "")
	res := mustConnect(t, s, a.Node.ID, b.Node.ID, EdgeSupports)

	out := s.idx.EdgesOf(a.Node.ID)
	if len(out.Outgoing) != 1 || out.Outgoing[0].ID != res.Edge.ID {
		t.Errorf("outgoing of from-node = %v, want the new edge", out.Outgoing)
	}
	in := s.idx.EdgesOf(b.Node.ID)
	if len(in.Incoming) != 1 || in.Incoming[0].ID != res.Edge.ID {
		t.Errorf("incoming of to-node = %v, want the new edge", in.Incoming)
	}
}

func TestIndex_AdjacencyExistsForIsolatedNode(t *testing.T) {
	s := NewStore()
	a := mustCreate(t, s, NodeLearning, "isolated", "")
	adj := s.idx.EdgesOf(a.Node.ID)
	if adj == nil {
		t.Fatal("no adjacency bucket for an edge-less node")
	}
	if len(adj.Incoming)+len(adj.Outgoing) != 0 {
		t.Errorf("adjacency not empty: %+v", adj)
	}
}

// ─── Parent pointers ────────────────────────────────────────────────

func TestIndex_ParentOnlyFromStructuralEdges(t *testing.T) {
	s := NewStore()
	p := mustCreate(t, s, NodeProblem, "p", "")
	h := mustCreate(t, s, NodeHypothesis, "h", p.Node.ID)
	o := mustCreate(t, s, NodeObservation, "o", "")
	mustConnect(t, s, o.Node.ID, h.Node.ID, EdgeSupports)

	if pid, ok := s.idx.Parent(h.Node.ID); !ok || pid != p.Node.ID {
		t.Errorf("Parent(hypothesis) = (%q, %v), want the problem", pid, ok)
	}
	// the supports edge must not have given the observation a child
	if pid, ok := s.idx.Parent(o.Node.ID); ok {
		t.Errorf("Parent(observation) = %q, want none", pid)
	}
}

func TestIndex_LaterStructuralEdgeWinsParent(t *testing.T) {
	s := NewStore()
	p1 := mustCreate(t, s, NodeProblem, "p1", "")
	p2 := mustCreate(t, s, NodeProblem, "p2", "")
	h := mustCreate(t, s, NodeHypothesis, "shared idea", p1.Node.ID)
	mustConnect(t, s, p2.Node.ID, h.Node.ID, EdgeHypothesizes)

	if pid, _ := s.idx.Parent(h.Node.ID); pid != p2.Node.ID {
		t.Errorf("parent = %s, want the later structural edge's origin %s", pid, p2.Node.ID)
	}
}
