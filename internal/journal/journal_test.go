package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thinkgraph/thinkgraph/internal/graph"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return j
}

// seedGraph writes a small session through a journaled store and
// returns both, so tests can compare a reload against the original.
func seedGraph(t *testing.T, j *Journal) *graph.Store {
	t.Helper()
	s := graph.NewStore(graph.WithJournal(j))
	p, err := s.CreateNode(graph.CreateParams{Type: graph.NodeProblem, Content: "TypeError: boom"})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	h, err := s.CreateNode(graph.CreateParams{Type: graph.NodeHypothesis, Content: "bad input", ParentID: p.Node.ID})
	if err != nil {
		t.Fatalf("CreateNode: %v", err)
	}
	if _, err := s.Connect(graph.ConnectParams{
		From: h.Node.ID, To: p.Node.ID, Type: graph.EdgeSupports,
	}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return s
}

// ─── Round trip ─────────────────────────────────────────────────────

func TestLoad_RestoresIdenticalGraph(t *testing.T) {
	j := openTestJournal(t)
	orig := seedGraph(t, j)

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	restored := graph.NewStore()
	if err := restored.Restore(state); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if restored.NodeCount() != orig.NodeCount() {
		t.Errorf("nodes = %d, want %d", restored.NodeCount(), orig.NodeCount())
	}
	if restored.EdgeCount() != orig.EdgeCount() {
		t.Errorf("edges = %d, want %d", restored.EdgeCount(), orig.EdgeCount())
	}
	if got, want := restored.Roots(), orig.Roots(); len(got) != len(want) || got[0] != want[0] {
		t.Errorf("roots = %v, want %v", got, want)
	}

	// timestamps must survive the round trip exactly
	for _, id := range orig.Roots() {
		before, _ := orig.Node(id)
		after, ok := restored.Node(id)
		if !ok {
			t.Fatalf("node %s lost in round trip", id)
		}
		if !after.Metadata.CreatedAt.Equal(before.Metadata.CreatedAt) {
			t.Errorf("createdAt = %v, want %v", after.Metadata.CreatedAt, before.Metadata.CreatedAt)
		}
	}
}

func TestLoad_SecondReloadIsIdempotent(t *testing.T) {
	j := openTestJournal(t)
	seedGraph(t, j)

	first, err := j.Load()
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := j.Load()
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(first.Nodes) != len(second.Nodes) || len(first.Edges) != len(second.Edges) {
		t.Errorf("loads differ: %d/%d nodes, %d/%d edges",
			len(first.Nodes), len(second.Nodes), len(first.Edges), len(second.Edges))
	}
}

// ─── Last write wins ────────────────────────────────────────────────

func TestLoad_ReappendedRecordWins(t *testing.T) {
	j := openTestJournal(t)

	n := &graph.Node{ID: "n1", Type: graph.NodeProblem, Content: "first version"}
	if err := j.AppendNode(n); err != nil {
		t.Fatalf("AppendNode: %v", err)
	}
	n2 := &graph.Node{ID: "n1", Type: graph.NodeProblem, Content: "corrected version"}
	if err := j.AppendNode(n2); err != nil {
		t.Fatalf("AppendNode: %v", err)
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Nodes) != 1 {
		t.Fatalf("nodes = %d, want 1 after deduplication", len(state.Nodes))
	}
	if state.Nodes[0].Content != "corrected version" {
		t.Errorf("content = %q, want the later record", state.Nodes[0].Content)
	}
}

func TestLoad_ReappendKeepsFirstAppearanceOrder(t *testing.T) {
	j := openTestJournal(t)
	for _, n := range []*graph.Node{
		{ID: "a", Type: graph.NodeProblem, Content: "a v1"},
		{ID: "b", Type: graph.NodeProblem, Content: "b v1"},
		{ID: "a", Type: graph.NodeProblem, Content: "a v2"},
	} {
		if err := j.AppendNode(n); err != nil {
			t.Fatalf("AppendNode: %v", err)
		}
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Nodes) != 2 || state.Nodes[0].ID != "a" || state.Nodes[1].ID != "b" {
		t.Fatalf("order = %v, want a then b", nodeIDs(state.Nodes))
	}
	if state.Nodes[0].Content != "a v2" {
		t.Errorf("content = %q, want the re-appended version", state.Nodes[0].Content)
	}
}

// ─── Corruption tolerance ───────────────────────────────────────────

func TestLoad_SkipsMalformedLines(t *testing.T) {
	j := openTestJournal(t)
	n := &graph.Node{ID: "good", Type: graph.NodeProblem, Content: "kept"}
	if err := j.AppendNode(n); err != nil {
		t.Fatalf("AppendNode: %v", err)
	}

	// corrupt the log by hand: garbage, blank line, record without id
	f, err := os.OpenFile(filepath.Join(j.Dir(), nodesFile), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("{not json\n\n{\"type\":\"problem\"}\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	n2 := &graph.Node{ID: "after", Type: graph.NodeProblem, Content: "also kept"}
	if err := j.AppendNode(n2); err != nil {
		t.Fatalf("AppendNode: %v", err)
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := nodeIDs(state.Nodes); len(got) != 2 || got[0] != "good" || got[1] != "after" {
		t.Errorf("nodes = %v, want the two valid records around the corruption", got)
	}
}

func TestLoad_UnreadableSnapshotTreatedAsAbsent(t *testing.T) {
	j := openTestJournal(t)
	if err := os.WriteFile(filepath.Join(j.Dir(), snapshotFile), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Snapshot != nil {
		t.Errorf("snapshot = %+v, want nil for unreadable file", state.Snapshot)
	}
}

// ─── Empty state ────────────────────────────────────────────────────

func TestLoad_MissingFilesMeanEmptyGraph(t *testing.T) {
	j := openTestJournal(t)
	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Nodes) != 0 || len(state.Edges) != 0 || state.Snapshot != nil {
		t.Errorf("state = %+v, want empty", state)
	}
}

func TestWriteSnapshot_Overwrites(t *testing.T) {
	j := openTestJournal(t)
	if err := j.WriteSnapshot(&graph.Snapshot{NodeCount: 1}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if err := j.WriteSnapshot(&graph.Snapshot{NodeCount: 7, SessionCount: 3}); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}

	state, err := j.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Snapshot == nil || state.Snapshot.NodeCount != 7 || state.Snapshot.SessionCount != 3 {
		t.Errorf("snapshot = %+v, want the last write only", state.Snapshot)
	}
}

func nodeIDs(nodes []*graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
