// Package journal persists the graph as an append-only record log: one
// JSONL file per entity kind plus an overwritten snapshot file for
// graph-level counters and roots.
//
// On load, the record with the greatest file offset wins for each id
// (last write wins), which leaves room for correction-by-re-append even
// though no current operation re-appends an existing id. Malformed
// lines are skipped with a warning, never fatal; absent files mean an
// empty graph, not an error.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thinkgraph/thinkgraph/internal/graph"
	"go.uber.org/zap"
)

const (
	nodesFile    = "nodes.jsonl"
	edgesFile    = "edges.jsonl"
	snapshotFile = "graph.json"
)

// Journal is a filesystem-backed append-only store for graph mutations.
// It implements graph.Journal.
type Journal struct {
	dir    string
	logger *zap.Logger
}

// Open prepares the journal directory, creating it if needed.
func Open(dir string, logger *zap.Logger) (*Journal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return &Journal{dir: dir, logger: logger}, nil
}

// Dir returns the directory the journal writes under.
func (j *Journal) Dir() string { return j.dir }

// AppendNode appends one node creation record to the node log.
func (j *Journal) AppendNode(n *graph.Node) error {
	return j.appendRecord(nodesFile, n)
}

// AppendEdge appends one edge creation record to the edge log.
func (j *Journal) AppendEdge(e *graph.Edge) error {
	return j.appendRecord(edgesFile, e)
}

// WriteSnapshot overwrites the snapshot file with the current
// graph-level metadata.
func (j *Journal) WriteSnapshot(s *graph.Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(j.dir, snapshotFile), data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Load replays both logs and reads the snapshot, producing the state a
// store can restore from. Missing files yield an empty state.
func (j *Journal) Load() (graph.RestoreState, error) {
	var state graph.RestoreState

	nodes, err := replayFile(
		filepath.Join(j.dir, nodesFile),
		func(n *graph.Node) string { return n.ID },
		j.warnBadLine(nodesFile),
	)
	if err != nil {
		return state, err
	}
	state.Nodes = nodes

	edges, err := replayFile(
		filepath.Join(j.dir, edgesFile),
		func(e *graph.Edge) string { return e.ID },
		j.warnBadLine(edgesFile),
	)
	if err != nil {
		return state, err
	}
	state.Edges = edges

	snap, err := j.readSnapshot()
	if err != nil {
		return state, err
	}
	state.Snapshot = snap
	return state, nil
}

func (j *Journal) appendRecord(name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s record: %w", name, err)
	}
	f, err := os.OpenFile(filepath.Join(j.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending to %s: %w", name, err)
	}
	return nil
}

func (j *Journal) readSnapshot() (*graph.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(j.dir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap graph.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// treat an unreadable snapshot like an absent one; roots and
		// counters get derived from the replayed logs
		j.logger.Warn("skipping unreadable snapshot", zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

func (j *Journal) warnBadLine(name string) func(int, error) {
	return func(line int, err error) {
		j.logger.Warn("skipping malformed journal line",
			zap.String("file", name), zap.Int("line", line), zap.Error(err))
	}
}
