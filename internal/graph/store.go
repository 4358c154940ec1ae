package graph

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Journal receives every accepted mutation for durable append, plus the
// snapshot of graph-level metadata. The store never reads through it;
// replay happens once at startup via Restore.
type Journal interface {
	AppendNode(*Node) error
	AppendEdge(*Edge) error
	WriteSnapshot(*Snapshot) error
}

// Snapshot is the overwritten graph-level metadata record: roots and
// counters, not entities.
type Snapshot struct {
	Roots        []string  `json:"roots"`
	NodeCount    int       `json:"nodeCount"`
	EdgeCount    int       `json:"edgeCount"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	SessionCount int       `json:"sessionCount"`
}

// Store owns the node and edge maps and enforces the structural
// invariants: edge endpoints must exist at append time, strength is
// clamped into [0,1], roots track exactly the problems created without
// a parent, and ids are never reused. All mutations go through
// CreateNode and Connect; queries live in query.go and only read.
//
// The execution model is single-writer, but the MCP transport may
// dispatch handlers concurrently, so access is guarded by a RWMutex.
type Store struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges map[string]*Edge

	// insertion order, kept so a full index rebuild walks entities in
	// the same order the incremental path saw them
	nodeOrder []string
	edgeOrder []string

	roots []string

	createdAt    time.Time
	lastModified time.Time
	sessionCount int

	idx     *Index
	journal Journal
	logger  *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithJournal attaches a persistence journal. Without one the store is
// memory-only (used by tests).
func WithJournal(j Journal) Option {
	return func(s *Store) { s.journal = j }
}

// WithLogger attaches a logger for warnings about persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty graph store.
func NewStore(opts ...Option) *Store {
	now := timeNow().UTC()
	s := &Store{
		nodes:        make(map[string]*Node),
		edges:        make(map[string]*Edge),
		idx:          NewIndex(),
		createdAt:    now,
		lastModified: now,
		logger:       zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// --- Create ---

// CreateParams describes a node creation request. Caller-supplied
// metadata is taken as-is except for timestamps, which the store owns.
type CreateParams struct {
	Type     NodeType
	Content  string
	ParentID string
	Metadata NodeMetadata
}

// CreateResult reports what a create call produced. Edge is non-nil
// only when a parent was given and the (parent, child) pair is in the
// auto-edge table.
type CreateResult struct {
	Node *Node
	Edge *Edge
}

// CreateNode allocates a new node, applies type defaults, and — when a
// parent is given — infers the connecting edge from the auto-edge
// table. A pair outside the table creates no edge and raises no error.
//
// A missing parent does not roll the node back: the node is created
// and journaled, and the returned error names the parent. Callers that
// get a non-nil result alongside a non-nil error hold a real node.
func (s *Store) CreateNode(p CreateParams) (*CreateResult, error) {
	if err := ValidateNodeType(p.Type); err != nil {
		return nil, err
	}
	if p.Metadata.Status != "" {
		if err := ValidateStatus(p.Metadata.Status); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := timeNow().UTC()
	node := &Node{
		ID:       uuid.NewString(),
		Type:     p.Type,
		Content:  p.Content,
		Metadata: p.Metadata,
	}
	node.Metadata.CreatedAt = now
	node.Metadata.UpdatedAt = now
	node.applyDefaults(p.ParentID != "")

	s.insertNode(node)
	if p.ParentID == "" && p.Type == NodeProblem {
		s.roots = append(s.roots, node.ID)
	}

	res := &CreateResult{Node: node}

	var refErr error
	if p.ParentID != "" {
		parent, ok := s.nodes[p.ParentID]
		switch {
		case !ok:
			refErr = &NotFoundError{Role: RoleParent, IDs: []string{p.ParentID}}
		default:
			if et, mapped := AutoEdgeType(parent.Type, node.Type); mapped {
				edge := newEdge(et, parent.ID, node.ID, 1, EdgeMetadata{CreatedAt: now})
				s.insertEdge(edge)
				res.Edge = edge
			}
		}
	}

	s.lastModified = now
	return res, errors.Join(refErr, s.persistCreateLocked(res))
}

// --- Connect ---

// ConnectParams describes an explicit edge creation request. Strength
// is a pointer so "omitted" (defaults to 1) and an explicit zero stay
// distinguishable.
type ConnectParams struct {
	From     string
	To       string
	Type     EdgeType
	Strength *float64
	Metadata EdgeMetadata
}

// ConnectResult carries the created edge plus any conflicting edges
// already recorded over the same endpoints. Conflicts never block the
// connect — the graph records contradictory evidence and lets the
// caller reason about it.
type ConnectResult struct {
	Edge      *Edge
	Conflicts []*Edge
}

// Connect records a typed edge between two existing nodes.
func (s *Store) Connect(p ConnectParams) (*ConnectResult, error) {
	if err := ValidateEdgeType(p.Type); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var missing []string
	if _, ok := s.nodes[p.From]; !ok {
		missing = append(missing, p.From)
	}
	if _, ok := s.nodes[p.To]; !ok && p.To != p.From {
		missing = append(missing, p.To)
	}
	if len(missing) > 0 {
		return nil, &NotFoundError{Role: RoleNode, IDs: missing}
	}

	strength := 1.0
	if p.Strength != nil {
		strength = ClampStrength(*p.Strength)
	}

	conflicts := s.findConflictsLocked(p.Type, p.From, p.To)

	now := timeNow().UTC()
	md := p.Metadata
	md.CreatedAt = now
	edge := newEdge(p.Type, p.From, p.To, strength, md)
	s.insertEdge(edge)
	s.lastModified = now

	res := &ConnectResult{Edge: edge, Conflicts: conflicts}

	if s.journal != nil {
		if err := s.journal.AppendEdge(edge); err != nil {
			s.logger.Warn("edge append failed",
				zap.String("edge", edge.ID), zap.Error(err))
			return res, &PersistError{Op: "connect", Err: err}
		}
		if err := s.journal.WriteSnapshot(s.snapshotLocked()); err != nil {
			return res, &PersistError{Op: "connect", Err: err}
		}
	}
	return res, nil
}

// findConflictsLocked returns existing supports edges over the same
// (from, to) when a contradicts edge is being added, and vice versa.
func (s *Store) findConflictsLocked(t EdgeType, from, to string) []*Edge {
	opposite, ok := conflictingTypes[t]
	if !ok {
		return nil
	}
	var out []*Edge
	for _, e := range s.idx.adjacency[from].Outgoing {
		if e.Type == opposite && e.To == to {
			out = append(out, e)
		}
	}
	return out
}

// --- Restore ---

// RestoreState is the replayed content of the persistence journal.
type RestoreState struct {
	Nodes    []*Node
	Edges    []*Edge
	Snapshot *Snapshot // nil when no snapshot file existed
}

// Restore loads replayed journal state into an empty store, rebuilds
// every index, and begins a new session. Replay trusts the log:
// invariant checks apply at append time, not here.
func (s *Store) Restore(state RestoreState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range state.Nodes {
		s.nodes[n.ID] = n
		s.nodeOrder = append(s.nodeOrder, n.ID)
	}
	for _, e := range state.Edges {
		s.edges[e.ID] = e
		s.edgeOrder = append(s.edgeOrder, e.ID)
	}
	s.rebuildIndexLocked()

	if snap := state.Snapshot; snap != nil {
		s.roots = append([]string(nil), snap.Roots...)
		s.createdAt = snap.CreatedAt
		s.lastModified = snap.LastModified
		s.sessionCount = snap.SessionCount
	} else {
		s.deriveRootsLocked()
	}
	s.sessionCount++

	if s.journal != nil {
		if err := s.journal.WriteSnapshot(s.snapshotLocked()); err != nil {
			return &PersistError{Op: "restore", Err: err}
		}
	}
	return nil
}

// deriveRootsLocked recovers roots from node metadata when the
// snapshot file is missing: problems flagged isRoot at creation.
func (s *Store) deriveRootsLocked() {
	s.roots = s.roots[:0]
	for _, id := range s.nodeOrder {
		n := s.nodes[id]
		if n.Type == NodeProblem && n.Metadata.IsRoot != nil && *n.Metadata.IsRoot {
			s.roots = append(s.roots, id)
		}
	}
}

// --- Accessors ---

// Node returns a node by id.
func (s *Store) Node(id string) (*Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	return n, ok
}

// Edge returns an edge by id.
func (s *Store) Edge(id string) (*Edge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.edges[id]
	return e, ok
}

// NodeCount returns the number of nodes in the graph.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (s *Store) EdgeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.edges)
}

// Roots returns the ids of problem nodes created without a parent, in
// creation order.
func (s *Store) Roots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.roots...)
}

// Snapshot returns the current graph-level metadata.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Stats summarizes the graph for the stats resource.
type Stats struct {
	Nodes        int              `json:"nodes"`
	Edges        int              `json:"edges"`
	Roots        int              `json:"roots"`
	NodesByType  map[NodeType]int `json:"nodesByType"`
	EdgesByType  map[EdgeType]int `json:"edgesByType"`
	SessionCount int              `json:"sessionCount"`
	CreatedAt    time.Time        `json:"createdAt"`
	LastModified time.Time        `json:"lastModified"`
}

// Stats returns aggregate counts over the whole graph.
func (s *Store) Stats() *Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := &Stats{
		Nodes:        len(s.nodes),
		Edges:        len(s.edges),
		Roots:        len(s.roots),
		NodesByType:  make(map[NodeType]int),
		EdgesByType:  make(map[EdgeType]int),
		SessionCount: s.sessionCount,
		CreatedAt:    s.createdAt,
		LastModified: s.lastModified,
	}
	for _, n := range s.nodes {
		st.NodesByType[n.Type]++
	}
	for _, e := range s.edges {
		st.EdgesByType[e.Type]++
	}
	return st
}

// --- internals ---

func newEdge(t EdgeType, from, to string, strength float64, md EdgeMetadata) *Edge {
	return &Edge{
		ID:       uuid.NewString(),
		Type:     t,
		From:     from,
		To:       to,
		Strength: strength,
		Metadata: md,
	}
}

func (s *Store) insertNode(n *Node) {
	s.nodes[n.ID] = n
	s.nodeOrder = append(s.nodeOrder, n.ID)
	s.idx.AddNode(n)
}

func (s *Store) insertEdge(e *Edge) {
	s.edges[e.ID] = e
	s.edgeOrder = append(s.edgeOrder, e.ID)
	s.idx.AddEdge(e)
}

func (s *Store) snapshotLocked() *Snapshot {
	return &Snapshot{
		Roots:        append([]string(nil), s.roots...),
		NodeCount:    len(s.nodes),
		EdgeCount:    len(s.edges),
		CreatedAt:    s.createdAt,
		LastModified: s.lastModified,
		SessionCount: s.sessionCount,
	}
}

func (s *Store) persistCreateLocked(res *CreateResult) error {
	if s.journal == nil {
		return nil
	}
	if err := s.journal.AppendNode(res.Node); err != nil {
		s.logger.Warn("node append failed",
			zap.String("node", res.Node.ID), zap.Error(err))
		return &PersistError{Op: "create", Err: err}
	}
	if res.Edge != nil {
		if err := s.journal.AppendEdge(res.Edge); err != nil {
			s.logger.Warn("edge append failed",
				zap.String("edge", res.Edge.ID), zap.Error(err))
			return &PersistError{Op: "create", Err: err}
		}
	}
	if err := s.journal.WriteSnapshot(s.snapshotLocked()); err != nil {
		return &PersistError{Op: "create", Err: err}
	}
	return nil
}
