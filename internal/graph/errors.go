package graph

import (
	"fmt"
	"strings"
)

// Reference roles for NotFoundError.
const (
	RoleParent = "parent"
	RoleNode   = "node"
)

// NotFoundError reports an operation that referenced one or more node
// ids not present in the graph. The operation is a no-op for the
// missing-reference part only: a create with a missing parent still
// creates the node.
type NotFoundError struct {
	Role string
	IDs  []string
}

func (e *NotFoundError) Error() string {
	if e.Role == RoleParent && len(e.IDs) == 1 {
		return fmt.Sprintf("Parent node %s not found", e.IDs[0])
	}
	return fmt.Sprintf("Node(s) not found: %s", strings.Join(e.IDs, ", "))
}

// PersistError reports a journal write that failed after the in-memory
// mutation was already applied. The mutation is kept — the in-memory
// graph and the log are deliberately not transactionally coupled.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s applied in memory but not persisted: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
