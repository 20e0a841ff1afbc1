package depgraph

import "fmt"

// NodeKind distinguishes the two members of the Node union.
type NodeKind uint8

const (
	// NodeStatement is a single schedulable statement.
	NodeStatement NodeKind = iota

	// NodeGroup is a group meta-node standing for a whole loop body.
	NodeGroup
)

// Node is a tagged union: either one statement or one group meta-node.
// Statement indices and group ids live in disjoint id spaces, so the raw id
// alone identifies a node unambiguously once a Grouping has validated the
// model.
type Node struct {
	Kind NodeKind
	ID   int
}

// StatementNode wraps a statement index.
func StatementNode(index int) Node {
	return Node{Kind: NodeStatement, ID: index}
}

// GroupNode wraps a group id.
func GroupNode(id int) Node {
	return Node{Kind: NodeGroup, ID: id}
}

// Less imposes the deterministic tie-break order used by the scheduler:
// ascending raw id. The id spaces are disjoint, so comparing ids is total.
func (n Node) Less(other Node) bool {
	return n.ID < other.ID
}

func (n Node) String() string {
	if n.Kind == NodeGroup {
		return fmt.Sprintf("group(%d)", n.ID)
	}
	return fmt.Sprintf("stmt(%d)", n.ID)
}
