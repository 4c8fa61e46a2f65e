package domain

import "fmt"

type NodeType string

func (t NodeType) String() string {
	return string(t)
}

const (
	NodeTypeBook   NodeType = "book"
	NodeTypeVolume NodeType = "volume"
	NodeTypeSaga   NodeType = "saga"
	NodeTypeArc    NodeType = "arc"
	NodeTypeIssue  NodeType = "issue"
)

// NodeTypes lists every node type from the root level down to the leaves.
var NodeTypes = []NodeType{
	NodeTypeBook,
	NodeTypeVolume,
	NodeTypeSaga,
	NodeTypeArc,
	NodeTypeIssue,
}

// BundleLevels lists the levels that can be sold as a bundle, narrowest first.
var BundleLevels = []NodeType{
	NodeTypeArc,
	NodeTypeSaga,
	NodeTypeVolume,
	NodeTypeBook,
}

// ParseNodeType accepts the lower-case wire name of a node type.
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

func (t NodeType) Valid() bool {
	return t.Depth() >= 0
}

// Depth is 0 for books and grows by one per level; -1 for unknown types.
func (t NodeType) Depth() int {
	for i, nt := range NodeTypes {
		if nt == t {
			return i
		}
	}
	return -1
}

// Child returns the next finer type. Issues have none.
func (t NodeType) Child() (NodeType, bool) {
	d := t.Depth()
	if d < 0 || d == len(NodeTypes)-1 {
		return "", false
	}
	return NodeTypes[d+1], true
}

// Parent returns the next coarser type. Books have none.
func (t NodeType) Parent() (NodeType, bool) {
	d := t.Depth()
	if d <= 0 {
		return "", false
	}
	return NodeTypes[d-1], true
}

// IsCoarserThan reports whether t sits strictly above other in the hierarchy.
func (t NodeType) IsCoarserThan(other NodeType) bool {
	return t.Valid() && other.Valid() && t.Depth() < other.Depth()
}

func (t NodeType) IsBundleLevel() bool {
	return t.Valid() && t != NodeTypeIssue
}

// GetTypeName returns the plural display name used in recommendation copy.
func (t NodeType) GetTypeName() string {
	switch t {
	case NodeTypeBook:
		return "Books"
	case NodeTypeVolume:
		return "Volumes"
	case NodeTypeSaga:
		return "Sagas"
	case NodeTypeArc:
		return "Arcs"
	case NodeTypeIssue:
		return "Issues"
	default:
		return "Unknown"
	}
}
