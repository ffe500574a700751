package tree

import "fmt"

// Selection is the tri-state checkbox value of a node. Interior node values
// are derived from their children: Selected when every child is Selected,
// Unselected when every child is Unselected, Partial otherwise.
type Selection string

const (
	Unselected Selection = "unselected"
	Partial    Selection = "partial"
	Selected   Selection = "selected"
)

// IsValid returns true if the selection is a recognized value
func (s Selection) IsValid() bool {
	switch s {
	case Unselected, Partial, Selected:
		return true
	}
	return false
}

// Node is a single entry in the tree. Children holds child IDs in display
// order. Parent is empty only for the root.
type Node struct {
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Children  []string  `json:"children,omitempty" yaml:"children,omitempty"`
	Level     int       `json:"level" yaml:"level"`
	Open      bool      `json:"open" yaml:"open"`
	Selection Selection `json:"selection" yaml:"selection"`
	Parent    string    `json:"parent,omitempty" yaml:"parent,omitempty"`
}

// Clone creates a deep copy of the node
func (n *Node) Clone() *Node {
	clone := *n
	if n.Children != nil {
		clone.Children = make([]string, len(n.Children))
		copy(clone.Children, n.Children)
	}
	return &clone
}

// IsLeaf returns true if the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Validate checks if the node data is logically valid
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if n.Level < 0 {
		return fmt.Errorf("node %s: level (%d) cannot be negative", n.ID, n.Level)
	}
	if !n.Selection.IsValid() {
		return fmt.Errorf("node %s: invalid selection: %q", n.ID, n.Selection)
	}
	return nil
}
