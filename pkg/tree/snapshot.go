package tree

import "fmt"

// Snapshot is an immutable view of the whole tree: a flat ID-indexed node
// map plus the designated root ID. Mutations on a Store never modify an
// existing snapshot; they build a new one and swap it in, so a snapshot
// handed to the view layer stays stable while it renders.
type Snapshot struct {
	nodes  map[string]*Node
	rootID string
}

// RootID returns the ID of the current root node.
func (s *Snapshot) RootID() string {
	return s.rootID
}

// Root returns the root node, or nil for a zero snapshot.
func (s *Snapshot) Root() *Node {
	return s.nodes[s.rootID]
}

// Node returns the node with the given ID. The returned node must be
// treated as read-only; use Store operations to mutate the tree.
func (s *Snapshot) Node(id string) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Has returns true if a node with the given ID exists.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Len returns the total number of nodes in the tree.
func (s *Snapshot) Len() int {
	return len(s.nodes)
}

// Walk visits the subtree rooted at id in pre-order, children in display
// order. Unknown IDs are a no-op.
func (s *Snapshot) Walk(id string, fn func(n *Node)) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	fn(n)
	for _, childID := range n.Children {
		s.Walk(childID, fn)
	}
}

// subtreeIDs collects the IDs of id and all its descendants using an
// explicit stack, so pathological depth cannot overflow the goroutine
// stack. Order is unspecified.
func (s *Snapshot) subtreeIDs(id string) []string {
	if !s.Has(id) {
		return nil
	}
	var ids []string
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n, ok := s.nodes[cur]
		if !ok {
			continue
		}
		ids = append(ids, cur)
		stack = append(stack, n.Children...)
	}
	return ids
}

// clone creates a deep copy of the snapshot.
func (s *Snapshot) clone() *Snapshot {
	nodes := make(map[string]*Node, len(s.nodes))
	for id, n := range s.nodes {
		nodes[id] = n.Clone()
	}
	return &Snapshot{nodes: nodes, rootID: s.rootID}
}

// Validate checks the structural and selection invariants of the snapshot:
// a single root without a parent, consistent parent/child cross-references,
// child levels one below their parent, every node reachable from the root
// exactly once, and interior selection states matching the aggregate of
// their children.
func (s *Snapshot) Validate() error {
	root, ok := s.nodes[s.rootID]
	if !ok {
		return fmt.Errorf("root %q not present in node map", s.rootID)
	}
	if root.Parent != "" {
		return fmt.Errorf("root %s has parent %q", root.ID, root.Parent)
	}

	for id, n := range s.nodes {
		if n.ID != id {
			return fmt.Errorf("node keyed %q carries ID %q", id, n.ID)
		}
		if err := n.Validate(); err != nil {
			return err
		}
		if id != s.rootID {
			if n.Parent == "" {
				return fmt.Errorf("non-root node %s has no parent", id)
			}
			p, ok := s.nodes[n.Parent]
			if !ok {
				return fmt.Errorf("node %s: parent %q not present", id, n.Parent)
			}
			refs := 0
			for _, childID := range p.Children {
				if childID == id {
					refs++
				}
			}
			if refs != 1 {
				return fmt.Errorf("node %s appears %d times in child list of %s", id, refs, p.ID)
			}
			if n.Level != p.Level+1 {
				return fmt.Errorf("node %s: level %d, want %d (parent %s at %d)",
					id, n.Level, p.Level+1, p.ID, p.Level)
			}
		}
		for _, childID := range n.Children {
			c, ok := s.nodes[childID]
			if !ok {
				return fmt.Errorf("node %s: child %q not present", id, childID)
			}
			if c.Parent != id {
				return fmt.Errorf("node %s lists child %s whose parent is %q", id, childID, c.Parent)
			}
		}
	}

	// Reachability: the child graph must form a single tree under the root.
	seen := make(map[string]bool, len(s.nodes))
	stack := []string{s.rootID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			return fmt.Errorf("node %s reachable by more than one path", cur)
		}
		seen[cur] = true
		stack = append(stack, s.nodes[cur].Children...)
	}
	if len(seen) != len(s.nodes) {
		return fmt.Errorf("%d of %d nodes unreachable from root", len(s.nodes)-len(seen), len(s.nodes))
	}

	// Interior selection states are an aggregate of the children.
	for id, n := range s.nodes {
		if n.IsLeaf() {
			continue
		}
		if got, want := n.Selection, aggregateSelection(s, n); got != want {
			return fmt.Errorf("node %s: selection %q, want %q from children", id, got, want)
		}
	}

	return nil
}

// aggregateSelection computes an interior node's selection from its
// children: Selected iff all Selected, Unselected iff all Unselected,
// Partial otherwise.
func aggregateSelection(s *Snapshot, n *Node) Selection {
	allSelected := true
	allUnselected := true
	for _, childID := range n.Children {
		c, ok := s.nodes[childID]
		if !ok {
			continue
		}
		if c.Selection != Selected {
			allSelected = false
		}
		if c.Selection != Unselected {
			allUnselected = false
		}
	}
	switch {
	case allSelected:
		return Selected
	case allUnselected:
		return Unselected
	default:
		return Partial
	}
}
