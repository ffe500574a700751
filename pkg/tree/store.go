// Package tree implements the tri-state tree store: a flat ID-indexed node
// map with structural mutation operations (add, delete, re-root, recursive
// fold/expand, tri-state selection propagation, filtered bulk delete).
// Every operation produces a fresh snapshot; a rejected operation leaves
// the current snapshot untouched.
package tree

import (
	"errors"
	"fmt"
)

// DefaultRootLabel is the label given to the root of a freshly built tree.
const DefaultRootLabel = "Root"

// Common errors.
var (
	ErrNotFound     = errors.New("node not found")
	ErrDeleteRoot   = errors.New("cannot delete the root node")
	ErrRootSelected = errors.New("cannot delete selected nodes while the root is selected")
)

// Store owns the current snapshot and the node ID sequence. Operations are
// synchronous and single-caller by design: each one runs to completion and
// installs its result before the next is accepted.
type Store struct {
	snap   *Snapshot
	nextID uint64
}

// New creates a store holding a fresh single-root tree.
func New() *Store {
	st := &Store{}
	st.snap = st.freshTree()
	return st
}

// Snapshot returns the current snapshot.
func (st *Store) Snapshot() *Snapshot {
	return st.snap
}

// freshTree builds a single-root snapshot with a newly generated root ID.
func (st *Store) freshTree() *Snapshot {
	root := &Node{
		ID:        st.generateID(),
		Label:     DefaultRootLabel,
		Level:     0,
		Open:      true,
		Selection: Unselected,
	}
	return &Snapshot{
		nodes:  map[string]*Node{root.ID: root},
		rootID: root.ID,
	}
}

// generateID returns a fresh node ID. IDs are unique for the lifetime of
// the store, including across Reset.
func (st *Store) generateID() string {
	st.nextID++
	return fmt.Sprintf("n%d", st.nextID)
}

// AddChild creates a new leaf under the given parent and returns its ID.
// The new node is appended last, open, one level below its parent, and
// inherits Selected only when the parent is fully Selected. Adding such a
// leaf cannot change any ancestor's aggregate, so no recomputation is
// needed.
func (st *Store) AddChild(parentID, label string) (string, error) {
	parent, ok := st.snap.Node(parentID)
	if !ok {
		return "", fmt.Errorf("add child: parent %q: %w", parentID, ErrNotFound)
	}

	sel := Unselected
	if parent.Selection == Selected {
		sel = Selected
	}

	next := st.snap.clone()
	child := &Node{
		ID:        st.generateID(),
		Label:     label,
		Level:     parent.Level + 1,
		Open:      true,
		Selection: sel,
		Parent:    parentID,
	}
	next.nodes[child.ID] = child
	p := next.nodes[parentID]
	p.Children = append(p.Children, child.ID)

	st.snap = next
	return child.ID, nil
}

// SetSelected toggles the selection of the given node: Selected flips to
// Unselected, Unselected and Partial flip to Selected. The new value is
// applied to the whole subtree, then every ancestor up to the root is
// recomputed from its children.
func (st *Store) SetSelected(id string) error {
	target, ok := st.snap.Node(id)
	if !ok {
		return fmt.Errorf("set selected: node %q: %w", id, ErrNotFound)
	}

	value := Selected
	if target.Selection == Selected {
		value = Unselected
	}

	next := st.snap.clone()
	for _, subID := range next.subtreeIDs(id) {
		next.nodes[subID].Selection = value
	}
	recomputeAncestors(next, next.nodes[id].Parent)

	st.snap = next
	return nil
}

// DeleteNode removes the given node and its entire subtree. The root
// cannot be deleted. Ancestor selection states are recomputed afterwards
// so the aggregate invariant keeps holding; a parent left childless keeps
// its own state, which now stands for itself as a leaf.
func (st *Store) DeleteNode(id string) error {
	if id == st.snap.rootID {
		return fmt.Errorf("delete node %q: %w", id, ErrDeleteRoot)
	}
	target, ok := st.snap.Node(id)
	if !ok {
		return fmt.Errorf("delete node: %q: %w", id, ErrNotFound)
	}

	next := st.snap.clone()
	parent := next.nodes[target.Parent]
	parent.Children = removeID(parent.Children, id)
	for _, subID := range next.subtreeIDs(id) {
		delete(next.nodes, subID)
	}
	recomputeAncestors(next, parent.ID)

	st.snap = next
	return nil
}

// DeleteSelected prunes every directly Selected node together with its
// subtree, walking top-down from the root. Partial nodes are kept and
// descended into, so their Selected descendants are pruned one level
// further down. Survivors are reset to Unselected. Rejected without
// mutation when the root itself is Selected.
func (st *Store) DeleteSelected() error {
	root := st.snap.Root()
	if root.Selection == Selected {
		return fmt.Errorf("delete selected: root %q: %w", root.ID, ErrRootSelected)
	}

	next := st.snap.clone()
	stack := []string{next.rootID}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := next.nodes[cur]

		kept := n.Children[:0]
		for _, childID := range n.Children {
			if next.nodes[childID].Selection == Selected {
				for _, subID := range next.subtreeIDs(childID) {
					delete(next.nodes, subID)
				}
				continue
			}
			kept = append(kept, childID)
			stack = append(stack, childID)
		}
		n.Children = kept
	}
	for _, n := range next.nodes {
		n.Selection = Unselected
	}

	st.snap = next
	return nil
}

// FoldAll closes the given node and every descendant.
func (st *Store) FoldAll(id string) error {
	return st.setOpenAll(id, false, "fold all")
}

// ExpandAll opens the given node and every descendant.
func (st *Store) ExpandAll(id string) error {
	return st.setOpenAll(id, true, "expand all")
}

func (st *Store) setOpenAll(id string, open bool, op string) error {
	if !st.snap.Has(id) {
		return fmt.Errorf("%s: node %q: %w", op, id, ErrNotFound)
	}
	next := st.snap.clone()
	for _, subID := range next.subtreeIDs(id) {
		next.nodes[subID].Open = open
	}
	st.snap = next
	return nil
}

// SetOpen sets the open flag of a single node.
func (st *Store) SetOpen(id string, open bool) error {
	n, ok := st.snap.Node(id)
	if !ok {
		return fmt.Errorf("set open: node %q: %w", id, ErrNotFound)
	}
	if n.Open == open {
		return nil
	}
	next := st.snap.clone()
	next.nodes[id].Open = open
	st.snap = next
	return nil
}

// ToggleOpen flips the open flag of a single node. Leaves are treated as
// closed for toggle purposes, so toggling one is a no-op.
func (st *Store) ToggleOpen(id string) error {
	n, ok := st.snap.Node(id)
	if !ok {
		return fmt.Errorf("toggle open: node %q: %w", id, ErrNotFound)
	}
	if n.IsLeaf() {
		return nil
	}
	return st.SetOpen(id, !n.Open)
}

// SetRoot re-roots the tree at the given node, discarding every node
// outside its subtree. Levels are renormalized so the new root sits at 0,
// and its parent reference is cleared; selection states are untouched.
func (st *Store) SetRoot(id string) error {
	chosen, ok := st.snap.Node(id)
	if !ok {
		return fmt.Errorf("set root: node %q: %w", id, ErrNotFound)
	}
	if id == st.snap.rootID {
		return nil
	}

	shift := chosen.Level
	nodes := make(map[string]*Node)
	for _, subID := range st.snap.subtreeIDs(id) {
		n := st.snap.nodes[subID].Clone()
		n.Level -= shift
		nodes[subID] = n
	}
	nodes[id].Parent = ""

	st.snap = &Snapshot{nodes: nodes, rootID: id}
	return nil
}

// EditLabel replaces a node's label in place. No other field changes.
func (st *Store) EditLabel(id, label string) error {
	if !st.snap.Has(id) {
		return fmt.Errorf("edit label: node %q: %w", id, ErrNotFound)
	}
	next := st.snap.clone()
	next.nodes[id].Label = label
	st.snap = next
	return nil
}

// Reset discards the whole tree and installs a fresh single-root one.
func (st *Store) Reset() {
	st.snap = st.freshTree()
}

// Restore reinstalls a previously obtained snapshot. Snapshots are
// immutable, so this is safe at any point; the ID sequence keeps running
// forward, so restored trees never clash with nodes added later.
func (st *Store) Restore(snap *Snapshot) {
	if snap != nil {
		st.snap = snap
	}
}

// recomputeAncestors walks upward from the given node ID to the root,
// recomputing each node's selection from its children. Childless nodes
// keep their current state. Nodes outside the ancestor chain are never
// touched.
func recomputeAncestors(s *Snapshot, id string) {
	for id != "" {
		n, ok := s.nodes[id]
		if !ok {
			return
		}
		if !n.IsLeaf() {
			n.Selection = aggregateSelection(s, n)
		}
		id = n.Parent
	}
}

// removeID removes the first occurrence of id from ids, preserving order.
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
