package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/rertyy/treeview/pkg/tree"
)

func testTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(nil))
}

// buildTestStore creates a tree for navigation tests:
//
//	Root
//	├── A
//	├── B
//	│   └── C
//	└── D
//	    ├── E
//	    └── F
//
// Returned map is keyed by label, plus "root".
func buildTestStore(t *testing.T) (*tree.Store, map[string]string) {
	t.Helper()
	store := tree.New()
	ids := map[string]string{"root": store.Snapshot().RootID()}
	add := func(parentKey, label string) {
		id, err := store.AddChild(ids[parentKey], label)
		if err != nil {
			t.Fatalf("AddChild(%s, %s): %v", parentKey, label, err)
		}
		ids[label] = id
	}
	add("root", "A")
	add("root", "B")
	add("B", "C")
	add("root", "D")
	add("D", "E")
	add("D", "F")
	return store, ids
}

// TestTreeRebuildFlattensOpenNodes verifies the visible row order follows
// pre-order traversal of open nodes
func TestTreeRebuildFlattensOpenNodes(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	if tv.RowCount() != 7 {
		t.Fatalf("expected 7 visible rows, got %d", tv.RowCount())
	}
	wantOrder := []string{ids["root"], ids["A"], ids["B"], ids["C"], ids["D"], ids["E"], ids["F"]}
	for i, want := range wantOrder {
		if tv.flat[i] != want {
			t.Errorf("row %d: expected %s, got %s", i, want, tv.flat[i])
		}
	}
}

// TestTreeRebuildHidesClosedSubtrees verifies children of closed nodes are
// not visible
func TestTreeRebuildHidesClosedSubtrees(t *testing.T) {
	store, ids := buildTestStore(t)
	if err := store.SetOpen(ids["D"], false); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}

	tv := NewTreeModel(store, testTheme())
	if tv.RowCount() != 5 {
		t.Errorf("expected 5 visible rows with D closed, got %d", tv.RowCount())
	}
	for _, id := range tv.flat {
		if id == ids["E"] || id == ids["F"] {
			t.Errorf("expected children of closed D to be hidden, found %s", id)
		}
	}
}

// TestTreeNavigation verifies cursor movement through visible rows
func TestTreeNavigation(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected initial selection root, got %s", tv.SelectedID())
	}

	tv.MoveDown()
	if tv.SelectedID() != ids["A"] {
		t.Errorf("expected A after MoveDown, got %s", tv.SelectedID())
	}

	tv.MoveUp()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root after MoveUp, got %s", tv.SelectedID())
	}

	// MoveUp at the top stays put
	tv.MoveUp()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root to stay selected at top, got %s", tv.SelectedID())
	}

	tv.JumpToBottom()
	if tv.SelectedID() != ids["F"] {
		t.Errorf("expected F after JumpToBottom, got %s", tv.SelectedID())
	}

	// MoveDown at the bottom stays put
	tv.MoveDown()
	if tv.SelectedID() != ids["F"] {
		t.Errorf("expected F to stay selected at bottom, got %s", tv.SelectedID())
	}

	tv.JumpToTop()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root after JumpToTop, got %s", tv.SelectedID())
	}
}

// TestTreeJumpToParent verifies parent navigation
func TestTreeJumpToParent(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	if !tv.SelectByID(ids["C"]) {
		t.Fatal("SelectByID failed to find C")
	}
	tv.JumpToParent()
	if tv.SelectedID() != ids["B"] {
		t.Errorf("expected B after JumpToParent, got %s", tv.SelectedID())
	}

	tv.JumpToParent()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root after second JumpToParent, got %s", tv.SelectedID())
	}

	// At the root, JumpToParent does nothing
	tv.JumpToParent()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root to stay selected, got %s", tv.SelectedID())
	}
}

// TestTreeExpandOrMoveToChild verifies right-arrow behavior
func TestTreeExpandOrMoveToChild(t *testing.T) {
	store, ids := buildTestStore(t)
	if err := store.SetOpen(ids["B"], false); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	tv := NewTreeModel(store, testTheme())

	// On a closed interior node: expand, cursor stays
	tv.SelectByID(ids["B"])
	tv.ExpandOrMoveToChild()
	if tv.SelectedID() != ids["B"] {
		t.Errorf("expected cursor to stay on B after expanding, got %s", tv.SelectedID())
	}
	if n, _ := store.Snapshot().Node(ids["B"]); !n.Open {
		t.Error("expected B to be open after ExpandOrMoveToChild")
	}

	// On an open interior node: descend to first child
	tv.ExpandOrMoveToChild()
	if tv.SelectedID() != ids["C"] {
		t.Errorf("expected C after descending into B, got %s", tv.SelectedID())
	}

	// On a leaf: no-op
	tv.ExpandOrMoveToChild()
	if tv.SelectedID() != ids["C"] {
		t.Errorf("expected cursor to stay on leaf C, got %s", tv.SelectedID())
	}
}

// TestTreeCollapseOrJumpToParent verifies left-arrow behavior
func TestTreeCollapseOrJumpToParent(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	// On an open interior node: collapse
	tv.SelectByID(ids["D"])
	tv.CollapseOrJumpToParent()
	if n, _ := store.Snapshot().Node(ids["D"]); n.Open {
		t.Error("expected D to be closed after CollapseOrJumpToParent")
	}
	if tv.SelectedID() != ids["D"] {
		t.Errorf("expected cursor to stay on D, got %s", tv.SelectedID())
	}

	// On a closed node: jump to parent
	tv.CollapseOrJumpToParent()
	if tv.SelectedID() != ids["root"] {
		t.Errorf("expected root after second CollapseOrJumpToParent, got %s", tv.SelectedID())
	}

	// On a leaf: jump to parent
	tv.SelectByID(ids["C"])
	tv.CollapseOrJumpToParent()
	if tv.SelectedID() != ids["B"] {
		t.Errorf("expected B after collapsing from leaf C, got %s", tv.SelectedID())
	}
}

// TestTreeCursorClampAfterDelete verifies the cursor clamps when rows
// disappear under it
func TestTreeCursorClampAfterDelete(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	tv.JumpToBottom()
	if err := store.DeleteNode(ids["D"]); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	tv.Rebuild()

	if tv.RowCount() != 4 {
		t.Fatalf("expected 4 rows after deleting D subtree, got %d", tv.RowCount())
	}
	if tv.SelectedID() != ids["C"] {
		t.Errorf("expected cursor clamped to last row C, got %s", tv.SelectedID())
	}
}

// TestTreeSelectByID verifies cursor restoration by ID
func TestTreeSelectByID(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())

	if !tv.SelectByID(ids["E"]) {
		t.Fatal("SelectByID failed to find E")
	}
	if tv.SelectedID() != ids["E"] {
		t.Errorf("expected E selected, got %s", tv.SelectedID())
	}

	if tv.SelectByID("nonexistent") {
		t.Error("SelectByID should return false for unknown ID")
	}
	if tv.SelectedID() != ids["E"] {
		t.Errorf("cursor should not move after failed SelectByID, got %s", tv.SelectedID())
	}

	// Hidden rows are not selectable
	if err := store.SetOpen(ids["D"], false); err != nil {
		t.Fatalf("SetOpen: %v", err)
	}
	tv.Rebuild()
	if tv.SelectByID(ids["E"]) {
		t.Error("SelectByID should return false for a hidden node")
	}
}

// TestTreePageNavigation verifies half-viewport paging
func TestTreePageNavigation(t *testing.T) {
	store := tree.New()
	rootID := store.Snapshot().RootID()
	for i := 0; i < 19; i++ {
		if _, err := store.AddChild(rootID, fmt.Sprintf("item %d", i)); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}

	tv := NewTreeModel(store, testTheme())
	tv.SetSize(80, 10) // page size 5

	tv.PageDown()
	if tv.cursor != 5 {
		t.Errorf("expected cursor at 5 after PageDown, got %d", tv.cursor)
	}
	tv.PageDown()
	if tv.cursor != 10 {
		t.Errorf("expected cursor at 10 after 2nd PageDown, got %d", tv.cursor)
	}
	tv.PageUp()
	if tv.cursor != 5 {
		t.Errorf("expected cursor at 5 after PageUp, got %d", tv.cursor)
	}

	tv.JumpToBottom()
	tv.PageDown()
	if tv.cursor != 19 {
		t.Errorf("expected cursor at 19 (end), got %d", tv.cursor)
	}
}

// TestVisibleRange verifies viewport clamping
func TestVisibleRange(t *testing.T) {
	tests := []struct {
		name      string
		rowCount  int
		height    int
		offset    int
		wantStart int
		wantEnd   int
	}{
		{"empty tree", 0, 10, 0, 0, 0},
		{"fewer rows than viewport", 5, 10, 0, 0, 5},
		{"exact fit", 10, 10, 0, 0, 10},
		{"offset in middle", 100, 10, 45, 45, 55},
		{"offset near end", 100, 10, 90, 90, 100},
		{"zero height uses default 20", 100, 0, 0, 0, 20},
		{"single row", 1, 10, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tv := TreeModel{theme: testTheme(), height: tt.height, viewportOffset: tt.offset}
			tv.flat = make([]string, tt.rowCount)
			for i := range tv.flat {
				tv.flat[i] = fmt.Sprintf("n%d", i)
			}

			gotStart, gotEnd := tv.visibleRange()
			if gotStart != tt.wantStart || gotEnd != tt.wantEnd {
				t.Errorf("visibleRange() = (%d, %d), want (%d, %d)",
					gotStart, gotEnd, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

// TestTreeViewRendering verifies View() output contains labels, branch
// characters and checkbox glyphs
func TestTreeViewRendering(t *testing.T) {
	store, ids := buildTestStore(t)
	if err := store.SetSelected(ids["E"]); err != nil {
		t.Fatalf("SetSelected: %v", err)
	}

	tv := NewTreeModel(store, testTheme())
	tv.SetSize(100, 30)
	view := tv.View()

	for _, label := range []string{"Root", "A", "B", "C", "D", "E", "F"} {
		if !strings.Contains(view, label) {
			t.Errorf("expected %q in view, got:\n%s", label, view)
		}
	}
	if !strings.Contains(view, "└") || !strings.Contains(view, "├") {
		t.Errorf("expected branch characters in view, got:\n%s", view)
	}
	// D is Partial (E selected, F not), E is Selected, A is Unselected
	for _, glyph := range []string{glyphUnselected, glyphPartial, glyphSelected} {
		if !strings.Contains(view, glyph) {
			t.Errorf("expected checkbox glyph %q in view, got:\n%s", glyph, view)
		}
	}
}

// TestTreeViewSingleRoot verifies View() on a store with just the root
func TestTreeViewSingleRoot(t *testing.T) {
	store := tree.New()
	tv := NewTreeModel(store, testTheme())
	tv.SetSize(80, 20)

	view := tv.View()
	if !strings.Contains(view, "Root") {
		t.Errorf("expected root label in view, got:\n%s", view)
	}
	if !strings.Contains(view, "•") {
		t.Errorf("expected leaf indicator for childless root, got:\n%s", view)
	}
}

// TestExpandIndicator verifies the expand/collapse glyph per node shape
func TestExpandIndicator(t *testing.T) {
	leaf := &tree.Node{ID: "leaf"}
	if got := expandIndicator(leaf); got != "•" {
		t.Errorf("leaf indicator = %q, want %q", got, "•")
	}

	open := &tree.Node{ID: "open", Children: []string{"c"}, Open: true}
	if got := expandIndicator(open); got != "▾" {
		t.Errorf("open indicator = %q, want %q", got, "▾")
	}

	closed := &tree.Node{ID: "closed", Children: []string{"c"}}
	if got := expandIndicator(closed); got != "▸" {
		t.Errorf("closed indicator = %q, want %q", got, "▸")
	}
}

// TestBranchPrefix verifies branch drawing for middle and last children
func TestBranchPrefix(t *testing.T) {
	store, ids := buildTestStore(t)
	tv := NewTreeModel(store, testTheme())
	snap := store.Snapshot()

	rootNode, _ := snap.Node(ids["root"])
	if got := tv.buildBranchPrefix(snap, rootNode); got != "" {
		t.Errorf("root prefix = %q, want empty", got)
	}

	a, _ := snap.Node(ids["A"])
	if got := tv.buildBranchPrefix(snap, a); got != "├── " {
		t.Errorf("A prefix = %q, want %q", got, "├── ")
	}

	d, _ := snap.Node(ids["D"])
	if got := tv.buildBranchPrefix(snap, d); got != "└── " {
		t.Errorf("D prefix = %q, want %q", got, "└── ")
	}

	// C sits under B, which has D below it, so the rule continues
	c, _ := snap.Node(ids["C"])
	if got := tv.buildBranchPrefix(snap, c); got != "│   └── " {
		t.Errorf("C prefix = %q, want %q", got, "│   └── ")
	}

	// F is the last child of the last child, so no rule above it
	f, _ := snap.Node(ids["F"])
	if got := tv.buildBranchPrefix(snap, f); got != "    └── " {
		t.Errorf("F prefix = %q, want %q", got, "    └── ")
	}
}
