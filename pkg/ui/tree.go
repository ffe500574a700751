// tree.go - renders a tree store snapshot as navigable indented rows.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rertyy/treeview/pkg/tree"
)

// Checkbox glyphs for the three selection states. The indeterminate glyph
// is a pure rendering choice; the store only exposes the three values.
const (
	glyphUnselected = "☐"
	glyphPartial    = "▣"
	glyphSelected   = "☑"
)

// TreeModel manages cursor navigation and rendering over the current
// store snapshot. Only children of open nodes are visible; the visible
// rows are kept as a flattened ID list that is rebuilt after every
// mutation.
type TreeModel struct {
	store  *tree.Store
	flat   []string // visible node IDs in display order
	cursor int
	theme  Theme

	width          int
	height         int
	viewportOffset int // index of first visible row
}

// NewTreeModel creates a tree view over the given store.
func NewTreeModel(store *tree.Store, theme Theme) TreeModel {
	t := TreeModel{store: store, theme: theme}
	t.Rebuild()
	return t
}

// SetSize updates the available dimensions for the tree view
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.scrollToCursor()
}

// Rebuild reflattens the visible rows from the current snapshot and
// clamps the cursor. Call after every store mutation.
func (t *TreeModel) Rebuild() {
	snap := t.store.Snapshot()
	t.flat = t.flat[:0]
	t.appendVisible(snap, snap.RootID())
	if t.cursor >= len(t.flat) {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.scrollToCursor()
}

// appendVisible adds a node and, when it is open, its visible descendants.
func (t *TreeModel) appendVisible(snap *tree.Snapshot, id string) {
	n, ok := snap.Node(id)
	if !ok {
		return
	}
	t.flat = append(t.flat, id)
	if n.Open {
		for _, childID := range n.Children {
			t.appendVisible(snap, childID)
		}
	}
}

// SelectedID returns the node ID under the cursor, or empty string.
func (t *TreeModel) SelectedID() string {
	if t.cursor >= 0 && t.cursor < len(t.flat) {
		return t.flat[t.cursor]
	}
	return ""
}

// SelectedNode returns the node under the cursor, or nil.
func (t *TreeModel) SelectedNode() *tree.Node {
	if id := t.SelectedID(); id != "" {
		if n, ok := t.store.Snapshot().Node(id); ok {
			return n
		}
	}
	return nil
}

// SelectByID moves the cursor to the given node if it is visible.
// Returns true if found. Useful for keeping the cursor in place across a
// rebuild.
func (t *TreeModel) SelectByID(id string) bool {
	for i, v := range t.flat {
		if v == id {
			t.cursor = i
			t.scrollToCursor()
			return true
		}
	}
	return false
}

// RowCount returns the number of visible rows.
func (t *TreeModel) RowCount() int {
	return len(t.flat)
}

// MoveDown moves the cursor down one visible row.
func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flat)-1 {
		t.cursor++
		t.scrollToCursor()
	}
}

// MoveUp moves the cursor up one visible row.
func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.scrollToCursor()
	}
}

// JumpToTop moves the cursor to the first row.
func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.scrollToCursor()
}

// JumpToBottom moves the cursor to the last row.
func (t *TreeModel) JumpToBottom() {
	if len(t.flat) > 0 {
		t.cursor = len(t.flat) - 1
		t.scrollToCursor()
	}
}

// PageDown moves the cursor down by half a viewport.
func (t *TreeModel) PageDown() {
	t.cursor += t.pageSize()
	if t.cursor >= len(t.flat) {
		t.cursor = len(t.flat) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.scrollToCursor()
}

// PageUp moves the cursor up by half a viewport.
func (t *TreeModel) PageUp() {
	t.cursor -= t.pageSize()
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.scrollToCursor()
}

func (t *TreeModel) pageSize() int {
	size := t.height / 2
	if size < 1 {
		size = 5
	}
	return size
}

// JumpToParent moves the cursor to the parent of the current node.
// At the root it does nothing.
func (t *TreeModel) JumpToParent() {
	n := t.SelectedNode()
	if n == nil || n.Parent == "" {
		return
	}
	t.SelectByID(n.Parent)
}

// ExpandOrMoveToChild handles the right-arrow / l key: expand a closed
// interior node, descend into an open one, ignore leaves.
func (t *TreeModel) ExpandOrMoveToChild() {
	n := t.SelectedNode()
	if n == nil || n.IsLeaf() {
		return
	}
	if !n.Open {
		if err := t.store.SetOpen(n.ID, true); err == nil {
			t.Rebuild()
		}
		return
	}
	t.SelectByID(n.Children[0])
}

// CollapseOrJumpToParent handles the left-arrow / h key: collapse an open
// interior node, otherwise jump to the parent.
func (t *TreeModel) CollapseOrJumpToParent() {
	n := t.SelectedNode()
	if n == nil {
		return
	}
	if !n.IsLeaf() && n.Open {
		if err := t.store.SetOpen(n.ID, false); err == nil {
			t.Rebuild()
		}
		return
	}
	t.JumpToParent()
}

// scrollToCursor adjusts the viewport offset so the cursor stays visible.
func (t *TreeModel) scrollToCursor() {
	visible := t.height
	if visible <= 0 {
		visible = 20
	}
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visible {
		t.viewportOffset = t.cursor - visible + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// visibleRange returns the [start, end) row indices covered by the viewport.
func (t *TreeModel) visibleRange() (start, end int) {
	if len(t.flat) == 0 {
		return 0, 0
	}
	visible := t.height
	if visible <= 0 {
		visible = 20
	}
	start = t.viewportOffset
	end = start + visible
	if end > len(t.flat) {
		end = len(t.flat)
	}
	if start > end {
		start = end
	}
	return start, end
}

// View renders the visible rows.
func (t *TreeModel) View() string {
	if len(t.flat) == 0 {
		return t.theme.Status.Render("Empty tree.")
	}

	snap := t.store.Snapshot()
	var sb strings.Builder
	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		n, ok := snap.Node(t.flat[i])
		if !ok {
			continue
		}
		line := t.renderNode(snap, n)
		if i == t.cursor {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderNode renders a single row: branch prefix, expand indicator,
// checkbox, label.
func (t *TreeModel) renderNode(snap *tree.Snapshot, n *tree.Node) string {
	var sb strings.Builder

	prefix := t.buildBranchPrefix(snap, n)
	sb.WriteString(t.theme.Branch.Render(prefix))

	sb.WriteString(t.theme.Indicator.Render(expandIndicator(n)))
	sb.WriteString(" ")

	checkbox, style := t.checkboxGlyph(n.Selection)
	sb.WriteString(style.Render(checkbox))
	sb.WriteString(" ")

	maxLabel := t.width - lipgloss.Width(prefix) - 6
	if maxLabel < 12 {
		maxLabel = 12
	}
	sb.WriteString(truncateLabel(n.Label, maxLabel))

	return sb.String()
}

// buildBranchPrefix builds the indentation and branch characters for a
// node: a vertical rule per ancestor level that still has siblings below,
// then the branch character for the node itself.
func (t *TreeModel) buildBranchPrefix(snap *tree.Snapshot, n *tree.Node) string {
	if n.Parent == "" {
		return ""
	}

	// Path from the first node below root down to n.
	var path []*tree.Node
	for cur := n; cur.Parent != ""; {
		path = append([]*tree.Node{cur}, path...)
		parent, ok := snap.Node(cur.Parent)
		if !ok {
			break
		}
		cur = parent
	}

	var parts []string
	for i := 0; i < len(path)-1; i++ {
		if hasSiblingsBelow(snap, path[i]) {
			parts = append(parts, "│   ")
		} else {
			parts = append(parts, "    ")
		}
	}
	if isLastChild(snap, n) {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return strings.Join(parts, "")
}

// expandIndicator returns the expand/collapse glyph for a node.
func expandIndicator(n *tree.Node) string {
	if n.IsLeaf() {
		return "•"
	}
	if n.Open {
		return "▾"
	}
	return "▸"
}

func (t *TreeModel) checkboxGlyph(sel tree.Selection) (string, lipgloss.Style) {
	r := t.theme.Renderer
	switch sel {
	case tree.Selected:
		return glyphSelected, r.NewStyle().Foreground(t.theme.SelectedColor)
	case tree.Partial:
		return glyphPartial, r.NewStyle().Foreground(t.theme.PartialColor)
	default:
		return glyphUnselected, t.theme.Checkbox
	}
}

// hasSiblingsBelow checks if a node has siblings after it in its parent's
// child list.
func hasSiblingsBelow(snap *tree.Snapshot, n *tree.Node) bool {
	if n.Parent == "" {
		return false
	}
	parent, ok := snap.Node(n.Parent)
	if !ok {
		return false
	}
	for i, siblingID := range parent.Children {
		if siblingID == n.ID {
			return i < len(parent.Children)-1
		}
	}
	return false
}

// isLastChild checks if a node is the last child of its parent.
func isLastChild(snap *tree.Snapshot, n *tree.Node) bool {
	return n.Parent != "" && !hasSiblingsBelow(snap, n)
}
