package ui

import "github.com/rertyy/treeview/pkg/tree"

// historyLimit caps how many snapshots the undo stack retains.
const historyLimit = 100

// history is an undo stack of store snapshots. Snapshots are immutable,
// so remembering one is just keeping its pointer; no copying happens.
type history struct {
	past []*tree.Snapshot
}

// Push records a snapshot as an undo point. Pushing the snapshot that is
// already on top is a no-op, so callers can push unconditionally before
// every operation.
func (h *history) Push(snap *tree.Snapshot) {
	if snap == nil {
		return
	}
	if n := len(h.past); n > 0 && h.past[n-1] == snap {
		return
	}
	h.past = append(h.past, snap)
	if len(h.past) > historyLimit {
		h.past = h.past[len(h.past)-historyLimit:]
	}
}

// Pop returns the most recent undo point, or nil when there is none.
func (h *history) Pop() *tree.Snapshot {
	n := len(h.past)
	if n == 0 {
		return nil
	}
	snap := h.past[n-1]
	h.past = h.past[:n-1]
	return snap
}

// Len returns the number of stored undo points.
func (h *history) Len() int {
	return len(h.past)
}

// Clear drops all undo points. Used when the tree is replaced wholesale,
// such as a seed file reload.
func (h *history) Clear() {
	h.past = nil
}
