package scroll

import (
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

func wrapIndex(i, n int, infinite bool) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if i >= 0 && i < n {
		return i, true
	}
	if !infinite {
		return i, false
	}
	return ((i % n) + n) % n, true
}

// FocusDirection moves the selection horizontally between columns or
// vertically within the active column's stack (spec §4.3 "Navigation").
func (w *Workspace) FocusDirection(dir geom.Direction) bool {
	switch dir {
	case geom.DirLeft:
		return w.FocusColumnIndex(w.ActiveColumnIndex - 1)
	case geom.DirRight:
		return w.FocusColumnIndex(w.ActiveColumnIndex + 1)
	case geom.DirUp:
		return w.focusRow(-1)
	case geom.DirDown:
		return w.focusRow(1)
	}
	return false
}

func (w *Workspace) focusRow(delta int) bool {
	col := w.activeColumn()
	if col == nil || len(col.Windows) == 0 {
		return false
	}
	cur := 0
	if w.SelectedNodeID != nil {
		if idx := col.indexOfWindow(*w.SelectedNodeID); idx >= 0 {
			cur = idx
		}
	}
	next, ok := wrapIndex(cur+delta, len(col.Windows), w.InfiniteLoop)
	if !ok {
		return false
	}
	if col.IsTabbed {
		col.ActiveTileIdx = next
	}
	id := col.Windows[next].ID
	w.SelectedNodeID = &id
	return true
}

// FocusColumnIndex selects column i's active tile (spec §4.3
// focus_column(i)).
func (w *Workspace) FocusColumnIndex(i int) bool {
	idx, ok := wrapIndex(i, len(w.Columns), w.InfiniteLoop)
	if !ok {
		return false
	}
	w.ActiveColumnIndex = idx
	col := w.Columns[idx]
	if t := col.activeTile(); t != nil {
		id := t.ID
		w.SelectedNodeID = &id
	}
	return true
}

// FocusColumnFirst/FocusColumnLast implement spec §4.3's named jumps.
func (w *Workspace) FocusColumnFirst() bool { return w.FocusColumnIndex(0) }
func (w *Workspace) FocusColumnLast() bool  { return w.FocusColumnIndex(len(w.Columns) - 1) }

// FocusWindowTop/FocusWindowBottom select the extreme row of the active
// column's stack (spec §4.3).
func (w *Workspace) FocusWindowTop() bool {
	col := w.activeColumn()
	if col == nil || len(col.Windows) == 0 {
		return false
	}
	id := col.Windows[0].ID
	w.SelectedNodeID = &id
	if col.IsTabbed {
		col.ActiveTileIdx = 0
	}
	return true
}

func (w *Workspace) FocusWindowBottom() bool {
	col := w.activeColumn()
	if col == nil || len(col.Windows) == 0 {
		return false
	}
	last := len(col.Windows) - 1
	id := col.Windows[last].ID
	w.SelectedNodeID = &id
	if col.IsTabbed {
		col.ActiveTileIdx = last
	}
	return true
}

// FocusUpOrRight/FocusDownOrLeft combine intra-column vertical traversal
// with inter-column horizontal traversal at the stack's edge (spec
// §4.3): moving up past the first row in the column jumps right to the
// next column (taking its top row), and moving down past the last row
// jumps left (taking the previous column's bottom row).
func (w *Workspace) FocusUpOrRight() bool {
	col := w.activeColumn()
	if col != nil && len(col.Windows) > 1 && w.SelectedNodeID != nil {
		if idx := col.indexOfWindow(*w.SelectedNodeID); idx > 0 {
			return w.focusRow(-1)
		}
	}
	if ok := w.FocusColumnIndex(w.ActiveColumnIndex + 1); ok {
		return w.FocusWindowTop()
	}
	return false
}

func (w *Workspace) FocusDownOrLeft() bool {
	col := w.activeColumn()
	if col != nil && len(col.Windows) > 1 {
		if w.SelectedNodeID != nil {
			if idx := col.indexOfWindow(*w.SelectedNodeID); idx >= 0 && idx < len(col.Windows)-1 {
				return w.focusRow(1)
			}
		}
	}
	if ok := w.FocusColumnIndex(w.ActiveColumnIndex - 1); ok {
		return w.FocusWindowBottom()
	}
	return false
}

// SelectedColumn returns the active column (nil if there is none) and
// its index. The scroll engine tracks only the single current selection;
// last-focused memory lives in the focus controller (component C5).
func (w *Workspace) SelectedColumn() (*Column, int) {
	return w.activeColumn(), w.ActiveColumnIndex
}

// NodeWindow resolves a node id to its ScrollWindow, or nil.
func (w *Workspace) NodeWindow(id model.NodeID) *ScrollWindow {
	for _, c := range w.Columns {
		if idx := c.indexOfWindow(id); idx >= 0 {
			return c.Windows[idx]
		}
	}
	return nil
}
