package scroll

import (
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// MoveWindow swaps adjacent tiles inside a column for up/down (spec §4.3
// move_window). For left/right it expels the window into a new
// single-window column beside its current one; the window never joins
// the neighboring column, and a window alone in its column stays in
// place (its column is replaced by the new one).
func (w *Workspace) MoveWindow(id model.NodeID, dir geom.Direction) bool {
	col, colIdx := w.ColumnOf(id)
	if col == nil {
		return false
	}
	rowIdx := col.indexOfWindow(id)

	switch dir {
	case geom.DirUp, geom.DirDown:
		delta := 1
		if dir == geom.DirUp {
			delta = -1
		}
		target := rowIdx + delta
		if target < 0 || target >= len(col.Windows) {
			return false
		}
		col.Windows[rowIdx], col.Windows[target] = col.Windows[target], col.Windows[rowIdx]
		return true
	case geom.DirLeft, geom.DirRight:
		return w.expelToNeighbor(col, colIdx, rowIdx, dir)
	}
	return false
}

// expelToNeighbor removes the window at rowIdx from col and places it
// into a new single-window column adjacent to col in direction dir (spec
// §4.3: "at column boundaries, an expelled window becomes its own
// column").
func (w *Workspace) expelToNeighbor(col *Column, colIdx, rowIdx int, dir geom.Direction) bool {
	if rowIdx < 0 || rowIdx >= len(col.Windows) {
		return false
	}
	win := col.Windows[rowIdx]
	col.Windows = append(col.Windows[:rowIdx], col.Windows[rowIdx+1:]...)
	if col.ActiveTileIdx >= len(col.Windows) && len(col.Windows) > 0 {
		col.ActiveTileIdx = len(col.Windows) - 1
	}

	newCol := &Column{ID: model.NewNodeID(), Windows: []*ScrollWindow{win}}
	insertAt := colIdx
	if dir == geom.DirRight {
		insertAt = colIdx + 1
	}
	if len(col.Windows) == 0 {
		// The source column is now empty; replace it in place instead of
		// leaving an empty column alongside the new one.
		w.Columns[colIdx] = newCol
	} else {
		w.Columns = append(w.Columns, nil)
		copy(w.Columns[insertAt+1:], w.Columns[insertAt:])
		w.Columns[insertAt] = newCol
	}
	id := win.ID
	w.SelectedNodeID = &id
	w.ActiveColumnIndex = w.indexOfColumn(newCol)
	return true
}

func (w *Workspace) indexOfColumn(col *Column) int {
	for i, c := range w.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// SwapWindow exchanges the window at id with its neighbor in dir without
// changing column count (spec §4.3 swap_window).
func (w *Workspace) SwapWindow(id model.NodeID, dir geom.Direction) bool {
	col, colIdx := w.ColumnOf(id)
	if col == nil {
		return false
	}
	rowIdx := col.indexOfWindow(id)

	switch dir {
	case geom.DirUp, geom.DirDown:
		delta := 1
		if dir == geom.DirUp {
			delta = -1
		}
		target := rowIdx + delta
		if target < 0 || target >= len(col.Windows) {
			return false
		}
		col.Windows[rowIdx], col.Windows[target] = col.Windows[target], col.Windows[rowIdx]
		return true
	case geom.DirLeft, geom.DirRight:
		otherIdx := colIdx - 1
		if dir == geom.DirRight {
			otherIdx = colIdx + 1
		}
		if otherIdx < 0 || otherIdx >= len(w.Columns) {
			return false
		}
		other := w.Columns[otherIdx]
		otherRow := rowIdx
		if otherRow >= len(other.Windows) {
			otherRow = len(other.Windows) - 1
		}
		if otherRow < 0 {
			return false
		}
		col.Windows[rowIdx], other.Windows[otherRow] = other.Windows[otherRow], col.Windows[rowIdx]
		return true
	}
	return false
}

// MoveColumn moves the entire column at colIdx one slot left or right in
// the ordered strip (spec §4.3 move_column).
func (w *Workspace) MoveColumn(colIdx int, dir geom.Direction) bool {
	target := colIdx
	switch dir {
	case geom.DirLeft:
		target = colIdx - 1
	case geom.DirRight:
		target = colIdx + 1
	default:
		return false
	}
	if target < 0 || target >= len(w.Columns) {
		return false
	}
	w.Columns[colIdx], w.Columns[target] = w.Columns[target], w.Columns[colIdx]
	if w.ActiveColumnIndex == colIdx {
		w.ActiveColumnIndex = target
	} else if w.ActiveColumnIndex == target {
		w.ActiveColumnIndex = colIdx
	}
	return true
}

// ConsumeWindow pulls the nearest window of the neighboring column in
// `from` into the column at colIdx (spec §4.3 consume_window). If that
// neighbor becomes empty, it is removed from the strip.
func (w *Workspace) ConsumeWindow(colIdx int, from geom.Direction) bool {
	neighborIdx := colIdx - 1
	if from == geom.DirRight {
		neighborIdx = colIdx + 1
	}
	if colIdx < 0 || colIdx >= len(w.Columns) || neighborIdx < 0 || neighborIdx >= len(w.Columns) {
		return false
	}
	neighbor := w.Columns[neighborIdx]
	if len(neighbor.Windows) == 0 {
		return false
	}

	var pulled *ScrollWindow
	if from == geom.DirLeft {
		// Nearest to this column is the neighbor's last window.
		last := len(neighbor.Windows) - 1
		pulled = neighbor.Windows[last]
		neighbor.Windows = neighbor.Windows[:last]
	} else {
		pulled = neighbor.Windows[0]
		neighbor.Windows = neighbor.Windows[1:]
	}

	col := w.Columns[colIdx]
	col.Windows = append(col.Windows, pulled)

	if len(neighbor.Windows) == 0 {
		w.Columns = append(w.Columns[:neighborIdx], w.Columns[neighborIdx+1:]...)
		if w.ActiveColumnIndex > neighborIdx {
			w.ActiveColumnIndex--
		}
	}
	return true
}

// ExpelWindow is the inverse of ConsumeWindow: it ejects the window at
// id out of its column into a new column placed toward `to` (spec §4.3
// expel_window).
func (w *Workspace) ExpelWindow(id model.NodeID, to geom.Direction) bool {
	col, colIdx := w.ColumnOf(id)
	if col == nil || len(col.Windows) < 2 {
		return false
	}
	rowIdx := col.indexOfWindow(id)
	return w.expelToNeighbor(col, colIdx, rowIdx, to)
}

// ToggleColumnTabbed flips the focused column's tabbed bit (spec §4.3
// toggle_column_tabbed).
func (w *Workspace) ToggleColumnTabbed() bool {
	col := w.activeColumn()
	if col == nil {
		return false
	}
	col.IsTabbed = !col.IsTabbed
	return true
}

// ToggleColumnWidth advances the focused column's width-preset cursor
// with wrap (spec §4.3 toggle_column_width).
func (w *Workspace) ToggleColumnWidth(forward bool) bool {
	col := w.activeColumn()
	if col == nil || len(w.WidthPresets) == 0 {
		return false
	}
	n := len(w.WidthPresets)
	if forward {
		col.WidthPresetCursor = (col.WidthPresetCursor + 1) % n
	} else {
		col.WidthPresetCursor = (col.WidthPresetCursor - 1 + n) % n
	}
	return true
}

// ToggleFullWidth snaps the focused column to occupy the entire working
// area, remembering the preset cursor it came from so toggling off lands
// back on that exact preset rather than the first one (spec §4.3
// toggle_full_width).
func (w *Workspace) ToggleFullWidth() bool {
	col := w.activeColumn()
	if col == nil || len(w.WidthPresets) == 0 {
		return false
	}
	fullIdx := len(w.WidthPresets) - 1
	if col.WidthPresetCursor == fullIdx {
		col.WidthPresetCursor = col.PrevWidthPresetCursor
	} else {
		col.PrevWidthPresetCursor = col.WidthPresetCursor
		col.WidthPresetCursor = fullIdx
	}
	return true
}

// BalanceSizes sets all column widths equal within the working area
// (spec §4.3 balance_sizes, invariant I5) by resetting every column's
// preset cursor to 0 and setting an equal 1/n proportion that the next
// layout pass applies in place of the presets.
func (w *Workspace) BalanceSizes() {
	if len(w.Columns) == 0 {
		return
	}
	for _, c := range w.Columns {
		c.CachedWidth = 0 // recomputed by the next layout pass
		c.WidthPresetCursor = 0
	}
	w.balancedProportion = 1.0 / float64(len(w.Columns))
}

// ToggleFullscreen marks/unmarks the selected window as fullscreen
// (spec §3 invariant 5: at most one window per workspace is
// is_fullscreen).
func (w *Workspace) ToggleFullscreen(id model.NodeID) bool {
	win := w.NodeWindow(id)
	if win == nil {
		return false
	}
	if win.IsFullscreen {
		win.IsFullscreen = false
		return true
	}
	for _, c := range w.Columns {
		for _, other := range c.Windows {
			other.IsFullscreen = false
		}
	}
	win.IsFullscreen = true
	return true
}
