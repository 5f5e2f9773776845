package scroll

import (
	"github.com/stratawm/strata/model"
)

// Edge is a side of a tile hit by an interactive resize gesture (spec
// §4.3 "Interactive resize"). Multiple edges can be active at once
// (corner drags).
type Edge int

const (
	EdgeLeft Edge = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// ResizeGesture tracks an in-flight interactive resize (spec §4.3
// "Interactive resize"): on begin, capture the column's current width
// and the window's row height plus constraints; on update, apply deltas
// clamped to those constraints. Working-area bounds are not applied, and
// UpdateResize writes nothing itself: it returns the new sizes.
type ResizeGesture struct {
	ColumnID       model.NodeID
	WindowID       model.NodeID
	Edges          Edge
	StartWidth     int
	StartRowHeight int
	MinW, MinH     int
	MaxW, MaxH     int
	HasMax         bool
}

// BeginResize captures gesture start state for the tile under the
// cursor.
func (w *Workspace) BeginResize(colID, winID model.NodeID, edges Edge, minW, minH, maxW, maxH int, hasMax bool) *ResizeGesture {
	col, _ := w.ColumnOf(winID)
	if col == nil {
		return nil
	}
	rowH := 0
	if win := col.indexOfWindow(winID); win >= 0 {
		rowH = col.Windows[win].CachedFrame.H
	}
	return &ResizeGesture{
		ColumnID: colID, WindowID: winID, Edges: edges,
		StartWidth: col.CachedWidth, StartRowHeight: rowH,
		MinW: minW, MinH: minH, MaxW: maxW, MaxH: maxH, HasMax: hasMax,
	}
}

// UpdateResize applies a pixel delta clamped to the gesture's captured
// constraints, returning the resolved new column width (column-wide
// resizes affect every window in the column; row-height resizes affect
// only the targeted tile and are applied by the caller via per-window
// height overrides, out of scope for this scalar helper).
func (g *ResizeGesture) UpdateResize(deltaW, deltaH int) (newWidth, newHeight int) {
	newWidth = clampInt(g.StartWidth+deltaW, g.MinW, maxOrZero(g.HasMax, g.MaxW))
	newHeight = clampInt(g.StartRowHeight+deltaH, g.MinH, maxOrZero(g.HasMax, g.MaxH))
	return
}

func clampInt(v, min, max int) int {
	if v < min {
		v = min
	}
	if max > 0 && v > max {
		v = max
	}
	return v
}

func maxOrZero(hasMax bool, max int) int {
	if hasMax {
		return max
	}
	return 0
}

// MoveGesture tracks an interactive window drag (spec §4.3 "Interactive
// move"): begin snapshots the origin column index; update records the
// pointer's column-space x; end commits the window to the column under
// the pointer, splitting a new column at a 50%-overlap boundary. No
// dragged column follows the pointer during the gesture, and
// CurrentColIdx is not updated after BeginMove.
type MoveGesture struct {
	WindowID      model.NodeID
	OriginColIdx  int
	PointerX      int
	CurrentColIdx int
}

// BeginMove snapshots gesture start state.
func (w *Workspace) BeginMove(winID model.NodeID) *MoveGesture {
	col, idx := w.ColumnOf(winID)
	if col == nil {
		return nil
	}
	return &MoveGesture{WindowID: winID, OriginColIdx: idx, CurrentColIdx: idx}
}

// UpdateMove tracks the pointer's column-space x.
func (g *MoveGesture) UpdateMove(pointerX int) {
	g.PointerX = pointerX
}

// EndMove commits the dragged window to the column under columnWidths at
// pointerX using a 50%-overlap rule: if the pointer sits within the
// inner half of an existing column's span, the window joins that column;
// otherwise it is expelled into a new column at the nearest boundary.
func (w *Workspace) EndMove(g *MoveGesture, columnWidths []int, gap int) bool {
	x := 0
	for i, width := range columnWidths {
		left := x
		right := x + width
		mid := (left + right) / 2
		overlapLeft := left + width/4
		overlapRight := right - width/4
		if g.PointerX >= overlapLeft && g.PointerX <= overlapRight {
			return w.mergeWindowIntoColumn(g.WindowID, i)
		}
		if g.PointerX < mid {
			return w.splitWindowBeforeColumn(g.WindowID, i)
		}
		x += width + gap
	}
	return w.splitWindowBeforeColumn(g.WindowID, len(columnWidths))
}

func (w *Workspace) mergeWindowIntoColumn(winID model.NodeID, destIdx int) bool {
	src, srcIdx := w.ColumnOf(winID)
	if src == nil || destIdx < 0 || destIdx >= len(w.Columns) {
		return false
	}
	rowIdx := src.indexOfWindow(winID)
	win := src.Windows[rowIdx]
	src.Windows = append(src.Windows[:rowIdx], src.Windows[rowIdx+1:]...)
	dest := w.Columns[destIdx]
	dest.Windows = append(dest.Windows, win)
	if len(src.Windows) == 0 {
		w.Columns = append(w.Columns[:srcIdx], w.Columns[srcIdx+1:]...)
	}
	return true
}

func (w *Workspace) splitWindowBeforeColumn(winID model.NodeID, destIdx int) bool {
	src, srcIdx := w.ColumnOf(winID)
	if src == nil {
		return false
	}
	rowIdx := src.indexOfWindow(winID)
	win := src.Windows[rowIdx]
	src.Windows = append(src.Windows[:rowIdx], src.Windows[rowIdx+1:]...)

	newCol := &Column{ID: model.NewNodeID(), Windows: []*ScrollWindow{win}}
	if len(src.Windows) == 0 {
		w.Columns = append(w.Columns[:srcIdx], w.Columns[srcIdx+1:]...)
		if destIdx > srcIdx {
			destIdx--
		}
	}
	if destIdx < 0 {
		destIdx = 0
	}
	if destIdx > len(w.Columns) {
		destIdx = len(w.Columns)
	}
	w.Columns = append(w.Columns, nil)
	copy(w.Columns[destIdx+1:], w.Columns[destIdx:])
	w.Columns[destIdx] = newCol
	return true
}
