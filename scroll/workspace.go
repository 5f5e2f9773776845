package scroll

import (
	"time"

	"github.com/stratawm/strata/model"
)

// CenterMode controls whether the viewport targets the left edge, right
// edge, or center of the selected column (spec §4.3 "Centering mode").
type CenterMode int

const (
	CenterNever CenterMode = iota
	CenterAlways
	CenterOnOverflow
)

// ColumnRemovalResult is produced when the last window of a column is
// removed during sync (spec §4.3 "Deletion and fallback").
type ColumnRemovalResult struct {
	OriginalColumnIndex      int
	FallbackSelectionID      *model.NodeID
	RestorePreviousViewOffset bool
	// PreviousViewOffset is the view_offset_px the workspace had right
	// before this column was created, valid only when
	// RestorePreviousViewOffset is true.
	PreviousViewOffset float64
}

// Workspace is a scroll engine's per-workspace state (spec §3
// "ViewportState" + the ordered Column strip implied by §4.3).
type Workspace struct {
	Columns           []*Column
	ActiveColumnIndex int
	SelectedNodeID    *model.NodeID

	Viewport *Viewport

	CenterMode               CenterMode
	AlwaysCenterSingleColumn bool
	InfiniteLoop             bool
	WidthPresets             []WidthPreset

	fullscreenColumn *Column
	// balancedProportion is non-zero immediately after BalanceSizes until
	// the next layout pass consumes it, overriding per-column width
	// presets with an equal split (spec §4.3 balance_sizes).
	balancedProportion float64
	// offsetBeforeColumnCreated remembers the viewport offset just prior
	// to each column insertion, keyed by column id,
	// so a later solo-column removal can restore it (spec §4.3, §8
	// scenario 4).
	offsetBeforeColumnCreated map[model.NodeID]float64
	// lastWorkingWidth and lastInnerGap cache the most recent layout
	// pass's working width and inner gap, consulted by SyncWindows to
	// size newly-inserted columns when computing pipeline step 4's
	// view-offset shift, before that pass's own CalculateLayout has run.
	lastWorkingWidth int
	lastInnerGap     int
}

// NewWorkspace creates an empty scroll workspace.
func NewWorkspace(refreshHz float64) *Workspace {
	return &Workspace{
		Viewport:                  NewViewport(refreshHz),
		WidthPresets:              DefaultWidthPresets,
		offsetBeforeColumnCreated: make(map[model.NodeID]float64),
	}
}

func (w *Workspace) columnCount() int { return len(w.Columns) }

// ColumnOf returns the column containing the window with the given node
// id, and its column index, via a linear scan over the columns; the
// engine keeps neither a window-to-column back-pointer nor a secondary
// index.
func (w *Workspace) ColumnOf(id model.NodeID) (*Column, int) {
	for i, c := range w.Columns {
		if c.indexOfWindow(id) >= 0 {
			return c, i
		}
	}
	return nil, -1
}

func (w *Workspace) activeColumn() *Column {
	if w.ActiveColumnIndex < 0 || w.ActiveColumnIndex >= len(w.Columns) {
		return nil
	}
	return w.Columns[w.ActiveColumnIndex]
}

// clampActiveColumnIndex enforces invariant I3: 0 ≤ active_column_index <
// column_count whenever column_count > 0.
func (w *Workspace) clampActiveColumnIndex() {
	if len(w.Columns) == 0 {
		w.ActiveColumnIndex = 0
		return
	}
	if w.ActiveColumnIndex < 0 {
		w.ActiveColumnIndex = 0
	}
	if w.ActiveColumnIndex >= len(w.Columns) {
		w.ActiveColumnIndex = len(w.Columns) - 1
	}
}

// SyncWindows reconciles the column strip against the live handle set
// (spec §4.3's pipeline step 3 "sync_windows"). New handles not already
// present are appended as new trailing single-window columns, in the
// order given. Handles no longer present are removed, producing a
// ColumnRemovalResult for each column whose last window disappeared.
func (w *Workspace) SyncWindows(live []model.WindowHandle, now time.Time) []ColumnRemovalResult {
	liveSet := make(map[model.WindowHandle]bool, len(live))
	for _, h := range live {
		liveSet[h] = true
	}

	// Remember which column the selection was anchored to before this
	// pass mutates the strip, so step 4 below can tell whether any
	// newly-inserted column landed ahead of it.
	var anchorColID model.NodeID
	hadAnchor := false
	if w.SelectedNodeID != nil {
		if c, _ := w.ColumnOf(*w.SelectedNodeID); c != nil {
			anchorColID = c.ID
			hadAnchor = true
		}
	}

	var results []ColumnRemovalResult
	var fallbackAt []int
	kept := w.Columns[:0]
	for idx, col := range w.Columns {
		var survivors []*ScrollWindow
		for _, win := range col.Windows {
			if liveSet[win.Handle] {
				survivors = append(survivors, win)
			}
		}
		if len(survivors) == 0 {
			res := ColumnRemovalResult{OriginalColumnIndex: idx}
			if off, ok := w.offsetBeforeColumnCreated[col.ID]; ok {
				res.RestorePreviousViewOffset = true
				res.PreviousViewOffset = off
				delete(w.offsetBeforeColumnCreated, col.ID)
			}
			// The column's index among the survivors is len(kept); the
			// fallback is resolved once the strip holds only survivors.
			fallbackAt = append(fallbackAt, len(kept))
			results = append(results, res)
			if w.fullscreenColumn == col {
				w.fullscreenColumn = nil
			}
			continue
		}
		col.Windows = survivors
		if col.ActiveTileIdx >= len(col.Windows) {
			col.ActiveTileIdx = len(col.Windows) - 1
		}
		kept = append(kept, col)
	}
	w.Columns = kept
	for i := range results {
		results[i].FallbackSelectionID = w.fallbackNearestColumn(fallbackAt[i])
	}

	wasPresent := make(map[model.NodeID]bool, len(kept))
	for _, c := range kept {
		wasPresent[c.ID] = true
	}

	existing := make(map[model.WindowHandle]bool)
	for _, c := range w.Columns {
		for _, win := range c.Windows {
			existing[win.Handle] = true
		}
	}
	for _, h := range live {
		if existing[h] {
			continue
		}
		col := &Column{ID: model.NewNodeID()}
		col.Windows = append(col.Windows, &ScrollWindow{ID: model.NewNodeID(), Handle: h})
		w.Columns = append(w.Columns, col)
		w.RecordPreInsertionOffset(col, now)
	}

	// Spec §4.6 pipeline step 4: columns inserted ahead of the selection
	// shift everything after them right by their width; shift
	// view_offset_px by the same amount so the selection doesn't visibly
	// jump, and re-anchor active_column_index on it. New columns above
	// only ever land at the trailing end of the strip, so in practice
	// this never finds a new column ahead of the anchor — it stays ready
	// for a future non-trailing insertion path.
	if hadAnchor {
		if anchorIdx := w.indexOfColumnByID(anchorColID); anchorIdx >= 0 {
			var shift float64
			for i := 0; i < anchorIdx; i++ {
				c := w.Columns[i]
				if !wasPresent[c.ID] {
					shift += float64(w.resolveColumnWidth(c, w.lastWorkingWidth)) + float64(w.lastInnerGap)
				}
			}
			if shift > 0 {
				w.Viewport.SetImmediate(w.Viewport.Current(now) + shift)
			}
			w.ActiveColumnIndex = anchorIdx
		}
	}

	w.clampActiveColumnIndex()
	return results
}

// indexOfColumnByID returns the current index of the column with the
// given id, or -1 if it is no longer in the strip.
func (w *Workspace) indexOfColumnByID(id model.NodeID) int {
	for i, c := range w.Columns {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// WindowForHandle resolves a live window handle to its ScrollWindow, or
// nil if the handle isn't tracked in this workspace.
func (w *Workspace) WindowForHandle(h model.WindowHandle) *ScrollWindow {
	for _, c := range w.Columns {
		for _, win := range c.Windows {
			if win.Handle == h {
				return win
			}
		}
	}
	return nil
}

// LiveHandles returns the set of window handles currently tracked by the
// strip, used by the refresh controller to detect which handles are
// brand new after a SyncWindows pass (spec §4.6 pipeline step 8).
func (w *Workspace) LiveHandles() map[model.WindowHandle]bool {
	out := make(map[model.WindowHandle]bool)
	for _, c := range w.Columns {
		for _, win := range c.Windows {
			out[win.Handle] = true
		}
	}
	return out
}

// SyncMonitors immediately reconciles the viewport to a (possibly new)
// working area after this workspace's monitor attachment changes (spec
// §4.2: "On every mutation that affects the monitor/workspace mapping,
// the controller must call sync_monitors on the scroll engine"). It
// snaps rather than animates, so moving a workspace to a narrower or
// wider monitor doesn't spring the viewport across the whole screen.
func (w *Workspace) SyncMonitors(workingLeft, workingRight, gap int, now time.Time) {
	w.clampActiveColumnIndex()
	col := w.activeColumn()
	if col == nil {
		w.Viewport.SetImmediate(0)
		return
	}
	selX, selW := w.stripXOf(w.ActiveColumnIndex, float64(gap))
	viewWidth := float64(workingRight - workingLeft)
	if selW >= viewWidth || selX < 0 {
		w.Viewport.SetImmediate(selX - float64(gap))
		return
	}
	if target := selX + selW - viewWidth + float64(gap); target > 0 {
		w.Viewport.SetImmediate(target)
		return
	}
	w.Viewport.SetImmediate(0)
}

// fallbackNearestColumn returns the selected tile of the nearest column
// to the right of removedIdx, else the nearest to the left (spec §4.3
// "nearest column to the right, else to the left").
func (w *Workspace) fallbackNearestColumn(removedIdx int) *model.NodeID {
	for i := removedIdx; i < len(w.Columns); i++ {
		if t := w.Columns[i].activeTile(); t != nil {
			id := t.ID
			return &id
		}
	}
	for i := removedIdx - 1; i >= 0; i-- {
		if t := w.Columns[i].activeTile(); t != nil {
			id := t.ID
			return &id
		}
	}
	return nil
}

// ResolveSelection validates SelectedNodeID against the current tree,
// applying a column-removal fallback if given, else picks the first
// window, else clears (spec §4.3 pipeline step 6 "Resolve selection").
func (w *Workspace) ResolveSelection(fallback *model.NodeID) {
	if fallback != nil {
		w.SelectedNodeID = fallback
		if c, idx := w.ColumnOf(*fallback); c != nil {
			w.ActiveColumnIndex = idx
		}
		return
	}
	if w.SelectedNodeID != nil {
		if c, idx := w.ColumnOf(*w.SelectedNodeID); c != nil {
			w.ActiveColumnIndex = idx
			return
		}
	}
	if len(w.Columns) == 0 {
		w.SelectedNodeID = nil
		return
	}
	if t := w.Columns[0].activeTile(); t != nil {
		id := t.ID
		w.SelectedNodeID = &id
		w.ActiveColumnIndex = 0
	}
}

// RecordPreInsertionOffset stashes the current view offset keyed by a
// newly-inserted column, consulted later by SyncWindows's solo-removal
// path to decide restore_previous_view_offset.
func (w *Workspace) RecordPreInsertionOffset(col *Column, now time.Time) {
	w.offsetBeforeColumnCreated[col.ID] = w.Viewport.Current(now)
}

// ToggleFullscreenColumn mirrors dwindle's fullscreen toggle at the
// column granularity (spec §3 invariant 5: "at most one column per
// workspace is fullscreen").
func (w *Workspace) ToggleFullscreenColumn() {
	if w.fullscreenColumn != nil {
		w.fullscreenColumn = nil
		return
	}
	w.fullscreenColumn = w.activeColumn()
}

func (w *Workspace) FullscreenColumn() *Column { return w.fullscreenColumn }
