package scroll

import "github.com/stratawm/strata/model"

// CrossWorkspaceResult is returned by the two cross-workspace structural
// operations (spec §4.3): `{ moved_handle?, new_focus_node_id? }`.
type CrossWorkspaceResult struct {
	MovedHandle  *model.WindowHandle
	NewFocusNode *model.NodeID
}

// MoveWindowToWorkspace splices the window at id out of src and into dst
// at dst.ActiveColumnIndex+1 as a new single-window column, and computes
// src's fallback selection (spec §4.3 move_window_to_workspace).
func MoveWindowToWorkspace(src, dst *Workspace, id model.NodeID) CrossWorkspaceResult {
	col, colIdx := src.ColumnOf(id)
	if col == nil {
		return CrossWorkspaceResult{}
	}
	rowIdx := col.indexOfWindow(id)
	win := col.Windows[rowIdx]
	col.Windows = append(col.Windows[:rowIdx], col.Windows[rowIdx+1:]...)

	srcEmptiedColumn := len(col.Windows) == 0
	if srcEmptiedColumn {
		src.Columns = append(src.Columns[:colIdx], src.Columns[colIdx+1:]...)
	} else if col.ActiveTileIdx >= len(col.Windows) {
		col.ActiveTileIdx = len(col.Windows) - 1
	}

	newCol := &Column{ID: model.NewNodeID(), Windows: []*ScrollWindow{win}}
	insertAt := dst.ActiveColumnIndex + 1
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(dst.Columns) {
		insertAt = len(dst.Columns)
	}
	dst.Columns = append(dst.Columns, nil)
	copy(dst.Columns[insertAt+1:], dst.Columns[insertAt:])
	dst.Columns[insertAt] = newCol
	dst.ActiveColumnIndex = insertAt
	dst.SelectedNodeID = &win.ID

	result := CrossWorkspaceResult{MovedHandle: &win.Handle, NewFocusNode: &win.ID}

	if srcEmptiedColumn {
		fallback := src.fallbackNearestColumn(colIdx)
		src.ResolveSelection(fallback)
	} else {
		src.clampActiveColumnIndex()
	}
	return result
}

// MoveColumnToWorkspace splices the entire column at colIdx out of src
// and into dst at dst.ActiveColumnIndex+1, preserving the column's tabbed
// bit and preset cursor (spec §4.3 move_column_to_workspace).
func MoveColumnToWorkspace(src, dst *Workspace, colIdx int) CrossWorkspaceResult {
	if colIdx < 0 || colIdx >= len(src.Columns) {
		return CrossWorkspaceResult{}
	}
	col := src.Columns[colIdx]
	src.Columns = append(src.Columns[:colIdx], src.Columns[colIdx+1:]...)

	insertAt := dst.ActiveColumnIndex + 1
	if insertAt < 0 {
		insertAt = 0
	}
	if insertAt > len(dst.Columns) {
		insertAt = len(dst.Columns)
	}
	dst.Columns = append(dst.Columns, nil)
	copy(dst.Columns[insertAt+1:], dst.Columns[insertAt:])
	dst.Columns[insertAt] = col
	dst.ActiveColumnIndex = insertAt

	result := CrossWorkspaceResult{}
	if t := col.activeTile(); t != nil {
		result.MovedHandle = &t.Handle
		result.NewFocusNode = &t.ID
		dst.SelectedNodeID = &t.ID
	}

	fallback := src.fallbackNearestColumn(colIdx)
	src.ResolveSelection(fallback)
	return result
}
