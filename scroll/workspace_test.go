package scroll

import (
	"testing"
	"time"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

func handle(pid int, win uint64) model.WindowHandle {
	return model.WindowHandle{PID: pid, WindowID: win}
}

func TestSyncWindowsAppendsNewTrailingColumns(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)

	ws.SyncWindows([]model.WindowHandle{a}, now)
	if len(ws.Columns) != 1 {
		t.Fatalf("expected 1 column, got %d", len(ws.Columns))
	}

	ws.SyncWindows([]model.WindowHandle{a, b}, now)
	if len(ws.Columns) != 2 {
		t.Fatalf("expected 2 columns after adding b, got %d", len(ws.Columns))
	}
	if ws.Columns[1].Windows[0].Handle != b {
		t.Fatalf("expected b appended as a new trailing column")
	}
}

func TestSyncWindowsRemovalProducesFallback(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a, b}, now)
	ws.ActiveColumnIndex = 1
	ws.SelectedNodeID = &ws.Columns[1].Windows[0].ID

	results := ws.SyncWindows([]model.WindowHandle{a}, now)
	if len(results) != 1 {
		t.Fatalf("expected 1 removal result, got %d", len(results))
	}
	if results[0].FallbackSelectionID == nil {
		t.Fatalf("expected a fallback selection for the removed column")
	}
	ws.ResolveSelection(results[0].FallbackSelectionID)
	if *ws.SelectedNodeID != ws.Columns[0].Windows[0].ID {
		t.Fatalf("expected selection to fall back to the remaining column")
	}
}

func TestFocusDirectionHorizontal(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b, c := handle(1, 1), handle(1, 2), handle(1, 3)
	ws.SyncWindows([]model.WindowHandle{a, b, c}, now)
	ws.ActiveColumnIndex = 0

	if !ws.FocusDirection(geom.DirRight) {
		t.Fatalf("expected focus right to succeed")
	}
	if ws.ActiveColumnIndex != 1 {
		t.Fatalf("expected active column 1, got %d", ws.ActiveColumnIndex)
	}
	if ws.FocusDirection(geom.DirUp) {
		t.Fatalf("expected focus up with a 1-row column to fail")
	}
}

func TestFocusColumnWrapWithInfiniteLoop(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a, b}, now)
	ws.InfiniteLoop = true
	ws.ActiveColumnIndex = 1

	if !ws.FocusDirection(geom.DirRight) {
		t.Fatalf("expected wrap-around focus to succeed")
	}
	if ws.ActiveColumnIndex != 0 {
		t.Fatalf("expected wrap to column 0, got %d", ws.ActiveColumnIndex)
	}
}

func TestMoveWindowExpelsAtColumnBoundary(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a}, now)
	col := ws.Columns[0]
	col.Windows = append(col.Windows, &ScrollWindow{ID: model.NewNodeID(), Handle: b})

	id := col.Windows[1].ID
	if !ws.MoveWindow(id, geom.DirRight) {
		t.Fatalf("expected expel-right to succeed")
	}
	if len(ws.Columns) != 2 {
		t.Fatalf("expected 2 columns after expelling b, got %d", len(ws.Columns))
	}
	if ws.Columns[1].Windows[0].Handle != b {
		t.Fatalf("expected b to land in its own new column to the right")
	}
}

func TestConsumeAndExpelAreInverses(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a, b}, now)

	if !ws.ConsumeWindow(0, geom.DirRight) {
		t.Fatalf("expected consume to succeed")
	}
	if len(ws.Columns) != 1 || len(ws.Columns[0].Windows) != 2 {
		t.Fatalf("expected single column with 2 windows after consume")
	}

	bID := ws.Columns[0].Windows[1].ID
	if !ws.ExpelWindow(bID, geom.DirRight) {
		t.Fatalf("expected expel to succeed")
	}
	if len(ws.Columns) != 2 {
		t.Fatalf("expected 2 columns after expelling b back out")
	}
}

func TestToggleFullscreenExclusive(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a, b}, now)
	aID := ws.Columns[0].Windows[0].ID
	bID := ws.Columns[1].Windows[0].ID

	ws.ToggleFullscreen(aID)
	ws.ToggleFullscreen(bID)
	if ws.NodeWindow(aID).IsFullscreen {
		t.Fatalf("expected a to be un-fullscreened when b becomes fullscreen")
	}
	if !ws.NodeWindow(bID).IsFullscreen {
		t.Fatalf("expected b to be fullscreen")
	}
}

func TestCalculateLayoutTabbedHidesInactiveTiles(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	ws.SyncWindows([]model.WindowHandle{a}, now)
	col := ws.Columns[0]
	col.Windows = append(col.Windows, &ScrollWindow{ID: model.NewNodeID(), Handle: b})
	col.IsTabbed = true
	col.ActiveTileIdx = 0

	frames, hidden, _ := ws.CalculateLayout(geom.Rect{W: 1920, H: 1080}, GapConfig{Inner: 10, Outer: 10}, now, nil, HideLeft)
	if _, ok := frames[a]; !ok {
		t.Fatalf("expected active tile a to have a frame")
	}
	if _, ok := hidden[b]; !ok {
		t.Fatalf("expected inactive tile b to be hidden")
	}
}

func TestBalanceSizesEqualizesWidths(t *testing.T) {
	ws := NewWorkspace(60)
	now := time.Now()
	a, b, c := handle(1, 1), handle(1, 2), handle(1, 3)
	ws.SyncWindows([]model.WindowHandle{a, b, c}, now)
	ws.Columns[0].WidthPresetCursor = 3

	ws.BalanceSizes()
	frames, _, _ := ws.CalculateLayout(geom.Rect{W: 1800, H: 1000}, GapConfig{}, now, nil, HideLeft)
	if frames[a].W != frames[b].W || frames[b].W != frames[c].W {
		t.Fatalf("expected equal widths after balance_sizes, got %v %v %v", frames[a].W, frames[b].W, frames[c].W)
	}
}

func TestMoveWindowToWorkspace(t *testing.T) {
	src := NewWorkspace(60)
	dst := NewWorkspace(60)
	now := time.Now()
	a, b := handle(1, 1), handle(1, 2)
	src.SyncWindows([]model.WindowHandle{a, b}, now)
	bID := src.Columns[1].Windows[0].ID

	res := MoveWindowToWorkspace(src, dst, bID)
	if res.MovedHandle == nil || *res.MovedHandle != b {
		t.Fatalf("expected b to be reported as moved")
	}
	if len(dst.Columns) != 1 || dst.Columns[0].Windows[0].Handle != b {
		t.Fatalf("expected b to land in dst")
	}
	if len(src.Columns) != 1 {
		t.Fatalf("expected src to have 1 remaining column, got %d", len(src.Columns))
	}
}
