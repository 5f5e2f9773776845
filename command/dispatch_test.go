package command

import (
	"testing"
	"time"

	"github.com/stratawm/strata/focus"
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/corelog"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/refresh"
	"github.com/stratawm/strata/wsapi"
)

type stubService struct{}

func (stubService) QueryAllVisible() ([]wsapi.VisibleWindow, error) { return nil, nil }
func (stubService) WindowInfo(uint64) (wsapi.WindowInfo, error)     { return wsapi.WindowInfo{}, nil }
func (stubService) WindowBounds(uint64) (wsapi.Rect, error)         { return wsapi.Rect{}, nil }
func (stubService) WindowTitle(uint64) (string, error)              { return "", nil }
func (stubService) SetFrame(model.AXRef, wsapi.Rect) error          { return nil }
func (stubService) SetOriginViaCompositor(uint64, int, int) error   { return nil }
func (stubService) SetAlpha(uint64, float32) error                  { return nil }
func (stubService) Raise(model.AXRef) error                         { return nil }
func (stubService) Focus(int, uint64, model.AXRef) error            { return nil }
func (stubService) IsFullscreen(model.AXRef) (bool, error)           { return false, nil }
func (stubService) SetNativeFullscreen(model.AXRef, bool) error      { return nil }
func (stubService) SizeConstraints(model.AXRef, int, int) (wsapi.SizeConstraints, error) {
	return wsapi.SizeConstraints{}, nil
}
func (stubService) Events() <-chan wsapi.Event { return nil }

func handle(pid int, id uint64) model.WindowHandle { return model.WindowHandle{PID: pid, WindowID: id} }

func newTestDispatcher(t *testing.T) (*Dispatcher, *model.Store, model.MonitorID, model.WorkspaceID) {
	t.Helper()
	store := model.NewStore(nil)
	mon := model.Monitor{ID: model.NewMonitorID(), Frame: geom.Rect{W: 1920, H: 1080}, VisibleFrame: geom.Rect{W: 1920, H: 1080}}
	store.AddMonitor(mon)
	ws := store.CreateWorkspace("1", model.LayoutScroll, &mon.ID)
	store.SetActiveWorkspace(mon.ID, ws.ID)

	focusCtl := focus.NewController()
	clk := clock.NewVirtual(time.Now())
	ref := refresh.NewController(store, stubService{}, focusCtl, &wsapi.Broadcaster{}, clk, corelog.NewNop(), refresh.Gaps{Inner: 8, Outer: 8},
		func(wsapi.VisibleWindow) model.WorkspaceID { return ws.ID },
		func(wsapi.VisibleWindow) (bool, bool) { return false, false },
	)

	curMon := mon.ID
	d := NewDispatcher(store, ref, focusCtl, stubService{}, &wsapi.Broadcaster{}, clk, corelog.NewNop())
	d.CurrentMonitor = func() model.MonitorID { return curMon }
	d.SetCurrentMonitor = func(m model.MonitorID) { curMon = m }
	return d, store, mon.ID, ws.ID
}

func TestDispatchFocusDirectionMovesScrollSelection(t *testing.T) {
	d, _, _, wsID := newTestDispatcher(t)
	ws := d.Refresh.ScrollWorkspace(wsID)
	ws.SyncWindows([]model.WindowHandle{handle(1, 1), handle(1, 2)}, time.Now())
	ws.ResolveSelection(nil)

	d.Dispatch(Command{Kind: FocusDirection, Dir: geom.DirRight})

	if ws.ActiveColumnIndex != 1 {
		t.Fatalf("expected focus_direction(right) to move to column 1, got %d", ws.ActiveColumnIndex)
	}
}

func TestDispatchIncompatibleCommandIsNoOp(t *testing.T) {
	d, _, _, wsID := newTestDispatcher(t)
	ws := d.Refresh.ScrollWorkspace(wsID)
	ws.SyncWindows([]model.WindowHandle{handle(1, 1)}, time.Now())
	ws.ResolveSelection(nil)

	// MoveSelectionToRoot is binary-only; this workspace is scroll-layout,
	// so dispatching it must leave engine state untouched.
	before := ws.ActiveColumnIndex
	d.Dispatch(Command{Kind: MoveSelectionToRoot, Stable: true})

	if ws.ActiveColumnIndex != before {
		t.Fatalf("expected binary-only command to be a no-op on a scroll workspace")
	}
}

func TestDispatchWorkspaceNextSwitchesActiveWorkspace(t *testing.T) {
	d, store, monID, ws1 := newTestDispatcher(t)
	ws2 := store.CreateWorkspace("2", model.LayoutScroll, &monID)

	d.Dispatch(Command{Kind: WorkspaceNext})

	active, _ := store.ActiveWorkspace(monID)
	if active != ws2.ID {
		t.Fatalf("expected workspace_next to advance from %s to %s, got %s", ws1, ws2.ID, active)
	}
}

func TestDispatchMonitorFocusDirectionSwitchesCurrentMonitor(t *testing.T) {
	d, store, monA, _ := newTestDispatcher(t)
	monB := model.Monitor{ID: model.NewMonitorID(), Frame: geom.Rect{X: 2000, W: 1920, H: 1080}, VisibleFrame: geom.Rect{X: 2000, W: 1920, H: 1080}}
	store.AddMonitor(monB)
	store.CreateWorkspace("1", model.LayoutScroll, &monB.ID)

	d.Dispatch(Command{Kind: MonitorFocusDirection, Dir: geom.DirRight})

	if got := d.CurrentMonitor(); got != monB.ID {
		t.Fatalf("expected monitor_focus(right) to move off %s onto %s, got %s", monA, monB.ID, got)
	}
}

func TestDispatchToggleFullscreenMarksSelectedWindow(t *testing.T) {
	d, _, _, wsID := newTestDispatcher(t)
	ws := d.Refresh.ScrollWorkspace(wsID)
	ws.SyncWindows([]model.WindowHandle{handle(1, 1)}, time.Now())
	ws.ResolveSelection(nil)

	d.Dispatch(Command{Kind: ToggleFullscreen})

	win := ws.NodeWindow(*ws.SelectedNodeID)
	if win == nil || !win.IsFullscreen {
		t.Fatalf("expected toggle_fullscreen to mark the selected window fullscreen")
	}
}
