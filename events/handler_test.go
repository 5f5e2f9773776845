package events

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

type fakeService struct {
	info  map[uint64]wsapi.WindowInfo
	bounds map[uint64]wsapi.Rect
}

func newFakeService() *fakeService {
	return &fakeService{info: make(map[uint64]wsapi.WindowInfo), bounds: make(map[uint64]wsapi.Rect)}
}

func (f *fakeService) QueryAllVisible() ([]wsapi.VisibleWindow, error) { return nil, nil }
func (f *fakeService) WindowInfo(id uint64) (wsapi.WindowInfo, error) { return f.info[id], nil }
func (f *fakeService) WindowBounds(id uint64) (wsapi.Rect, error)     { return f.bounds[id], nil }
func (f *fakeService) WindowTitle(id uint64) (string, error)          { return f.info[id].Title, nil }
func (f *fakeService) SetFrame(model.AXRef, wsapi.Rect) error         { return nil }
func (f *fakeService) SetOriginViaCompositor(uint64, int, int) error  { return nil }
func (f *fakeService) SetAlpha(uint64, float32) error                 { return nil }
func (f *fakeService) Raise(model.AXRef) error                        { return nil }
func (f *fakeService) Focus(int, uint64, model.AXRef) error           { return nil }
func (f *fakeService) IsFullscreen(model.AXRef) (bool, error)         { return false, nil }
func (f *fakeService) SetNativeFullscreen(model.AXRef, bool) error    { return nil }
func (f *fakeService) SizeConstraints(model.AXRef, int, int) (wsapi.SizeConstraints, error) {
	return wsapi.SizeConstraints{}, nil
}
func (f *fakeService) Events() <-chan wsapi.Event { return nil }

func newTestHandler(t *testing.T) (*Handler, *model.Store, *fakeService, model.WorkspaceID) {
	t.Helper()
	store := model.NewStore(nil)
	mon := model.Monitor{ID: model.NewMonitorID(), Frame: geom.Rect{W: 1920, H: 1080}, VisibleFrame: geom.Rect{W: 1920, H: 1080}}
	store.AddMonitor(mon)
	ws := store.CreateWorkspace("1", model.LayoutScroll, &mon.ID)
	store.SetActiveWorkspace(mon.ID, ws.ID)

	svc := newFakeService()
	focusCtl := focus.NewController()
	sched := refresh.NewScheduler(func(bool) {})
	h := NewHandler(store, svc, sched, focusCtl, clock.NewVirtual(time.Now()), corelog.NewNop())
	h.Resolve = func(wsapi.VisibleWindow) model.WorkspaceID { return ws.ID }
	h.Skip = func(wsapi.VisibleWindow) (bool, bool) { return false, false }
	h.InitialRefreshComplete = func() bool { return true }
	return h, store, svc, ws.ID
}

func TestHandleCreatedInsertsEntry(t *testing.T) {
	h, store, svc, wsID := newTestHandler(t)
	svc.info[1] = wsapi.WindowInfo{PID: 100, BundleID: "com.example.app", Title: "Example"}
	svc.bounds[1] = wsapi.Rect{W: 800, H: 600}

	h.Handle(wsapi.Event{Kind: wsapi.EventCreated, PID: 100, WindowID: 1})

	if _, ok := store.EntryByPIDWindow(100, 1); !ok {
		t.Fatalf("expected created event to insert an entry")
	}
	if entries := store.EntriesInWorkspace(wsID); len(entries) != 1 {
		t.Fatalf("expected 1 entry in the resolved workspace, got %d", len(entries))
	}
}

func TestHandleCreatedIgnoresDuplicates(t *testing.T) {
	h, store, svc, _ := newTestHandler(t)
	svc.info[1] = wsapi.WindowInfo{PID: 100}
	svc.bounds[1] = wsapi.Rect{W: 800, H: 600}

	h.Handle(wsapi.Event{Kind: wsapi.EventCreated, PID: 100, WindowID: 1})
	h.Handle(wsapi.Event{Kind: wsapi.EventCreated, PID: 100, WindowID: 1})

	if entries := store.EntriesForPID(100); len(entries) != 1 {
		t.Fatalf("expected duplicate created events to be ignored, got %d entries", len(entries))
	}
}

func TestHandleRemovedClearsFocus(t *testing.T) {
	h, store, svc, wsID := newTestHandler(t)
	svc.info[1] = wsapi.WindowInfo{PID: 100}
	svc.bounds[1] = wsapi.Rect{W: 800, H: 600}
	h.Handle(wsapi.Event{Kind: wsapi.EventCreated, PID: 100, WindowID: 1})

	handle := model.WindowHandle{PID: 100, WindowID: 1}
	h.Focus.FocusWindow(handle, wsID, h.Clock.Now(), func(model.WindowHandle) error { return nil }, nil)

	h.Handle(wsapi.Event{Kind: wsapi.EventDestroyed, PID: 100, WindowID: 1})

	if _, ok := store.EntryByPIDWindow(100, 1); ok {
		t.Fatalf("expected destroyed event to remove the entry")
	}
	if _, ok := h.Focus.FocusedHandle(); ok {
		t.Fatalf("expected focused handle to be cleared when it was removed")
	}
}

func TestHandleAppHiddenMarksEntries(t *testing.T) {
	h, store, svc, _ := newTestHandler(t)
	svc.info[1] = wsapi.WindowInfo{PID: 100}
	svc.bounds[1] = wsapi.Rect{W: 800, H: 600}
	h.Handle(wsapi.Event{Kind: wsapi.EventCreated, PID: 100, WindowID: 1})

	h.Handle(wsapi.Event{Kind: wsapi.EventAppHidden, PID: 100})
	entry, _ := store.EntryByPIDWindow(100, 1)
	if entry.Reason != model.ReasonAppHidden {
		t.Fatalf("expected entry's layout_reason to become app_hidden")
	}

	h.Handle(wsapi.Event{Kind: wsapi.EventAppUnhidden, PID: 100})
	if entry.Reason != model.ReasonStandard {
		t.Fatalf("expected entry's layout_reason to restore to standard")
	}
}
