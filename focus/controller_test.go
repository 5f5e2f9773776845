package focus

import (
	"errors"
	"testing"
	"time"

	"github.com/stratawm/strata/model"
)

func handle(pid int, win uint64) model.WindowHandle {
	return model.WindowHandle{PID: pid, WindowID: win}
}

func TestFocusWindowDebouncesSameHandle(t *testing.T) {
	c := NewController()
	h := handle(1, 1)
	now := time.Now()
	calls := 0
	perform := func(model.WindowHandle) error { calls++; return nil }

	c.FocusWindow(h, model.WorkspaceID{}, now, perform, nil)
	c.FocusWindow(h, model.WorkspaceID{}, now.Add(5*time.Millisecond), perform, nil)
	if calls != 1 {
		t.Fatalf("expected debounced second call to be ignored, got %d perform calls", calls)
	}

	c.FocusWindow(h, model.WorkspaceID{}, now.Add(20*time.Millisecond), perform, nil)
	if calls != 2 {
		t.Fatalf("expected call past the debounce window to run perform_focus, got %d", calls)
	}
}

func TestFocusWindowFailureDoesNotLeavePending(t *testing.T) {
	c := NewController()
	h := handle(1, 1)
	perform := func(model.WindowHandle) error { return errors.New("boom") }

	c.FocusWindow(h, model.WorkspaceID{}, time.Now(), perform, nil)
	if c.IsFocusOperationPending() {
		t.Fatalf("expected failing perform_focus to clear is_focus_operation_pending")
	}
	if _, ok := c.FocusedHandle(); ok {
		t.Fatalf("expected no focused handle after a failed focus")
	}
}

func TestHandleWindowRemovedClearsState(t *testing.T) {
	c := NewController()
	h := handle(1, 1)
	ws := model.NewWorkspaceID()
	perform := func(model.WindowHandle) error { return nil }
	c.FocusWindow(h, ws, time.Now(), perform, nil)

	c.HandleWindowRemoved(h)
	if _, ok := c.FocusedHandle(); ok {
		t.Fatalf("expected focused handle cleared after removal")
	}
	if _, ok := c.LastFocused(ws); ok {
		t.Fatalf("expected stale last-focused memory removed")
	}
}

type stubEngine struct{ selected model.WindowHandle }

func (s *stubEngine) SelectHandle(h model.WindowHandle) bool {
	s.selected = h
	return true
}

func TestEnsureFocusedHandleValidAdoptsLastFocused(t *testing.T) {
	c := NewController()
	ws := model.NewWorkspaceID()
	h := handle(1, 1)
	perform := func(model.WindowHandle) error { return nil }
	c.FocusWindow(h, ws, time.Now(), perform, nil)

	// Simulate a workspace change invalidating focus: h no longer in ws.
	c.mu.Lock()
	c.focusedHandle = nil
	c.mu.Unlock()

	var focusedVia model.WindowHandle
	called := false
	c.EnsureFocusedHandleValid(ws, nil, &stubEngine{}, func(model.WindowHandle) bool { return true }, func(h model.WindowHandle) {
		called = true
		focusedVia = h
	})
	if !called || focusedVia != h {
		t.Fatalf("expected last-focused handle to be adopted, got called=%v handle=%v", called, focusedVia)
	}
}

func TestEnsureFocusedHandleValidFallsBackToFirstEntry(t *testing.T) {
	c := NewController()
	ws := model.NewWorkspaceID()
	first := handle(1, 1)

	var got model.WindowHandle
	c.EnsureFocusedHandleValid(ws, []model.WindowHandle{first}, &stubEngine{}, func(model.WindowHandle) bool { return false }, func(h model.WindowHandle) {
		got = h
	})
	if got != first {
		t.Fatalf("expected fallback to the workspace's first entry, got %v", got)
	}
}
