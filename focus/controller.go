// Package focus implements component C5: the single-focused-window
// invariant, per-workspace focus memory, and debounced/deferred focus
// application (spec §4.5).
//
// Grounded on texel/dispatcher.go's coalescing-dispatch idiom (a pending
// flag plus a "latest wins" deferred slot for events that arrive while a
// dispatch is in flight) and texel/desktop.go's per-desktop "active pane"
// bookkeeping, generalized here to a per-workspace last-focused map.
package focus

import (
	"sync"
	"time"

	"github.com/stratawm/strata/model"
)

// PerformFocus actually focuses a window through the window service. It
// runs asynchronously from focus_window's perspective and may fail.
type PerformFocus func(h model.WindowHandle) error

// Controller holds the focused-handle invariant and per-workspace memory
// (spec §4.5).
type Controller struct {
	mu sync.Mutex

	focusedHandle   *model.WindowHandle
	lastFocused     map[model.WorkspaceID]model.WindowHandle
	nonManagedFocus bool
	appFullscreen   bool

	pending         *model.WindowHandle
	pendingAt       time.Time
	pendingInFlight bool
	deferred        *model.WindowHandle
}

// NewController creates an empty focus controller.
func NewController() *Controller {
	return &Controller{lastFocused: make(map[model.WorkspaceID]model.WindowHandle)}
}

// FocusedHandle returns the currently focused handle, if any.
func (c *Controller) FocusedHandle() (model.WindowHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.focusedHandle == nil {
		return model.WindowHandle{}, false
	}
	return *c.focusedHandle, true
}

// SetNonManagedFocus records that the frontmost OS window is unmanaged
// (spec §4.5 "a non-managed-focus flag").
func (c *Controller) SetNonManagedFocus(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonManagedFocus = v
}

func (c *Controller) NonManagedFocus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nonManagedFocus
}

func (c *Controller) SetAppFullscreen(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.appFullscreen = v
}

func (c *Controller) AppFullscreen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.appFullscreen
}

// IsFocusOperationPending reports whether a focus_window call is
// currently running perform_focus.
func (c *Controller) IsFocusOperationPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingInFlight
}

// FocusWindow debounces and coalesces focus requests (spec §4.5
// focus_window): same handle within 16ms is ignored; a focus already in
// flight defers the newest handle; otherwise perform_focus runs and, on
// completion, any handle that arrived meanwhile is focused via
// on_deferred.
func (c *Controller) FocusWindow(h model.WindowHandle, ws model.WorkspaceID, now time.Time, perform PerformFocus, onDeferred func(model.WindowHandle)) {
	c.mu.Lock()
	if c.pending != nil && *c.pending == h && now.Sub(c.pendingAt) < 16*time.Millisecond {
		c.mu.Unlock()
		return
	}
	if c.pendingInFlight {
		hh := h
		c.deferred = &hh
		c.mu.Unlock()
		return
	}
	c.pending = &h
	c.pendingAt = now
	c.pendingInFlight = true
	c.deferred = nil
	c.mu.Unlock()

	err := perform(h)

	c.mu.Lock()
	c.pendingInFlight = false
	if err == nil {
		hh := h
		c.focusedHandle = &hh
		c.lastFocused[ws] = h
	}
	deferredHandle := c.deferred
	c.deferred = nil
	c.mu.Unlock()

	// "on completion, if deferred ≠ current handle, invoke on_deferred":
	// a newer request arrived while perform_focus was running.
	if deferredHandle != nil && *deferredHandle != h {
		onDeferred(*deferredHandle)
	}
}

// ManagedEntryLookup resolves whether a handle still names a live,
// standard-reason entry, supplied by the orchestrator so this package
// does not need to depend on model.Store directly.
type ManagedEntryLookup func(h model.WindowHandle) bool

// EngineSelection is satisfied by scroll.Workspace (via an adapter) to
// let ensure_focused_handle_valid align selected_node_id without this
// package importing scroll directly.
type EngineSelection interface {
	SelectHandle(h model.WindowHandle) bool
}

// EnsureFocusedHandleValid implements spec §4.5's four-step resolution
// run after a removal or workspace change may have invalidated focus.
func (c *Controller) EnsureFocusedHandleValid(ws model.WorkspaceID, wsEntries []model.WindowHandle, engine EngineSelection, isManaged ManagedEntryLookup, focusFn func(model.WindowHandle)) {
	inWS := func(h model.WindowHandle) bool {
		for _, e := range wsEntries {
			if e == h {
				return true
			}
		}
		return false
	}

	c.mu.Lock()
	focused := c.focusedHandle
	c.mu.Unlock()

	if focused != nil && inWS(*focused) {
		c.mu.Lock()
		c.lastFocused[ws] = *focused
		c.mu.Unlock()
		if engine != nil {
			engine.SelectHandle(*focused)
		}
		return
	}

	c.mu.Lock()
	last, ok := c.lastFocused[ws]
	c.mu.Unlock()
	if ok && isManaged(last) {
		focusFn(last)
		return
	}

	if len(wsEntries) > 0 {
		focusFn(wsEntries[0])
		return
	}

	c.mu.Lock()
	c.focusedHandle = nil
	c.mu.Unlock()
}

// HandleWindowRemoved clears pending/deferred/focused state referencing
// h, and drops any stale per-workspace memory that still points at h
// (spec §4.5 handle_window_removed).
func (c *Controller) HandleWindowRemoved(h model.WindowHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil && *c.pending == h {
		c.pending = nil
	}
	if c.deferred != nil && *c.deferred == h {
		c.deferred = nil
	}
	if c.focusedHandle != nil && *c.focusedHandle == h {
		c.focusedHandle = nil
	}
	for ws, last := range c.lastFocused {
		if last == h {
			delete(c.lastFocused, ws)
		}
	}
}

// LastFocused returns the remembered handle for a workspace, if any.
func (c *Controller) LastFocused(ws model.WorkspaceID) (model.WindowHandle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.lastFocused[ws]
	return h, ok
}
