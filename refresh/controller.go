package refresh

import (
	"time"

	"github.com/stratawm/strata/dwindle"
	"github.com/stratawm/strata/focus"
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/corelog"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/scroll"
	"github.com/stratawm/strata/wsapi"
)

// Gaps carries the configured inner/outer gap pixels (spec §3
// Settings.gaps).
type Gaps struct {
	Inner int
	Outer int
}

// ResolveWorkspaceFunc assigns a newly-seen window to a workspace (spec
// §4.9's 5-step fallback rule), supplied by the orchestrator (C9) so this
// package does not depend on it.
type ResolveWorkspaceFunc func(v wsapi.VisibleWindow) model.WorkspaceID

// ShouldSkipFunc reports whether a visible window should be ignored
// entirely (lock-screen apps) or treated as always-float (never tiled).
type ShouldSkipFunc func(v wsapi.VisibleWindow) (skip, alwaysFloat bool)

// Controller is the layout/refresh controller, component C6: debounced
// incremental/full re-enumeration and the per-display animation ticker
// (spec §4.6).
//
// Grounded on texel/desktop.go's animationTicker (a per-desktop
// time.Ticker driving layout recomputation) generalized to per-monitor
// tickers, and on texel/dispatcher.go's single-consumer event loop
// adapted to the spec's explicit full/incremental pipeline split.
type Controller struct {
	Store    *model.Store
	Service  wsapi.WindowService
	Focus    *focus.Controller
	Notify   *wsapi.Broadcaster
	Clock    clock.Clock
	Log      corelog.Logger
	Gaps     Gaps
	Resolve  ResolveWorkspaceFunc
	Skip     ShouldSkipFunc

	Scheduler *Scheduler

	scrollWS map[model.WorkspaceID]*scroll.Workspace
	binaryWS map[model.WorkspaceID]*dwindle.Tree

	scrollAnim map[model.WorkspaceID]*scroll.Animator
	binaryAnim map[model.WorkspaceID]*dwindle.FrameAnimator

	tickers map[model.MonitorID]*time.Ticker

	initialRefreshComplete bool
}

// NewController wires a refresh controller over an already-constructed
// model store and window service.
func NewController(store *model.Store, service wsapi.WindowService, focusCtl *focus.Controller, notify *wsapi.Broadcaster, clk clock.Clock, log corelog.Logger, gaps Gaps, resolve ResolveWorkspaceFunc, skip ShouldSkipFunc) *Controller {
	c := &Controller{
		Store: store, Service: service, Focus: focusCtl, Notify: notify,
		Clock: clk, Log: log, Gaps: gaps, Resolve: resolve, Skip: skip,
		scrollWS:   make(map[model.WorkspaceID]*scroll.Workspace),
		binaryWS:   make(map[model.WorkspaceID]*dwindle.Tree),
		scrollAnim: make(map[model.WorkspaceID]*scroll.Animator),
		binaryAnim: make(map[model.WorkspaceID]*dwindle.FrameAnimator),
		tickers:    make(map[model.MonitorID]*time.Ticker),
	}
	c.Scheduler = NewScheduler(c.runScheduled)
	return c
}

func (c *Controller) runScheduled(full bool) {
	if full {
		c.FullRefresh()
		return
	}
	c.IncrementalRefresh()
}

func (c *Controller) scrollWorkspace(id model.WorkspaceID) *scroll.Workspace {
	ws, ok := c.scrollWS[id]
	if !ok {
		ws = scroll.NewWorkspace(60)
		c.scrollWS[id] = ws
		c.scrollAnim[id] = scroll.NewAnimator(220, 26)
	}
	return ws
}

func (c *Controller) binaryTree(id model.WorkspaceID) *dwindle.Tree {
	tr, ok := c.binaryWS[id]
	if !ok {
		tr = dwindle.NewTree()
		c.binaryWS[id] = tr
		c.binaryAnim[id] = dwindle.NewFrameAnimator(220, 26)
	}
	return tr
}

// ScrollWorkspace and BinaryTree expose a workspace's live engine state to
// the command dispatcher (C8), which mutates it directly before running a
// light session refresh. Lazily creates the engine state exactly like the
// pipelines above, so a command issued before a workspace's first refresh
// still has somewhere to land.
func (c *Controller) ScrollWorkspace(id model.WorkspaceID) *scroll.Workspace { return c.scrollWorkspace(id) }
func (c *Controller) BinaryTree(id model.WorkspaceID) *dwindle.Tree          { return c.binaryTree(id) }

// RunLightSession implements spec §4.8's light-session wrapper: cancel any
// in-flight refresh, run mutate synchronously against the already-mutated
// engine/model state, then schedule an incremental refresh to re-lay-out
// and re-apply frames.
func (c *Controller) RunLightSession(mutate func()) {
	c.Scheduler.Cancel()
	c.Scheduler.BeginLightSession()
	mutate()
	c.Scheduler.EndLightSession()
	c.Scheduler.ScheduleRefresh(wsapi.EventChanged)
}

// FullRefresh implements spec §4.6's full_refresh: enumerate every
// top-level window, upsert entries, drop stale ones, GC workspaces, then
// run the engine pipelines for each monitor's active workspace and
// re-validate focus. Windows of inactive workspaces are neither moved
// nor hidden by this pass.
func (c *Controller) FullRefresh() {
	snapshot, err := c.Service.QueryAllVisible()
	if err != nil {
		c.Log.Warnw("full refresh: query_all_visible failed", "error", err)
		return
	}

	seen := make(map[model.WindowHandle]bool, len(snapshot))
	for _, v := range snapshot {
		skip, alwaysFloat := c.Skip(v)
		if skip || alwaysFloat {
			continue
		}
		h := model.WindowHandle{PID: v.PID, WindowID: v.WindowID}
		seen[h] = true
		if _, ok := c.Store.EntryByPIDWindow(v.PID, v.WindowID); ok {
			continue
		}
		ws := c.Resolve(v)
		c.Store.AddWindow(v.AXRef, v.PID, v.WindowID, ws)
	}
	c.Store.RemoveMissing(seen)

	var focused *model.WorkspaceID
	if h, ok := c.Focus.FocusedHandle(); ok {
		if e, ok2 := c.Store.EntryByWindowID(h.WindowID); ok2 {
			focused = &e.WorkspaceID
		}
	}
	c.Store.GarbageCollectUnused(focused)

	c.runEnginePipelines()
	c.initialRefreshComplete = true
}

// InitialRefreshComplete reports whether full_refresh's discovery pass has
// run at least once, consulted by the event handler (C7) to decide
// whether a `created` event is redundant with discovery still in flight.
func (c *Controller) InitialRefreshComplete() bool { return c.initialRefreshComplete }

// IncrementalRefresh runs the same pipeline steps as full_refresh without
// a fresh enumeration (spec §4.6 incremental_refresh).
func (c *Controller) IncrementalRefresh() {
	c.runEnginePipelines()
}

// runEnginePipelines partitions active workspaces by layout kind and
// invokes each engine's pipeline (spec §4.6 step 4), then re-validates
// focus (step 6).
func (c *Controller) runEnginePipelines() {
	now := c.Clock.Now()
	for _, mon := range c.Store.Monitors() {
		active, ok := c.Store.ActiveWorkspace(mon.ID)
		if !ok {
			continue
		}
		desc, ok := c.Store.Workspace(active)
		if !ok {
			continue
		}
		working := mon.VisibleFrame
		switch desc.Layout {
		case model.LayoutBinary:
			c.runBinaryPipeline(active, working, now)
		default:
			c.runScrollPipeline(active, mon.ID, working, now)
		}
		c.revalidateFocus(active)
	}
}

// appearSlideOffsetPx is the vertical distance a freshly-arrived window
// slides up from as its appear animation settles (spec §4.6 pipeline step
// 8: "a small vertical slide").
const appearSlideOffsetPx = 24

// runScrollPipeline runs spec §4.6's scroll-workspace pipeline: sync
// windows, resolve selection, appear animations, viewport restore or
// ensure-visible, layout, and frame/alpha application. It has no
// interactive-gesture short-circuit, does not refresh per-window size
// constraints, and places no focus border.
func (c *Controller) runScrollPipeline(wsID model.WorkspaceID, monitorID model.MonitorID, working geom.Rect, now time.Time) {
	ws := c.scrollWorkspace(wsID)
	anim := c.scrollAnim[wsID]
	entries := c.Store.EntriesInWorkspace(wsID)

	beforeHandles := ws.LiveHandles()
	live := make([]model.WindowHandle, 0, len(entries))
	for _, e := range entries {
		live = append(live, e.Handle)
	}

	removals := ws.SyncWindows(live, now)
	var fallback *model.NodeID
	var restoreOffset float64
	shouldRestore := false
	for _, r := range removals {
		if r.FallbackSelectionID != nil {
			fallback = r.FallbackSelectionID
		}
		if r.RestorePreviousViewOffset {
			restoreOffset = r.PreviousViewOffset
			shouldRestore = true
		}
	}
	ws.ResolveSelection(fallback)

	liveColumns := make(map[model.NodeID]bool, len(ws.Columns))
	liveWindows := make(map[model.NodeID]bool, len(entries))
	for _, col := range ws.Columns {
		liveColumns[col.ID] = true
		for _, win := range col.Windows {
			liveWindows[win.ID] = true
		}
	}
	if anim != nil {
		anim.Reconcile(liveColumns, liveWindows)
	}

	// Spec §4.6 pipeline step 8: once discovery has completed, a window
	// that just arrived is selected and given an appear animation rather
	// than silently snapping into the layout.
	if c.initialRefreshComplete && anim != nil {
		for _, h := range live {
			if beforeHandles[h] {
				continue
			}
			win := ws.WindowForHandle(h)
			if win == nil {
				continue
			}
			id := win.ID
			ws.SelectedNodeID = &id
			if col, idx := ws.ColumnOf(id); col != nil {
				ws.ActiveColumnIndex = idx
			}
			anim.TriggerAppear(id, appearSlideOffsetPx, now)
		}
	}

	switch {
	case shouldRestore:
		ws.Viewport.AnimateTo(restoreOffset, now)
	case ws.Viewport != nil && !ws.Viewport.IsAnimating():
		ws.EnsureSelectionVisible(working.X, working.MaxX(), c.Gaps.Inner, now)
	}

	mon, _ := c.Store.Monitor(monitorID)
	hideSide := c.resolveHideSide(mon, working)
	frames, hidden, alphas := ws.CalculateLayout(working, scroll.GapConfig{Inner: c.Gaps.Inner, Outer: c.Gaps.Outer}, now, anim, hideSide)
	c.applyFrames(frames, hidden, alphas, wsID, working)
}

// resolveHideSide picks which monitor edge parked (hidden) tiles slide
// to (spec §8 boundary behavior: "Hidden origin picks the primary side
// ... unless that would overlap an adjacent monitor's frame more than
// the alternate side, in which case it uses the opposite side"). Left is
// the primary side; the decision flips only when the right side would
// overlap a right-adjacent monitor strictly less than the left side
// overlaps a left-adjacent one.
func (c *Controller) resolveHideSide(mon model.Monitor, working geom.Rect) scroll.HideSide {
	sliver := func(side scroll.HideSide) geom.Rect {
		x := working.X
		if side == scroll.HideRight {
			x = working.MaxX() - 1
		}
		return geom.Rect{X: x, Y: working.Y, W: 1, H: working.H}
	}
	dirFor := func(side scroll.HideSide) model.Direction {
		if side == scroll.HideLeft {
			return model.DirLeft
		}
		return model.DirRight
	}
	overlapArea := func(side scroll.HideSide) int {
		adjID, ok := c.Store.AdjacentMonitor(mon.ID, dirFor(side))
		if !ok {
			return 0
		}
		adj, ok := c.Store.Monitor(adjID)
		if !ok {
			return 0
		}
		inter, ok := sliver(side).Intersection(adj.Frame)
		if !ok {
			return 0
		}
		return inter.Area()
	}

	if overlapArea(scroll.HideLeft) > overlapArea(scroll.HideRight) {
		return scroll.HideRight
	}
	return scroll.HideLeft
}

// BeginWorkspaceSwitchAnimation starts the workspace-switch slide-in
// animation for a newly active scroll workspace (spec §4.3 "workspace-
// switch" animation family), triggered whenever a command changes which
// workspace is active on a monitor.
func (c *Controller) BeginWorkspaceSwitchAnimation(monitorID model.MonitorID, to model.WorkspaceID, now time.Time) {
	mon, ok := c.Store.Monitor(monitorID)
	if !ok {
		return
	}
	desc, ok := c.Store.Workspace(to)
	if !ok || desc.Layout != model.LayoutScroll {
		return
	}
	c.scrollWorkspace(to)
	c.scrollAnim[to].BeginWorkspaceSwitch(float64(mon.VisibleFrame.W), 0, now)
}

// SyncMonitorsFor implements spec §4.2's "on every mutation that affects
// the monitor/workspace mapping, the controller must call sync_monitors
// on the scroll engine": callers invoke this immediately after any
// model.Store call that changes a workspace's monitor attachment
// (move/swap/summon, or monitor-disconnect reconciliation), since Store
// itself cannot import the scroll engine without a cycle.
func (c *Controller) SyncMonitorsFor(wsID model.WorkspaceID) {
	desc, ok := c.Store.Workspace(wsID)
	if !ok || desc.MonitorID == nil || desc.Layout != model.LayoutScroll {
		return
	}
	mon, ok := c.Store.Monitor(*desc.MonitorID)
	if !ok {
		return
	}
	ws := c.scrollWorkspace(wsID)
	ws.SyncMonitors(mon.VisibleFrame.X, mon.VisibleFrame.MaxX(), c.Gaps.Inner, c.Clock.Now())
}

// runBinaryPipeline mirrors the scroll pipeline for binary-partition
// workspaces, simplified since dwindle has no viewport to reconcile.
func (c *Controller) runBinaryPipeline(wsID model.WorkspaceID, working geom.Rect, now time.Time) {
	tr := c.binaryTree(wsID)
	entries := c.Store.EntriesInWorkspace(wsID)

	live := make(map[model.WindowHandle]bool, len(entries))
	for _, e := range entries {
		live[e.Handle] = true
		if tr.NodeForHandle(e.Handle) == nil {
			// The selected leaf's last-rendered rect isn't tracked outside
			// the layout pass; smart_split falls back to its default
			// orientation when given a zero rect.
			tr.InsertWindow(e.Handle, geom.Rect{})
		}
	}
	for _, leaf := range tr.Leaves() {
		if leaf.Handle != nil && !live[*leaf.Handle] {
			tr.RemoveWindow(*leaf.Handle)
		}
	}

	layout := tr.CalculateLayout(working, dwindle.GapConfig{Inner: c.Gaps.Inner, Outer: c.Gaps.Outer})
	anim := c.binaryAnim[wsID]
	for h, rect := range layout {
		anim.Retarget(h, rect, now)
	}
	anim.Reconcile(layout)

	writes := make([]wsapi.FrameWrite, 0, len(layout))
	for _, e := range entries {
		if _, ok := layout[e.Handle]; !ok {
			continue
		}
		writes = append(writes, wsapi.FrameWrite{AX: e.AXRef, Frame: anim.Current(e.Handle, now)})
	}
	c.applyFramesParallel(writes)
}

// applyFrames writes visible frames and slides tabbed/otherwise-hidden
// tiles to a 1-device-pixel sliver on the chosen monitor edge (spec
// §4.6 steps 10-12, "Hide/unhide"), setting each window's compositor
// alpha from the animator-driven value CalculateLayout resolved for it.
func (c *Controller) applyFrames(frames map[model.WindowHandle]geom.Rect, hidden map[model.WindowHandle]scroll.HideSide, alphas map[model.WindowHandle]float64, wsID model.WorkspaceID, working geom.Rect) {
	entries := c.Store.EntriesInWorkspace(wsID)
	byHandle := make(map[model.WindowHandle]*model.WindowEntry, len(entries))
	for _, e := range entries {
		byHandle[e.Handle] = e
	}

	writes := make([]wsapi.FrameWrite, 0, len(frames))
	for h, rect := range frames {
		e, ok := byHandle[h]
		if !ok {
			continue
		}
		writes = append(writes, wsapi.FrameWrite{AX: e.AXRef, Frame: rect})
		alpha := 1.0
		if a, ok := alphas[h]; ok {
			alpha = a
		}
		_ = c.Service.SetAlpha(h.WindowID, float32(alpha))
	}

	for h, side := range hidden {
		e, ok := byHandle[h]
		if !ok {
			continue
		}
		x := working.X
		if side == scroll.HideRight {
			x = working.MaxX() - 1
		}
		writes = append(writes, wsapi.FrameWrite{AX: e.AXRef, Frame: geom.Rect{X: x, Y: working.Y, W: 1, H: working.H}})
		alpha := 0.0
		if a, ok := alphas[h]; ok {
			alpha = a
		}
		_ = c.Service.SetAlpha(h.WindowID, float32(alpha))
	}

	c.applyFramesParallel(writes)
}

// applyFramesParallel fires off frame writes without waiting for
// completion (spec §5 "an apply_frames_parallel(updates) batch that may
// use a worker pool internally but whose completion is not awaited").
// Writes are idempotent so a stale in-flight write racing a newer one is
// harmless.
func (c *Controller) applyFramesParallel(writes []wsapi.FrameWrite) {
	for _, w := range writes {
		go func(w wsapi.FrameWrite) {
			if err := c.Service.SetFrame(w.AX, w.Frame); err != nil {
				c.Log.Debugw("apply_frames_parallel: SetFrame failed", "error", err)
			}
		}(w)
	}
}

// revalidateFocus runs spec §4.5's ensure_focused_handle_valid for the
// workspace that was just laid out.
func (c *Controller) revalidateFocus(wsID model.WorkspaceID) {
	entries := c.Store.EntriesInWorkspace(wsID)
	handles := make([]model.WindowHandle, 0, len(entries))
	for _, e := range entries {
		handles = append(handles, e.Handle)
	}
	ws := c.scrollWS[wsID]
	var sel engineSelectionAdapter
	if ws != nil {
		sel = engineSelectionAdapter{ws: ws}
	}
	c.Focus.EnsureFocusedHandleValid(wsID, handles, sel, func(h model.WindowHandle) bool {
		_, ok := c.Store.EntryByWindowID(h.WindowID)
		return ok
	}, func(h model.WindowHandle) {
		c.Focus.FocusWindow(h, wsID, c.Clock.Now(), func(h model.WindowHandle) error {
			e, ok := c.Store.EntryByWindowID(h.WindowID)
			if !ok {
				return nil
			}
			return c.Service.Focus(h.PID, h.WindowID, e.AXRef)
		}, func(model.WindowHandle) {})
	})
}

type engineSelectionAdapter struct{ ws *scroll.Workspace }

func (a engineSelectionAdapter) SelectHandle(h model.WindowHandle) bool {
	if a.ws == nil {
		return false
	}
	for _, col := range a.ws.Columns {
		for _, win := range col.Windows {
			if win.Handle == h {
				id := win.ID
				a.ws.SelectedNodeID = &id
				return true
			}
		}
	}
	return false
}
