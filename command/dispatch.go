// Package command implements component C8: the command dispatcher. It
// maps a closed enumeration of commands onto C3/C4 engine operations,
// gates each by the active workspace's layout_compatibility, and wraps
// every mutation in a light session (spec §4.8).
//
// Grounded on texel/desktop_engine_core.go's handleControlMode: a switch
// over a closed command set, each case checked for applicability before
// running and calling straight into workspace/tree methods.
package command

import (
	"github.com/stratawm/strata/focus"
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/corelog"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/refresh"
	"github.com/stratawm/strata/wsapi"
)

// Kind is the closed command enumeration consumed from dispatch(command)
// (spec §4.8/§6 "Command surface").
type Kind int

const (
	FocusDirection Kind = iota
	FocusWrapDirection
	FocusColumnIndex
	FocusColumnFirst
	FocusColumnLast
	FocusPrevious
	MoveWindowDirection
	SwapWindowDirection
	MoveColumn
	ConsumeWindow
	ExpelWindow
	WorkspaceNext
	WorkspacePrevious
	WorkspaceAbsolute
	WorkspaceBackAndForth
	WorkspaceAnywhere
	WorkspaceSummon
	WorkspaceToMonitor
	WindowToWorkspaceDirect
	WindowToWorkspaceAdjacent
	MonitorFocusDirection
	MonitorFocusCyclic
	MonitorFocusLast
	ToggleFullscreen
	ToggleNativeFullscreen
	ToggleColumnTabbed
	ToggleColumnFullWidth
	ToggleSplitOrientation
	SwapSplit
	CycleSplitRatio
	MoveSelectionToRoot
	Preselect
	Resize
	Balance
	ToggleUIElement
)

// Command is a single dispatch request. Only the fields relevant to Kind
// are read; the rest are ignored (closed-enum dispatch, spec §4.8).
type Command struct {
	Kind Kind

	Dir     geom.Direction
	Index   int
	Name    string
	Forward bool
	Stable  bool
	Delta   float64
	Element string
}

// Dispatcher wires the command surface to the model, engines, and focus
// controller (spec §4.8/§4.9). CurrentMonitor/SetCurrentMonitor let the
// orchestrator (C9) own "current interaction monitor" without this
// package importing it.
type Dispatcher struct {
	Store   *model.Store
	Refresh *refresh.Controller
	Focus   *focus.Controller
	Service wsapi.WindowService
	Notify  *wsapi.Broadcaster
	Clock   clock.Clock
	Log     corelog.Logger

	CurrentMonitor    func() model.MonitorID
	SetCurrentMonitor func(model.MonitorID)

	lastMonitor *model.MonitorID
}

// NewDispatcher wires a command dispatcher over the given collaborators.
func NewDispatcher(store *model.Store, ref *refresh.Controller, focusCtl *focus.Controller, service wsapi.WindowService, notify *wsapi.Broadcaster, clk clock.Clock, log corelog.Logger) *Dispatcher {
	return &Dispatcher{Store: store, Refresh: ref, Focus: focusCtl, Service: service, Notify: notify, Clock: clk, Log: log}
}

// Dispatch runs cmd inside a light session: cancel in-flight refresh,
// perform the mutation synchronously, schedule a refresh (spec §4.8).
// Commands inapplicable to the active workspace's layout, or issued with
// no active workspace/monitor, are silent no-ops (spec §7 error kind 5).
func (d *Dispatcher) Dispatch(cmd Command) {
	d.Refresh.RunLightSession(func() {
		d.run(cmd)
	})
}

func (d *Dispatcher) run(cmd Command) {
	switch cmd.Kind {
	case FocusDirection, FocusWrapDirection, MoveWindowDirection, SwapWindowDirection,
		MoveColumn, ConsumeWindow, ExpelWindow, FocusColumnIndex, FocusColumnFirst, FocusColumnLast,
		ToggleFullscreen, ToggleColumnTabbed, ToggleColumnFullWidth, ToggleSplitOrientation,
		SwapSplit, CycleSplitRatio, MoveSelectionToRoot, Preselect, Resize, Balance:
		d.runWorkspaceLocal(cmd)
	case FocusPrevious:
		d.runFocusPrevious()
	case WorkspaceNext, WorkspacePrevious, WorkspaceAbsolute, WorkspaceBackAndForth, WorkspaceAnywhere, WorkspaceSummon:
		d.runWorkspaceSwitch(cmd)
	case WorkspaceToMonitor:
		d.runWorkspaceToMonitor(cmd)
	case WindowToWorkspaceDirect, WindowToWorkspaceAdjacent:
		d.runWindowToWorkspace(cmd)
	case MonitorFocusDirection, MonitorFocusCyclic, MonitorFocusLast:
		d.runMonitorFocus(cmd)
	case ToggleNativeFullscreen:
		d.runToggleNativeFullscreen()
	case ToggleUIElement:
		// Bar/overview toggles are external-UI concerns outside this core
		// (spec §1 Non-goals); the hook exists so the hotkey subsystem has
		// somewhere to route them without a special case upstream.
		d.Log.Debugw("toggle_ui_element: no-op in core", "element", cmd.Element)
	}
}

// activeContext resolves the monitor/workspace a workspace-local command
// applies to.
func (d *Dispatcher) activeContext() (model.MonitorID, model.WorkspaceID, *model.WorkspaceDescriptor, bool) {
	if d.CurrentMonitor == nil {
		return model.MonitorID{}, model.WorkspaceID{}, nil, false
	}
	mon := d.CurrentMonitor()
	wsID, ok := d.Store.ActiveWorkspace(mon)
	if !ok {
		return mon, model.WorkspaceID{}, nil, false
	}
	desc, ok := d.Store.Workspace(wsID)
	if !ok {
		return mon, wsID, nil, false
	}
	return mon, wsID, desc, true
}

// runWorkspaceLocal handles every command whose layout_compatibility is
// scroll, binary, or any, scoped to the active workspace's own engine
// state (spec §4.8's column/window/split operations).
func (d *Dispatcher) runWorkspaceLocal(cmd Command) {
	_, wsID, desc, ok := d.activeContext()
	if !ok {
		return
	}

	if desc.Layout == model.LayoutBinary {
		d.runBinaryLocal(cmd, wsID)
		return
	}
	d.runScrollLocal(cmd, wsID)
}

func (d *Dispatcher) runScrollLocal(cmd Command, wsID model.WorkspaceID) {
	ws := d.Refresh.ScrollWorkspace(wsID)
	switch cmd.Kind {
	case FocusDirection:
		ws.FocusDirection(cmd.Dir)
	case FocusWrapDirection:
		switch cmd.Dir {
		case geom.DirUp, geom.DirRight:
			ws.FocusUpOrRight()
		case geom.DirDown, geom.DirLeft:
			ws.FocusDownOrLeft()
		}
	case FocusColumnIndex:
		ws.FocusColumnIndex(cmd.Index)
	case FocusColumnFirst:
		ws.FocusColumnFirst()
	case FocusColumnLast:
		ws.FocusColumnLast()
	case MoveWindowDirection:
		if ws.SelectedNodeID != nil {
			ws.MoveWindow(*ws.SelectedNodeID, cmd.Dir)
		}
	case SwapWindowDirection:
		if ws.SelectedNodeID != nil {
			ws.SwapWindow(*ws.SelectedNodeID, cmd.Dir)
		}
	case MoveColumn:
		ws.MoveColumn(ws.ActiveColumnIndex, cmd.Dir)
	case ConsumeWindow:
		ws.ConsumeWindow(ws.ActiveColumnIndex, cmd.Dir)
	case ExpelWindow:
		if ws.SelectedNodeID != nil {
			ws.ExpelWindow(*ws.SelectedNodeID, cmd.Dir)
		}
	case ToggleFullscreen:
		if ws.SelectedNodeID != nil {
			ws.ToggleFullscreen(*ws.SelectedNodeID)
		}
	case ToggleColumnTabbed:
		ws.ToggleColumnTabbed()
	case ToggleColumnFullWidth:
		ws.ToggleFullWidth()
	case Resize:
		ws.ToggleColumnWidth(cmd.Forward)
	case Balance:
		ws.BalanceSizes()
	// ToggleSplitOrientation, SwapSplit, CycleSplitRatio, MoveSelectionToRoot,
	// and Preselect are binary-only (spec §4.8 layout_compatibility=binary);
	// silently inapplicable here.
	default:
	}
}

func (d *Dispatcher) runBinaryLocal(cmd Command, wsID model.WorkspaceID) {
	tr := d.Refresh.BinaryTree(wsID)
	switch cmd.Kind {
	case FocusDirection:
		tr.MoveFocus(cmd.Dir)
	case MoveWindowDirection, SwapWindowDirection:
		// The binary tree has no column strip to insert into; the closest
		// analogue to "move/swap the focused window" is exchanging it with
		// its geometric neighbor.
		tr.SwapWindows(cmd.Dir)
	case ToggleFullscreen:
		tr.ToggleFullscreen()
	case ToggleSplitOrientation:
		tr.ToggleOrientation()
	case SwapSplit:
		tr.SwapSplit()
	case CycleSplitRatio:
		tr.CycleSplitRatio(cmd.Forward)
	case MoveSelectionToRoot:
		tr.MoveSelectionToRoot(cmd.Stable)
	case Preselect:
		if p := tr.Preselection(); p != nil && *p == cmd.Dir {
			tr.SetPreselection(nil)
		} else {
			dir := cmd.Dir
			tr.SetPreselection(&dir)
		}
	case Resize:
		tr.ResizeSelected(cmd.Delta, cmd.Dir)
	case Balance:
		tr.BalanceSizes()
	// FocusColumnIndex/First/Last, MoveColumn, ConsumeWindow, ExpelWindow,
	// ToggleColumnTabbed/FullWidth, and FocusWrapDirection are scroll-only;
	// silently inapplicable here.
	default:
	}
}

// runFocusPrevious restores the workspace's last-remembered focus target
// (spec §4.8 "focus previous"), distinct from the engine's own selection
// cursor which always points at the current window.
func (d *Dispatcher) runFocusPrevious() {
	_, wsID, _, ok := d.activeContext()
	if !ok {
		return
	}
	last, ok := d.Focus.LastFocused(wsID)
	if !ok {
		return
	}
	d.focusHandle(last, wsID)
}

func (d *Dispatcher) focusHandle(h model.WindowHandle, wsID model.WorkspaceID) {
	d.Focus.FocusWindow(h, wsID, d.Clock.Now(), func(hh model.WindowHandle) error {
		e, ok := d.Store.Entry(hh)
		if !ok {
			return nil
		}
		return d.Service.Focus(hh.PID, hh.WindowID, e.AXRef)
	}, func(model.WindowHandle) {})
}

// runWorkspaceSwitch implements the workspace-switching half of spec
// §4.8's command set: next/previous/absolute/back-and-forth/anywhere/
// summon, each ultimately an active-workspace change on some monitor.
func (d *Dispatcher) runWorkspaceSwitch(cmd Command) {
	mon, activeWS, _, ok := d.activeContext()
	if d.CurrentMonitor == nil {
		return
	}
	if !ok && cmd.Kind != WorkspaceAbsolute && cmd.Kind != WorkspaceSummon {
		return
	}

	switch cmd.Kind {
	case WorkspaceNext:
		if id, ok := d.Store.NextWorkspaceInOrder(mon, activeWS, true); ok {
			d.switchActiveWorkspace(mon, id)
		}
	case WorkspacePrevious:
		if id, ok := d.Store.PreviousWorkspaceInOrder(mon, activeWS, true); ok {
			d.switchActiveWorkspace(mon, id)
		}
	case WorkspaceBackAndForth:
		if id, ok := d.Store.BackAndForth(mon); ok {
			d.Refresh.BeginWorkspaceSwitchAnimation(mon, id, d.Clock.Now())
			d.notifyWorkspaceChanged(activeWS, id)
		}
	case WorkspaceAbsolute:
		if ws, mid, ok := d.Store.FocusWorkspaceByName(cmd.Name, mon); ok {
			d.Refresh.SyncMonitorsFor(ws.ID)
			d.switchActiveWorkspace(mid, ws.ID)
		}
	case WorkspaceAnywhere:
		ws, mid, ok := d.Store.FocusWorkspaceByName(cmd.Name, mon)
		if !ok {
			return
		}
		d.Refresh.SyncMonitorsFor(ws.ID)
		d.switchActiveWorkspace(mid, ws.ID)
		if mid != mon {
			d.focusMonitor(mid)
		}
	case WorkspaceSummon:
		ws, _, ok := d.Store.FocusWorkspaceByName(cmd.Name, mon)
		if !ok {
			return
		}
		if d.Store.SummonWorkspace(ws.ID, mon) {
			d.Refresh.SyncMonitorsFor(ws.ID)
			d.Refresh.BeginWorkspaceSwitchAnimation(mon, ws.ID, d.Clock.Now())
			d.notifyWorkspaceChanged(activeWS, ws.ID)
		}
	}
}

func (d *Dispatcher) switchActiveWorkspace(mon model.MonitorID, target model.WorkspaceID) {
	prev, hadPrev := d.Store.ActiveWorkspace(mon)
	d.Store.SetActiveWorkspace(mon, target)
	d.Refresh.BeginWorkspaceSwitchAnimation(mon, target, d.Clock.Now())
	if hadPrev {
		d.notifyWorkspaceChanged(prev, target)
	}
}

func (d *Dispatcher) notifyWorkspaceChanged(prev, next model.WorkspaceID) {
	if d.Notify == nil || prev == next {
		return
	}
	prevDesc, _ := d.Store.Workspace(prev)
	nextDesc, _ := d.Store.Workspace(next)
	d.Notify.FocusedWorkspaceChanged(wsapi.Transition{
		OldID: prev.String(), NewID: next.String(),
		OldName: wsName(prevDesc), NewName: wsName(nextDesc),
	})
}

func wsName(d *model.WorkspaceDescriptor) string {
	if d == nil {
		return ""
	}
	return d.Name
}

// runWorkspaceToMonitor moves the active workspace on the current monitor
// onto the adjacent monitor in cmd.Dir (spec §4.8 "workspace-to-monitor
// moves").
func (d *Dispatcher) runWorkspaceToMonitor(cmd Command) {
	mon, activeWS, _, ok := d.activeContext()
	if !ok {
		return
	}
	dest, ok := d.Store.AdjacentMonitor(mon, cmd.Dir)
	if !ok {
		return
	}
	d.Store.MoveWorkspaceToMonitor(activeWS, dest)
	d.Refresh.SyncMonitorsFor(activeWS)
}

// runWindowToWorkspace moves the focused window to a named workspace
// (direct) or to the workspace adjacent to the active one on the current
// monitor (spec §4.8 "window-to-workspace moves"). The engine that used
// to own the window drops it on its next refresh pass since the model no
// longer lists it among that workspace's live entries; no direct engine
// surgery is needed.
func (d *Dispatcher) runWindowToWorkspace(cmd Command) {
	h, ok := d.Focus.FocusedHandle()
	if !ok {
		return
	}
	mon, activeWS, _, ok := d.activeContext()
	if !ok {
		return
	}

	var dest model.WorkspaceID
	switch cmd.Kind {
	case WindowToWorkspaceDirect:
		ws, _, ok := d.Store.FocusWorkspaceByName(cmd.Name, mon)
		if !ok {
			return
		}
		dest = ws.ID
	case WindowToWorkspaceAdjacent:
		var ok bool
		switch cmd.Dir {
		case geom.DirRight, geom.DirDown:
			dest, ok = d.Store.NextWorkspaceInOrder(mon, activeWS, true)
		default:
			dest, ok = d.Store.PreviousWorkspaceInOrder(mon, activeWS, true)
		}
		if !ok {
			return
		}
	}
	d.Store.MoveWindowWorkspace(h, dest)
}

// runMonitorFocus switches CurrentMonitor (spec §4.8 "monitor focus
// (direction/cyclic/last)").
func (d *Dispatcher) runMonitorFocus(cmd Command) {
	if d.CurrentMonitor == nil || d.SetCurrentMonitor == nil {
		return
	}
	cur := d.CurrentMonitor()

	switch cmd.Kind {
	case MonitorFocusDirection:
		if dest, ok := d.Store.AdjacentMonitor(cur, cmd.Dir); ok {
			d.focusMonitor(dest)
		}
	case MonitorFocusCyclic:
		mons := model.SortMonitorIDs(monitorIDs(d.Store.Monitors()))
		if len(mons) < 2 {
			return
		}
		for i, id := range mons {
			if id == cur {
				d.focusMonitor(mons[(i+1)%len(mons)])
				return
			}
		}
	case MonitorFocusLast:
		if d.lastMonitor != nil {
			d.focusMonitor(*d.lastMonitor)
		}
	}
}

func monitorIDs(mons []model.Monitor) []model.MonitorID {
	out := make([]model.MonitorID, len(mons))
	for i, m := range mons {
		out[i] = m.ID
	}
	return out
}

func (d *Dispatcher) focusMonitor(dest model.MonitorID) {
	cur := d.CurrentMonitor()
	if cur == dest {
		return
	}
	prev := cur
	d.lastMonitor = &prev
	d.SetCurrentMonitor(dest)
	if d.Notify != nil {
		d.Notify.FocusedMonitorChanged(wsapi.Transition{OldID: prev.String(), NewID: dest.String()})
	}
}

// runToggleNativeFullscreen flips the focused window's OS-level
// fullscreen state through the window service (spec §4.8 "native
// fullscreen"), independent of this engine's own tiling fullscreen.
func (d *Dispatcher) runToggleNativeFullscreen() {
	h, ok := d.Focus.FocusedHandle()
	if !ok {
		return
	}
	e, ok := d.Store.Entry(h)
	if !ok {
		return
	}
	cur, err := d.Service.IsFullscreen(e.AXRef)
	if err != nil {
		d.Log.Debugw("toggle_native_fullscreen: is_fullscreen failed", "error", err)
		return
	}
	if err := d.Service.SetNativeFullscreen(e.AXRef, !cur); err != nil {
		d.Log.Debugw("toggle_native_fullscreen: set_native_fullscreen failed", "error", err)
	}
}
