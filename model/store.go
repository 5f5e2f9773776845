package model

import (
	"sync"

	"github.com/stratawm/strata/internal/corelog"
)

// Store is component C2: the workspace/monitor model. Grounded on
// texel/desktop.go's `workspaces map[int]*Screen` / `activeWorkspace`
// fields (generalized here from one screen to N monitors) and guarded
// with a sync.RWMutex in the same style server/manager.go uses to guard
// its session map.
type Store struct {
	mu  sync.RWMutex
	log corelog.Logger

	monitors map[MonitorID]*Monitor

	workspaces     map[WorkspaceID]*WorkspaceDescriptor
	monitorOrder   map[MonitorID][]WorkspaceID // per-monitor ordered workspace list
	unattached     map[WorkspaceID]bool
	activeOnMon    map[MonitorID]WorkspaceID
	backAndForth   map[MonitorID][2]WorkspaceID // [previous, current] per monitor

	entries        map[WindowHandle]*WindowEntry
	entriesByWS    map[WorkspaceID]map[WindowHandle]bool
	entriesByPID   map[int]map[WindowHandle]bool

	viewports map[WorkspaceID]*ViewportState
}

// NewStore creates an empty model.
func NewStore(log corelog.Logger) *Store {
	if log == nil {
		log = corelog.NewNop()
	}
	return &Store{
		log:          log,
		monitors:     make(map[MonitorID]*Monitor),
		workspaces:   make(map[WorkspaceID]*WorkspaceDescriptor),
		monitorOrder: make(map[MonitorID][]WorkspaceID),
		unattached:   make(map[WorkspaceID]bool),
		activeOnMon:  make(map[MonitorID]WorkspaceID),
		backAndForth: make(map[MonitorID][2]WorkspaceID),
		entries:      make(map[WindowHandle]*WindowEntry),
		entriesByWS:  make(map[WorkspaceID]map[WindowHandle]bool),
		entriesByPID: make(map[int]map[WindowHandle]bool),
		viewports:    make(map[WorkspaceID]*ViewportState),
	}
}

// --- Monitors -----------------------------------------------------------

// AddMonitor registers a monitor. If it has no workspaces yet, callers
// should follow up with CreateWorkspace to give it at least one.
func (s *Store) AddMonitor(m Monitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.monitors[m.ID] = &m
	if _, ok := s.monitorOrder[m.ID]; !ok {
		s.monitorOrder[m.ID] = nil
	}
}

// RemoveMonitor detaches a monitor; its workspaces become unattached so
// reconcile_after_monitor_change (spec §7 kind 4) can reassign them.
func (s *Store) RemoveMonitor(id MonitorID) (detached []WorkspaceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, wsID := range s.monitorOrder[id] {
		if ws, ok := s.workspaces[wsID]; ok {
			ws.MonitorID = nil
			s.unattached[wsID] = true
			detached = append(detached, wsID)
		}
	}
	delete(s.monitorOrder, id)
	delete(s.activeOnMon, id)
	delete(s.backAndForth, id)
	delete(s.monitors, id)
	return detached
}

func (s *Store) Monitor(id MonitorID) (Monitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.monitors[id]
	if !ok {
		return Monitor{}, false
	}
	return *m, true
}

func (s *Store) Monitors() []Monitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Monitor, 0, len(s.monitors))
	for _, m := range s.monitors {
		out = append(out, *m)
	}
	return out
}

// AdjacentMonitor implements spec §4.2's 2D adjacency: among monitors
// whose frame centroid lies in `dir` from `from`'s centroid, pick the
// nearest; ties broken by monitor id.
func (s *Store) AdjacentMonitor(from MonitorID, dir Direction) (MonitorID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	origin, ok := s.monitors[from]
	if !ok {
		return MonitorID{}, false
	}
	oc := origin.Frame.Center()

	var best *Monitor
	var bestDist int
	for id, m := range s.monitors {
		if id == from {
			continue
		}
		c := m.Frame.Center()
		dx, dy := c.X-oc.X, c.Y-oc.Y
		var inDir bool
		switch dir {
		case DirLeft:
			inDir = dx < 0
		case DirRight:
			inDir = dx > 0
		case DirUp:
			inDir = dy < 0
		case DirDown:
			inDir = dy > 0
		}
		if !inDir {
			continue
		}
		dist := dx*dx + dy*dy
		if best == nil || dist < bestDist || (dist == bestDist && m.ID.Less(best.ID)) {
			mm := m
			best = mm
			bestDist = dist
		}
	}
	if best == nil {
		return MonitorID{}, false
	}
	return best.ID, true
}

// --- Workspaces -----------------------------------------------------------

// CreateWorkspace lazily creates a workspace descriptor (spec §3
// lifecycle: "created lazily on first reference"), optionally attaching
// it to a monitor's ordered list.
func (s *Store) CreateWorkspace(name string, layout LayoutKind, monitor *MonitorID) *WorkspaceDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createWorkspaceLocked(name, layout, monitor)
}

func (s *Store) createWorkspaceLocked(name string, layout LayoutKind, monitor *MonitorID) *WorkspaceDescriptor {
	ws := &WorkspaceDescriptor{ID: NewWorkspaceID(), Name: name, Layout: layout}
	if monitor != nil {
		mid := *monitor
		ws.MonitorID = &mid
		s.monitorOrder[mid] = append(s.monitorOrder[mid], ws.ID)
		if _, ok := s.activeOnMon[mid]; !ok {
			s.activeOnMon[mid] = ws.ID
		}
	} else {
		s.unattached[ws.ID] = true
	}
	s.workspaces[ws.ID] = ws
	s.viewports[ws.ID] = NewViewportState(60)
	return ws
}

// FocusWorkspaceByName resolves spec §4.2's focus_workspace: creates by
// name if missing, attaches to currentMonitor if the existing/created
// workspace is unattached.
func (s *Store) FocusWorkspaceByName(name string, currentMonitor MonitorID) (*WorkspaceDescriptor, MonitorID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ws := range s.workspaces {
		if ws.Name == name {
			if ws.MonitorID == nil {
				delete(s.unattached, ws.ID)
				mid := currentMonitor
				ws.MonitorID = &mid
				s.monitorOrder[mid] = append(s.monitorOrder[mid], ws.ID)
				if _, ok := s.activeOnMon[mid]; !ok {
					s.activeOnMon[mid] = ws.ID
				}
			}
			return ws, *ws.MonitorID, true
		}
	}
	ws := s.createWorkspaceLocked(name, LayoutScroll, &currentMonitor)
	return ws, currentMonitor, true
}

func (s *Store) Workspace(id WorkspaceID) (*WorkspaceDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	return ws, ok
}

// WorkspacesOnMonitor returns the monitor's ordered workspace list.
func (s *Store) WorkspacesOnMonitor(monitor MonitorID) []WorkspaceID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]WorkspaceID(nil), s.monitorOrder[monitor]...)
}

func (s *Store) ActiveWorkspace(monitor MonitorID) (WorkspaceID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.activeOnMon[monitor]
	return id, ok
}

// SetActiveWorkspace switches the active workspace on a monitor, tracking
// back-and-forth history (spec §4.2/§4.8 "back-and-forth").
func (s *Store) SetActiveWorkspace(monitor MonitorID, ws WorkspaceID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.activeOnMon[monitor]
	s.activeOnMon[monitor] = ws
	if had && prev != ws {
		s.backAndForth[monitor] = [2]WorkspaceID{prev, ws}
	}
}

// BackAndForth returns the workspace to switch to for a "toggle previous
// active workspace" command, and swaps the pair so invoking it again
// toggles back.
func (s *Store) BackAndForth(monitor MonitorID) (WorkspaceID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair, ok := s.backAndForth[monitor]
	if !ok {
		return WorkspaceID{}, false
	}
	target := pair[0]
	cur := s.activeOnMon[monitor]
	s.activeOnMon[monitor] = target
	s.backAndForth[monitor] = [2]WorkspaceID{cur, target}
	return target, true
}

// NextWorkspaceInOrder / PreviousWorkspaceInOrder walk a monitor's
// ordered workspace list (spec §4.2).
func (s *Store) NextWorkspaceInOrder(monitor MonitorID, from WorkspaceID, wrap bool) (WorkspaceID, bool) {
	return s.stepWorkspace(monitor, from, 1, wrap)
}

func (s *Store) PreviousWorkspaceInOrder(monitor MonitorID, from WorkspaceID, wrap bool) (WorkspaceID, bool) {
	return s.stepWorkspace(monitor, from, -1, wrap)
}

func (s *Store) stepWorkspace(monitor MonitorID, from WorkspaceID, step int, wrap bool) (WorkspaceID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.monitorOrder[monitor]
	if len(order) == 0 {
		return WorkspaceID{}, false
	}
	idx := -1
	for i, id := range order {
		if id == from {
			idx = i
			break
		}
	}
	if idx == -1 {
		return WorkspaceID{}, false
	}
	next := idx + step
	if next < 0 || next >= len(order) {
		if !wrap {
			return WorkspaceID{}, false
		}
		next = ((next % len(order)) + len(order)) % len(order)
	}
	return order[next], true
}

// MoveWorkspaceToMonitor relocates a workspace's attachment, appending it
// to the destination monitor's order.
func (s *Store) MoveWorkspaceToMonitor(ws WorkspaceID, dest MonitorID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	desc, ok := s.workspaces[ws]
	if !ok {
		return false
	}
	s.detachLocked(ws)
	mid := dest
	desc.MonitorID = &mid
	s.monitorOrder[dest] = append(s.monitorOrder[dest], ws)
	if _, ok := s.activeOnMon[dest]; !ok {
		s.activeOnMon[dest] = ws
	}
	return true
}

// SwapWorkspaces exchanges the monitor attachment of two workspaces
// (spec §4.2 swap_workspaces(a@ma, b@mb)).
func (s *Store) SwapWorkspaces(a, b WorkspaceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wsA, okA := s.workspaces[a]
	wsB, okB := s.workspaces[b]
	if !okA || !okB {
		return false
	}
	monA, monB := wsA.MonitorID, wsB.MonitorID
	s.detachLocked(a)
	s.detachLocked(b)
	if monB != nil {
		mid := *monB
		wsA.MonitorID = &mid
		s.monitorOrder[mid] = append(s.monitorOrder[mid], a)
	} else {
		s.unattached[a] = true
	}
	if monA != nil {
		mid := *monA
		wsB.MonitorID = &mid
		s.monitorOrder[mid] = append(s.monitorOrder[mid], b)
	} else {
		s.unattached[b] = true
	}
	return true
}

// SummonWorkspace brings a workspace to a monitor and makes it active
// there (spec §4.2 summon_workspace).
func (s *Store) SummonWorkspace(ws WorkspaceID, dest MonitorID) bool {
	if !s.MoveWorkspaceToMonitor(ws, dest) {
		return false
	}
	s.SetActiveWorkspace(dest, ws)
	return true
}

func (s *Store) detachLocked(ws WorkspaceID) {
	desc := s.workspaces[ws]
	if desc == nil || desc.MonitorID == nil {
		return
	}
	mid := *desc.MonitorID
	order := s.monitorOrder[mid]
	for i, id := range order {
		if id == ws {
			s.monitorOrder[mid] = append(order[:i], order[i+1:]...)
			break
		}
	}
	if s.activeOnMon[mid] == ws {
		delete(s.activeOnMon, mid)
		if len(s.monitorOrder[mid]) > 0 {
			s.activeOnMon[mid] = s.monitorOrder[mid][0]
		}
	}
	desc.MonitorID = nil
}

// --- Entries --------------------------------------------------------------

func (s *Store) Entry(h WindowHandle) (*WindowEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[h]
	return e, ok
}

func (s *Store) EntryByPIDWindow(pid int, windowID uint64) (*WindowEntry, bool) {
	return s.Entry(WindowHandle{PID: pid, WindowID: windowID})
}

// EntryByWindowID finds the first entry with the given OS window id,
// across all pids. Spec §3 notes the OS window id alone isn't unique
// (only (pid, window-id) is); this is a best-effort convenience lookup
// for callers that only have the raw id (e.g. destroyed/closed events).
func (s *Store) EntryByWindowID(windowID uint64) (*WindowEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for h, e := range s.entries {
		if h.WindowID == windowID {
			return e, true
		}
	}
	return nil, false
}

func (s *Store) EntriesInWorkspace(ws WorkspaceID) []*WindowEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.entriesByWS[ws]
	out := make([]*WindowEntry, 0, len(set))
	for h := range set {
		out = append(out, s.entries[h])
	}
	return out
}

func (s *Store) EntriesForPID(pid int) []*WindowEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.entriesByPID[pid]
	out := make([]*WindowEntry, 0, len(set))
	for h := range set {
		out = append(out, s.entries[h])
	}
	return out
}

func (s *Store) AllEntries() []*WindowEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*WindowEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// AddWindow inserts a new entry (spec §4.2 add_window). Invariant I1:
// the workspace is assumed to already exist.
func (s *Store) AddWindow(ax AXRef, pid int, windowID uint64, ws WorkspaceID) *WindowEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := WindowHandle{PID: pid, WindowID: windowID}
	e := &WindowEntry{Handle: h, WindowID: windowID, WorkspaceID: ws, AXRef: ax, Reason: ReasonStandard}
	s.entries[h] = e
	s.indexLocked(e)
	return e
}

func (s *Store) indexLocked(e *WindowEntry) {
	if s.entriesByWS[e.WorkspaceID] == nil {
		s.entriesByWS[e.WorkspaceID] = make(map[WindowHandle]bool)
	}
	s.entriesByWS[e.WorkspaceID][e.Handle] = true
	if s.entriesByPID[e.Handle.PID] == nil {
		s.entriesByPID[e.Handle.PID] = make(map[WindowHandle]bool)
	}
	s.entriesByPID[e.Handle.PID][e.Handle] = true
}

func (s *Store) unindexLocked(e *WindowEntry) {
	delete(s.entriesByWS[e.WorkspaceID], e.Handle)
	if len(s.entriesByWS[e.WorkspaceID]) == 0 {
		delete(s.entriesByWS, e.WorkspaceID)
	}
	delete(s.entriesByPID[e.Handle.PID], e.Handle)
	if len(s.entriesByPID[e.Handle.PID]) == 0 {
		delete(s.entriesByPID, e.Handle.PID)
	}
}

// MoveWindowWorkspace re-homes an entry to a new workspace without
// removing it, used by move_window_to_workspace (C3/C4).
func (s *Store) MoveWindowWorkspace(h WindowHandle, dest WorkspaceID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok {
		return false
	}
	s.unindexLocked(e)
	e.WorkspaceID = dest
	s.indexLocked(e)
	return true
}

func (s *Store) RemoveWindow(pid int, windowID uint64) (*WindowEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := WindowHandle{PID: pid, WindowID: windowID}
	e, ok := s.entries[h]
	if !ok {
		return nil, false
	}
	s.unindexLocked(e)
	delete(s.entries, h)
	return e, true
}

// RemoveMissing drops every entry whose handle is not in `seen` (spec
// §4.6 full_refresh step 3: "Remove entries not seen").
func (s *Store) RemoveMissing(seen map[WindowHandle]bool) []*WindowEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []*WindowEntry
	for h, e := range s.entries {
		if !seen[h] {
			s.unindexLocked(e)
			delete(s.entries, h)
			removed = append(removed, e)
		}
	}
	return removed
}

func (s *Store) RemoveWindowsForApp(pid int) []*WindowEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed []*WindowEntry
	for h := range s.entriesByPID[pid] {
		e := s.entries[h]
		s.unindexLocked(e)
		delete(s.entries, h)
		removed = append(removed, e)
	}
	return removed
}

// SetLayoutReason flips an entry's layout_reason (spec §4.7 app_hidden/
// app_unhidden).
func (s *Store) SetLayoutReason(h WindowHandle, reason LayoutReason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[h]
	if !ok {
		return false
	}
	e.Reason = reason
	return true
}

// --- Viewport state ---------------------------------------------------------

func (s *Store) ViewportState(ws WorkspaceID) *ViewportState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewports[ws]
}

func (s *Store) UpdateViewportState(ws WorkspaceID, v *ViewportState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewports[ws] = v
}

// WithViewportState runs f against the workspace's viewport state under
// the store's lock, matching spec §4.2's with_viewport_state(ws,
// f(&mut state)) scoped-mutation helper.
func (s *Store) WithViewportState(ws WorkspaceID, f func(*ViewportState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.viewports[ws]
	if v == nil {
		v = NewViewportState(60)
		s.viewports[ws] = v
	}
	f(v)
}

// --- GC ---------------------------------------------------------------------

// GarbageCollectUnused removes workspaces with zero entries that are
// neither `focused` nor active on any monitor (spec §3 lifecycle rule,
// invariant I9).
func (s *Store) GarbageCollectUnused(focused *WorkspaceID) []WorkspaceID {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make(map[WorkspaceID]bool)
	for _, id := range s.activeOnMon {
		active[id] = true
	}

	var removed []WorkspaceID
	for id, ws := range s.workspaces {
		if focused != nil && id == *focused {
			continue
		}
		if active[id] {
			continue
		}
		if len(s.entriesByWS[id]) > 0 {
			continue
		}
		s.detachLocked(id)
		delete(s.unattached, id)
		delete(s.workspaces, id)
		delete(s.viewports, id)
		removed = append(removed, id)
		_ = ws
	}
	return removed
}
