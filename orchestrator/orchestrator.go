// Package orchestrator implements component C9: it owns the live
// settings snapshot and monitor list, wires C1-C8 together, and resolves
// which workspace a newly-seen window lands in (spec §4.9).
//
// Grounded on server/manager.go (the teacher's top-level type that owns a
// registry of sessions and wires each session's sub-components together)
// and internal/settings (the typed read-only snapshot accessor).
package orchestrator

import (
	"sync"

	"github.com/stratawm/strata/command"
	"github.com/stratawm/strata/events"
	"github.com/stratawm/strata/focus"
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/corelog"
	"github.com/stratawm/strata/internal/settings"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/refresh"
	"github.com/stratawm/strata/wsapi"
)

// BundleRule is a per-app-bundle policy entry (spec §3 Settings
// "per-bundle rules including always_float, assigned workspace,
// min_width/height").
type BundleRule struct {
	AlwaysFloat      bool
	AssignToWorkspace string
	MinWidth         int
	MinHeight        int
}

// Settings is the live configuration snapshot the orchestrator reads on
// every resolve/refresh pass (spec §4.9 "Owns the live settings
// snapshot"). It is rebuilt from the external store by LoadSettings;
// the orchestrator never persists it.
type Settings struct {
	Gaps              refresh.Gaps
	OuterStruts       map[model.MonitorID]geom.Rect
	AnimationsEnabled bool
	FocusFollowsMouse bool
	WorkspaceLayout   map[string]model.LayoutKind
	BundleRules       map[string]BundleRule
	SkipBundles       map[string]bool
	DefaultWorkspace  string
}

// LoadSettings reads a Settings snapshot out of an external settings.Section
// (spec §6 "Persisted state: None owned by the core; settings are
// provided by an external store and only read"). Nested sections follow
// the teacher's config/defaults.go key names, generalized from terminal
// panes to windows/workspaces.
func LoadSettings(sec settings.Section) Settings {
	s := Settings{
		Gaps: refresh.Gaps{
			Inner: sec.GetInt("layout", "inner_gap", 8),
			Outer: sec.GetInt("layout", "outer_gap", 8),
		},
		OuterStruts:       make(map[model.MonitorID]geom.Rect),
		AnimationsEnabled: sec.GetBool("animation", "enabled", true),
		FocusFollowsMouse: sec.GetBool("input", "focus_follows_mouse", false),
		WorkspaceLayout:   make(map[string]model.LayoutKind),
		BundleRules:       make(map[string]BundleRule),
		SkipBundles:       make(map[string]bool),
		DefaultWorkspace:  sec.GetString("workspaces", "default", "1"),
	}

	bundles := sec.Section("bundles")
	for name := range bundles {
		b := bundles.Section(name)
		s.BundleRules[name] = BundleRule{
			AlwaysFloat:       b.GetBool("", "always_float", false),
			AssignToWorkspace: b.GetString("", "assign_to_workspace", ""),
			MinWidth:          b.GetInt("", "min_width", 0),
			MinHeight:         b.GetInt("", "min_height", 0),
		}
	}
	skip := sec.Section("skip_bundles")
	for name := range skip {
		s.SkipBundles[name] = true
	}
	return s
}

// Orchestrator wires components C1-C8 and owns the pieces of state that
// span all of them: the settings snapshot, the live monitor list, and
// which monitor currently has interaction focus (spec §4.9).
type Orchestrator struct {
	Store      *model.Store
	Refresh    *refresh.Controller
	Focus      *focus.Controller
	Events     *events.Handler
	Dispatcher *command.Dispatcher
	Notify     *wsapi.Broadcaster
	Service    wsapi.WindowService
	Log        corelog.Logger

	mu              sync.Mutex
	settings        Settings
	currentMonitor  model.MonitorID
	hasCurrentMon   bool
}

// New wires an orchestrator and every component it owns over an
// already-constructed model store and window service. initialMonitor
// seeds the "current interaction monitor" pointer.
func New(store *model.Store, service wsapi.WindowService, clk clock.Clock, log corelog.Logger, s Settings, initialMonitor model.MonitorID) *Orchestrator {
	notify := &wsapi.Broadcaster{}
	focusCtl := focus.NewController()

	o := &Orchestrator{
		Store: store, Notify: notify, Service: service, Log: log,
		Focus: focusCtl, settings: s, currentMonitor: initialMonitor, hasCurrentMon: true,
	}

	o.Refresh = refresh.NewController(store, service, focusCtl, notify, clk, log, s.Gaps, o.resolveWorkspaceForNewWindow, o.shouldSkip)
	o.Events = events.NewHandler(store, service, o.Refresh.Scheduler, focusCtl, clk, log)
	o.Events.Resolve = o.resolveWorkspaceForNewWindow
	o.Events.Skip = o.shouldSkip
	o.Events.CurrentMonitor = o.CurrentMonitor
	o.Events.InitialRefreshComplete = o.Refresh.InitialRefreshComplete

	o.Dispatcher = command.NewDispatcher(store, o.Refresh, focusCtl, service, notify, clk, log)
	o.Dispatcher.CurrentMonitor = o.CurrentMonitor
	o.Dispatcher.SetCurrentMonitor = o.SetCurrentMonitor

	return o
}

// Settings returns the live snapshot; ApplySettings replaces it (e.g.
// after the external store signals a change). Both are safe to call
// concurrently with refresh/event/command processing.
func (o *Orchestrator) Settings() Settings {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.settings
}

func (o *Orchestrator) ApplySettings(s Settings) {
	o.mu.Lock()
	o.settings = s
	o.mu.Unlock()
	o.Refresh.Gaps = s.Gaps
}

// CurrentMonitor returns the monitor with interaction focus (spec §4.9's
// "current interaction monitor"), consulted by resolve_workspace_for_new_
// window and by the command dispatcher's monitor-focus commands.
func (o *Orchestrator) CurrentMonitor() model.MonitorID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.currentMonitor
}

func (o *Orchestrator) SetCurrentMonitor(id model.MonitorID) {
	o.mu.Lock()
	o.currentMonitor = id
	o.mu.Unlock()
}

// AddMonitor registers a new monitor and, if none has interaction focus
// yet, adopts it as the current one.
func (o *Orchestrator) AddMonitor(m model.Monitor) {
	o.Store.AddMonitor(m)
	o.mu.Lock()
	if !o.hasCurrentMon {
		o.currentMonitor = m.ID
		o.hasCurrentMon = true
	}
	o.mu.Unlock()
}

// RemoveMonitor implements spec §7 error kind 4's reconcile_after_monitor_
// change: workspaces on the missing monitor are reattached to the first
// remaining monitor (an arbitrary but deterministic choice, spec leaves
// the target unspecified), and the current-monitor pointer is moved off
// the disconnected monitor if it pointed there.
func (o *Orchestrator) RemoveMonitor(id model.MonitorID) {
	detached := o.Store.RemoveMonitor(id)

	remaining := o.Store.Monitors()
	if len(remaining) > 0 {
		dest := model.SortMonitorIDs(monitorIDs(remaining))[0]
		for _, wsID := range detached {
			o.Store.SummonWorkspace(wsID, dest)
			o.Refresh.SyncMonitorsFor(wsID)
		}
	}

	o.mu.Lock()
	if o.currentMonitor == id {
		o.hasCurrentMon = len(remaining) > 0
		if o.hasCurrentMon {
			o.currentMonitor = remaining[0].ID
		}
	}
	o.mu.Unlock()
}

func monitorIDs(mons []model.Monitor) []model.MonitorID {
	out := make([]model.MonitorID, len(mons))
	for i, m := range mons {
		out[i] = m.ID
	}
	return out
}

// shouldSkip implements spec §4.9's bundle-rule lookup for the refresh/
// event pipelines' skip/always-float filter.
func (o *Orchestrator) shouldSkip(v wsapi.VisibleWindow) (skip, alwaysFloat bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.settings.SkipBundles[v.BundleID] {
		return true, false
	}
	if rule, ok := o.settings.BundleRules[v.BundleID]; ok {
		return false, rule.AlwaysFloat
	}
	return false, false
}

// resolveWorkspaceForNewWindow implements spec §4.9's five-step fallback:
//  1. an assign_to_workspace rule for the window's bundle.
//  2. the active workspace on the current interaction monitor.
//  3. the workspace whose monitor contains the window's centroid.
//  4. a fallback: the workspace already hosting another window of the
//     same process, if any (the nearest available proxy for the spec's
//     unspecified "fallback" parameter, since this window's own process
//     has no workspace of its own yet to prefer).
//  5. the first workspace on any monitor (monitors in SortMonitorIDs
//     order), creating the settings' default workspace on the current
//     monitor if none exists at all.
func (o *Orchestrator) resolveWorkspaceForNewWindow(v wsapi.VisibleWindow) model.WorkspaceID {
	o.mu.Lock()
	rule, hasRule := o.settings.BundleRules[v.BundleID]
	defaultName := o.settings.DefaultWorkspace
	o.mu.Unlock()

	mon := o.CurrentMonitor()

	if hasRule && rule.AssignToWorkspace != "" {
		if ws, _, ok := o.Store.FocusWorkspaceByName(rule.AssignToWorkspace, mon); ok {
			return ws.ID
		}
	}

	if active, ok := o.Store.ActiveWorkspace(mon); ok {
		return active
	}

	if ws := o.workspaceContaining(v.Frame.Center()); ws != (model.WorkspaceID{}) {
		return ws
	}

	for _, e := range o.Store.EntriesForPID(v.PID) {
		return e.WorkspaceID
	}

	for _, mid := range model.SortMonitorIDs(monitorIDs(o.Store.Monitors())) {
		if order := o.Store.WorkspacesOnMonitor(mid); len(order) > 0 {
			return order[0]
		}
	}

	if ws, _, ok := o.Store.FocusWorkspaceByName(defaultName, mon); ok {
		return ws.ID
	}
	return model.WorkspaceID{}
}

// workspaceContaining returns the active workspace of whichever monitor's
// frame contains p, or the zero WorkspaceID if none does.
func (o *Orchestrator) workspaceContaining(p geom.Point) model.WorkspaceID {
	for _, m := range o.Store.Monitors() {
		if m.Frame.Contains(p) {
			if ws, ok := o.Store.ActiveWorkspace(m.ID); ok {
				return ws
			}
		}
	}
	return model.WorkspaceID{}
}
