// Package events implements component C7: the event handler that
// consumes the window service's serial event stream and turns each event
// into a model mutation plus a scheduled refresh (spec §4.7).
//
// Grounded on texel/dispatcher.go's EventDispatcher/Listener shape: a
// single consumer draining one channel, switching on event kind, with no
// concurrent handling (matches spec §5's "event -> model update ->
// refresh schedule runs sequentially per event").
package events

import (
	"github.com/stratawm/strata/focus"
	"github.com/stratawm/strata/internal/clock"
	"github.com/stratawm/strata/internal/corelog"
	"github.com/stratawm/strata/model"
	"github.com/stratawm/strata/refresh"
	"github.com/stratawm/strata/wsapi"
)

// Handler consumes wsapi.Event values and drives the model/engines/
// scheduler in response (spec §4.7).
type Handler struct {
	Store     *model.Store
	Service   wsapi.WindowService
	Scheduler *refresh.Scheduler
	Focus     *focus.Controller
	Clock     clock.Clock
	Log       corelog.Logger

	Resolve refresh.ResolveWorkspaceFunc
	Skip    refresh.ShouldSkipFunc

	// CurrentMonitor resolves the monitor that should receive a newly
	// created window's workspace switch, supplied by the orchestrator
	// (the "current interaction monitor" of spec §4.9 step 2).
	CurrentMonitor func() model.MonitorID

	// InitialRefreshComplete reports whether full_refresh's discovery
	// pass has finished; spec §4.7: "if discovery is in progress, ignore"
	// created events (full_refresh's own enumeration already captures
	// them).
	InitialRefreshComplete func() bool

	hiddenApps map[int]bool
}

// NewHandler constructs an event handler wired to the given
// collaborators.
func NewHandler(store *model.Store, service wsapi.WindowService, sched *refresh.Scheduler, focusCtl *focus.Controller, clk clock.Clock, log corelog.Logger) *Handler {
	return &Handler{
		Store: store, Service: service, Scheduler: sched, Focus: focusCtl, Clock: clk, Log: log,
		hiddenApps: make(map[int]bool),
	}
}

// Run drains the service's event channel until it closes, dispatching
// each event serially.
func (h *Handler) Run(events <-chan wsapi.Event) {
	for ev := range events {
		h.Handle(ev)
	}
}

// Handle dispatches a single event per spec §4.7's per-kind rules.
func (h *Handler) Handle(ev wsapi.Event) {
	switch ev.Kind {
	case wsapi.EventCreated:
		h.handleCreated(ev)
	case wsapi.EventDestroyed, wsapi.EventClosed:
		h.handleRemoved(ev)
	case wsapi.EventMoved, wsapi.EventResized:
		h.handleMovedOrResized(ev)
	case wsapi.EventTitleChanged:
		// No layout change; a workspace bar would refresh here, but the
		// bar is out of scope for the core.
	case wsapi.EventFrontAppChanged:
		h.handleFrontAppChanged(ev)
	case wsapi.EventAppHidden:
		h.handleAppHidden(ev)
	case wsapi.EventAppUnhidden:
		h.handleAppUnhidden(ev)
	case wsapi.EventTimerRefresh:
		h.Scheduler.ScheduleRefresh(ev.Kind)
	}
}

func (h *Handler) handleCreated(ev wsapi.Event) {
	if h.InitialRefreshComplete != nil && !h.InitialRefreshComplete() {
		return // full_refresh's own enumeration will pick this window up.
	}
	if _, ok := h.Store.EntryByPIDWindow(ev.PID, ev.WindowID); ok {
		return
	}

	info, err := h.Service.WindowInfo(ev.WindowID)
	if err != nil {
		h.Log.Debugw("created: window_info failed", "window_id", ev.WindowID, "error", err)
		return
	}
	frame, err := h.Service.WindowBounds(ev.WindowID)
	if err != nil {
		h.Log.Debugw("created: window_bounds failed", "window_id", ev.WindowID, "error", err)
		return
	}
	v := wsapi.VisibleWindow{WindowID: ev.WindowID, PID: ev.PID, Frame: frame, BundleID: info.BundleID, Title: info.Title}

	skip, alwaysFloat := h.Skip(v)
	if skip || alwaysFloat {
		return
	}

	ws := h.Resolve(v)
	if h.CurrentMonitor != nil {
		if desc, ok := h.Store.Workspace(ws); ok && desc.MonitorID != nil {
			h.Store.SetActiveWorkspace(*desc.MonitorID, ws)
		}
	}
	h.Store.AddWindow(nil, ev.PID, ev.WindowID, ws)
	h.Scheduler.ScheduleRefresh(ev.Kind)
}

func (h *Handler) handleRemoved(ev wsapi.Event) {
	entry, ok := h.Store.EntryByWindowID(ev.WindowID)
	if !ok {
		return
	}
	handle := entry.Handle
	h.Store.RemoveWindow(handle.PID, handle.WindowID)
	h.Focus.HandleWindowRemoved(handle)
	h.Scheduler.ScheduleRefresh(wsapi.EventDestroyed)
}

func (h *Handler) handleMovedOrResized(ev wsapi.Event) {
	h.Scheduler.ScheduleRefresh(wsapi.EventChanged)
}

func (h *Handler) handleFrontAppChanged(ev wsapi.Event) {
	entries := h.Store.EntriesForPID(ev.PID)
	if len(entries) == 0 {
		h.Focus.SetNonManagedFocus(true)
		return
	}
	h.Focus.SetNonManagedFocus(false)
	target := entries[0]
	h.Focus.FocusWindow(target.Handle, target.WorkspaceID, h.Clock.Now(), func(hh model.WindowHandle) error {
		return h.Service.Focus(hh.PID, hh.WindowID, target.AXRef)
	}, func(model.WindowHandle) {})
}

func (h *Handler) handleAppHidden(ev wsapi.Event) {
	h.hiddenApps[ev.PID] = true
	for _, e := range h.Store.EntriesForPID(ev.PID) {
		h.Store.SetLayoutReason(e.Handle, model.ReasonAppHidden)
	}
	h.Scheduler.ScheduleRefresh(wsapi.EventAppHidden)
}

func (h *Handler) handleAppUnhidden(ev wsapi.Event) {
	delete(h.hiddenApps, ev.PID)
	for _, e := range h.Store.EntriesForPID(ev.PID) {
		if e.Reason == model.ReasonAppHidden {
			h.Store.SetLayoutReason(e.Handle, model.ReasonStandard)
		}
	}
	h.Scheduler.ScheduleRefresh(wsapi.EventAppUnhidden)
}
