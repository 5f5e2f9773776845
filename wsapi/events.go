package wsapi

// EventKind enumerates the window-service event stream (spec §4.6/§4.7
// and §6's "Event stream").
type EventKind int

const (
	EventCreated EventKind = iota
	EventChanged // ax_window_changed: moved/resized/attribute change
	EventDestroyed
	EventClosed
	EventMoved
	EventResized
	EventFrontAppChanged
	EventTitleChanged
	EventAppHidden
	EventAppUnhidden
	EventTimerRefresh
)

// Event is one item of the window service's serial event stream.
type Event struct {
	Kind     EventKind
	WindowID uint64
	PID      int
}

// DebounceMillis returns the §4.6 debounce table entry for this event
// kind: ax_window_changed=8, ax_window_created=4, others 0.
func (k EventKind) DebounceMillis() int {
	switch k {
	case EventChanged, EventMoved, EventResized:
		return 8
	case EventCreated:
		return 4
	default:
		return 0
	}
}

// RequiresFullEnumeration reports whether this event kind triggers a full
// refresh (only timer_refresh does, per spec §4.6).
func (k EventKind) RequiresFullEnumeration() bool {
	return k == EventTimerRefresh
}
