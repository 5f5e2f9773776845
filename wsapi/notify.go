package wsapi

// Transition carries an (old, new) pair of opaque identifiers and
// human-readable names (spec §6 "Notifications published").
type Transition struct {
	OldID, NewID     string
	OldName, NewName string
}

// NotificationSink is implemented by the orchestrator's external
// observers (bar, overview, etc.). Grounded on texel/dispatcher.go's
// EventDispatcher/Listener publish-subscribe shape, narrowed to the three
// named channels spec §6 requires.
type NotificationSink interface {
	FocusChanged(Transition)
	FocusedWorkspaceChanged(Transition)
	FocusedMonitorChanged(Transition)
}

// NopSink discards every notification; the zero value for orchestrators
// under test that don't care about notifications.
type NopSink struct{}

func (NopSink) FocusChanged(Transition)            {}
func (NopSink) FocusedWorkspaceChanged(Transition) {}
func (NopSink) FocusedMonitorChanged(Transition)   {}

// Broadcaster fans a notification out to any number of subscribed sinks,
// grounded on texel/dispatcher.go's EventDispatcher (Subscribe/
// Unsubscribe/Broadcast over a listener slice).
type Broadcaster struct {
	sinks []NotificationSink
}

func (b *Broadcaster) Subscribe(sink NotificationSink) {
	b.sinks = append(b.sinks, sink)
}

func (b *Broadcaster) Unsubscribe(sink NotificationSink) {
	for i, s := range b.sinks {
		if s == sink {
			b.sinks = append(b.sinks[:i], b.sinks[i+1:]...)
			return
		}
	}
}

func (b *Broadcaster) FocusChanged(t Transition) {
	for _, s := range b.sinks {
		s.FocusChanged(t)
	}
}

func (b *Broadcaster) FocusedWorkspaceChanged(t Transition) {
	for _, s := range b.sinks {
		s.FocusedWorkspaceChanged(t)
	}
}

func (b *Broadcaster) FocusedMonitorChanged(t Transition) {
	for _, s := range b.sinks {
		s.FocusedMonitorChanged(t)
	}
}
