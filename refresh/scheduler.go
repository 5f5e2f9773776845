// Package refresh implements component C6: the debounced layout/refresh
// controller and its per-display animation ticker (spec §4.6).
//
// scheduler.go is grounded directly on
// internal/runtime/server/publish_scheduler.go's publishScheduler: a
// single in-flight timer per key, reset (not stacked) on every new
// request, with a force-fire path that cancels the timer and runs
// immediately. Here the "key" collapses to a single refresh slot (the
// controller runs exactly one refresh task at a time per spec §4.6's
// "single-threaded cooperative" model) generalized to carry the event's
// required-full-enumeration bit through to the fired callback.
package refresh

import (
	"sync"
	"time"

	"github.com/stratawm/strata/wsapi"
)

// RunFunc is invoked when the scheduler's debounce elapses. `full`
// reports whether a full re-enumeration is required (spec §4.6: "only
// timer_refresh triggers a full enumeration").
type RunFunc func(full bool)

// Scheduler debounces refresh requests per spec §4.6's schedule_refresh:
// refuses while a light session or full enumeration is in progress,
// otherwise cancels any pending task and starts a fresh debounce timer.
type Scheduler struct {
	mu sync.Mutex

	timer   *time.Timer
	run     RunFunc
	pending bool

	lightSessionActive bool
	fullRefreshRunning bool

	afterFunc func(d time.Duration, f func()) *time.Timer
}

// NewScheduler creates a scheduler that invokes run when a debounced
// refresh fires.
func NewScheduler(run RunFunc) *Scheduler {
	return &Scheduler{
		run:       run,
		afterFunc: func(d time.Duration, f func()) *time.Timer { return time.AfterFunc(d, f) },
	}
}

// ScheduleRefresh implements spec §4.6's schedule_refresh(event): a
// no-op while a light session or full refresh is already running,
// otherwise cancels any pending timer and arms a new one for the
// event kind's debounce interval.
func (s *Scheduler) ScheduleRefresh(kind wsapi.EventKind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lightSessionActive || s.fullRefreshRunning {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = true
	full := kind.RequiresFullEnumeration()
	debounce := time.Duration(kind.DebounceMillis()) * time.Millisecond
	s.timer = s.afterFunc(debounce, func() {
		s.mu.Lock()
		if !s.pending {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.fullRefreshRunning = full
		s.mu.Unlock()

		s.run(full)

		if full {
			s.mu.Lock()
			s.fullRefreshRunning = false
			s.mu.Unlock()
		}
	})
}

// Cancel stops any pending (not yet fired) refresh task, used when a
// light session is about to start (spec §4.6's "light session" pattern:
// cancel in-flight refresh, mutate synchronously, re-schedule).
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.pending = false
}

// BeginLightSession marks a light session as active, causing subsequent
// ScheduleRefresh calls to be refused until EndLightSession.
func (s *Scheduler) BeginLightSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightSessionActive = true
}

func (s *Scheduler) EndLightSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lightSessionActive = false
}
