package refresh

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stratawm/strata/wsapi"
)

func TestScheduleRefreshDebouncesRapidEvents(t *testing.T) {
	var calls int32
	s := NewScheduler(func(full bool) { atomic.AddInt32(&calls, 1) })

	s.ScheduleRefresh(wsapi.EventChanged)
	s.ScheduleRefresh(wsapi.EventChanged)
	s.ScheduleRefresh(wsapi.EventChanged)

	time.Sleep(40 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly 1 run after rapid rescheduling, got %d", got)
	}
}

func TestScheduleRefreshTimerRefreshIsFull(t *testing.T) {
	fullCh := make(chan bool, 1)
	s := NewScheduler(func(full bool) { fullCh <- full })

	s.ScheduleRefresh(wsapi.EventTimerRefresh)
	select {
	case full := <-fullCh:
		if !full {
			t.Fatalf("expected timer_refresh to request a full enumeration")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timed out waiting for scheduled run")
	}
}

func TestScheduleRefreshRefusedDuringLightSession(t *testing.T) {
	var calls int32
	s := NewScheduler(func(full bool) { atomic.AddInt32(&calls, 1) })

	s.BeginLightSession()
	s.ScheduleRefresh(wsapi.EventCreated)
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected no run while a light session is active, got %d", got)
	}
	s.EndLightSession()
}

func TestCancelStopsPendingRefresh(t *testing.T) {
	var calls int32
	s := NewScheduler(func(full bool) { atomic.AddInt32(&calls, 1) })

	s.ScheduleRefresh(wsapi.EventChanged)
	s.Cancel()
	time.Sleep(20 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("expected cancel to prevent the debounced run, got %d", got)
	}
}
