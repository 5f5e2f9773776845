package model

import (
	"testing"

	"github.com/stratawm/strata/geom"
)

func newMonitor(frame geom.Rect) Monitor {
	return Monitor{ID: NewMonitorID(), Frame: frame, VisibleFrame: frame}
}

func TestAddWindowAndLookup(t *testing.T) {
	s := NewStore(nil)
	mon := newMonitor(geom.Rect{X: 0, Y: 0, W: 1920, H: 1080})
	s.AddMonitor(mon)
	ws := s.CreateWorkspace("1", LayoutScroll, &mon.ID)

	e := s.AddWindow(nil, 100, 1, ws.ID)
	if e.Handle.PID != 100 {
		t.Fatalf("expected pid 100")
	}
	got, ok := s.EntryByPIDWindow(100, 1)
	if !ok || got != e {
		t.Fatalf("expected to find entry by pid/window id")
	}
	if entries := s.EntriesInWorkspace(ws.ID); len(entries) != 1 {
		t.Fatalf("expected 1 entry in workspace, got %d", len(entries))
	}
}

func TestRemoveMissingDropsUnseen(t *testing.T) {
	s := NewStore(nil)
	mon := newMonitor(geom.Rect{W: 1920, H: 1080})
	s.AddMonitor(mon)
	ws := s.CreateWorkspace("1", LayoutScroll, &mon.ID)

	s.AddWindow(nil, 1, 1, ws.ID)
	keep := s.AddWindow(nil, 1, 2, ws.ID)

	removed := s.RemoveMissing(map[WindowHandle]bool{keep.Handle: true})
	if len(removed) != 1 {
		t.Fatalf("expected 1 removed, got %d", len(removed))
	}
	if _, ok := s.EntryByPIDWindow(1, 2); !ok {
		t.Fatalf("expected kept entry to remain")
	}
	if _, ok := s.EntryByPIDWindow(1, 1); ok {
		t.Fatalf("expected unseen entry to be removed")
	}
}

func TestGarbageCollectUnused(t *testing.T) {
	s := NewStore(nil)
	mon := newMonitor(geom.Rect{W: 1920, H: 1080})
	s.AddMonitor(mon)
	active := s.CreateWorkspace("1", LayoutScroll, &mon.ID)
	empty := s.CreateWorkspace("2", LayoutScroll, &mon.ID)
	s.SetActiveWorkspace(mon.ID, active.ID)

	removed := s.GarbageCollectUnused(nil)
	if len(removed) != 1 || removed[0] != empty.ID {
		t.Fatalf("expected empty non-active workspace to be GC'd, got %v", removed)
	}
	if _, ok := s.Workspace(active.ID); !ok {
		t.Fatalf("active workspace must survive GC")
	}

	// A workspace with entries must survive even if inactive.
	withEntries := s.CreateWorkspace("3", LayoutScroll, &mon.ID)
	s.AddWindow(nil, 1, 1, withEntries.ID)
	removed = s.GarbageCollectUnused(nil)
	if len(removed) != 0 {
		t.Fatalf("expected no GC, a non-empty inactive workspace exists: %v", removed)
	}
}

func TestGarbageCollectKeepsFocused(t *testing.T) {
	s := NewStore(nil)
	mon := newMonitor(geom.Rect{W: 1920, H: 1080})
	s.AddMonitor(mon)
	active := s.CreateWorkspace("1", LayoutScroll, &mon.ID)
	s.SetActiveWorkspace(mon.ID, active.ID)
	focused := s.CreateWorkspace("2", LayoutScroll, &mon.ID)

	removed := s.GarbageCollectUnused(&focused.ID)
	if len(removed) != 0 {
		t.Fatalf("expected focused empty workspace to survive, removed=%v", removed)
	}
}

func TestAdjacentMonitorPicksNearestInDirection(t *testing.T) {
	s := NewStore(nil)
	left := newMonitor(geom.Rect{X: 0, Y: 0, W: 1920, H: 1080})
	right := newMonitor(geom.Rect{X: 1920, Y: 0, W: 1920, H: 1080})
	farRight := newMonitor(geom.Rect{X: 5000, Y: 0, W: 1920, H: 1080})
	s.AddMonitor(left)
	s.AddMonitor(right)
	s.AddMonitor(farRight)

	got, ok := s.AdjacentMonitor(left.ID, DirRight)
	if !ok || got != right.ID {
		t.Fatalf("expected nearest monitor to the right, got %v", got)
	}
	if _, ok := s.AdjacentMonitor(left.ID, DirLeft); ok {
		t.Fatalf("expected no monitor to the left")
	}
}

func TestMonitorDisconnectReattachesWorkspaces(t *testing.T) {
	s := NewStore(nil)
	m1 := newMonitor(geom.Rect{W: 1920, H: 1080})
	m2 := newMonitor(geom.Rect{X: 1920, W: 1920, H: 1080})
	s.AddMonitor(m1)
	s.AddMonitor(m2)
	ws3 := s.CreateWorkspace("3", LayoutScroll, &m2.ID)
	ws4 := s.CreateWorkspace("4", LayoutScroll, &m2.ID)

	detached := s.RemoveMonitor(m2.ID)
	if len(detached) != 2 {
		t.Fatalf("expected 2 detached workspaces, got %d", len(detached))
	}
	for _, id := range []WorkspaceID{ws3.ID, ws4.ID} {
		ws, _ := s.Workspace(id)
		if ws.MonitorID != nil {
			t.Fatalf("expected workspace %v to be unattached after monitor removal", id)
		}
	}
	// Reattach them to the surviving monitor, as the orchestrator would.
	s.MoveWorkspaceToMonitor(ws3.ID, m1.ID)
	s.MoveWorkspaceToMonitor(ws4.ID, m1.ID)
	if got := s.WorkspacesOnMonitor(m1.ID); len(got) != 2 {
		t.Fatalf("expected 2 workspaces reattached to m1, got %d", len(got))
	}
}

func TestBackAndForth(t *testing.T) {
	s := NewStore(nil)
	mon := newMonitor(geom.Rect{W: 1920, H: 1080})
	s.AddMonitor(mon)
	ws1 := s.CreateWorkspace("1", LayoutScroll, &mon.ID)
	ws2 := s.CreateWorkspace("2", LayoutScroll, &mon.ID)
	s.SetActiveWorkspace(mon.ID, ws1.ID)
	s.SetActiveWorkspace(mon.ID, ws2.ID)

	back, ok := s.BackAndForth(mon.ID)
	if !ok || back != ws1.ID {
		t.Fatalf("expected back-and-forth to return ws1, got %v", back)
	}
	back2, ok := s.BackAndForth(mon.ID)
	if !ok || back2 != ws2.ID {
		t.Fatalf("expected toggling back-and-forth again to return ws2, got %v", back2)
	}
}
