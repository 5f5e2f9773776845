package dwindle

import (
	"testing"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

func handle(pid int, win uint64) model.WindowHandle {
	return model.WindowHandle{PID: pid, WindowID: win}
}

func TestInsertWindowSmartSplit(t *testing.T) {
	tr := NewTree()
	a := handle(1, 1)
	b := handle(1, 2)

	tr.InsertWindow(a, geom.Rect{})
	if tr.Root.Handle == nil || *tr.Root.Handle != a {
		t.Fatalf("expected sole root leaf to carry a")
	}

	// Wide rect: smart split picks Vertical (side by side).
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	if tr.Root.isLeaf() {
		t.Fatalf("expected root to become an internal node")
	}
	if tr.Root.Orientation != Vertical {
		t.Fatalf("expected vertical split for a wide rect, got %v", tr.Root.Orientation)
	}
	if len(tr.Leaves()) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(tr.Leaves()))
	}
}

func TestRemoveWindowPromotesSibling(t *testing.T) {
	tr := NewTree()
	a, b, c := handle(1, 1), handle(1, 2), handle(1, 3)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	tr.InsertWindow(c, geom.Rect{W: 1920, H: 1080})

	tr.RemoveWindow(c)
	if len(tr.Leaves()) != 2 {
		t.Fatalf("expected 2 leaves after removal, got %d", len(tr.Leaves()))
	}

	tr.RemoveWindow(b)
	tr.RemoveWindow(a)
	if tr.Root != nil {
		t.Fatalf("expected empty tree after removing all windows")
	}
}

func TestMoveFocusAndSwap(t *testing.T) {
	tr := NewTree()
	a, b := handle(1, 1), handle(1, 2)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	// Root is Vertical: a left, b right. Selected is b.
	if ok := tr.MoveFocus(geom.DirLeft); !ok {
		t.Fatalf("expected neighbor to the left")
	}
	if *tr.Selected.Handle != a {
		t.Fatalf("expected focus to move to a")
	}
	if ok := tr.SwapWindows(geom.DirRight); !ok {
		t.Fatalf("expected swap to succeed")
	}
	if *tr.Selected.Handle != a {
		t.Fatalf("expected selection to follow the swapped window")
	}
}

func TestCalculateLayoutRespectsRatio(t *testing.T) {
	tr := NewTree()
	a, b := handle(1, 1), handle(1, 2)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	tr.Root.Ratio = 0.25

	layout := tr.CalculateLayout(geom.Rect{W: 2000, H: 1000}, GapConfig{})
	ra, rb := layout[a], layout[b]
	if ra.W >= rb.W {
		t.Fatalf("expected a to be narrower than b at ratio 0.25, got %d vs %d", ra.W, rb.W)
	}
	if ra.W+rb.W != 2000 {
		t.Fatalf("expected widths to sum to screen width, got %d", ra.W+rb.W)
	}
}

func TestToggleFullscreenHidesOthers(t *testing.T) {
	tr := NewTree()
	a, b := handle(1, 1), handle(1, 2)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	tr.Selected = tr.NodeForHandle(a)
	tr.ToggleFullscreen()

	layout := tr.CalculateLayout(geom.Rect{W: 1920, H: 1080}, GapConfig{})
	if len(layout) != 1 {
		t.Fatalf("expected only the fullscreen leaf in the layout, got %d", len(layout))
	}
	if _, ok := layout[a]; !ok {
		t.Fatalf("expected fullscreen leaf a present")
	}

	tr.ToggleFullscreen()
	layout = tr.CalculateLayout(geom.Rect{W: 1920, H: 1080}, GapConfig{})
	if len(layout) != 2 {
		t.Fatalf("expected fullscreen toggle off to restore both leaves")
	}
}

func TestCycleSplitRatio(t *testing.T) {
	tr := NewTree()
	a, b := handle(1, 1), handle(1, 2)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	tr.Root.Ratio = 0.5

	tr.CycleSplitRatio(true)
	if tr.Root.Ratio <= 0.5 {
		t.Fatalf("expected forward cycle to advance ratio above 0.5, got %f", tr.Root.Ratio)
	}
}

func TestMoveSelectionToRootStable(t *testing.T) {
	tr := NewTree()
	a, b, c := handle(1, 1), handle(1, 2), handle(1, 3)
	tr.InsertWindow(a, geom.Rect{})
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})
	tr.InsertWindow(c, geom.Rect{W: 1920, H: 1080})

	tr.Selected = tr.NodeForHandle(c)
	tr.MoveSelectionToRoot(true)
	if tr.Root.isLeaf() || tr.Root.Left.Handle == nil || *tr.Root.Left.Handle != c {
		t.Fatalf("expected promoted leaf c to occupy the root's first child slot")
	}
	if len(tr.Leaves()) != 3 {
		t.Fatalf("expected all 3 windows still present, got %d", len(tr.Leaves()))
	}
}

func TestSetPreselectionConsumedByNextSplit(t *testing.T) {
	tr := NewTree()
	a, b := handle(1, 1), handle(1, 2)
	tr.InsertWindow(a, geom.Rect{})

	left := geom.DirLeft
	tr.SetPreselection(&left)
	tr.InsertWindow(b, geom.Rect{W: 1920, H: 1080})

	if tr.Preselection() != nil {
		t.Fatalf("expected preselection to be consumed by the split")
	}
	if tr.Root.Left.Handle == nil || *tr.Root.Left.Handle != b {
		t.Fatalf("expected new window b placed on the left per preselection")
	}
}
