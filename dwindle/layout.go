package dwindle

import (
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// GapConfig carries the inner/outer gap pixels applied while computing a
// layout (spec §4.4 calculate_layout / §3 Settings.gaps).
type GapConfig struct {
	Inner int
	Outer int
}

// CalculateLayout computes the target rect for every window in the tree
// within `screen` (the monitor's usable, strut-inset rect), spec §4.4
// calculate_layout(workspace, screen) -> map<window_handle, rect>.
//
// If a fullscreen leaf is set, every other window is omitted and the
// fullscreen leaf receives the full screen rect, undecorated by gaps.
func (t *Tree) CalculateLayout(screen geom.Rect, gaps GapConfig) map[model.WindowHandle]geom.Rect {
	out := make(map[model.WindowHandle]geom.Rect)
	if t.Root == nil {
		return out
	}

	if t.fullscreenLeaf != nil && t.fullscreenLeaf.Handle != nil {
		out[*t.fullscreenLeaf.Handle] = screen
		return out
	}

	inset := screen.Inset(gaps.Outer, gaps.Outer, gaps.Outer, gaps.Outer)
	layoutNode(t.Root, inset, gaps.Inner, out)
	return out
}

func layoutNode(n *Node, rect geom.Rect, innerGap int, out map[model.WindowHandle]geom.Rect) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		if n.Handle != nil {
			out[*n.Handle] = rect
		}
		return
	}

	half := innerGap / 2
	switch n.Orientation {
	case Vertical:
		leftW := int(float64(rect.W) * n.Ratio)
		leftRect := geom.Rect{X: rect.X, Y: rect.Y, W: leftW - half, H: rect.H}
		rightRect := geom.Rect{X: rect.X + leftW + half, Y: rect.Y, W: rect.W - leftW - half, H: rect.H}
		layoutNode(n.Left, leftRect, innerGap, out)
		layoutNode(n.Right, rightRect, innerGap, out)
	case Horizontal:
		topH := int(float64(rect.H) * n.Ratio)
		topRect := geom.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: topH - half}
		bottomRect := geom.Rect{X: rect.X, Y: rect.Y + topH + half, W: rect.W, H: rect.H - topH - half}
		layoutNode(n.Left, topRect, innerGap, out)
		layoutNode(n.Right, bottomRect, innerGap, out)
	}
}

// LeafRect looks up the last-computed rect for a handle within a
// previously computed layout map, returning the zero rect when the
// handle is absent.
func LeafRect(layout map[model.WindowHandle]geom.Rect, h model.WindowHandle) geom.Rect {
	return layout[h]
}
