// Package dwindle implements component C4, the binary-partition engine:
// a persistent binary tree of splits/leaves per workspace (spec §3 Binary
// engine nodes, §4.4 operations).
//
// This is the closest direct port in the whole module: the teacher's
// texel/tree.go already implements almost exactly this shape —
// Node{Parent,Split,Pane,SplitRatios,Children} / Tree{Root,ActiveLeaf}
// with SplitActive/CloseActiveLeaf/SwapActivePane/MoveActive/
// findNeighbor/findParentOf/findFirstLeaf/resizeNode — generalized here
// from the teacher's N-ary SplitRatios (arbitrary children via "add to
// existing group") down to the spec's strictly-binary internal node with
// a single scalar ratio, since spec §3 requires "every internal node has
// two children".
package dwindle

import (
	"math"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// Orientation is a split's axis, spec §3's orientation∈{h,v}.
type Orientation int

const (
	Horizontal Orientation = iota // children stacked top/bottom
	Vertical                      // children side by side, left/right
)

// MinRatio/MaxRatio are the safe clamp band from spec §4.4 ("ratios are
// clamped to a safe band (e.g. [0.1, 0.9])").
const (
	MinRatio = 0.1
	MaxRatio = 0.9
)

// RatioPresets is the cycle_split_ratio ring (spec §4.4).
var RatioPresets = []float64{0.25, 1.0 / 3.0, 0.5, 2.0 / 3.0, 0.75}

// Node is either an internal split node (Left/Right set, Handle nil) or a
// leaf (Left/Right nil). A leaf may have a nil Handle only transiently
// during preselection (spec §3: "a leaf may be empty during
// preselection").
type Node struct {
	ID          model.NodeID
	Parent      *Node
	Orientation Orientation
	Ratio       float64
	Left        *Node
	Right       *Node
	Handle      *model.WindowHandle
}

func (n *Node) isLeaf() bool { return n.Left == nil && n.Right == nil }

func clampRatio(r float64) float64 {
	return math.Max(MinRatio, math.Min(MaxRatio, r))
}

// Tree is the per-workspace binary partition tree (spec §3/§4.4).
type Tree struct {
	Root     *Node
	Selected *Node

	SmartSplit   bool
	preselectDir *geom.Direction

	fullscreenLeaf *Node
}

// NewTree creates an empty tree. SmartSplit defaults to true per spec
// §4.4 ("unless smart_split is off").
func NewTree() *Tree {
	return &Tree{SmartSplit: true}
}

// IsEmpty reports whether the tree has no windows.
func (t *Tree) IsEmpty() bool { return t.Root == nil }

// Leaves returns every leaf with a non-nil handle, used by the refresh
// controller to reconcile the tree against the model's entry set
// (invariant I2).
func (t *Tree) Leaves() []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		if n.isLeaf() {
			if n.Handle != nil {
				out = append(out, n)
			}
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.Root)
	return out
}

// NodeForHandle finds the leaf carrying handle h.
func (t *Tree) NodeForHandle(h model.WindowHandle) *Node {
	for _, n := range t.Leaves() {
		if *n.Handle == h {
			return n
		}
	}
	return nil
}

// InsertWindow adds a new window to the tree (spec §4.4 "Smart split").
// If the tree is empty, the window becomes the sole root leaf. Otherwise
// the currently selected leaf is split: along a staged preselection
// direction if one is set (consumed and cleared), else along the shorter
// axis of the selected leaf's last-known rect when SmartSplit is on, else
// the tree's ambient default orientation (Vertical).
func (t *Tree) InsertWindow(h model.WindowHandle, selectedRect geom.Rect) *Node {
	leaf := &Node{ID: model.NewNodeID(), Handle: &h}

	if t.Root == nil {
		t.Root = leaf
		t.Selected = leaf
		return leaf
	}

	target := t.Selected
	if target == nil || !target.isLeaf() {
		target = t.Leaves()[0]
	}

	orientation, newFirst := t.resolveSplitDirection(selectedRect)

	var existingHandle *model.WindowHandle
	existingHandle = target.Handle
	target.Handle = nil

	left := &Node{ID: model.NewNodeID(), Handle: existingHandle}
	right := leaf
	if newFirst {
		left, right = leaf, &Node{ID: model.NewNodeID(), Handle: existingHandle}
	}
	left.Parent = target
	right.Parent = target
	target.Orientation = orientation
	target.Ratio = 0.5
	target.Left = left
	target.Right = right

	t.Selected = leaf
	return leaf
}

// resolveSplitDirection decides the new split's orientation and whether
// the new leaf goes first (left/top) or second, consuming any staged
// preselection direction.
func (t *Tree) resolveSplitDirection(selectedRect geom.Rect) (Orientation, bool) {
	if t.preselectDir != nil {
		dir := *t.preselectDir
		t.preselectDir = nil
		switch dir {
		case geom.DirLeft:
			return Vertical, true
		case geom.DirRight:
			return Vertical, false
		case geom.DirUp:
			return Horizontal, true
		case geom.DirDown:
			return Horizontal, false
		}
	}
	if t.SmartSplit && selectedRect.W > 0 && selectedRect.H > 0 {
		if selectedRect.W >= selectedRect.H {
			return Vertical, false
		}
		return Horizontal, false
	}
	return Vertical, false
}

// SetPreselection stages the next split's side (spec §4.4 set_preselection).
func (t *Tree) SetPreselection(dir *geom.Direction) {
	t.preselectDir = dir
}

// Preselection returns the currently staged direction, if any.
func (t *Tree) Preselection() *geom.Direction { return t.preselectDir }

// RemoveWindow removes the leaf carrying h, promoting its sibling into
// its parent's slot (mirrors texel/tree.go's CloseActiveLeaf child-
// promotion), and returns the node that should become selected.
func (t *Tree) RemoveWindow(h model.WindowHandle) *Node {
	leaf := t.NodeForHandle(h)
	if leaf == nil {
		return t.Selected
	}
	return t.removeLeaf(leaf)
}

func (t *Tree) removeLeaf(leaf *Node) *Node {
	parent := leaf.Parent
	if parent == nil {
		// Sole window in the workspace.
		t.Root = nil
		t.Selected = nil
		return nil
	}

	var sibling *Node
	if parent.Left == leaf {
		sibling = parent.Right
	} else {
		sibling = parent.Left
	}
	sibling.Parent = parent.Parent
	if parent.Parent == nil {
		t.Root = sibling
	} else {
		grand := parent.Parent
		if grand.Left == parent {
			grand.Left = sibling
		} else {
			grand.Right = sibling
		}
	}
	if t.fullscreenLeaf == leaf {
		t.fullscreenLeaf = nil
	}
	next := t.findFirstLeaf(sibling)
	t.Selected = next
	return next
}

func (t *Tree) findFirstLeaf(n *Node) *Node {
	if n == nil {
		return nil
	}
	for !n.isLeaf() {
		n = n.Left
	}
	return n
}

// --- Navigation -------------------------------------------------------------

// MoveFocus selects the geometric neighbor of the selected leaf in the
// given direction (spec §4.4 move_focus), ported from
// texel/tree.go's findNeighbor.
func (t *Tree) MoveFocus(dir geom.Direction) bool {
	n := t.findNeighbor(t.Selected, dir)
	if n == nil {
		return false
	}
	t.Selected = n
	return true
}

func (t *Tree) findNeighbor(from *Node, dir geom.Direction) *Node {
	curr := from
	for curr != nil && curr.Parent != nil {
		parent := curr.Parent
		switch dir {
		case geom.DirRight:
			if parent.Orientation == Vertical && parent.Left == curr {
				return t.findFirstLeaf(parent.Right)
			}
		case geom.DirLeft:
			if parent.Orientation == Vertical && parent.Right == curr {
				return t.findFirstLeaf(parent.Left)
			}
		case geom.DirDown:
			if parent.Orientation == Horizontal && parent.Left == curr {
				return t.findFirstLeaf(parent.Right)
			}
		case geom.DirUp:
			if parent.Orientation == Horizontal && parent.Right == curr {
				return t.findFirstLeaf(parent.Left)
			}
		}
		curr = parent
	}
	return nil
}

// SwapWindows swaps the selected leaf's handle with its neighbor's handle
// in the given direction (spec §4.4 swap_windows), ported from
// texel/tree.go's SwapActivePane.
func (t *Tree) SwapWindows(dir geom.Direction) bool {
	neighbor := t.findNeighbor(t.Selected, dir)
	if neighbor == nil || t.Selected == nil {
		return false
	}
	t.Selected.Handle, neighbor.Handle = neighbor.Handle, t.Selected.Handle
	t.Selected = neighbor
	return true
}

// --- Structural operations ---------------------------------------------------

// ToggleFullscreen raises the selected leaf to the workspace root
// temporarily (spec §4.4 toggle_fullscreen); calling it again restores
// the tree. Invariant: at most one fullscreen_leaf per workspace.
func (t *Tree) ToggleFullscreen() {
	if t.fullscreenLeaf != nil {
		t.fullscreenLeaf = nil
		return
	}
	if t.Selected != nil && t.Selected.isLeaf() {
		t.fullscreenLeaf = t.Selected
	}
}

func (t *Tree) FullscreenLeaf() *Node { return t.fullscreenLeaf }

// BalanceSizes resets the ratio of every internal node in the tree to
// 0.5 (spec §4.4 balance_sizes), regardless of which leaf is selected.
func (t *Tree) BalanceSizes() {
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || n.isLeaf() {
			return
		}
		n.Ratio = 0.5
		walk(n.Left)
		walk(n.Right)
	}
	walk(t.Root)
}

// ToggleOrientation flips the orientation of the selected leaf's parent
// split (spec §4.4 toggle_orientation).
func (t *Tree) ToggleOrientation() bool {
	if t.Selected == nil || t.Selected.Parent == nil {
		return false
	}
	p := t.Selected.Parent
	if p.Orientation == Horizontal {
		p.Orientation = Vertical
	} else {
		p.Orientation = Horizontal
	}
	return true
}

// SwapSplit swaps the two children of the selected leaf's parent internal
// node (spec §4.4 swap_split).
func (t *Tree) SwapSplit() bool {
	if t.Selected == nil || t.Selected.Parent == nil {
		return false
	}
	p := t.Selected.Parent
	p.Left, p.Right = p.Right, p.Left
	return true
}

// CycleSplitRatio advances the selected leaf's parent ratio through
// RatioPresets (spec §4.4 cycle_split_ratio(forward)).
func (t *Tree) CycleSplitRatio(forward bool) bool {
	if t.Selected == nil || t.Selected.Parent == nil {
		return false
	}
	p := t.Selected.Parent
	idx := closestPresetIndex(p.Ratio)
	if forward {
		idx = (idx + 1) % len(RatioPresets)
	} else {
		idx = (idx - 1 + len(RatioPresets)) % len(RatioPresets)
	}
	p.Ratio = RatioPresets[idx]
	return true
}

func closestPresetIndex(ratio float64) int {
	best, bestDist := 0, math.MaxFloat64
	for i, r := range RatioPresets {
		d := math.Abs(r - ratio)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// ResizeSelected adjusts the ratio of the nearest ancestor split whose
// orientation matches `dir` (spec §4.4 resize_selected(delta, direction)).
func (t *Tree) ResizeSelected(delta float64, dir geom.Direction) bool {
	n := t.Selected
	for n != nil && n.Parent != nil {
		p := n.Parent
		wantHorizontalMove := dir.IsHorizontal() && p.Orientation == Vertical
		wantVerticalMove := !dir.IsHorizontal() && p.Orientation == Horizontal
		if wantHorizontalMove || wantVerticalMove {
			sign := 1.0
			if (dir == geom.DirLeft || dir == geom.DirUp) && p.Left == n {
				sign = -1.0
			} else if (dir == geom.DirRight || dir == geom.DirDown) && p.Right == n {
				sign = -1.0
			}
			p.Ratio = clampRatio(p.Ratio + sign*delta)
			return true
		}
		n = p
	}
	return false
}

// MoveSelectionToRoot promotes the selected leaf's subtree to the
// workspace root (spec §4.4 move_selection_to_root(stable)). `stable`
// decides whether the promoted leaf keeps the "first child" (left/top)
// slot of the new root, preserving its visual position, versus being
// appended as the second child.
func (t *Tree) MoveSelectionToRoot(stable bool) bool {
	leaf := t.Selected
	if leaf == nil || leaf.Parent == nil {
		return false // already root, or empty tree
	}
	// Detach leaf from its current position, healing the hole exactly
	// like a removal, but without discarding the leaf itself.
	parent := leaf.Parent
	var sibling *Node
	if parent.Left == leaf {
		sibling = parent.Right
	} else {
		sibling = parent.Left
	}
	sibling.Parent = parent.Parent
	if parent.Parent == nil {
		t.Root = sibling
	} else {
		grand := parent.Parent
		if grand.Left == parent {
			grand.Left = sibling
		} else {
			grand.Right = sibling
		}
	}

	oldRoot := t.Root
	newRoot := &Node{ID: model.NewNodeID(), Orientation: Vertical, Ratio: 0.5}
	leaf.Parent = newRoot
	oldRoot.Parent = newRoot
	if stable {
		newRoot.Left, newRoot.Right = leaf, oldRoot
	} else {
		newRoot.Left, newRoot.Right = oldRoot, leaf
	}
	t.Root = newRoot
	t.Selected = leaf
	return true
}
