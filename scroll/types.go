// Package scroll implements component C3, the scrollable-column engine
// ("NiriEngine"): an ordered, horizontally-infinite strip of columns per
// workspace, each holding a vertical stack of windows (spec §3 "Scroll
// engine nodes", §4.3).
//
// Grounded on texel/tree.go's traversal idioms (parent-pointer walks,
// findFirstLeaf-style "first selectable node" lookups) adapted from a
// binary split tree to an ordered column list — the teacher has no
// column-strip engine of its own, so the shape of the data structures
// here (Column/Workspace, linear-scan column-of-window lookup) is new,
// built in the teacher's idiom: small structs, explicit indices instead
// of back-pointers, reconciliation passes that self-heal invariants
// rather than asserting them.
package scroll

import (
	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// PresetKind selects how a width/height preset resolves to pixels (spec
// §4.3 "resolved from a width preset").
type PresetKind int

const (
	PresetProportion PresetKind = iota // fraction of working-area width
	PresetFixed                        // absolute pixel width
	PresetAutoFit                      // fit to window constraints
)

// WidthPreset is one entry of a column's width-preset cycle.
type WidthPreset struct {
	Kind       PresetKind
	Proportion float64
	FixedPx    int
}

// DefaultWidthPresets mirrors niri's common 1/3, 1/2, 2/3, full-width
// cycle, used when a workspace has no explicit presets configured.
var DefaultWidthPresets = []WidthPreset{
	{Kind: PresetProportion, Proportion: 1.0 / 3.0},
	{Kind: PresetProportion, Proportion: 1.0 / 2.0},
	{Kind: PresetProportion, Proportion: 2.0 / 3.0},
	{Kind: PresetProportion, Proportion: 1.0},
}

// HideSide records which edge of the viewport a hidden tile should be
// parked against (spec §4.3 step 9: "hidden_handles maps handles ...
// to a HideSide ∈ {left, right}").
type HideSide int

const (
	HideLeft HideSide = iota
	HideRight
)

// ScrollWindow is one leaf of a column (spec §3 "Window (scroll node)").
type ScrollWindow struct {
	ID           model.NodeID
	Handle       model.WindowHandle
	IsFullscreen bool
	CachedFrame  geom.Rect
}

// Column is an ordered vertical stack of windows placed in the
// horizontal strip (spec §3 "Column").
type Column struct {
	ID                model.NodeID
	Windows           []*ScrollWindow
	IsTabbed          bool
	ActiveTileIdx     int
	WidthPresetCursor int
	// PrevWidthPresetCursor remembers the cursor the column was on before
	// ToggleFullWidth snapped it to the full-width preset, so toggling
	// back off restores the exact prior width instead of defaulting to
	// the first preset (spec §4.3 toggle_full_width: "remembering the
	// previous preset").
	PrevWidthPresetCursor int
	CachedWidth           int
	CachedFrame           geom.Rect
}

func (c *Column) activeTile() *ScrollWindow {
	if len(c.Windows) == 0 {
		return nil
	}
	idx := c.ActiveTileIdx
	if idx < 0 || idx >= len(c.Windows) {
		idx = 0
	}
	return c.Windows[idx]
}

func (c *Column) indexOfWindow(id model.NodeID) int {
	for i, w := range c.Windows {
		if w.ID == id {
			return i
		}
	}
	return -1
}
