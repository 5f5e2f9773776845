package scroll

import (
	"time"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/model"
)

// GapConfig carries inner/outer gap pixels (spec §4.3's `gap` terms).
type GapConfig struct {
	Inner int
	Outer int
}

// resolveColumnWidth turns a column's preset cursor into a pixel width
// within workingWidth, applying any pending BalanceSizes override (spec
// §4.3 "Layout rule").
func (w *Workspace) resolveColumnWidth(col *Column, workingWidth int) int {
	if w.balancedProportion > 0 {
		return int(float64(workingWidth) * w.balancedProportion)
	}
	if len(w.WidthPresets) == 0 {
		return workingWidth
	}
	cursor := col.WidthPresetCursor
	if cursor < 0 || cursor >= len(w.WidthPresets) {
		cursor = 0
	}
	preset := w.WidthPresets[cursor]
	switch preset.Kind {
	case PresetFixed:
		return preset.FixedPx
	case PresetAutoFit:
		return workingWidth / 3 // conservative default absent live constraints
	default:
		return int(float64(workingWidth) * preset.Proportion)
	}
}

// resolveRowHeights splits a column's vertical stack into n rows sized
// (h − (n−1)·gap)/n by default (spec §4.3 "non-tabbed column stacks its
// windows vertically").
func resolveRowHeights(n, h, gap int) []int {
	if n == 0 {
		return nil
	}
	usable := h - (n-1)*gap
	base := usable / n
	out := make([]int, n)
	for i := range out {
		out[i] = base
	}
	out[n-1] += usable - base*n // absorb rounding remainder in the last row
	return out
}

// CalculateLayout computes per-window frames within the working area, the
// set of hidden handles with their park side, and each visible/hidden
// handle's current alpha (spec §4.3 pipeline step 9:
// "calculate_combined_layout_using_pools(ws, monitor, gaps, state,
// working_area, animation_time?) ... returns (frames, hidden_handles)").
// anim is the workspace's Animator (nil disables all four animation
// families and falls back to immediate placement); hideSide is the park
// side resolved once per monitor by the refresh controller (spec §8
// "Hidden origin... overlap an adjacent monitor's frame").
func (w *Workspace) CalculateLayout(working geom.Rect, gaps GapConfig, now time.Time, anim *Animator, hideSide HideSide) (map[model.WindowHandle]geom.Rect, map[model.WindowHandle]HideSide, map[model.WindowHandle]float64) {
	frames := make(map[model.WindowHandle]geom.Rect)
	hidden := make(map[model.WindowHandle]HideSide)
	alphas := make(map[model.WindowHandle]float64)

	w.lastWorkingWidth = working.Inset(gaps.Outer, gaps.Outer, gaps.Outer, gaps.Outer).W
	w.lastInnerGap = gaps.Inner

	if w.fullscreenColumn != nil {
		if t := w.fullscreenColumn.activeTile(); t != nil {
			frames[t.Handle] = working
			alphas[t.Handle] = 1
		}
		w.balancedProportion = 0
		return frames, hidden, alphas
	}

	inner := working.Inset(gaps.Outer, gaps.Outer, gaps.Outer, gaps.Outer)
	offset := w.Viewport.Current(now)
	var switchOffset float64
	if anim != nil {
		switchOffset = anim.WorkspaceSwitchOffset(now)
	}

	x := 0
	for _, col := range w.Columns {
		width := w.resolveColumnWidth(col, inner.W)
		col.CachedWidth = width
		stripX := float64(x)
		if anim != nil {
			stripX = anim.RetargetColumn(col.ID, stripX, now)
		}
		colX := inner.X + int(stripX) - int(offset) + int(switchOffset)
		col.CachedFrame = geom.Rect{X: colX, Y: inner.Y, W: width, H: inner.H}

		if col.IsTabbed {
			if t := col.activeTile(); t != nil {
				frame := col.CachedFrame
				if anim != nil {
					dx, dy := anim.WindowOffset(t.ID, now)
					frame.X += int(dx)
					frame.Y += int(dy)
				}
				if t.IsFullscreen {
					frame = working
				}
				frames[t.Handle] = frame
				if anim != nil {
					alphas[t.Handle] = anim.RetargetAlpha(t.ID, 1, now)
				} else {
					alphas[t.Handle] = 1
				}
			}
			for i, win := range col.Windows {
				if i == col.ActiveTileIdx {
					continue
				}
				hidden[win.Handle] = hideSide
				if anim != nil {
					alphas[win.Handle] = anim.RetargetAlpha(win.ID, 0, now)
				}
			}
		} else {
			rows := resolveRowHeights(len(col.Windows), inner.H, gaps.Inner)
			y := inner.Y
			for i, win := range col.Windows {
				r := geom.Rect{X: colX, Y: y, W: width, H: rows[i]}
				if anim != nil {
					dx, dy := anim.WindowOffset(win.ID, now)
					r.X += int(dx)
					r.Y += int(dy)
				}
				if win.IsFullscreen {
					r = working
				}
				frames[win.Handle] = r
				win.CachedFrame = r
				if anim != nil {
					alphas[win.Handle] = anim.RetargetAlpha(win.ID, 1, now)
				} else {
					alphas[win.Handle] = 1
				}
				y += rows[i] + gaps.Inner
			}
		}

		x += width + gaps.Inner
	}

	w.balancedProportion = 0
	return frames, hidden, alphas
}
