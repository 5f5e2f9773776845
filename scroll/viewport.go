package scroll

import (
	"time"

	"github.com/stratawm/strata/internal/anim"
)

// Viewport wraps the workspace's horizontal scroll position as a single
// animated offset (spec §3 ViewportState.view_offset_px), grounded on
// internal/anim.OffsetAnim (itself grounded on texel/layout_animator.go's
// animation-mode wrapper).
type Viewport struct {
	offset *anim.OffsetAnim

	Stiffness float64
	Damping   float64
}

// NewViewport creates a viewport at rest at offset 0.
func NewViewport(refreshHz float64) *Viewport {
	return &Viewport{
		offset:    anim.NewStaticOffset(0),
		Stiffness: 220,
		Damping:   26,
	}
}

// Current returns the current (possibly mid-animation) offset.
func (v *Viewport) Current(now time.Time) float64 {
	return v.offset.Current(now)
}

// AnimateTo retargets the viewport's offset animation (spec §4.3
// "ensure_selection_visible").
func (v *Viewport) AnimateTo(target float64, now time.Time) {
	v.offset.AnimateTo(target, v.Stiffness, v.Damping, now)
}

// SetImmediate snaps the viewport to an offset with no animation, used
// by SyncWindows's view-offset shift and by SyncMonitors.
func (v *Viewport) SetImmediate(offset float64) {
	v.offset.SetStatic(offset)
}

// IsAnimating reports whether the viewport offset is still moving.
func (v *Viewport) IsAnimating() bool { return v.offset.IsAnimating() }

// EnsureSelectionVisible implements spec §4.3's seven-step scroll rule:
// keep the selected column within the working area, preferring to leave
// the offset unchanged if it already fits.
func (w *Workspace) EnsureSelectionVisible(workingLeft, workingRight, gap int, now time.Time) {
	col := w.activeColumn()
	if col == nil {
		return
	}

	if w.AlwaysCenterSingleColumn && len(w.Columns) == 1 {
		center := float64(col.CachedWidth)/2 - float64(workingRight-workingLeft)/2
		w.Viewport.AnimateTo(center, now)
		return
	}

	selX, selW := w.stripXOf(w.ActiveColumnIndex, float64(gap))
	offset := w.Viewport.Current(now)

	viewLeft := offset
	viewRight := offset + float64(workingRight-workingLeft)

	switch w.CenterMode {
	case CenterAlways:
		target := selX + selW/2 - float64(workingRight-workingLeft)/2
		w.Viewport.AnimateTo(target, now)
		return
	case CenterOnOverflow:
		if selW > float64(workingRight-workingLeft) {
			target := selX + selW/2 - float64(workingRight-workingLeft)/2
			w.Viewport.AnimateTo(target, now)
			return
		}
	}

	if selX < viewLeft {
		w.Viewport.AnimateTo(selX-float64(gap), now)
		return
	}
	if selX+selW > viewRight {
		w.Viewport.AnimateTo(selX+selW-float64(workingRight-workingLeft)+float64(gap), now)
		return
	}
}

// stripXOf returns the (x, width) of column i in strip-space, computed
// by summing preceding columns' cached widths plus gaps. Callers must
// have already resolved CachedWidth via the layout pass.
func (w *Workspace) stripXOf(i int, gap float64) (float64, float64) {
	x := 0.0
	for j := 0; j < i && j < len(w.Columns); j++ {
		x += float64(w.Columns[j].CachedWidth) + gap
	}
	if i < 0 || i >= len(w.Columns) {
		return x, 0
	}
	return x, float64(w.Columns[i].CachedWidth)
}
