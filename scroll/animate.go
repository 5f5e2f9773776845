package scroll

import (
	"time"

	"github.com/stratawm/strata/internal/anim"
	"github.com/stratawm/strata/model"
)

// Animator drives the scroll engine's four animation families (spec
// §4.3 "Animations"): per-column x offset, per-window move, per-window
// alpha (for tabbed hide/unhide and the appear fade-in), and
// workspace-switch. Closing windows get no animation.
// Grounded on internal/anim.OffsetAnim, itself grounded on
// texel/layout_animator.go's per-pane animation-state map.
type Animator struct {
	Stiffness float64
	Damping   float64

	columns map[model.NodeID]*anim.OffsetAnim
	windows map[model.NodeID]*windowAnim
	switchX *anim.OffsetAnim
}

type windowAnim struct {
	x, y  *anim.OffsetAnim
	alpha *anim.OffsetAnim
}

// NewAnimator constructs an animator with the given spring constants.
func NewAnimator(stiffness, damping float64) *Animator {
	return &Animator{
		Stiffness: stiffness,
		Damping:   damping,
		columns:   make(map[model.NodeID]*anim.OffsetAnim),
		windows:   make(map[model.NodeID]*windowAnim),
	}
}

// AnimateColumnTo retargets column id's x-offset animation from its
// current value to targetX (spec §4.3 "animate_columns_for_addition/
// removal animates each affected column's x offset from its old
// strip-x to its new strip-x").
func (a *Animator) AnimateColumnTo(id model.NodeID, targetX float64, now time.Time) {
	o, ok := a.columns[id]
	if !ok {
		o = anim.NewStaticOffset(targetX)
		a.columns[id] = o
	}
	o.AnimateTo(targetX, a.Stiffness, a.Damping, now)
}

// ColumnOffset returns column id's current animated x-delta from its
// resolved strip position, or 0 if untracked.
func (a *Animator) ColumnOffset(id model.NodeID, now time.Time) float64 {
	if o, ok := a.columns[id]; ok {
		return o.Current(now)
	}
	return 0
}

// RetargetColumn updates column id's strip-x target only when it
// actually changed, and returns the (possibly still in-flight) current
// value. Re-layout passes call this every frame with the column's
// freshly resolved position; comparing against the spring's existing
// target before calling AnimateColumnTo keeps a settled column from
// having its spring needlessly restarted every pipeline run.
func (a *Animator) RetargetColumn(id model.NodeID, targetX float64, now time.Time) float64 {
	o, ok := a.columns[id]
	if !ok {
		a.AnimateColumnTo(id, targetX, now)
		return targetX
	}
	if o.Target(now) != targetX {
		a.AnimateColumnTo(id, targetX, now)
	}
	return o.Current(now)
}

func (a *Animator) windowState(id model.NodeID) *windowAnim {
	wa, ok := a.windows[id]
	if !ok {
		wa = &windowAnim{
			x:     anim.NewStaticOffset(0),
			y:     anim.NewStaticOffset(0),
			alpha: anim.NewStaticOffset(1),
		}
		a.windows[id] = wa
	}
	return wa
}

// AnimateWindowMove retargets a window's per-tile move animation (spec
// §4.3 "per-window" animation family). Row reordering and cross-column
// moves do not call it, so they are not animated.
func (a *Animator) AnimateWindowMove(id model.NodeID, dx, dy float64, now time.Time) {
	wa := a.windowState(id)
	wa.x.AnimateTo(dx, a.Stiffness, a.Damping, now)
	wa.y.AnimateTo(dy, a.Stiffness, a.Damping, now)
}

// WindowOffset returns the current animated (dx, dy) for a window.
func (a *Animator) WindowOffset(id model.NodeID, now time.Time) (float64, float64) {
	wa, ok := a.windows[id]
	if !ok {
		return 0, 0
	}
	return wa.x.Current(now), wa.y.Current(now)
}

// AnimateAlpha retargets a window's alpha animation, driving hide/unhide
// fades for tabbed non-active tiles.
func (a *Animator) AnimateAlpha(id model.NodeID, target float64, now time.Time) {
	wa := a.windowState(id)
	wa.alpha.AnimateTo(target, a.Stiffness, a.Damping, now)
}

// Alpha returns the current animated alpha for a window, defaulting to
// fully opaque for untracked windows.
func (a *Animator) Alpha(id model.NodeID, now time.Time) float64 {
	wa, ok := a.windows[id]
	if !ok {
		return 1
	}
	return wa.alpha.Current(now)
}

// RetargetAlpha updates window id's alpha target only when it changed
// (same rationale as RetargetColumn) and returns the current value,
// driving the tabbed hide/unhide fade each layout pass.
func (a *Animator) RetargetAlpha(id model.NodeID, target float64, now time.Time) float64 {
	wa := a.windowState(id)
	if wa.alpha.Target(now) != target {
		a.AnimateAlpha(id, target, now)
	}
	return wa.alpha.Current(now)
}

// TriggerAppear starts a newly-arrived window's appear animation: alpha
// fades in from 0 and it slides up into place from slideFromY (spec
// §4.6 pipeline step 8: "enqueue 'appear' animations" — "alpha 0→1 and a
// small vertical slide").
func (a *Animator) TriggerAppear(id model.NodeID, slideFromY float64, now time.Time) {
	wa := a.windowState(id)
	wa.alpha.SetStatic(0)
	wa.alpha.AnimateTo(1, a.Stiffness, a.Damping, now)
	wa.y.SetStatic(slideFromY)
	wa.y.AnimateTo(0, a.Stiffness, a.Damping, now)
}

// BeginWorkspaceSwitch animates a full-strip offset used while
// transitioning the visible workspace on a monitor (spec §4.3
// "workspace-switch" animation family).
func (a *Animator) BeginWorkspaceSwitch(from, to float64, now time.Time) {
	a.switchX = anim.NewStaticOffset(from)
	a.switchX.AnimateTo(to, a.Stiffness, a.Damping, now)
}

// WorkspaceSwitchOffset returns the current switch-animation offset, or
// 0 if no switch is in flight.
func (a *Animator) WorkspaceSwitchOffset(now time.Time) float64 {
	if a.switchX == nil {
		return 0
	}
	return a.switchX.Current(now)
}

// HasAnyColumnAnimationsRunning reports whether any column's x offset is
// still animating (spec §4.3 has_any_column_animations_running).
func (a *Animator) HasAnyColumnAnimationsRunning() bool {
	for _, o := range a.columns {
		if o.IsAnimating() {
			return true
		}
	}
	return false
}

// HasAnyWindowAnimationsRunning reports whether any window's move or
// alpha animation is still in flight (spec §4.3
// has_any_window_animations_running).
func (a *Animator) HasAnyWindowAnimationsRunning() bool {
	for _, wa := range a.windows {
		if wa.x.IsAnimating() || wa.y.IsAnimating() || wa.alpha.IsAnimating() {
			return true
		}
	}
	return false
}

// IsWorkspaceSwitchRunning reports whether the workspace-switch
// animation is still in flight.
func (a *Animator) IsWorkspaceSwitchRunning() bool {
	return a.switchX != nil && a.switchX.IsAnimating()
}

// Reconcile drops animation state for columns/windows no longer present,
// mirroring the refresh controller's prune-stray-state pattern.
func (a *Animator) Reconcile(liveColumns, liveWindows map[model.NodeID]bool) {
	for id := range a.columns {
		if !liveColumns[id] {
			delete(a.columns, id)
		}
	}
	for id := range a.windows {
		if !liveWindows[id] {
			delete(a.windows, id)
		}
	}
}
