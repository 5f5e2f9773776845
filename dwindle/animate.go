package dwindle

import (
	"time"

	"github.com/stratawm/strata/geom"
	"github.com/stratawm/strata/internal/anim"
	"github.com/stratawm/strata/model"
)

// FrameAnimator drives per-window frame transitions when the tree's
// layout is recalculated, grounded on texel/layout_animator.go's
// per-pane weight-animation bookkeeping (a map of pane identity to
// in-flight animation state, retargeted whenever layout recomputes
// weights), generalized here from a single scalar weight to the four
// scalar springs (x, y, w, h) needed to animate a 2D frame.
type FrameAnimator struct {
	Stiffness float64
	Damping   float64

	frames map[model.WindowHandle]*frameSprings
}

type frameSprings struct {
	x, y, w, h *anim.Spring
}

// NewFrameAnimator constructs an animator with the given spring
// constants (spec §4.1's Settings-overridable stiffness/damping).
func NewFrameAnimator(stiffness, damping float64) *FrameAnimator {
	return &FrameAnimator{
		Stiffness: stiffness,
		Damping:   damping,
		frames:    make(map[model.WindowHandle]*frameSprings),
	}
}

// Retarget stages a new target rect for h's animation, starting from its
// current animated value if one is already in flight, or snapping
// directly to the target for a window that has no prior recorded frame
// (first placement should not animate in from the origin).
func (a *FrameAnimator) Retarget(h model.WindowHandle, target geom.Rect, now time.Time) {
	fs, ok := a.frames[h]
	if !ok {
		a.frames[h] = &frameSprings{
			x: anim.NewSpring(float64(target.X), float64(target.X), a.Stiffness, a.Damping, now),
			y: anim.NewSpring(float64(target.Y), float64(target.Y), a.Stiffness, a.Damping, now),
			w: anim.NewSpring(float64(target.W), float64(target.W), a.Stiffness, a.Damping, now),
			h: anim.NewSpring(float64(target.H), float64(target.H), a.Stiffness, a.Damping, now),
		}
		return
	}
	fs.x.Retarget(float64(target.X), now)
	fs.y.Retarget(float64(target.Y), now)
	fs.w.Retarget(float64(target.W), now)
	fs.h.Retarget(float64(target.H), now)
}

// Current returns the current (possibly mid-animation) rect for h. If h
// has never been retargeted, the zero rect is returned.
func (a *FrameAnimator) Current(h model.WindowHandle, now time.Time) geom.Rect {
	fs, ok := a.frames[h]
	if !ok {
		return geom.Rect{}
	}
	return geom.Rect{
		X: int(fs.x.Value(now)),
		Y: int(fs.y.Value(now)),
		W: int(fs.w.Value(now)),
		H: int(fs.h.Value(now)),
	}
}

// IsAnimating reports whether any tracked window's frame is still moving.
func (a *FrameAnimator) IsAnimating(now time.Time) bool {
	for _, fs := range a.frames {
		if !fs.x.IsComplete(now) || !fs.y.IsComplete(now) || !fs.w.IsComplete(now) || !fs.h.IsComplete(now) {
			return true
		}
	}
	return false
}

// Forget drops animation state for a removed window.
func (a *FrameAnimator) Forget(h model.WindowHandle) {
	delete(a.frames, h)
}

// Reconcile drops animation state for any handle not present in `live`,
// matching the refresh controller's reconcile-against-seen-set pattern
// (spec §4.6 step on stray leaf removal).
func (a *FrameAnimator) Reconcile(live map[model.WindowHandle]geom.Rect) {
	for h := range a.frames {
		if _, ok := live[h]; !ok {
			delete(a.frames, h)
		}
	}
}
