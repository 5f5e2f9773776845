// Package geom provides the absolute-pixel geometry primitives shared by
// the layout engines: rectangles, points, and the four cardinal
// directions used for focus/move navigation.
package geom

// Rect is an absolute-pixel rectangle in the global screen coordinate
// space described by spec §3 ("Monitor"). Unlike the teacher's fractional
// 0..1 Rect, frames here are always in device pixels.
type Rect struct {
	X, Y, W, H int
}

// Point is an absolute-pixel coordinate.
type Point struct {
	X, Y int
}

func (r Rect) MaxX() int { return r.X + r.W }
func (r Rect) MaxY() int { return r.Y + r.H }

// Center returns the centroid of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether p falls within r (half-open, matching the
// teacher's [x0,y0) to [x1,y1) convention in tree.go's NodeBounds).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.MaxX() && p.Y >= r.Y && p.Y < r.MaxY()
}

// Inset shrinks r by the given per-edge amounts, producing the "working
// frame" from a monitor's visible frame and outer gaps (spec §4.9 struts).
func (r Rect) Inset(left, top, right, bottom int) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: max(0, r.W-left-right),
		H: max(0, r.H-top-bottom),
	}
}

// Intersection returns the overlapping region of r and o, and whether one
// exists. Used for hidden-origin side selection (spec §4.6: "unless that
// would overlap an adjacent monitor's frame").
func (r Rect) Intersection(o Rect) (Rect, bool) {
	x0 := max(r.X, o.X)
	y0 := max(r.Y, o.Y)
	x1 := min(r.MaxX(), o.MaxX())
	y1 := min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

// Area returns the pixel area of the rectangle.
func (r Rect) Area() int { return r.W * r.H }
