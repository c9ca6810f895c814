package geom

import "math"

// Epsilon is the tolerance used when comparing coordinates.
const Epsilon = 1e-9

// Point is a position or offset in some coordinate space.
// The space is implied by the caller (screen, scene or room-local).
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p − q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point { return Point{p.X * k, p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// ApproxEqual reports whether p and q are within tol on both axes.
func (p Point) ApproxEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// Size is a width/height pair in diagram units.
type Size struct {
	W, H float64
}

// Half returns the center of a box of this size anchored at the origin.
// It is the local rotation pivot of every scene object.
func (s Size) Half() Point { return Point{s.W / 2, s.H / 2} }

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, W, H float64
}

// RectAt returns the rectangle of size s anchored at p.
func RectAt(p Point, s Size) Rect { return Rect{X: p.X, Y: p.Y, W: s.W, H: s.H} }

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{r.X, r.Y} }

// Size returns the rectangle's extent.
func (r Rect) Size() Size { return Size{r.W, r.H} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the midpoint.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// IsEmpty reports whether r has no area.
func (r Rect) IsEmpty() bool { return r.W <= 0 || r.H <= 0 }
