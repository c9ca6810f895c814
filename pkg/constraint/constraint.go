// Package constraint clamps proposed geometry to legal values.
//
// Every function here is total: a proposal outside the legal range is
// moved to the nearest legal value, never rejected. Gestures call these
// on every pointer move, so a violation is corrected silently and the
// object simply stops at the boundary.
//
// # Rotated objects
//
// A 90° rotation is approximated rather than solved exactly. The legal
// range of a rotated object is
//
//	x ∈ [w/2, W − 1.5w]
//	y ∈ [−w/2, H − 1.5w]
//
// where w is the object's unrotated width. This is not the true bounding
// box of the rotated rectangle: for non-square seats the rotated footprint
// can poke past the container edge, or stop short of it. Stored floor
// plans were drawn against these bounds, so they are kept as they are.
package constraint

import (
	"math"

	"github.com/matzehuels/seatmap/pkg/geom"
)

// MinSize is the smallest width or height a resized object may have.
const MinSize = 10

// Range is a closed interval [Lo, Hi].
type Range struct {
	Lo, Hi float64
}

// Clamp returns v limited to r, computed as max(Lo, min(v, Hi)). When the
// range is inverted (Hi < Lo, an object larger than its container) the
// lower bound wins.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Lo, math.Min(v, r.Hi))
}

// Contains reports whether v lies inside r.
func (r Range) Contains(v float64) bool {
	return v >= r.Lo && v <= r.Hi
}

// Bounds returns the legal translate ranges for an object of the given size
// inside a container whose origin is at 0,0.
func Bounds(object, container geom.Size, rotation float64) (x, y Range) {
	if IsRotated(rotation) {
		return Range{object.W / 2, container.W - 1.5*object.W},
			Range{-object.W / 2, container.H - 1.5*object.W}
	}
	return Range{0, container.W - object.W}, Range{0, container.H - object.H}
}

// ClampPosition returns the legal translate nearest to proposed for an
// object of the given size and rotation inside a container anchored at the
// origin. A proposal already in range is returned unchanged.
func ClampPosition(proposed geom.Point, object, container geom.Size, rotation float64) geom.Point {
	x, y := Bounds(object, container, rotation)
	return geom.Point{X: x.Clamp(proposed.X), Y: y.Clamp(proposed.Y)}
}

// ClampPositionIn is ClampPosition for a container whose origin is not 0,0,
// such as a diagram viewBox.
func ClampPositionIn(proposed geom.Point, object geom.Size, container geom.Rect, rotation float64) geom.Point {
	origin := container.Origin()
	local := ClampPosition(proposed.Sub(origin), object, container.Size(), rotation)
	return local.Add(origin)
}

// ClampSize raises each dimension of proposed to at least minimum. There is
// no upper bound. Negative proposals, from a handle dragged past the
// object's origin, clamp to minimum as well.
func ClampSize(proposed geom.Size, minimum float64) geom.Size {
	return geom.Size{W: math.Max(proposed.W, minimum), H: math.Max(proposed.H, minimum)}
}

// IsRotated reports whether rotation puts an object into its swapped
// footprint. Only 0 and 90 occur in practice; anything other than a
// multiple of 180 is treated as rotated.
func IsRotated(rotation float64) bool {
	return math.Mod(math.Abs(rotation), 180) != 0
}
