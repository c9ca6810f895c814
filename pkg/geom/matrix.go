package geom

import "math"

// Matrix is a 2D affine transform in SVG order:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
//
// It matches the six values of an SVG matrix(a, b, c, d, e, f) and of
// the current transformation matrix a browser reports for an element.
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity is the transform that leaves every point in place.
var Identity = Matrix{A: 1, D: 1}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix { return Matrix{A: 1, D: 1, E: tx, F: ty} }

// Scale returns a uniform scale by k about the origin.
func Scale(k float64) Matrix { return Matrix{A: k, D: k} }

// Rotate returns a rotation by deg degrees about the origin.
// Positive angles turn clockwise on screen because the y axis points down.
func Rotate(deg float64) Matrix {
	rad := deg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return Matrix{A: c, B: s, C: -s, D: c}
}

// RotateAround returns a rotation by deg degrees about pivot, the same
// operation as SVG rotate(deg, cx, cy).
func RotateAround(deg float64, pivot Point) Matrix {
	return Translate(pivot.X, pivot.Y).Mul(Rotate(deg)).Mul(Translate(-pivot.X, -pivot.Y))
}

// Mul returns m·n: the transform that applies n first, then m.
// This is the order in which nested SVG groups compose, parent first.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Apply maps p through m.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 { return m.A*m.D - m.B*m.C }

// Invert returns the inverse of m. The second result is false when m is
// singular, in which case the identity is returned.
func (m Matrix) Invert() (Matrix, bool) {
	det := m.Det()
	if math.Abs(det) < Epsilon {
		return Identity, false
	}
	inv := 1 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, true
}

// Bounds returns the axis-aligned box covering r after mapping through m.
func (m Matrix) Bounds(r Rect) Rect {
	corners := [4]Point{
		m.Apply(Point{r.X, r.Y}),
		m.Apply(Point{r.X + r.W, r.Y}),
		m.Apply(Point{r.X, r.Y + r.H}),
		m.Apply(Point{r.X + r.W, r.Y + r.H}),
	}
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX, maxX = math.Min(minX, c.X), math.Max(maxX, c.X)
		minY, maxY = math.Min(minY, c.Y), math.Max(maxY, c.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// ApproxEqual reports whether every coefficient of m and n is within tol.
func (m Matrix) ApproxEqual(n Matrix, tol float64) bool {
	return math.Abs(m.A-n.A) <= tol && math.Abs(m.B-n.B) <= tol &&
		math.Abs(m.C-n.C) <= tol && math.Abs(m.D-n.D) <= tol &&
		math.Abs(m.E-n.E) <= tol && math.Abs(m.F-n.F) <= tol
}
