package geom

import (
	"fmt"

	errs "github.com/matzehuels/seatmap/pkg/errors"
)

// Zoom is a pan/zoom transform: uniform scale K followed by translation
// (X, Y), written translate(X, Y) scale(K). It maps scene coordinates to
// screen coordinates.
type Zoom struct {
	K    float64
	X, Y float64
}

// IdentityZoom leaves the scene unpanned at scale 1.
var IdentityZoom = Zoom{K: 1}

// Matrix returns the affine form of z.
func (z Zoom) Matrix() Matrix { return Matrix{A: z.K, D: z.K, E: z.X, F: z.Y} }

// Apply maps a scene point to the screen.
func (z Zoom) Apply(p Point) Point { return Point{p.X*z.K + z.X, p.Y*z.K + z.Y} }

// Invert maps a screen point back into the scene.
func (z Zoom) Invert(p Point) Point { return Point{(p.X - z.X) / z.K, (p.Y - z.Y) / z.K} }

// Translated returns z panned by (dx, dy) screen units.
func (z Zoom) Translated(dx, dy float64) Zoom { return Zoom{K: z.K, X: z.X + dx, Y: z.Y + dy} }

// ScaledAt returns z with scale k, keeping the scene point under the
// screen point anchor fixed, the way a wheel zoom does.
func (z Zoom) ScaledAt(k float64, anchor Point) Zoom {
	p := z.Invert(anchor)
	return Zoom{K: k, X: anchor.X - p.X*k, Y: anchor.Y - p.Y*k}
}

// String renders z in SVG transform syntax.
func (z Zoom) String() string {
	return fmt.Sprintf("translate(%s, %s) scale(%s)", FormatNumber(z.X), FormatNumber(z.Y), FormatNumber(z.K))
}

// ParseZoom parses a pan/zoom transform string.
func ParseZoom(s string) (Zoom, error) {
	p, err := ParseTransform(s)
	if err != nil {
		return Zoom{}, err
	}
	if p.Rotate != nil {
		return Zoom{}, errs.New(errs.ErrCodeMalformedTransform, "pan/zoom transform cannot rotate: %q", s)
	}
	return Zoom{K: p.Scale, X: p.Translate.X, Y: p.Translate.Y}, nil
}
