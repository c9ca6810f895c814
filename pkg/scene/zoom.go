package scene

import (
	"math"
	"time"

	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// ZoomBehavior bounds the pan/zoom scale.
type ZoomBehavior struct {
	MinScale float64
	MaxScale float64
}

// DefaultZoomBehavior allows zooming between 0.1x and 4x.
var DefaultZoomBehavior = ZoomBehavior{MinScale: 0.1, MaxScale: 4}

// ClampScale limits k to the behavior's scale extent.
func (b ZoomBehavior) ClampScale(k float64) float64 {
	return math.Max(b.MinScale, math.Min(k, b.MaxScale))
}

// Zoom returns the current pan/zoom transform.
func (s *Scene) Zoom() geom.Zoom { return s.zoom }

// writeZoom is the only place the view transform changes. Both layers get
// the same value.
func (s *Scene) writeZoom(z geom.Zoom) {
	s.zoom = z
	s.background.Transform = z
	s.interactive.Transform = z
}

// SetZoom replaces the view transform, clamping its scale.
func (s *Scene) SetZoom(z geom.Zoom) error {
	if s.detached {
		return ErrDetached
	}
	if z.K <= 0 || math.IsNaN(z.K) {
		return errs.New(errs.ErrCodeInvalidInput, "zoom scale must be positive, got %v", z.K)
	}
	z.K = s.Behavior.ClampScale(z.K)
	s.writeZoom(z)
	return nil
}

// Pan moves the view by (dx, dy) screen units.
func (s *Scene) Pan(dx, dy float64) error {
	if s.detached {
		return ErrDetached
	}
	s.writeZoom(s.zoom.Translated(dx, dy))
	return nil
}

// ZoomAt changes the scale to k, keeping the scene point under the screen
// point anchor in place.
func (s *Scene) ZoomAt(k float64, anchor geom.Point) error {
	if s.detached {
		return ErrDetached
	}
	if k <= 0 || math.IsNaN(k) {
		return errs.New(errs.ErrCodeInvalidInput, "zoom scale must be positive, got %v", k)
	}
	s.writeZoom(s.zoom.ScaledAt(s.Behavior.ClampScale(k), anchor))
	return nil
}

// ZoomBy multiplies the scale by factor around anchor, as a wheel step does.
func (s *Scene) ZoomBy(factor float64, anchor geom.Point) error {
	return s.ZoomAt(s.zoom.K*factor, anchor)
}

// ApplyInitialView sets the floor's configured initial view.
func (s *Scene) ApplyInitialView() error {
	v := s.Layout.InitialView
	if v.K == 0 {
		v = DefaultInitialView
	}
	return s.SetZoom(v)
}

// =============================================================================
// Zoom to object
// =============================================================================

// DefaultTransitionDuration is how long a zoom-to-object animation runs.
const DefaultTransitionDuration = 750 * time.Millisecond

// zoomToFill is the share of the viewport a zoomed-to object occupies.
const zoomToFill = 0.9

// Transition animates the view from one pan/zoom to another.
type Transition struct {
	From, To geom.Zoom
	Duration time.Duration
	viewport geom.Size
}

// ZoomTo returns a transition that centers obj in a viewport of the given
// size. The target is located from its current on-screen matrix, so it is
// correct under any accumulated pan and zoom. The scene itself is not
// changed; feed the transition's frames to SetZoom.
func (s *Scene) ZoomTo(obj editor.Draggable, viewport geom.Size) (*Transition, error) {
	if s.detached {
		return nil, ErrDetached
	}
	if viewport.W <= 0 || viewport.H <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "viewport must have positive size, got %vx%v", viewport.W, viewport.H)
	}

	// Undo the view part of the CTM to get the object's scene bounds.
	inv, ok := s.zoom.Matrix().Invert()
	if !ok {
		return nil, errs.New(errs.ErrCodeInternal, "view transform is singular")
	}
	bounds := inv.Mul(s.CTM(obj)).Bounds(geom.RectAt(geom.Point{}, obj.Size()))

	k := s.zoom.K
	if !bounds.IsEmpty() {
		k = zoomToFill * math.Min(viewport.W/bounds.W, viewport.H/bounds.H)
	}
	k = s.Behavior.ClampScale(k)
	c := bounds.Center()
	to := geom.Zoom{K: k, X: viewport.W/2 - c.X*k, Y: viewport.H/2 - c.Y*k}

	return &Transition{From: s.zoom, To: to, Duration: DefaultTransitionDuration, viewport: viewport}, nil
}

// At returns the view at progress p ∈ [0, 1], eased in and out. The scene
// point at the viewport center moves linearly while the scale changes
// geometrically, so the motion looks uniform at every zoom level.
func (t *Transition) At(p float64) geom.Zoom {
	switch {
	case p <= 0:
		return t.From
	case p >= 1:
		return t.To
	}
	e := easeCubicInOut(p)
	mid := geom.Point{X: t.viewport.W / 2, Y: t.viewport.H / 2}
	c0, c1 := t.From.Invert(mid), t.To.Invert(mid)
	c := c0.Add(c1.Sub(c0).Scale(e))
	k := t.From.K * math.Pow(t.To.K/t.From.K, e)
	return geom.Zoom{K: k, X: mid.X - c.X*k, Y: mid.Y - c.Y*k}
}

// Frames samples the transition every step. The last frame is always To.
func (t *Transition) Frames(step time.Duration) []geom.Zoom {
	if step <= 0 || t.Duration <= 0 {
		return []geom.Zoom{t.To}
	}
	n := int(math.Ceil(float64(t.Duration) / float64(step)))
	frames := make([]geom.Zoom, n)
	for i := 1; i <= n; i++ {
		frames[i-1] = t.At(float64(i) / float64(n))
	}
	return frames
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
