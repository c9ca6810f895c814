package scene

import (
	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// ErrDetached is returned by every mutating operation on a torn-down scene.
var ErrDetached = errs.New(errs.ErrCodeDetached, "scene is detached")

// DefaultInfoBoxThreshold applies to floors without their own threshold.
const DefaultInfoBoxThreshold = 250

// DefaultInitialView is the view applied at mount when a floor has none
// configured.
var DefaultInitialView = geom.Zoom{K: 0.8, X: 100, Y: 100}

// DefaultFrame is the scene frame used until a diagram supplies a viewBox.
var DefaultFrame = geom.Rect{W: 1200, H: 800}

// FloorLayout holds the per-floor constants of a scene.
type FloorLayout struct {
	Floor int
	// InfoBoxThreshold is the room Y past which info boxes flip below
	// their room.
	InfoBoxThreshold float64
	// InitialView is applied once when the floor is mounted.
	InitialView geom.Zoom
	// Frame bounds room drags until a diagram viewBox replaces it.
	Frame geom.Rect
}

// DefaultLayout returns the layout of a floor with no configuration of
// its own. Per-floor values come from package config.
func DefaultLayout(floor int) FloorLayout {
	return FloorLayout{
		Floor:            floor,
		InfoBoxThreshold: DefaultInfoBoxThreshold,
		InitialView:      DefaultInitialView,
		Frame:            DefaultFrame,
	}
}

// Layer is one of the two stacked layers of a scene.
type Layer struct {
	Name      string
	Transform geom.Zoom
}

// Background is the bottom layer. It holds the floor diagram markup once
// loaded, or the error that prevented loading.
type Background struct {
	Layer
	// ViewBox is the diagram's native frame.
	ViewBox geom.Rect
	// Content is the diagram's inner markup, ready to embed.
	Content []byte
	// Err records a failed load. The scene stays usable without a diagram.
	Err error
}

// Loaded reports whether a diagram has been mounted.
func (b *Background) Loaded() bool { return b.Content != nil }

// Scene is one mounted floor view.
type Scene struct {
	Layout   FloorLayout
	Behavior ZoomBehavior

	background  *Background
	interactive *Layer
	rooms       []*editor.Room
	frame       geom.Rect
	zoom        geom.Zoom
	detached    bool
}

// New creates a scene with both layers at the identity view. Call
// [Scene.ApplyInitialView] once the scene is mounted.
func New(layout FloorLayout) *Scene {
	if layout.Frame.IsEmpty() {
		layout.Frame = DefaultFrame
	}
	s := &Scene{
		Layout:      layout,
		Behavior:    DefaultZoomBehavior,
		background:  &Background{Layer: Layer{Name: "background"}},
		interactive: &Layer{Name: "interactive"},
		frame:       layout.Frame,
	}
	s.writeZoom(geom.IdentityZoom)
	return s
}

// Background returns the background layer.
func (s *Scene) Background() *Background { return s.background }

// Interactive returns the interactive layer.
func (s *Scene) Interactive() *Layer { return s.interactive }

// Frame returns the scene's coordinate frame: the diagram viewBox when one
// is mounted, otherwise the layout's fallback frame.
func (s *Scene) Frame() geom.Rect { return s.frame }

// SetBackground mounts diagram content with its native frame. The frame
// becomes the scene frame so overlay geometry aligns without scaling.
func (s *Scene) SetBackground(viewBox geom.Rect, content []byte) error {
	if s.detached {
		return ErrDetached
	}
	s.background.ViewBox = viewBox
	s.background.Content = content
	s.background.Err = nil
	if !viewBox.IsEmpty() {
		s.frame = viewBox
	}
	return nil
}

// SetBackgroundError records a failed diagram load. Rooms, seats and the
// current view are left as they are.
func (s *Scene) SetBackgroundError(err error) {
	s.background.Err = err
}

// AddRoom adds a room group on top of the existing ones.
func (s *Scene) AddRoom(r *editor.Room) error {
	if s.detached {
		return ErrDetached
	}
	s.rooms = append(s.rooms, r)
	return nil
}

// Rooms returns the room groups in paint order, bottom-most first.
func (s *Scene) Rooms() []*editor.Room { return s.rooms }

// Room returns the room with the given id.
func (s *Scene) Room(id int64) (*editor.Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// InfoBox returns a room's info box placed by this floor's threshold.
func (s *Scene) InfoBox(r *editor.Room) editor.InfoBox {
	return r.InfoBox(s.Layout.InfoBoxThreshold)
}

// Detach tears the scene down. Later gestures, pans and zooms fail with
// ErrDetached; read accessors keep working so a final render is possible.
func (s *Scene) Detach() { s.detached = true }

// Detached reports whether Detach has been called.
func (s *Scene) Detached() bool { return s.detached }

// =============================================================================
// Coordinate conversion
// =============================================================================

// ScreenToScene maps a screen point into scene coordinates.
func (s *Scene) ScreenToScene(p geom.Point) geom.Point { return s.zoom.Invert(p) }

// SceneToScreen maps a scene point onto the screen.
func (s *Scene) SceneToScreen(p geom.Point) geom.Point { return s.zoom.Apply(p) }

// SceneToLocal maps a scene point into r's local frame.
func (s *Scene) SceneToLocal(r *editor.Room, p geom.Point) geom.Point {
	return p.Sub(r.Translate())
}

// ScreenToLocal maps a screen point into r's local frame.
func (s *Scene) ScreenToLocal(r *editor.Room, p geom.Point) geom.Point {
	return s.SceneToLocal(r, s.ScreenToScene(p))
}

// CTM returns the matrix mapping obj's local coordinates to the screen:
// pan/zoom · room group · object. A detached seat has no room group.
func (s *Scene) CTM(obj editor.Draggable) geom.Matrix {
	m := s.zoom.Matrix()
	switch o := obj.(type) {
	case *editor.Room:
		m = m.Mul(o.Transform().Matrix())
	case *editor.Seat:
		if r := o.Room(); r != nil {
			m = m.Mul(r.Transform().Matrix())
		}
		m = m.Mul(o.Transform().Matrix())
	default:
		m = m.Mul(obj.Transform().Matrix())
	}
	return m
}

// ScreenBounds returns obj's axis-aligned bounding box on screen.
func (s *Scene) ScreenBounds(obj editor.Draggable) geom.Rect {
	return s.CTM(obj).Bounds(geom.RectAt(geom.Point{}, obj.Size()))
}
