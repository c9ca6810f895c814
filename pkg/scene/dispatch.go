package scene

import (
	"context"
	"fmt"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// DefaultClickTolerance is how far, in screen units, a pointer may travel
// between down and up and still count as a click.
const DefaultClickTolerance = 3

// Dispatcher routes pointer events to gestures on one scene. A pointer
// down on empty space pans the view; on a room, seat or handle it opens a
// drag or resize session. A press that never leaves the click tolerance
// is a click, which toggles a seat's rotation instead of moving it.
//
// A Dispatcher is not safe for concurrent use; front ends deliver events
// from one goroutine.
type Dispatcher struct {
	scene          *Scene
	ClickTolerance float64

	session *editor.Session
	hit     Hit
	down    geom.Point
	last    geom.Point
	moved   bool
	pressed bool
}

// NewDispatcher returns a dispatcher for s.
func NewDispatcher(s *Scene) *Dispatcher {
	return &Dispatcher{scene: s, ClickTolerance: DefaultClickTolerance}
}

// Session returns the live gesture, or nil.
func (d *Dispatcher) Session() *editor.Session { return d.session }

// PointerDown starts a gesture at a screen point. A gesture left open by a
// lost pointer-up is ended first.
func (d *Dispatcher) PointerDown(ctx context.Context, screen geom.Point) (Hit, error) {
	if d.scene.Detached() {
		return Hit{}, ErrDetached
	}
	d.endSession(ctx)

	hit := d.scene.HitTest(screen)
	d.hit, d.down, d.last = hit, screen, screen
	d.moved, d.pressed = false, true

	switch hit.Kind {
	case HitHandle:
		d.session = editor.StartResize(hit.Room, hit.Local)
	case HitSeat:
		d.session = editor.StartDrag(hit.Seat, hit.Local)
	case HitRoom:
		d.session = editor.StartDrag(hit.Room, hit.Scene)
	}
	if d.session != nil {
		observability.Editor().OnGestureStart(ctx, d.session.ID.String(), d.session.Gesture.String(), describe(hit))
	}
	return hit, nil
}

// PointerMove advances the live gesture, or pans when the press started on
// empty space. Moves without a press are ignored.
func (d *Dispatcher) PointerMove(ctx context.Context, screen geom.Point) error {
	if d.scene.Detached() {
		return ErrDetached
	}
	if !d.pressed {
		return nil
	}
	if screen.Dist(d.down) > d.ClickTolerance {
		d.moved = true
	}

	if d.session == nil {
		delta := screen.Sub(d.last)
		d.last = screen
		return d.scene.Pan(delta.X, delta.Y)
	}
	d.last = screen

	var pointer geom.Point
	var container geom.Rect
	switch t := d.session.Target.(type) {
	case *editor.Seat:
		pointer = d.scene.ScreenToLocal(t.Room(), screen)
		container = t.Container()
	case *editor.Room:
		if d.session.Gesture == editor.GestureResize {
			pointer = d.scene.ScreenToLocal(t, screen)
		} else {
			pointer = d.scene.ScreenToScene(screen)
			container = d.scene.Frame()
		}
	}
	_, err := d.session.Move(pointer, container)
	return err
}

// PointerUp ends the press. It reports whether the press was a click; a
// click on a seat toggles its rotation.
func (d *Dispatcher) PointerUp(ctx context.Context, screen geom.Point) (bool, error) {
	if d.scene.Detached() {
		return false, ErrDetached
	}
	if !d.pressed {
		return false, nil
	}
	if screen.Dist(d.down) > d.ClickTolerance {
		d.moved = true
	}
	d.pressed = false
	d.endSession(ctx)

	if d.moved {
		return false, nil
	}
	if d.hit.Kind == HitSeat {
		d.rotate(ctx, d.hit.Seat)
	}
	return true, nil
}

// Click toggles the rotation of the seat under a screen point, for front
// ends that deliver clicks separately from presses.
func (d *Dispatcher) Click(ctx context.Context, screen geom.Point) (Hit, error) {
	if d.scene.Detached() {
		return Hit{}, ErrDetached
	}
	hit := d.scene.HitTest(screen)
	if hit.Kind == HitSeat {
		d.rotate(ctx, hit.Seat)
	}
	return hit, nil
}

// Wheel zooms by factor around the pointer.
func (d *Dispatcher) Wheel(_ context.Context, screen geom.Point, factor float64) error {
	return d.scene.ZoomBy(factor, screen)
}

func (d *Dispatcher) rotate(ctx context.Context, s *editor.Seat) {
	angle := s.ToggleRotation()
	observability.Editor().OnRotate(ctx, s.ID, angle)
}

func (d *Dispatcher) endSession(ctx context.Context) {
	if d.session == nil {
		return
	}
	d.session.End()
	observability.Editor().OnGestureEnd(ctx, d.session.ID.String(), d.session.Gesture.String(), d.session.Moves)
	d.session = nil
}

func describe(h Hit) string {
	switch h.Kind {
	case HitSeat:
		return fmt.Sprintf("seat %d", h.Seat.ID)
	case HitRoom, HitHandle:
		return fmt.Sprintf("room %d", h.Room.ID)
	default:
		return "background"
	}
}
