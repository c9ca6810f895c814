package editor

import (
	"github.com/google/uuid"

	"github.com/matzehuels/seatmap/pkg/constraint"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// ErrSessionEnded is returned by [Session.Move] after [Session.End].
var ErrSessionEnded = errs.New(errs.ErrCodeNoSession, "gesture session has ended")

// Gesture identifies what a session does to its target.
type Gesture int

const (
	// GestureDrag moves the target.
	GestureDrag Gesture = iota
	// GestureResize changes a room's width and height.
	GestureResize
)

func (g Gesture) String() string {
	switch g {
	case GestureDrag:
		return "drag"
	case GestureResize:
		return "resize"
	default:
		return "unknown"
	}
}

// Session is one start→move×N→end gesture. It carries all gesture state
// explicitly; nothing is stashed on the target.
type Session struct {
	ID      uuid.UUID
	Gesture Gesture
	Target  Draggable

	// Offset is the pointer position minus the target's translate at start
	// (drag), or minus the room rectangle's local origin (resize).
	Offset geom.Point
	// Moves counts applied Move calls.
	Moves int

	ended bool
}

// StartDrag begins dragging obj. pointer is in obj's parent space.
func StartDrag(obj Draggable, pointer geom.Point) *Session {
	return &Session{
		ID:      uuid.New(),
		Gesture: GestureDrag,
		Target:  obj,
		Offset:  pointer.Sub(obj.Translate()),
	}
}

// StartResize begins resizing room from its handle. pointer is in the
// room's local frame, where the room rectangle's origin is always 0,0.
func StartResize(room *Room, pointer geom.Point) *Session {
	return &Session{
		ID:      uuid.New(),
		Gesture: GestureResize,
		Target:  room,
		Offset:  pointer,
	}
}

// Move applies a pointer position to the target and returns the target's
// new translate (drag) or size as a point (resize). container bounds a
// drag; it is ignored by resize, which only enforces MinSize.
func (s *Session) Move(pointer geom.Point, container geom.Rect) (geom.Point, error) {
	if s.ended {
		return geom.Point{}, ErrSessionEnded
	}
	s.Moves++

	switch s.Gesture {
	case GestureResize:
		room := s.Target.(*Room)
		size := constraint.ClampSize(geom.Size{W: pointer.X, H: pointer.Y}, constraint.MinSize)
		room.SetSize(size)
		return geom.Point{X: size.W, Y: size.H}, nil
	default:
		proposed := pointer.Sub(s.Offset)
		p := constraint.ClampPositionIn(proposed, s.Target.Size(), container, s.Target.Rotation())
		s.Target.SetTranslate(p)
		return p, nil
	}
}

// End closes the session. Ending twice is a no-op.
func (s *Session) End() { s.ended = true }

// Ended reports whether End has been called.
func (s *Session) Ended() bool { return s.ended }
