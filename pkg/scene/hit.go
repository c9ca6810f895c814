package scene

import (
	"slices"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// HitKind says what a pointer landed on.
type HitKind int

const (
	HitNone HitKind = iota
	HitRoom
	HitSeat
	HitHandle
)

func (k HitKind) String() string {
	switch k {
	case HitRoom:
		return "room"
	case HitSeat:
		return "seat"
	case HitHandle:
		return "handle"
	default:
		return "none"
	}
}

// Hit is the result of a hit test.
type Hit struct {
	Kind HitKind
	Room *editor.Room
	Seat *editor.Seat
	// Scene is the pointer in scene coordinates.
	Scene geom.Point
	// Local is the pointer in Room's local frame; zero for HitNone.
	Local geom.Point
}

// Target returns the object a drag on this hit would move.
func (h Hit) Target() editor.Draggable {
	switch h.Kind {
	case HitSeat:
		return h.Seat
	case HitRoom, HitHandle:
		return h.Room
	default:
		return nil
	}
}

// HitTest finds the top-most object under a screen point. Rooms are tried
// top-most first; within a room the resize handle wins over seats, seats
// are tried top-most first, and the room body comes last.
func (s *Scene) HitTest(screen geom.Point) Hit {
	p := s.ScreenToScene(screen)
	for _, r := range slices.Backward(s.rooms) {
		local := s.SceneToLocal(r, p)
		hit := Hit{Room: r, Scene: p, Local: local}

		if r.Handle().Contains(local) {
			hit.Kind = HitHandle
			return hit
		}
		seats := r.Seats()
		for i := len(seats) - 1; i >= 0; i-- {
			if seats[i].Contains(local) {
				hit.Kind = HitSeat
				hit.Seat = seats[i]
				return hit
			}
		}
		if r.Local().Contains(local) {
			hit.Kind = HitRoom
			return hit
		}
	}
	return Hit{Scene: p}
}
