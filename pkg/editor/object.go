package editor

import (
	"slices"

	"github.com/matzehuels/seatmap/pkg/constraint"
	"github.com/matzehuels/seatmap/pkg/geom"
)

// Draggable is a scene object that a drag session can move.
type Draggable interface {
	// Translate returns the object's position in its parent space.
	Translate() geom.Point
	// SetTranslate moves the object. Callers are expected to clamp first.
	SetTranslate(geom.Point)
	// Size returns the object's unrotated extent.
	Size() geom.Size
	// Rotation returns the object's rotation in degrees.
	Rotation() float64
	// Transform returns the object's composed translate and rotate.
	Transform() geom.Transform
}

var (
	_ Draggable = (*Room)(nil)
	_ Draggable = (*Seat)(nil)
)

// Employee is a person assigned to a seat. Employees are read-only
// enrichment and are never written back.
type Employee struct {
	ID         int64
	FullName   string
	Occupation string
}

// =============================================================================
// Room
// =============================================================================

// Room is a rectangular area of a floor. Its translate is in scene
// coordinates and its seats live in its local frame.
type Room struct {
	ID     int64
	Number string
	Name   string

	translate geom.Point
	size      geom.Size
	seats     []*Seat
}

// NewRoom creates a room occupying rect in scene coordinates.
func NewRoom(id int64, number, name string, rect geom.Rect) *Room {
	return &Room{
		ID:        id,
		Number:    number,
		Name:      name,
		translate: rect.Origin(),
		size:      rect.Size(),
	}
}

func (r *Room) Translate() geom.Point { return r.translate }
func (r *Room) SetTranslate(p geom.Point) { r.translate = p }
func (r *Room) Size() geom.Size { return r.size }
func (r *Room) Rotation() float64 { return 0 }
func (r *Room) Transform() geom.Transform { return geom.Compose(r.translate, nil) }

// SetSize changes the room's extent. Callers are expected to clamp first.
func (r *Room) SetSize(s geom.Size) { r.size = s }

// Rect returns the room's footprint in scene coordinates.
func (r *Room) Rect() geom.Rect { return geom.RectAt(r.translate, r.size) }

// Local returns the room's own rectangle in its local frame. It is the
// container seats are clamped against.
func (r *Room) Local() geom.Rect { return geom.RectAt(geom.Point{}, r.size) }

// AddSeat attaches s to the room. A seat belongs to one room at a time.
func (r *Room) AddSeat(s *Seat) {
	if s.room != nil && s.room != r {
		s.room.RemoveSeat(s.ID)
	}
	s.room = r
	r.seats = append(r.seats, s)
}

// RemoveSeat detaches the seat with the given id.
func (r *Room) RemoveSeat(id int64) {
	r.seats = slices.DeleteFunc(r.seats, func(s *Seat) bool {
		if s.ID == id {
			s.room = nil
			return true
		}
		return false
	})
}

// Seats returns the room's seats in paint order, bottom-most first.
func (r *Room) Seats() []*Seat { return r.seats }

// Seat returns the seat with the given id.
func (r *Room) Seat(id int64) (*Seat, bool) {
	for _, s := range r.seats {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// =============================================================================
// Seat
// =============================================================================

// Seat is a desk inside a room. Its translate is in the owning room's
// local frame.
type Seat struct {
	ID     int64
	Number string

	translate geom.Point
	size      geom.Size
	rotation  float64
	employees []Employee
	room      *Room
}

// NewSeat creates a seat at rect in room-local coordinates.
func NewSeat(id int64, number string, rect geom.Rect, rotation float64) *Seat {
	return &Seat{
		ID:        id,
		Number:    number,
		translate: rect.Origin(),
		size:      rect.Size(),
		rotation:  rotation,
	}
}

func (s *Seat) Translate() geom.Point { return s.translate }
func (s *Seat) SetTranslate(p geom.Point) { s.translate = p }
func (s *Seat) Size() geom.Size { return s.size }
func (s *Seat) Rotation() float64 { return s.rotation }

// Transform returns translate(x, y) rotate(a, w/2, h/2). The rotate
// component is always present, so an unrotated seat renders rotate(0, ...).
func (s *Seat) Transform() geom.Transform {
	return geom.Compose(s.translate, geom.RotateAbout(s.rotation, s.size))
}

// Room returns the owning room, or nil for a detached seat.
func (s *Seat) Room() *Room { return s.room }

// Employees returns the assigned employees.
func (s *Seat) Employees() []Employee { return s.employees }

// SetEmployees replaces the assigned employees.
func (s *Seat) SetEmployees(e []Employee) { s.employees = e }

// Occupied reports whether anyone is assigned to the seat.
func (s *Seat) Occupied() bool { return len(s.employees) > 0 }

// ToggleRotation flips the seat between 0° and 90°. Any angle that is not
// a multiple of 180 counts as rotated and goes back to 0. The pivot and
// the label follow from the new angle on the next read.
func (s *Seat) ToggleRotation() float64 {
	if constraint.IsRotated(s.rotation) {
		s.rotation = 0
	} else {
		s.rotation = 90
	}
	return s.rotation
}

// Container returns the rectangle the seat is clamped against: its room's
// local frame, or an empty rect when detached.
func (s *Seat) Container() geom.Rect {
	if s.room == nil {
		return geom.Rect{}
	}
	return s.room.Local()
}

// Matrix maps seat-local points to room-local points.
func (s *Seat) Matrix() geom.Matrix { return s.Transform().Matrix() }

// Contains reports whether a room-local point falls on the seat, taking
// its rotation into account.
func (s *Seat) Contains(p geom.Point) bool {
	inv, ok := s.Matrix().Invert()
	if !ok {
		return false
	}
	return geom.RectAt(geom.Point{}, s.size).Contains(inv.Apply(p))
}
