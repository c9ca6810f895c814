package editor

import (
	"math"

	"github.com/matzehuels/seatmap/pkg/geom"
)

// Palette is a fill/stroke color pair in CSS syntax.
type Palette struct {
	Fill   string
	Stroke string
}

var (
	// OccupiedPalette colors a seat with at least one employee.
	OccupiedPalette = Palette{Fill: "rgb(221, 235, 247)", Stroke: "rgb(34, 74, 144)"}
	// UnoccupiedPalette colors an empty seat.
	UnoccupiedPalette = Palette{Fill: "rgb(123, 184, 148)", Stroke: "rgb(29, 112, 61)"}
	// RoomPalette colors a room being edited.
	RoomPalette = Palette{Fill: "rgba(223, 223, 223, 0.57)", Stroke: "black"}
	// InfoBoxPalette colors a room's info box.
	InfoBoxPalette = Palette{Fill: "rgb(254, 243, 205)", Stroke: "black"}
)

// EmptyLabel is the text shown on a seat nobody is assigned to.
const EmptyLabel = "Empty"

// =============================================================================
// Label
// =============================================================================

// Label is the text drawn over a seat. Its origin is the seat's midpoint
// in room-local coordinates, rotated by the seat's angle, so text follows
// the seat through every move and toggle.
type Label struct {
	Transform geom.Transform
	// Lines holds one entry per employee, or EmptyLabel. Multiple lines
	// are stacked along the rotated writing axis.
	Lines []string
	// Occupied is false when Lines is the EmptyLabel placeholder.
	Occupied bool
}

// Label derives the seat's label from its current geometry and employees.
func (s *Seat) Label() Label {
	center := s.translate.Add(s.size.Half())
	var rot *geom.Rotation
	if s.rotation != 0 {
		rot = &geom.Rotation{Angle: s.rotation}
	}
	l := Label{Transform: geom.Compose(center, rot)}
	if len(s.employees) == 0 {
		l.Lines = []string{EmptyLabel}
		return l
	}
	l.Occupied = true
	l.Lines = make([]string, len(s.employees))
	for i, e := range s.employees {
		l.Lines[i] = e.FullName
	}
	return l
}

// Palette returns the seat's colors for its occupancy.
func (s *Seat) Palette() Palette {
	if s.Occupied() {
		return OccupiedPalette
	}
	return UnoccupiedPalette
}

// =============================================================================
// InfoBox
// =============================================================================

const (
	// InfoBoxHeight is the fixed height of a room's info box.
	InfoBoxHeight = 75
	// InfoBoxInset is the horizontal margin between the box and the room edges.
	InfoBoxInset = 10
)

// InfoBox is the caption attached to a room, in room-local coordinates.
// It sits below the room when the room is low on the floor and above it
// otherwise, so it stays on the visible part of the diagram.
type InfoBox struct {
	Rect   geom.Rect
	Name   string
	Number string
}

// InfoBox derives the room's info box. threshold is the floor-specific
// scene Y past which the box flips below the room.
func (r *Room) InfoBox(threshold float64) InfoBox {
	y := float64(-InfoBoxHeight)
	if r.translate.Y > threshold {
		y = r.size.H
	}
	return InfoBox{
		Rect: geom.Rect{
			X: InfoBoxInset,
			Y: y,
			W: math.Max(0, r.size.W-2*InfoBoxInset),
			H: InfoBoxHeight,
		},
		Name:   r.Name,
		Number: r.Number,
	}
}

// =============================================================================
// Handle
// =============================================================================

// HandleRadius is the radius of a room's resize handle.
const HandleRadius = 5

// Handle is the resize grip at a room's bottom-right corner, in room-local
// coordinates.
type Handle struct {
	Center geom.Point
	Radius float64
}

// Handle derives the room's resize handle.
func (r *Room) Handle() Handle {
	return Handle{Center: geom.Point{X: r.size.W, Y: r.size.H}, Radius: HandleRadius}
}

// Contains reports whether a room-local point is on the handle.
func (h Handle) Contains(p geom.Point) bool {
	return h.Center.Dist(p) <= h.Radius
}
