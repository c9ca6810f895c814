package constraint

import (
	"testing"

	"github.com/matzehuels/seatmap/pkg/geom"
)

var (
	room = geom.Size{W: 200, H: 100}
	seat = geom.Size{W: 30, H: 20}
)

func TestClampPositionUnrotated(t *testing.T) {
	tests := []struct {
		name     string
		proposed geom.Point
		want     geom.Point
	}{
		{"inside", geom.Pt(50, 40), geom.Pt(50, 40)},
		{"origin", geom.Pt(0, 0), geom.Pt(0, 0)},
		{"far corner", geom.Pt(170, 80), geom.Pt(170, 80)},
		{"past right", geom.Pt(250, 40), geom.Pt(170, 40)},
		{"past bottom", geom.Pt(50, 90), geom.Pt(50, 80)},
		{"negative", geom.Pt(-5, -5), geom.Pt(0, 0)},
		{"past both", geom.Pt(1e6, -1e6), geom.Pt(170, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPosition(tt.proposed, seat, room, 0); got != tt.want {
				t.Errorf("ClampPosition(%v) = %v, want %v", tt.proposed, got, tt.want)
			}
		})
	}
}

func TestClampPositionRotated(t *testing.T) {
	// x ∈ [15, 155], y ∈ [-15, 55]
	tests := []struct {
		name     string
		proposed geom.Point
		want     geom.Point
	}{
		{"inside", geom.Pt(100, 0), geom.Pt(100, 0)},
		{"leading edge", geom.Pt(0, -40), geom.Pt(15, -15)},
		{"trailing edge", geom.Pt(190, 90), geom.Pt(155, 55)},
		{"exact bounds", geom.Pt(15, 55), geom.Pt(15, 55)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampPosition(tt.proposed, seat, room, 90); got != tt.want {
				t.Errorf("ClampPosition(%v, 90) = %v, want %v", tt.proposed, got, tt.want)
			}
		})
	}
}

func TestClampPositionIdentityInsideRange(t *testing.T) {
	for _, rot := range []float64{0, 90} {
		xr, yr := Bounds(seat, room, rot)
		for x := xr.Lo; x <= xr.Hi; x += 7.25 {
			for y := yr.Lo; y <= yr.Hi; y += 3.5 {
				p := geom.Pt(x, y)
				if got := ClampPosition(p, seat, room, rot); got != p {
					t.Fatalf("rotation %v: ClampPosition(%v) = %v, want unchanged", rot, p, got)
				}
			}
		}
	}
}

func TestClampPositionNearestBoundary(t *testing.T) {
	for _, rot := range []float64{0, 90} {
		xr, yr := Bounds(seat, room, rot)
		for _, p := range []geom.Point{
			geom.Pt(xr.Lo-1, yr.Lo-1),
			geom.Pt(xr.Hi+1, yr.Hi+1),
			geom.Pt(xr.Lo-500, yr.Hi+0.001),
		} {
			got := ClampPosition(p, seat, room, rot)
			if !xr.Contains(got.X) || !yr.Contains(got.Y) {
				t.Errorf("rotation %v: ClampPosition(%v) = %v, outside range", rot, p, got)
			}
			wantX, wantY := xr.Lo, yr.Lo
			if p.X > xr.Hi {
				wantX = xr.Hi
			}
			if p.Y > yr.Hi {
				wantY = yr.Hi
			}
			if got != geom.Pt(wantX, wantY) {
				t.Errorf("rotation %v: ClampPosition(%v) = %v, want (%v, %v)", rot, p, got, wantX, wantY)
			}
		}
	}
}

// A seat dragged past the right wall stops at the wall.
func TestClampScenarioRightWall(t *testing.T) {
	got := ClampPosition(geom.Pt(250, 40), geom.Size{W: 30, H: 20}, geom.Size{W: 200, H: 100}, 0)
	if got != geom.Pt(170, 40) {
		t.Errorf("got %v, want (170, 40)", got)
	}
}

func TestClampPositionOversizedObject(t *testing.T) {
	got := ClampPosition(geom.Pt(30, 30), geom.Size{W: 300, H: 300}, room, 0)
	if got != geom.Pt(0, 0) {
		t.Errorf("oversized object clamps to %v, want origin", got)
	}
}

func TestClampPositionIn(t *testing.T) {
	viewBox := geom.Rect{X: -50, Y: 100, W: 400, H: 300}
	obj := geom.Size{W: 100, H: 50}

	tests := []struct {
		proposed geom.Point
		want     geom.Point
	}{
		{geom.Pt(0, 200), geom.Pt(0, 200)},
		{geom.Pt(-80, 50), geom.Pt(-50, 100)},
		{geom.Pt(400, 500), geom.Pt(250, 350)},
	}
	for _, tt := range tests {
		if got := ClampPositionIn(tt.proposed, obj, viewBox, 0); got != tt.want {
			t.Errorf("ClampPositionIn(%v) = %v, want %v", tt.proposed, got, tt.want)
		}
	}
}

func TestClampSize(t *testing.T) {
	tests := []struct {
		name     string
		proposed geom.Size
		want     geom.Size
	}{
		{"legal", geom.Size{W: 120, H: 80}, geom.Size{W: 120, H: 80}},
		{"at minimum", geom.Size{W: 10, H: 10}, geom.Size{W: 10, H: 10}},
		{"too small", geom.Size{W: 3, H: 50}, geom.Size{W: 10, H: 50}},
		{"zero", geom.Size{}, geom.Size{W: 10, H: 10}},
		{"negative", geom.Size{W: -40, H: -0.5}, geom.Size{W: 10, H: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSize(tt.proposed, MinSize); got != tt.want {
				t.Errorf("ClampSize(%v) = %v, want %v", tt.proposed, got, tt.want)
			}
		})
	}
}

func TestIsRotated(t *testing.T) {
	tests := map[float64]bool{0: false, 90: true, 180: false, 270: true, -90: true, 360: false}
	for rot, want := range tests {
		if got := IsRotated(rot); got != want {
			t.Errorf("IsRotated(%v) = %v, want %v", rot, got, want)
		}
	}
}
