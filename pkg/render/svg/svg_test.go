package svg

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/scene"
)

func testScene(t *testing.T) (*scene.Scene, *editor.Room, *editor.Seat) {
	t.Helper()
	s := scene.New(scene.DefaultLayout(2))
	if err := s.SetBackground(geom.Rect{W: 1200, H: 800}, []byte(`<path d="M0 0L10 10"/>`)); err != nil {
		t.Fatalf("SetBackground() error: %v", err)
	}
	room := editor.NewRoom(1, "1.01", "R&D", geom.Rect{X: 100, Y: 100, W: 300, H: 200})
	seat := editor.NewSeat(7, "A", geom.Rect{X: 10, Y: 20, W: 30, H: 20}, 0)
	room.AddSeat(seat)
	if err := s.AddRoom(room); err != nil {
		t.Fatalf("AddRoom() error: %v", err)
	}
	if err := s.SetZoom(geom.Zoom{K: 0.8, X: 100, Y: 100}); err != nil {
		t.Fatalf("SetZoom() error: %v", err)
	}
	return s, room, seat
}

func TestRenderIsWellFormed(t *testing.T) {
	s, _, _ := testScene(t)
	out := Render(s)

	d := xml.NewDecoder(strings.NewReader(string(out)))
	for {
		_, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("rendered SVG is not well-formed: %v\n%s", err, out)
		}
	}
}

func TestRenderEditor(t *testing.T) {
	s, _, _ := testScene(t)
	out := string(Render(s))

	for _, want := range []string{
		`viewBox="0 0 1200 800"`,
		`<g class="background" transform="translate(100, 100) scale(0.8)">`,
		`<g class="interactive" transform="translate(100, 100) scale(0.8)">`,
		`<path d="M0 0L10 10"/>`,
		`data-room-id="1"`,
		`data-name="R&amp;D"`,
		`transform="translate(100, 100)"`,
		`<rect class="room-body" width="300" height="200"`,
		`transform="translate(10, 20) rotate(0, 15, 10)"`,
		`fill="rgb(123, 184, 148)"`,
		`<text class="seat-label" transform="translate(25, 30)"`,
		`<tspan dx="0.2em">Empty</tspan>`,
		`<rect class="info-box" x="10" y="-75" width="280" height="75"`,
		`<b>R&amp;D</b><br/><b>1.01</b>`,
		`<circle class="handle" cx="300" cy="200" r="5"`,
		`<style>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderFollowsModel(t *testing.T) {
	s, _, seat := testScene(t)
	seat.SetEmployees([]editor.Employee{{ID: 1, FullName: "Ada"}, {ID: 2, FullName: "Grace"}})
	seat.ToggleRotation()
	out := string(Render(s))

	for _, want := range []string{
		`transform="translate(10, 20) rotate(90, 15, 10)"`,
		`fill="rgb(221, 235, 247)"`,
		`<text class="seat-label" transform="translate(25, 30) rotate(90)"`,
		`<tspan x="-0.8em">Ada</tspan><tspan y="0" dx="1.2em">Grace</tspan>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, "Empty") {
		t.Error("occupied seat still labelled Empty")
	}
}

func TestRenderFloorView(t *testing.T) {
	s, _, _ := testScene(t)
	out := string(Render(s, WithFloorView()))

	if !strings.Contains(out, `fill="`+FloorViewRoomFill+`"`) {
		t.Error("floor view room fill missing")
	}
	if !strings.Contains(out, `text-anchor="middle" fill="black">R&amp;D</text>`) {
		t.Error("floor view room name missing")
	}
	for _, unwanted := range []string{`class="handle"`, `class="info-box"`, "<style>"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("floor view contains %q", unwanted)
		}
	}
	if !strings.Contains(out, `class="seat"`) {
		t.Error("floor view has no seats")
	}
}

func TestRenderOptions(t *testing.T) {
	s, _, _ := testScene(t)
	out := string(Render(s, WithoutBackground(), WithoutStyles(), WithSize(600, 400)))

	if strings.Contains(out, "M0 0L10 10") {
		t.Error("background rendered despite WithoutBackground")
	}
	if strings.Contains(out, "<style>") {
		t.Error("styles rendered despite WithoutStyles")
	}
	if !strings.Contains(out, `width="600" height="400"`) {
		t.Error("size not applied")
	}
}

func TestRenderWithoutDiagram(t *testing.T) {
	s := scene.New(scene.DefaultLayout(1))
	out := string(Render(s))
	if !strings.Contains(out, `<g class="background" transform="translate(0, 0) scale(1)"></g>`) {
		t.Errorf("empty background group missing:\n%s", out)
	}
}
