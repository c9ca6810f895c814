package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/scene"
)

const editorCSS = `
    .room-body { cursor: move; }
    .seat { cursor: grab; }
    .seat-label { pointer-events: none; }
    .handle { cursor: nwse-resize; }`

// FloorViewRoomFill is the room fill of the read-only floor view.
const FloorViewRoomFill = "rgba(255, 255, 255, 0.3)"

// Option configures a render.
type Option func(*renderer)

type renderer struct {
	floorView  bool
	background bool
	styles     bool
	width      float64
	height     float64
}

// WithFloorView renders the read-only overview of a whole floor.
func WithFloorView() Option { return func(r *renderer) { r.floorView = true } }

// WithoutBackground omits the diagram, leaving the background group empty.
func WithoutBackground() Option { return func(r *renderer) { r.background = false } }

// WithoutStyles omits the embedded stylesheet.
func WithoutStyles() Option { return func(r *renderer) { r.styles = false } }

// WithSize sets the document's width and height attributes. By default
// they match the frame.
func WithSize(w, h float64) Option {
	return func(r *renderer) { r.width, r.height = w, h }
}

// Render writes s as a standalone SVG document.
func Render(s *scene.Scene, opts ...Option) []byte {
	r := renderer{background: true, styles: true}
	for _, opt := range opts {
		opt(&r)
	}

	frame := s.Frame()
	w, h := frame.W, frame.H
	if r.width > 0 && r.height > 0 {
		w, h = r.width, r.height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%s" height="%s" data-floor="%d">`+"\n",
		num(frame.X), num(frame.Y), num(frame.W), num(frame.H), num(w), num(h), s.Layout.Floor)
	if r.styles && !r.floorView {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", editorCSS)
	}

	bg := s.Background()
	fmt.Fprintf(&buf, `  <g class="%s" transform="%s">`, ClassBackground, bg.Transform)
	if r.background && bg.Loaded() {
		buf.WriteString("\n")
		buf.Write(bg.Content)
		buf.WriteString("\n  ")
	}
	buf.WriteString("</g>\n")

	fmt.Fprintf(&buf, `  <g class="%s" transform="%s">`+"\n", ClassInteractive, s.Interactive().Transform)
	for _, room := range s.Rooms() {
		if r.floorView {
			renderFloorRoom(&buf, room)
		} else {
			renderRoom(&buf, room, s.InfoBox(room))
		}
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func renderRoom(buf *bytes.Buffer, room *editor.Room, box editor.InfoBox) {
	openRoom(buf, room)
	size := room.Size()
	fmt.Fprintf(buf, `      <rect class="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		ClassRoomBody, num(size.W), num(size.H), editor.RoomPalette.Fill, editor.RoomPalette.Stroke)
	renderSeats(buf, room)
	renderInfoBox(buf, box)
	hd := room.Handle()
	fmt.Fprintf(buf, `      <circle class="%s" cx="%s" cy="%s" r="%s" fill="black"/>`+"\n",
		ClassHandle, num(hd.Center.X), num(hd.Center.Y), num(hd.Radius))
	buf.WriteString("    </g>\n")
}

func renderFloorRoom(buf *bytes.Buffer, room *editor.Room) {
	openRoom(buf, room)
	size := room.Size()
	fmt.Fprintf(buf, `      <rect class="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		ClassRoomBody, num(size.W), num(size.H), FloorViewRoomFill)
	fmt.Fprintf(buf, `      <text x="%s" y="%s" dy=".35em" text-anchor="middle" fill="black">`, num(size.W/2), num(size.H/2))
	escape(buf, room.Name)
	buf.WriteString("</text>\n")
	renderSeats(buf, room)
	buf.WriteString("    </g>\n")
}

func openRoom(buf *bytes.Buffer, room *editor.Room) {
	fmt.Fprintf(buf, `    <g class="%s" id="room-%d" %s="%d" %s="`, ClassRoom, room.ID, AttrRoomID, room.ID, AttrNumber)
	escape(buf, room.Number)
	fmt.Fprintf(buf, `" %s="`, AttrName)
	escape(buf, room.Name)
	fmt.Fprintf(buf, `" transform="%s">`+"\n", room.Transform())
}

func renderSeats(buf *bytes.Buffer, room *editor.Room) {
	for _, s := range room.Seats() {
		size, pal := s.Size(), s.Palette()
		fmt.Fprintf(buf, `      <rect class="%s" id="seat-%d" %s="%d" %s="`, ClassSeat, s.ID, AttrSeatID, s.ID, AttrNumber)
		escape(buf, s.Number)
		fmt.Fprintf(buf, `" transform="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
			s.Transform(), num(size.W), num(size.H), pal.Fill, pal.Stroke)
	}
	for _, s := range room.Seats() {
		renderLabel(buf, s.Label())
	}
}

// renderLabel stacks multiple names along the sideways writing axis and
// nudges a single line off the seat's center line.
func renderLabel(buf *bytes.Buffer, l editor.Label) {
	fmt.Fprintf(buf, `      <text class="%s" transform="%s" text-anchor="middle" alignment-baseline="middle" fill="black" style="writing-mode: sideways-lr; font-size: 12px; pointer-events: none">`,
		ClassSeatLabel, labelTransform(l.Transform))
	switch {
	case len(l.Lines) > 1:
		buf.WriteString(`<tspan x="-0.8em">`)
		escape(buf, l.Lines[0])
		buf.WriteString("</tspan>")
		for _, line := range l.Lines[1:] {
			buf.WriteString(`<tspan y="0" dx="1.2em">`)
			escape(buf, line)
			buf.WriteString("</tspan>")
		}
	case len(l.Lines) == 1:
		buf.WriteString(`<tspan dx="0.2em">`)
		escape(buf, l.Lines[0])
		buf.WriteString("</tspan>")
	}
	buf.WriteString("</text>\n")
}

// labelTransform writes a label's rotate without a pivot: the label
// origin is already the seat center.
func labelTransform(t geom.Transform) string {
	s := fmt.Sprintf("translate(%s, %s)", num(t.Translate.X), num(t.Translate.Y))
	if t.Rotate != nil {
		s += fmt.Sprintf(" rotate(%s)", num(t.Rotate.Angle))
	}
	return s
}

func renderInfoBox(buf *bytes.Buffer, box editor.InfoBox) {
	r := box.Rect
	fmt.Fprintf(buf, `      <rect class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		ClassInfoBox, num(r.X), num(r.Y), num(r.W), num(r.H), editor.InfoBoxPalette.Fill, editor.InfoBoxPalette.Stroke)
	fmt.Fprintf(buf, `      <foreignObject x="%s" y="%s" width="%s" height="%s">`, num(r.X), num(r.Y), num(r.W), num(r.H))
	buf.WriteString(`<div xmlns="http://www.w3.org/1999/xhtml" style="height: 100%; padding: 0 10px; font-size: 14px; font-family: Arial, sans-serif; display: flex; flex-direction: column; justify-content: center; text-align: center"><b>`)
	escape(buf, box.Name)
	buf.WriteString("</b><br/><b>")
	escape(buf, box.Number)
	buf.WriteString("</b></div></foreignObject>\n")
}

func num(v float64) string { return geom.FormatNumber(v) }

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}
