package persist

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"

	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render/svg"
)

// ReadSVG recovers room and seat geometry from a document written by
// svg.Render, ready to pass to [Bridge.Save]. Employees are not
// recovered. A transform without a translate fails with
// MALFORMED_TRANSFORM rather than defaulting to the origin.
func ReadSVG(r io.Reader) ([]*editor.Room, error) {
	d := xml.NewDecoder(r)
	var (
		rooms       []*editor.Room
		current     *editor.Room
		depth       int
		interactive int // depth of the interactive group, 0 outside it
		roomDepth   int
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read rendered scene")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			class := attr(t, "class")
			switch {
			case t.Name.Local == "g" && class == svg.ClassInteractive:
				interactive = depth
			case interactive == 0:
			case t.Name.Local == "g" && class == svg.ClassRoom:
				room, err := readRoom(t)
				if err != nil {
					return nil, err
				}
				current, roomDepth = room, depth
				rooms = append(rooms, room)
			case current == nil:
			case t.Name.Local == "rect" && class == svg.ClassRoomBody:
				size, err := readSize(t)
				if err != nil {
					return nil, err
				}
				current.SetSize(size)
			case t.Name.Local == "rect" && class == svg.ClassSeat:
				seat, err := readSeat(t)
				if err != nil {
					return nil, err
				}
				current.AddSeat(seat)
			}
		case xml.EndElement:
			switch depth {
			case roomDepth:
				current, roomDepth = nil, 0
			case interactive:
				interactive = 0
			}
			depth--
		}
	}
	return rooms, nil
}

func readRoom(t xml.StartElement) (*editor.Room, error) {
	id, err := readID(t, svg.AttrRoomID, "room")
	if err != nil {
		return nil, err
	}
	pos, err := geom.ParseTranslate(attr(t, "transform"))
	if err != nil {
		return nil, err
	}
	return editor.NewRoom(id, attr(t, svg.AttrNumber), attr(t, svg.AttrName), geom.RectAt(pos, geom.Size{})), nil
}

func readSeat(t xml.StartElement) (*editor.Seat, error) {
	id, err := readID(t, svg.AttrSeatID, "seat")
	if err != nil {
		return nil, err
	}
	tr, err := geom.ParseTransform(attr(t, "transform"))
	if err != nil {
		return nil, err
	}
	size, err := readSize(t)
	if err != nil {
		return nil, err
	}
	return editor.NewSeat(id, attr(t, svg.AttrNumber), geom.RectAt(tr.Translate, size), tr.Angle()), nil
}

func readID(t xml.StartElement, name, kind string) (int64, error) {
	id, err := strconv.ParseInt(attr(t, name), 10, 64)
	if err != nil {
		return 0, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad %s on <%s>", name, t.Name.Local)
	}
	if err := errs.ValidateID(kind, id); err != nil {
		return 0, err
	}
	return id, nil
}

func readSize(t xml.StartElement) (geom.Size, error) {
	w, err := strconv.ParseFloat(attr(t, "width"), 64)
	if err != nil {
		return geom.Size{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad width on <%s>", t.Name.Local)
	}
	h, err := strconv.ParseFloat(attr(t, "height"), 64)
	if err != nil {
		return geom.Size{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "bad height on <%s>", t.Name.Local)
	}
	return geom.Size{W: w, H: h}, nil
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
