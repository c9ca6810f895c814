// Package floorplan loads floor diagrams and mounts them into a scene.
//
// A diagram is an SVG document served by the backend. Only its viewBox
// and body are used: the viewBox becomes the scene frame that rooms are
// clamped into, and the body is drawn in the background layer under the
// same pan/zoom transform as the rooms.
package floorplan

import (
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/scene"
)

// Fetcher retrieves the raw diagram of a floor. [backend.Client]
// implements it.
type Fetcher interface {
	FetchFloorSVG(ctx context.Context, floor int) ([]byte, error)
}

// Diagram is a parsed floor diagram.
type Diagram struct {
	Floor   int
	ViewBox geom.Rect
	Body    []byte // inner markup of the root svg element
}

// Loader fetches and parses diagrams.
type Loader struct {
	fetcher Fetcher
	logger  *log.Logger
}

// NewLoader returns a Loader reading through f. A nil logger discards.
func NewLoader(f Fetcher, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{fetcher: f, logger: logger}
}

// Load fetches and parses the diagram of floor. Any failure is returned
// as LOAD_FAILED.
func (l *Loader) Load(ctx context.Context, floor int) (*Diagram, error) {
	start := time.Now()
	data, err := l.fetcher.FetchFloorSVG(ctx, floor)
	if err != nil {
		l.logger.Warn("diagram fetch failed", "floor", floor, "err", err)
		return nil, errs.Wrap(errs.ErrCodeLoadFailed, err, "floor %d diagram", floor)
	}
	d, err := Parse(floor, data)
	if err != nil {
		l.logger.Warn("diagram parse failed", "floor", floor, "err", err)
		return nil, err
	}
	l.logger.Debug("diagram loaded", "floor", floor, "bytes", len(data), "viewBox", d.ViewBox, "elapsed", time.Since(start))
	return d, nil
}

type svgRoot struct {
	XMLName xml.Name
	ViewBox string `xml:"viewBox,attr"`
	Width   string `xml:"width,attr"`
	Height  string `xml:"height,attr"`
	Inner   []byte `xml:",innerxml"`
}

// Parse reads a diagram document. The frame comes from the viewBox, or
// from numeric width and height attributes when the viewBox is absent.
func Parse(floor int, data []byte) (*Diagram, error) {
	var root svgRoot
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, errs.Wrap(errs.ErrCodeLoadFailed, err, "floor %d diagram is not XML", floor)
	}
	if root.XMLName.Local != "svg" {
		return nil, errs.New(errs.ErrCodeLoadFailed, "floor %d diagram root is <%s>, want <svg>", floor, root.XMLName.Local)
	}

	var (
		vb  geom.Rect
		err error
	)
	if root.ViewBox != "" {
		vb, err = ParseViewBox(root.ViewBox)
	} else {
		vb, err = sizeBox(root.Width, root.Height)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeLoadFailed, err, "floor %d diagram", floor)
	}
	return &Diagram{Floor: floor, ViewBox: vb, Body: bytes.TrimSpace(root.Inner)}, nil
}

// ParseViewBox parses "minX minY width height", comma or space separated.
func ParseViewBox(s string) (geom.Rect, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return geom.Rect{}, errs.New(errs.ErrCodeInvalidInput, "viewBox %q needs 4 numbers", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geom.Rect{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "viewBox %q", s)
		}
		v[i] = n
	}
	r := geom.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if r.IsEmpty() {
		return geom.Rect{}, errs.New(errs.ErrCodeInvalidInput, "viewBox %q has no area", s)
	}
	return r, nil
}

func sizeBox(width, height string) (geom.Rect, error) {
	w, werr := strconv.ParseFloat(strings.TrimSuffix(width, "px"), 64)
	h, herr := strconv.ParseFloat(strings.TrimSuffix(height, "px"), 64)
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return geom.Rect{}, errs.New(errs.ErrCodeInvalidInput, "no viewBox and no usable width/height")
	}
	return geom.Rect{W: w, H: h}, nil
}

// Mount installs d as the background of s. The scene frame becomes the
// diagram's viewBox.
func Mount(s *scene.Scene, d *Diagram) error {
	return s.SetBackground(d.ViewBox, d.Body)
}

// MountFailure records a load failure on the background layer. Rooms and
// seats already in s stay interactive.
func MountFailure(s *scene.Scene, err error) {
	s.SetBackgroundError(err)
}
