package floorplan

import (
	"context"
	"errors"
	"testing"

	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/scene"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (f stubFetcher) FetchFloorSVG(context.Context, int) ([]byte, error) { return f.data, f.err }

const diagram = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0,0,1600,900">
  <rect x="0" y="0" width="1600" height="900"/>
</svg>`

func TestParseViewBox(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Rect
		wantErr bool
	}{
		{"0 0 1200 800", geom.Rect{W: 1200, H: 800}, false},
		{"0,0,1200,800", geom.Rect{W: 1200, H: 800}, false},
		{"-10, 5 300 200", geom.Rect{X: -10, Y: 5, W: 300, H: 200}, false},
		{"0 0 1200", geom.Rect{}, true},
		{"0 0 a 800", geom.Rect{}, true},
		{"0 0 0 800", geom.Rect{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseViewBox(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseViewBox(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseViewBox(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	d, err := Parse(2, []byte(diagram))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.ViewBox != (geom.Rect{W: 1600, H: 900}) {
		t.Errorf("ViewBox = %+v", d.ViewBox)
	}
	if string(d.Body) != `<rect x="0" y="0" width="1600" height="900"/>` {
		t.Errorf("Body = %q", d.Body)
	}
}

func TestParseFallsBackToSize(t *testing.T) {
	d, err := Parse(1, []byte(`<svg width="640px" height="480"></svg>`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.ViewBox != (geom.Rect{W: 640, H: 480}) {
		t.Errorf("ViewBox = %+v", d.ViewBox)
	}
}

func TestParseRejects(t *testing.T) {
	for name, in := range map[string]string{
		"not xml":    "definitely not xml",
		"wrong root": `<html viewBox="0 0 1 1"></html>`,
		"no frame":   `<svg></svg>`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(1, []byte(in)); !errs.Is(err, errs.ErrCodeLoadFailed) {
				t.Errorf("Parse() error = %v, want LOAD_FAILED", err)
			}
		})
	}
}

func TestLoadAndMount(t *testing.T) {
	l := NewLoader(stubFetcher{data: []byte(diagram)}, nil)
	d, err := l.Load(context.Background(), 2)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s := scene.New(scene.DefaultLayout(2))
	if err := Mount(s, d); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	if s.Frame() != d.ViewBox {
		t.Errorf("Frame() = %+v, want viewBox %+v", s.Frame(), d.ViewBox)
	}
	if !s.Background().Loaded() {
		t.Error("background not loaded after Mount")
	}
}

func TestLoadFailureKeepsScene(t *testing.T) {
	l := NewLoader(stubFetcher{err: errors.New("connection refused")}, nil)
	_, err := l.Load(context.Background(), 2)
	if !errs.Is(err, errs.ErrCodeLoadFailed) {
		t.Fatalf("Load() error = %v, want LOAD_FAILED", err)
	}

	s := scene.New(scene.DefaultLayout(2))
	frame := s.Frame()
	MountFailure(s, err)

	if s.Background().Err == nil {
		t.Error("background error not recorded")
	}
	if s.Background().Loaded() {
		t.Error("failed background reports Loaded")
	}
	if s.Frame() != frame {
		t.Errorf("Frame() changed to %+v after failure", s.Frame())
	}
	if s.Detached() {
		t.Error("scene detached after load failure")
	}
}
