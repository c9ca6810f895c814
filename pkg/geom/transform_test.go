package geom

import (
	"math"
	"math/rand"
	"testing"

	errs "github.com/matzehuels/seatmap/pkg/errors"
)

func TestTransformString(t *testing.T) {
	tests := []struct {
		name string
		tr   Transform
		want string
	}{
		{
			name: "translate only",
			tr:   Compose(Pt(100, 120), nil),
			want: "translate(100, 120)",
		},
		{
			name: "translate and rotate",
			tr:   Compose(Pt(10, 20), RotateAbout(90, Size{W: 30, H: 20})),
			want: "translate(10, 20) rotate(90, 15, 10)",
		},
		{
			name: "fractional",
			tr:   Compose(Pt(12.5, -3.25), nil),
			want: "translate(12.5, -3.25)",
		},
		{
			name: "negative zero",
			tr:   Compose(Pt(math.Copysign(0, -1), 0), nil),
			want: "translate(0, 0)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposeCopiesRotation(t *testing.T) {
	r := &Rotation{Angle: 90}
	tr := Compose(Pt(0, 0), r)
	r.Angle = 0
	if tr.Angle() != 90 {
		t.Errorf("Angle() = %v after caller mutation, want 90", tr.Angle())
	}
}

func TestParseTranslate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Point
		wantErr bool
	}{
		{"comma space", "translate(100, 120)", Pt(100, 120), false},
		{"comma only", "translate(100,120)", Pt(100, 120), false},
		{"space only", "translate(100 120)", Pt(100, 120), false},
		{"single argument", "translate(42)", Pt(42, 0), false},
		{"with rotate", "translate(5, 6) rotate(90, 15, 10)", Pt(5, 6), false},
		{"rotate first", "rotate(90, 15, 10) translate(5, 6)", Pt(5, 6), false},
		{"negative and exponent", "translate(-1.5e2, 3.25)", Pt(-150, 3.25), false},
		{"padded", "  translate( 7 ,  8 )  ", Pt(7, 8), false},

		{"empty", "", Point{}, true},
		{"rotate only", "rotate(90, 15, 10)", Point{}, true},
		{"scale only", "scale(2)", Point{}, true},
		{"garbage number", "translate(abc, 1)", Point{}, true},
		{"no arguments", "translate()", Point{}, true},
		{"three arguments", "translate(1, 2, 3)", Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTranslate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTranslate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errs.Is(err, errs.ErrCodeMalformedTransform) {
					t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeMalformedTransform)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseTranslate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestComposeParseRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		p := Pt((rng.Float64()-0.5)*1e4, (rng.Float64()-0.5)*1e4)
		var rot *Rotation
		if i%2 == 1 {
			rot = RotateAbout(90, Size{W: rng.Float64() * 100, H: rng.Float64() * 100})
		}

		got, err := ParseTranslate(Compose(p, rot).String())
		if err != nil {
			t.Fatalf("ParseTranslate(Compose(%v)) error: %v", p, err)
		}
		if !got.ApproxEqual(p, 1e-9) {
			t.Fatalf("round trip %v -> %v", p, got)
		}
	}
}

func TestParseTransform(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		got, err := ParseTransform("translate(10, 20) rotate(90, 15, 5)")
		if err != nil {
			t.Fatalf("ParseTransform() error: %v", err)
		}
		if got.Translate != Pt(10, 20) {
			t.Errorf("Translate = %v, want (10, 20)", got.Translate)
		}
		if got.Rotate == nil || got.Rotate.Angle != 90 || got.Rotate.Pivot != Pt(15, 5) {
			t.Errorf("Rotate = %+v, want 90 about (15, 5)", got.Rotate)
		}
		if got.Scale != 1 {
			t.Errorf("Scale = %v, want 1", got.Scale)
		}
	})

	t.Run("rotate without pivot", func(t *testing.T) {
		got, err := ParseTransform("translate(1, 2) rotate(90)")
		if err != nil {
			t.Fatalf("ParseTransform() error: %v", err)
		}
		if got.Rotate == nil || got.Rotate.Pivot != (Point{}) {
			t.Errorf("Rotate = %+v, want pivot at origin", got.Rotate)
		}
	})

	for _, bad := range []string{
		"rotate(90)",
		"translate(1, 2) translate(3, 4)",
		"translate(1, 2) skewX(10)",
		"translate(1, 2) scale(1, 2)",
		"translate(1, 2) rotate(1, 2)",
	} {
		t.Run("rejects "+bad, func(t *testing.T) {
			if _, err := ParseTransform(bad); !errs.Is(err, errs.ErrCodeMalformedTransform) {
				t.Errorf("ParseTransform(%q) error = %v, want MALFORMED_TRANSFORM", bad, err)
			}
		})
	}
}

func TestTransformMatrixKeepsAnchor(t *testing.T) {
	// Rotating by 180 about the local center maps the far corner onto the
	// anchor, so the rotated box still covers the same footprint.
	s := Size{W: 40, H: 20}
	tr := Compose(Pt(100, 50), RotateAbout(180, s))
	got := tr.Matrix().Apply(Pt(40, 20))
	if !got.ApproxEqual(Pt(100, 50), 1e-9) {
		t.Errorf("far corner maps to %v, want anchor (100, 50)", got)
	}
}

func TestZoom(t *testing.T) {
	z := Zoom{K: 0.8, X: 100, Y: 100}

	t.Run("apply and invert", func(t *testing.T) {
		p := Pt(250, 40)
		if got := z.Invert(z.Apply(p)); !got.ApproxEqual(p, 1e-9) {
			t.Errorf("Invert(Apply(%v)) = %v", p, got)
		}
		if !z.Matrix().Apply(p).ApproxEqual(z.Apply(p), 1e-9) {
			t.Error("Matrix() disagrees with Apply()")
		}
	})

	t.Run("scaled at keeps anchor", func(t *testing.T) {
		anchor := Pt(400, 300)
		before := z.Invert(anchor)
		after := z.ScaledAt(2, anchor).Invert(anchor)
		if !before.ApproxEqual(after, 1e-9) {
			t.Errorf("scene point under anchor moved from %v to %v", before, after)
		}
	})

	t.Run("string round trip", func(t *testing.T) {
		got, err := ParseZoom(z.String())
		if err != nil {
			t.Fatalf("ParseZoom() error: %v", err)
		}
		if got != z {
			t.Errorf("ParseZoom(%q) = %+v, want %+v", z.String(), got, z)
		}
	})

	t.Run("rejects rotation", func(t *testing.T) {
		if _, err := ParseZoom("translate(1, 1) rotate(5)"); err == nil {
			t.Error("ParseZoom() accepted a rotate")
		}
	})
}
