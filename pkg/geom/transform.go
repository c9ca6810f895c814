package geom

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	errs "github.com/matzehuels/seatmap/pkg/errors"
)

// Rotation is an SVG rotate(angle, cx, cy). The pivot is expressed in the
// owning object's local, pre-translation space.
type Rotation struct {
	Angle float64
	Pivot Point
}

// Transform is the composed translate-then-rotate transform owned by one
// scene object. A nil Rotate means the object is not rotated.
type Transform struct {
	Translate Point
	Rotate    *Rotation
}

// Compose builds a Transform. Translate is always applied before rotate.
func Compose(translate Point, rotate *Rotation) Transform {
	if rotate != nil {
		r := *rotate
		rotate = &r
	}
	return Transform{Translate: translate, Rotate: rotate}
}

// RotateAbout is a convenience for a rotation of angle degrees about the
// center of an object of size s.
func RotateAbout(angle float64, s Size) *Rotation {
	return &Rotation{Angle: angle, Pivot: s.Half()}
}

// Angle returns the rotation angle in degrees, 0 when unrotated.
func (t Transform) Angle() float64 {
	if t.Rotate == nil {
		return 0
	}
	return t.Rotate.Angle
}

// Matrix returns the affine form of t.
func (t Transform) Matrix() Matrix {
	m := Translate(t.Translate.X, t.Translate.Y)
	if t.Rotate != nil {
		m = m.Mul(RotateAround(t.Rotate.Angle, t.Rotate.Pivot))
	}
	return m
}

// String renders t in SVG transform syntax:
//
//	translate(10, 20) rotate(90, 15, 5)
func (t Transform) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "translate(%s, %s)", FormatNumber(t.Translate.X), FormatNumber(t.Translate.Y))
	if t.Rotate != nil {
		fmt.Fprintf(&b, " rotate(%s, %s, %s)",
			FormatNumber(t.Rotate.Angle), FormatNumber(t.Rotate.Pivot.X), FormatNumber(t.Rotate.Pivot.Y))
	}
	return b.String()
}

// FormatNumber formats v with the shortest representation that parses
// back to the same float64. Negative zero is written as 0.
func FormatNumber(v float64) string {
	if v == 0 || math.IsNaN(v) {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var transformFuncRE = regexp.MustCompile(`([A-Za-z]+)\s*\(([^()]*)\)`)

type transformFunc struct {
	name string
	args []float64
}

func parseFuncs(s string) ([]transformFunc, error) {
	matches := transformFuncRE.FindAllStringSubmatch(s, -1)
	funcs := make([]transformFunc, 0, len(matches))
	for _, m := range matches {
		fields := strings.FieldsFunc(m[2], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		args := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeMalformedTransform, err, "bad %s argument %q in %q", m[1], f, s)
			}
			args = append(args, v)
		}
		funcs = append(funcs, transformFunc{name: m[1], args: args})
	}
	return funcs, nil
}

// ParseTranslate extracts the translate component of an SVG transform
// string. The rotate component may be absent. A string without any
// translate is an error: callers derive drag offsets from the result and
// a silent (0, 0) would teleport the object.
func ParseTranslate(s string) (Point, error) {
	funcs, err := parseFuncs(s)
	if err != nil {
		return Point{}, err
	}
	for _, f := range funcs {
		if f.name != "translate" {
			continue
		}
		return translateArgs(f, s)
	}
	return Point{}, errs.New(errs.ErrCodeMalformedTransform, "no translate in transform %q", s)
}

func translateArgs(f transformFunc, s string) (Point, error) {
	switch len(f.args) {
	case 1:
		return Point{X: f.args[0]}, nil
	case 2:
		return Point{X: f.args[0], Y: f.args[1]}, nil
	default:
		return Point{}, errs.New(errs.ErrCodeMalformedTransform, "translate takes 1 or 2 arguments in %q", s)
	}
}

// Parsed is the result of ParseTransform.
type Parsed struct {
	Transform
	Scale float64 // 1 when no scale is present
}

// ParseTransform parses a transform produced by this package or by a pan
// and zoom layer: translate, rotate and scale, in any order, each at most
// once. It exists for hydration from rendered output only; the live model
// never round-trips through strings.
func ParseTransform(s string) (Parsed, error) {
	funcs, err := parseFuncs(s)
	if err != nil {
		return Parsed{}, err
	}
	out := Parsed{Scale: 1}
	seen := make(map[string]bool, len(funcs))
	for _, f := range funcs {
		if seen[f.name] {
			return Parsed{}, errs.New(errs.ErrCodeMalformedTransform, "repeated %s in %q", f.name, s)
		}
		seen[f.name] = true

		switch f.name {
		case "translate":
			p, err := translateArgs(f, s)
			if err != nil {
				return Parsed{}, err
			}
			out.Translate = p
		case "rotate":
			switch len(f.args) {
			case 1:
				out.Rotate = &Rotation{Angle: f.args[0]}
			case 3:
				out.Rotate = &Rotation{Angle: f.args[0], Pivot: Point{f.args[1], f.args[2]}}
			default:
				return Parsed{}, errs.New(errs.ErrCodeMalformedTransform, "rotate takes 1 or 3 arguments in %q", s)
			}
		case "scale":
			if len(f.args) != 1 {
				return Parsed{}, errs.New(errs.ErrCodeMalformedTransform, "only uniform scale is supported in %q", s)
			}
			out.Scale = f.args[0]
		default:
			return Parsed{}, errs.New(errs.ErrCodeMalformedTransform, "unsupported transform %s in %q", f.name, s)
		}
	}
	if !seen["translate"] {
		return Parsed{}, errs.New(errs.ErrCodeMalformedTransform, "no translate in transform %q", s)
	}
	return out, nil
}
