package scene

import (
	"context"
	"sync"
	"testing"

	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/observability"
)

type recordingHooks struct {
	observability.NoopEditorHooks
	mu      sync.Mutex
	started []string
	ended   []int
	rotated []float64
}

func (h *recordingHooks) OnGestureStart(_ context.Context, _, gesture, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, gesture)
}

func (h *recordingHooks) OnGestureEnd(_ context.Context, _, _ string, moves int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ended = append(h.ended, moves)
}

func (h *recordingHooks) OnRotate(_ context.Context, _ int64, angle float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rotated = append(h.rotated, angle)
}

func TestDispatcherSeatDrag(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetEditorHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s, room, seat := newTestScene(t)
	d := NewDispatcher(s)

	// Local (25, 25) in the room is screen (260, 170) at scale 2.
	hit, err := d.PointerDown(ctx, geom.Pt(260, 170))
	if err != nil {
		t.Fatal(err)
	}
	if hit.Kind != HitSeat || hit.Seat != seat {
		t.Fatalf("PointerDown hit %v, want seat", hit.Kind)
	}
	if err := d.PointerMove(ctx, geom.Pt(360, 170)); err != nil {
		t.Fatal(err)
	}
	if seat.Translate() != geom.Pt(70, 20) {
		t.Errorf("seat at %v, want (70, 20)", seat.Translate())
	}

	// Far past the right wall.
	if err := d.PointerMove(ctx, geom.Pt(2000, 170)); err != nil {
		t.Fatal(err)
	}
	if seat.Translate() != geom.Pt(170, 20) {
		t.Errorf("seat at %v, want clamped (170, 20)", seat.Translate())
	}

	click, err := d.PointerUp(ctx, geom.Pt(2000, 170))
	if err != nil {
		t.Fatal(err)
	}
	if click {
		t.Error("drag reported as a click")
	}
	if seat.Rotation() != 0 {
		t.Error("drag rotated the seat")
	}
	if room.Translate() != geom.Pt(100, 50) {
		t.Errorf("room moved to %v", room.Translate())
	}
	if d.Session() != nil {
		t.Error("session still open after PointerUp")
	}

	if len(hooks.started) != 1 || hooks.started[0] != "drag" {
		t.Errorf("started = %v", hooks.started)
	}
	if len(hooks.ended) != 1 || hooks.ended[0] != 2 {
		t.Errorf("ended = %v, want [2]", hooks.ended)
	}
}

func TestDispatcherClickRotates(t *testing.T) {
	ctx := context.Background()
	s, _, seat := newTestScene(t)
	d := NewDispatcher(s)

	if _, err := d.PointerDown(ctx, geom.Pt(260, 170)); err != nil {
		t.Fatal(err)
	}
	click, err := d.PointerUp(ctx, geom.Pt(261, 171))
	if err != nil {
		t.Fatal(err)
	}
	if !click {
		t.Fatal("press within tolerance not reported as a click")
	}
	if seat.Rotation() != 90 {
		t.Errorf("Rotation() = %v, want 90", seat.Rotation())
	}

	if _, err := d.Click(ctx, geom.Pt(260, 170)); err != nil {
		t.Fatal(err)
	}
	if seat.Rotation() != 0 {
		t.Errorf("Rotation() after second click = %v, want 0", seat.Rotation())
	}
}

func TestDispatcherRoomDragAndResize(t *testing.T) {
	ctx := context.Background()
	s, room, seat := newTestScene(t)
	d := NewDispatcher(s)

	// Room body at local (150, 50) is screen (510, 220).
	if hit, _ := d.PointerDown(ctx, geom.Pt(510, 220)); hit.Kind != HitRoom {
		t.Fatalf("hit %v, want room", hit.Kind)
	}
	if err := d.PointerMove(ctx, geom.Pt(710, 220)); err != nil {
		t.Fatal(err)
	}
	if _, err := d.PointerUp(ctx, geom.Pt(710, 220)); err != nil {
		t.Fatal(err)
	}
	if room.Translate() != geom.Pt(200, 50) {
		t.Errorf("room at %v, want (200, 50)", room.Translate())
	}
	if seat.Translate() != geom.Pt(20, 20) {
		t.Errorf("seat local translate changed to %v", seat.Translate())
	}

	// Handle at local (200, 100) is now scene (400, 150), screen (810, 320).
	if hit, _ := d.PointerDown(ctx, geom.Pt(810, 320)); hit.Kind != HitHandle {
		t.Fatalf("hit %v, want handle", hit.Kind)
	}
	if err := d.PointerMove(ctx, geom.Pt(910, 420)); err != nil {
		t.Fatal(err)
	}
	if room.Size() != (geom.Size{W: 250, H: 150}) {
		t.Errorf("room size %v, want 250x150", room.Size())
	}
	if err := d.PointerMove(ctx, geom.Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if room.Size() != (geom.Size{W: 10, H: 10}) {
		t.Errorf("room size %v, want minimum 10x10", room.Size())
	}
	if _, err := d.PointerUp(ctx, geom.Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
}

func TestDispatcherRoomDragClampsToFrame(t *testing.T) {
	ctx := context.Background()
	s, room, _ := newTestScene(t)
	d := NewDispatcher(s)

	if _, err := d.PointerDown(ctx, geom.Pt(510, 220)); err != nil {
		t.Fatal(err)
	}
	if err := d.PointerMove(ctx, geom.Pt(-5000, -5000)); err != nil {
		t.Fatal(err)
	}
	if room.Translate() != s.Frame().Origin() {
		t.Errorf("room at %v, want frame origin %v", room.Translate(), s.Frame().Origin())
	}
}

func TestDispatcherPansOnBackground(t *testing.T) {
	ctx := context.Background()
	s, room, _ := newTestScene(t)
	d := NewDispatcher(s)

	if hit, _ := d.PointerDown(ctx, geom.Pt(0, 0)); hit.Kind != HitNone {
		t.Fatalf("hit %v, want none", hit.Kind)
	}
	_ = d.PointerMove(ctx, geom.Pt(10, 10))
	_ = d.PointerMove(ctx, geom.Pt(30, 40))
	if _, err := d.PointerUp(ctx, geom.Pt(30, 40)); err != nil {
		t.Fatal(err)
	}

	if z := s.Zoom(); z.X != 40 || z.Y != 60 || z.K != 2 {
		t.Errorf("Zoom() = %+v, want translate(40, 60) scale(2)", z)
	}
	if room.Translate() != geom.Pt(100, 50) {
		t.Errorf("pan moved room model to %v", room.Translate())
	}

	// Moves without a press do nothing.
	if err := d.PointerMove(ctx, geom.Pt(500, 500)); err != nil {
		t.Fatal(err)
	}
	if z := s.Zoom(); z.X != 40 || z.Y != 60 {
		t.Errorf("hover panned the view to %+v", z)
	}
}

func TestDispatcherWheel(t *testing.T) {
	s, _, _ := newTestScene(t)
	d := NewDispatcher(s)
	anchor := geom.Pt(260, 170)
	before := s.ScreenToScene(anchor)

	if err := d.Wheel(context.Background(), anchor, 1.5); err != nil {
		t.Fatal(err)
	}
	if s.Zoom().K != 3 {
		t.Errorf("scale = %v, want 3", s.Zoom().K)
	}
	if after := s.ScreenToScene(anchor); !after.ApproxEqual(before, 1e-9) {
		t.Errorf("wheel moved the anchored scene point from %v to %v", before, after)
	}
}

func TestDispatcherOneSessionAtATime(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestScene(t)
	d := NewDispatcher(s)

	if _, err := d.PointerDown(ctx, geom.Pt(260, 170)); err != nil {
		t.Fatal(err)
	}
	first := d.Session()
	if _, err := d.PointerDown(ctx, geom.Pt(510, 220)); err != nil {
		t.Fatal(err)
	}
	if !first.Ended() {
		t.Error("first session left open")
	}
	if _, ok := d.Session().Target.(*editor.Room); !ok || d.Session() == first {
		t.Error("second press did not open a room session")
	}
}
