package persist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matzehuels/seatmap/pkg/backend"
	"github.com/matzehuels/seatmap/pkg/editor"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/observability"
)

// Entity names the kind of object a write concerned.
type Entity string

const (
	EntityRoom Entity = "room"
	EntitySeat Entity = "seat"
)

// Outcome is the result of one geometry write.
type Outcome struct {
	Entity Entity
	ID     int64
	// Name is the room or seat number, empty when unknown.
	Name string
	Err  error
}

// OK reports whether the write succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Subject names the written entity for users, e.g. "Room 1.01" or "Seat 7"
// when the number is unknown.
func (o Outcome) Subject() string {
	kind := "Room"
	if o.Entity == EntitySeat {
		kind = "Seat"
	}
	if o.Name != "" {
		return kind + " " + o.Name
	}
	return fmt.Sprintf("%s %d", kind, o.ID)
}

func (o Outcome) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s %d: %v", o.Entity, o.ID, o.Err)
	}
	return fmt.Sprintf("%s %d: saved", o.Entity, o.ID)
}

// Report collects the outcomes of one save, the room first and then the
// seats in room order.
type Report struct {
	Room  Outcome
	Seats []Outcome
}

// Outcomes returns every outcome, room first.
func (r Report) Outcomes() []Outcome {
	return append([]Outcome{r.Room}, r.Seats...)
}

// Written returns the number of successful writes.
func (r Report) Written() int {
	n := 0
	for _, o := range r.Outcomes() {
		if o.OK() {
			n++
		}
	}
	return n
}

// Failed returns the failed writes.
func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes() {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// Err joins the errors of all failed writes, or returns nil.
func (r Report) Err() error {
	var all []error
	for _, o := range r.Failed() {
		all = append(all, o.Err)
	}
	return errors.Join(all...)
}

// RoomGeometry reads the write body for r from the live model.
func RoomGeometry(r *editor.Room) backend.RoomGeometry {
	t, s := r.Translate(), r.Size()
	return backend.RoomGeometry{X: t.X, Y: t.Y, Width: s.W, Height: s.H}
}

// SeatGeometry reads the write body for s from the live model. The
// position is the current translate, not the hydrated one.
func SeatGeometry(s *editor.Seat) backend.SeatGeometry {
	t, sz := s.Translate(), s.Size()
	return backend.SeatGeometry{X: t.X, Y: t.Y, Width: sz.W, Height: sz.H, Rotation: s.Rotation()}
}

// Snapshot is the geometry of a room and its seats at one instant. It
// holds values only, so it may be saved from another goroutine while the
// live room keeps changing.
type Snapshot struct {
	RoomID     int64
	RoomNumber string
	Room       backend.RoomGeometry
	Seats      []SeatSnapshot
}

// SeatSnapshot is one seat of a [Snapshot].
type SeatSnapshot struct {
	ID       int64
	Number   string
	Geometry backend.SeatGeometry
}

// TakeSnapshot copies the current geometry of room and its seats. Call it
// on the goroutine that mutates the room.
func TakeSnapshot(room *editor.Room) Snapshot {
	seats := room.Seats()
	snap := Snapshot{
		RoomID:     room.ID,
		RoomNumber: room.Number,
		Room:       RoomGeometry(room),
		Seats:      make([]SeatSnapshot, len(seats)),
	}
	for i, s := range seats {
		snap.Seats[i] = SeatSnapshot{ID: s.ID, Number: s.Number, Geometry: SeatGeometry(s)}
	}
	return snap
}

// Save writes the current geometry of room and each of its seats. It reads
// the room on the calling goroutine; see [Bridge.SaveSnapshot].
func (b *Bridge) Save(ctx context.Context, room *editor.Room) Report {
	return b.SaveSnapshot(ctx, TakeSnapshot(room))
}

// SaveSnapshot writes the room and seat geometry held in snap. The writes
// run concurrently and are never retried. Every outcome is reported, and
// a notice naming the entity is sent per write.
func (b *Bridge) SaveSnapshot(ctx context.Context, snap Snapshot) Report {
	start := time.Now()
	report := Report{
		Room:  Outcome{Entity: EntityRoom, ID: snap.RoomID, Name: snap.RoomNumber},
		Seats: make([]Outcome, len(snap.Seats)),
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		report.Room.Err = b.backend.UpdateRoomGeometry(ctx, snap.RoomID, snap.Room)
	}()
	for i, s := range snap.Seats {
		report.Seats[i] = Outcome{Entity: EntitySeat, ID: s.ID, Name: s.Number}
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Seats[i].Err = b.backend.UpdateSeatGeometry(ctx, snap.RoomID, s.ID, s.Geometry)
		}()
	}
	wg.Wait()

	for _, o := range report.Outcomes() {
		if o.OK() {
			b.notifier.Notify(notice.New(notice.Success, notice.SaveSucceeded(o.Subject())))
			continue
		}
		b.logger.Error("save failed", "entity", o.Entity, "id", o.ID, "err", o.Err)
		b.notifier.Notify(notice.New(notice.Error, notice.SaveFailed(o.Subject())))
	}

	elapsed := time.Since(start)
	observability.Editor().OnSave(ctx, snap.RoomID, report.Written(), len(report.Failed()), elapsed)
	b.logger.Info("saved room", "room", snap.RoomID, "written", report.Written(), "failed", len(report.Failed()), "elapsed", elapsed)
	return report
}
