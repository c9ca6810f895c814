package persist

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/backend"
	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/notice"
)

// Backend is the subset of [backend.Client] the bridge uses.
type Backend interface {
	FetchFloor(ctx context.Context, floor int) (*backend.Floor, error)
	FetchRoom(ctx context.Context, id int64) (*backend.Room, error)
	FetchSeat(ctx context.Context, id int64) (*backend.Seat, error)
	FetchRoomSeats(ctx context.Context, roomID int64) ([]backend.Seat, error)
	FetchEmployee(ctx context.Context, id int64) (*backend.Employee, error)
	UpdateRoomGeometry(ctx context.Context, id int64, g backend.RoomGeometry) error
	UpdateSeatGeometry(ctx context.Context, roomID, seatID int64, g backend.SeatGeometry) error
}

var _ Backend = (*backend.Client)(nil)

// Bridge hydrates and saves rooms.
type Bridge struct {
	backend  Backend
	notifier notice.Notifier
	logger   *log.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithNotifier sets where load and save notices go.
func WithNotifier(n notice.Notifier) Option {
	return func(b *Bridge) {
		if n != nil {
			b.notifier = n
		}
	}
}

// WithLogger sets the bridge logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge returns a Bridge over be.
func NewBridge(be Backend, opts ...Option) *Bridge {
	b := &Bridge{
		backend:  be,
		notifier: notice.Discard,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// =============================================================================
// Hydration
// =============================================================================

// Hydrate loads one room with its seats and their employees. A failed
// room fetch is LOAD_FAILED; failed seat or employee fetches are logged
// and skipped. It returns once every fetch has settled.
func (b *Bridge) Hydrate(ctx context.Context, roomID int64) (*editor.Room, error) {
	rec, err := b.backend.FetchRoom(ctx, roomID)
	if err != nil {
		b.notifier.Notify(notice.New(notice.Error, fmt.Sprintf("Could not load room %d", roomID)))
		return nil, errs.Wrap(errs.ErrCodeLoadFailed, err, "room %d", roomID)
	}
	return b.hydrateRoom(ctx, *rec), nil
}

// HydrateFloor loads every placed room of a floor for the read-only floor
// view. Rooms still at the origin have not been placed and are skipped.
func (b *Bridge) HydrateFloor(ctx context.Context, floor int) ([]*editor.Room, error) {
	rec, err := b.backend.FetchFloor(ctx, floor)
	if err != nil {
		b.notifier.Notify(notice.New(notice.Error, fmt.Sprintf("Could not load floor %d", floor)))
		return nil, errs.Wrap(errs.ErrCodeLoadFailed, err, "floor %d", floor)
	}
	rooms := make([]*editor.Room, 0, len(rec.Rooms))
	for _, r := range rec.Rooms {
		if !r.Placed() {
			b.logger.Debug("skipping unplaced room", "room", r.ID)
			continue
		}
		rooms = append(rooms, b.hydrateRoom(ctx, r))
	}
	return rooms, nil
}

func (b *Bridge) hydrateRoom(ctx context.Context, rec backend.Room) *editor.Room {
	room := RoomFromRecord(rec)
	seats := rec.Seats
	switch {
	case len(seats) > 0:
	case len(rec.SeatIDs) > 0:
		seats = b.fetchSeats(ctx, rec.SeatIDs)
	default:
		// Neither nested nor listed: ask the room's seat collection.
		list, err := b.backend.FetchRoomSeats(ctx, rec.ID)
		if err != nil {
			b.logger.Warn("seat list fetch failed", "room", rec.ID, "err", err)
		}
		seats = list
	}

	built := make([]*editor.Seat, len(seats))
	var wg sync.WaitGroup
	for i, s := range seats {
		built[i] = SeatFromRecord(s)
		if len(s.Employees) > 0 || len(s.EmployeeIDs) == 0 {
			continue
		}
		wg.Add(1)
		go func(seat *editor.Seat, ids []int64) {
			defer wg.Done()
			seat.SetEmployees(b.fetchEmployees(ctx, ids))
		}(built[i], s.EmployeeIDs)
	}
	wg.Wait()

	for _, s := range built {
		room.AddSeat(s)
	}
	return room
}

// fetchSeats fetches seats concurrently, keeping the order of ids and
// dropping the ones that fail.
func (b *Bridge) fetchSeats(ctx context.Context, ids []int64) []backend.Seat {
	results := make([]*backend.Seat, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := b.backend.FetchSeat(ctx, id)
			if err != nil {
				b.logger.Warn("seat fetch failed", "seat", id, "err", err)
				return
			}
			results[i] = s
		}()
	}
	wg.Wait()

	seats := make([]backend.Seat, 0, len(ids))
	for _, s := range results {
		if s != nil {
			seats = append(seats, *s)
		}
	}
	return seats
}

func (b *Bridge) fetchEmployees(ctx context.Context, ids []int64) []editor.Employee {
	results := make([]*backend.Employee, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := b.backend.FetchEmployee(ctx, id)
			if err != nil {
				b.logger.Warn("employee fetch failed", "employee", id, "err", err)
				return
			}
			results[i] = e
		}()
	}
	wg.Wait()

	var out []editor.Employee
	for _, e := range results {
		if e != nil {
			out = append(out, employeeFromRecord(*e))
		}
	}
	return out
}

// RoomFromRecord builds a seatless room from a backend record.
func RoomFromRecord(r backend.Room) *editor.Room {
	return editor.NewRoom(r.ID, r.RoomNumber, r.Name, geom.Rect{X: r.X, Y: r.Y, W: r.Width, H: r.Height})
}

// SeatFromRecord builds a seat from a backend record, including any
// employees nested in it.
func SeatFromRecord(s backend.Seat) *editor.Seat {
	seat := editor.NewSeat(s.ID, s.SeatNumber, geom.Rect{X: s.X, Y: s.Y, W: s.Width, H: s.Height}, s.Rotation)
	if len(s.Employees) > 0 {
		emps := make([]editor.Employee, len(s.Employees))
		for i, e := range s.Employees {
			emps[i] = employeeFromRecord(e)
		}
		seat.SetEmployees(emps)
	}
	return seat
}

func employeeFromRecord(e backend.Employee) editor.Employee {
	return editor.Employee{ID: e.ID, FullName: e.FullName, Occupation: e.Occupation}
}
