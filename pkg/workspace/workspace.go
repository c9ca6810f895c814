// Package workspace owns the one floor scene a front end is editing.
//
// Opening a floor cancels every fetch still running for the previous one
// and detaches its scene, so late responses cannot touch a scene the user
// has left. The diagram and the rooms load concurrently; a missing
// diagram leaves an editable scene without a background, a missing room
// fails the open.
package workspace

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floorplan"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/persist"
	"github.com/matzehuels/seatmap/pkg/scene"
)

// Loader loads floor diagrams. [floorplan.Loader] implements it.
type Loader interface {
	Load(ctx context.Context, floor int) (*floorplan.Diagram, error)
}

// Bridge hydrates and saves rooms. [persist.Bridge] implements it.
type Bridge interface {
	Hydrate(ctx context.Context, roomID int64) (*editor.Room, error)
	HydrateFloor(ctx context.Context, floor int) ([]*editor.Room, error)
	SaveSnapshot(ctx context.Context, snap persist.Snapshot) persist.Report
}

var (
	_ Loader = (*floorplan.Loader)(nil)
	_ Bridge = (*persist.Bridge)(nil)
)

// Mounted is an open floor.
type Mounted struct {
	Floor      int
	Scene      *scene.Scene
	Dispatcher *scene.Dispatcher
	// Room is the room being edited, nil in the read-only floor view.
	Room *editor.Room
}

// ReadOnly reports whether m is a floor view.
func (m *Mounted) ReadOnly() bool { return m.Room == nil }

// Workspace mounts floors. Open, Current, Save and Close are safe for
// concurrent use; the mounted scene itself is not and belongs to the
// front end's event loop.
type Workspace struct {
	loader   Loader
	bridge   Bridge
	layout   func(floor int) scene.FloorLayout
	behavior scene.ZoomBehavior
	notifier notice.Notifier
	logger   *log.Logger

	mu      sync.Mutex
	current *Mounted
	cancel  context.CancelFunc
	gen     uint64
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLayouts sets the per-floor layout source, usually config.Layout.
func WithLayouts(f func(floor int) scene.FloorLayout) Option {
	return func(w *Workspace) { w.layout = f }
}

// WithZoomBehavior sets the pan/zoom scale bounds of mounted scenes.
func WithZoomBehavior(b scene.ZoomBehavior) Option {
	return func(w *Workspace) { w.behavior = b }
}

// WithNotifier sets where load notices go.
func WithNotifier(n notice.Notifier) Option {
	return func(w *Workspace) {
		if n != nil {
			w.notifier = n
		}
	}
}

// WithLogger sets the workspace logger.
func WithLogger(l *log.Logger) Option {
	return func(w *Workspace) {
		if l != nil {
			w.logger = l
		}
	}
}

// New returns an empty Workspace.
func New(loader Loader, bridge Bridge, opts ...Option) *Workspace {
	w := &Workspace{
		loader:   loader,
		bridge:   bridge,
		layout:   scene.DefaultLayout,
		behavior: scene.DefaultZoomBehavior,
		notifier: notice.Discard,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Open mounts floor for editing roomID, or as a read-only floor view when
// roomID is 0. The previous floor is torn down first, and an Open that is
// superseded before it finishes returns LOAD_FAILED without mounting.
func (w *Workspace) Open(ctx context.Context, floor int, roomID int64) (*Mounted, error) {
	if err := errs.ValidateFloorNumber(floor); err != nil {
		return nil, err
	}
	if roomID < 0 {
		return nil, errs.New(errs.ErrCodeInvalidID, "room id must not be negative, got %d", roomID)
	}

	loadCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.teardownLocked()
	w.gen++
	gen := w.gen
	w.cancel = cancel
	w.mu.Unlock()

	start := time.Now()
	var (
		wg       sync.WaitGroup
		diagram  *floorplan.Diagram
		diagErr  error
		rooms    []*editor.Room
		roomsErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		diagram, diagErr = w.loader.Load(loadCtx, floor)
	}()
	go func() {
		defer wg.Done()
		rooms, roomsErr = w.hydrate(loadCtx, floor, roomID)
	}()
	wg.Wait()

	fail := func(err error) (*Mounted, error) {
		w.abandon(gen)
		observability.Editor().OnMount(ctx, floor, time.Since(start), err)
		return nil, err
	}
	if roomsErr != nil {
		return fail(roomsErr)
	}

	s := scene.New(w.layout(floor))
	s.Behavior = w.behavior
	if diagErr != nil {
		floorplan.MountFailure(s, diagErr)
		w.notifier.Notify(notice.New(notice.Error, "Could not load the floor plan"))
	} else if err := floorplan.Mount(s, diagram); err != nil {
		return fail(err)
	}
	for _, r := range rooms {
		if err := s.AddRoom(r); err != nil {
			return fail(err)
		}
	}
	if err := s.ApplyInitialView(); err != nil {
		return fail(err)
	}

	m := &Mounted{Floor: floor, Scene: s, Dispatcher: scene.NewDispatcher(s)}
	if roomID != 0 && len(rooms) == 1 {
		m.Room = rooms[0]
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || loadCtx.Err() != nil {
		s.Detach()
		err := errs.Wrap(errs.ErrCodeLoadFailed, context.Canceled, "floor %d open superseded", floor)
		observability.Editor().OnMount(ctx, floor, time.Since(start), err)
		return nil, err
	}
	w.current = m
	elapsed := time.Since(start)
	observability.Editor().OnMount(ctx, floor, elapsed, diagErr)
	w.logger.Info("mounted floor", "floor", floor, "room", roomID, "rooms", len(rooms), "diagram", diagErr == nil, "elapsed", elapsed)
	return m, nil
}

func (w *Workspace) hydrate(ctx context.Context, floor int, roomID int64) ([]*editor.Room, error) {
	if roomID == 0 {
		return w.bridge.HydrateFloor(ctx, floor)
	}
	room, err := w.bridge.Hydrate(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return []*editor.Room{room}, nil
}

// abandon releases the context of a failed open if it is still current.
func (w *Workspace) abandon(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen == gen && w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
}

// Current returns the mounted floor, or nil.
func (w *Workspace) Current() *Mounted {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Save writes the current geometry of the room being edited. It reads the
// live room, so call it from the goroutine that edits the scene.
func (w *Workspace) Save(ctx context.Context) (persist.Report, error) {
	snap, err := w.Snapshot()
	if err != nil {
		return persist.Report{}, err
	}
	return w.SaveSnapshot(ctx, snap)
}

// Snapshot copies the geometry of the room being edited. Like Save, it
// must run on the goroutine that edits the scene.
func (w *Workspace) Snapshot() (persist.Snapshot, error) {
	m, err := w.editable()
	if err != nil {
		return persist.Snapshot{}, err
	}
	return persist.TakeSnapshot(m.Room), nil
}

// SaveSnapshot writes snap, which must belong to the room being edited.
// It does not touch the scene and may run on any goroutine.
func (w *Workspace) SaveSnapshot(ctx context.Context, snap persist.Snapshot) (persist.Report, error) {
	m, err := w.editable()
	if err != nil {
		return persist.Report{}, err
	}
	if snap.RoomID != m.Room.ID {
		return persist.Report{}, errs.New(errs.ErrCodeInvalidInput, "snapshot of room %d, but room %d is open", snap.RoomID, m.Room.ID)
	}
	return w.bridge.SaveSnapshot(ctx, snap), nil
}

func (w *Workspace) editable() (*Mounted, error) {
	m := w.Current()
	switch {
	case m == nil:
		return nil, errs.New(errs.ErrCodeInvalidInput, "no floor is open")
	case m.ReadOnly():
		return nil, errs.New(errs.ErrCodeUnsupported, "floor %d is open read-only", m.Floor)
	}
	return m, nil
}

// Close tears down the mounted floor.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.teardownLocked()
}

func (w *Workspace) teardownLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.current != nil {
		w.current.Scene.Detach()
		w.logger.Debug("detached floor", "floor", w.current.Floor)
		w.current = nil
	}
}
