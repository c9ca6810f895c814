package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seatmap/pkg/backend"
	"github.com/matzehuels/seatmap/pkg/floorplan"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/persist"
	"github.com/matzehuels/seatmap/pkg/session"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

// seatingBackend serves floor 2 with room 12 and records geometry writes.
type seatingBackend struct {
	mu        sync.Mutex
	roomWrite *backend.RoomGeometry
	seatWrite *backend.SeatGeometry
}

func (b *seatingBackend) router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/floors/{n}/svg", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 1200 800"><rect class="wall" width="1200" height="800"/></svg>`))
	})
	r.Get("/api/floors/{n}", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, backend.Floor{ID: 2, FloorNumber: 2, Rooms: []backend.Room{
			{ID: 12, RoomNumber: "2.14", Name: "Lab", X: 100, Y: 100, Width: 200, Height: 100},
			{ID: 13, RoomNumber: "2.15", Name: "Storage"},
		}})
	})
	r.Get("/api/rooms/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "12" {
			http.NotFound(w, r)
			return
		}
		writeTestJSON(w, backend.Room{
			ID: 12, RoomNumber: "2.14", Name: "Lab", X: 100, Y: 100, Width: 200, Height: 100,
			Seats: []backend.Seat{{ID: 7, SeatNumber: "A1", X: 10, Y: 10, Width: 30, Height: 20, EmployeeIDs: []int64{3}}},
		})
	})
	r.Get("/api/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeTestJSON(w, backend.Employee{ID: 3, FullName: "Ada Lovelace"})
	})
	r.Patch("/api/rooms/{id}/geometry", func(w http.ResponseWriter, r *http.Request) {
		var g backend.RoomGeometry
		json.NewDecoder(r.Body).Decode(&g)
		b.mu.Lock()
		b.roomWrite = &g
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	r.Patch("/api/rooms/{id}/seats/{seat}/geometry", func(w http.ResponseWriter, r *http.Request) {
		var g backend.SeatGeometry
		json.NewDecoder(r.Body).Decode(&g)
		b.mu.Lock()
		b.seatWrite = &g
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func writeTestJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// newTestService starts the seating backend and the editor API in front of it.
func newTestService(t *testing.T) (*httptest.Server, *seatingBackend, *session.Store) {
	t.Helper()
	be := &seatingBackend{}
	backendSrv := httptest.NewServer(be.router())
	t.Cleanup(backendSrv.Close)

	client, err := backend.NewClient(backendSrv.URL+"/api", backend.WithHTTPClient(backendSrv.Client()))
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	newWS := func(n notice.Notifier) *workspace.Workspace {
		bridge := persist.NewBridge(client, persist.WithNotifier(n), persist.WithLogger(logger))
		return workspace.New(floorplan.NewLoader(client, logger), bridge, workspace.WithNotifier(n))
	}

	sessions := session.NewStore(0)
	t.Cleanup(sessions.Close)
	srv := httptest.NewServer(NewHandler(newWS, sessions, 0, logger).Routes())
	t.Cleanup(srv.Close)
	return srv, be, sessions
}

func call(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		r = bytes.NewReader(data)
	}
	req, _ := http.NewRequest(method, url, r)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func openSession(t *testing.T, srv *httptest.Server, floor int, room int64) stateResponse {
	t.Helper()
	var st stateResponse
	if code := call(t, "POST", srv.URL+"/api/sessions", createRequest{Floor: floor, RoomID: room}, &st); code != http.StatusCreated {
		t.Fatalf("create session status = %d", code)
	}
	return st
}

func TestServiceEditAndSave(t *testing.T) {
	srv, be, _ := newTestService(t)
	st := openSession(t, srv, 2, 12)
	base := srv.URL + "/api/sessions/" + st.ID

	if st.ReadOnly || !st.Background || len(st.Rooms) != 1 {
		t.Fatalf("state = %+v", st)
	}
	if seat := st.Rooms[0].Seats[0]; seat.Label[0] != "Ada Lovelace" || !seat.Occupied {
		t.Errorf("seat 7 = %+v, want hydrated employee", seat)
	}
	if st.Zoom != (zoomJSON{K: 0.8, X: 100, Y: 100}) {
		t.Errorf("initial view = %+v", st.Zoom)
	}

	// Seat 7 sits at scene (110, 110), screen (188, 188) under the initial view.
	var hit pointerResponse
	call(t, "POST", base+"/pointer", pointerRequest{Type: "down", X: 190, Y: 190}, &hit)
	if hit.Hit != "seat" || hit.SeatID != 7 || hit.RoomID != 12 {
		t.Fatalf("pointer down hit = %+v, want seat 7", hit)
	}
	call(t, "POST", base+"/pointer", pointerRequest{Type: "move", X: 270, Y: 190}, nil)
	call(t, "POST", base+"/pointer", pointerRequest{Type: "up", X: 270, Y: 190}, &hit)
	if hit.Click {
		t.Error("a drag should not count as a click")
	}

	call(t, "POST", base+"/pointer", pointerRequest{Type: "click", X: 280, Y: 195}, nil)

	call(t, "GET", base, nil, &st)
	seat := st.Rooms[0].Seats[0]
	if !near(seat.X, 110) || !near(seat.Y, 10) || seat.Rotation != 90 {
		t.Errorf("seat after drag and click = %+v, want (110, 10) rotated 90", seat)
	}

	var saved saveResponse
	if code := call(t, "POST", base+"/save", nil, &saved); code != http.StatusOK {
		t.Fatalf("save status = %d", code)
	}
	if saved.Written != 2 || saved.Failed != 0 {
		t.Errorf("save = %+v, want 2 written", saved)
	}
	be.mu.Lock()
	if be.seatWrite == nil || !near(be.seatWrite.X, 110) || be.seatWrite.Rotation != 90 {
		t.Errorf("seat write = %+v", be.seatWrite)
	}
	if be.roomWrite == nil || *be.roomWrite != (backend.RoomGeometry{X: 100, Y: 100, Width: 200, Height: 100}) {
		t.Errorf("room write = %+v", be.roomWrite)
	}
	be.mu.Unlock()

	var notices []struct {
		ID, Level, Message string
	}
	call(t, "GET", base+"/notices", nil, &notices)
	if len(notices) != 2 || notices[0].Message != "Room 2.14 updated successfully" || notices[1].Message != "Seat A1 updated successfully" {
		t.Fatalf("notices = %+v", notices)
	}
	if code := call(t, "DELETE", base+"/notices/"+notices[0].ID, nil, nil); code != http.StatusNoContent {
		t.Errorf("dismiss status = %d", code)
	}
	if code := call(t, "DELETE", base+"/notices/"+notices[0].ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("second dismiss status = %d, want 404", code)
	}
}

func TestServiceSceneSVG(t *testing.T) {
	srv, _, _ := newTestService(t)
	st := openSession(t, srv, 2, 12)

	resp, err := http.Get(srv.URL + "/api/sessions/" + st.ID + "/scene.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Content-Type = %q", ct)
	}
	for _, want := range []string{`data-room-id="12"`, `class="wall"`, "Ada Lovelace"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("scene.svg missing %q", want)
		}
	}
}

func TestServiceViewControls(t *testing.T) {
	srv, _, _ := newTestService(t)
	st := openSession(t, srv, 2, 12)
	base := srv.URL + "/api/sessions/" + st.ID

	var z zoomJSON
	call(t, "POST", base+"/pan", panRequest{DX: 20, DY: -10}, &z)
	if z != (zoomJSON{K: 0.8, X: 120, Y: 90}) {
		t.Errorf("after pan view = %+v", z)
	}

	call(t, "POST", base+"/zoom", zoomRequest{K: 100}, &z)
	if z.K != 4 {
		t.Errorf("zoom k = %v, want clamped to 4", z.K)
	}

	var tr zoomToResponse
	if code := call(t, "POST", base+"/zoom-to", zoomToRequest{Width: 800, Height: 600}, &tr); code != http.StatusOK {
		t.Fatalf("zoom-to status = %d", code)
	}
	wantFrames := int(math.Ceil(float64(750*time.Millisecond) / float64(transitionStep)))
	if tr.DurationMS != 750 || len(tr.Frames) != wantFrames {
		t.Errorf("transition %dms with %d frames, want 750ms and %d", tr.DurationMS, len(tr.Frames), wantFrames)
	}
	if tr.Frames[len(tr.Frames)-1] != tr.To {
		t.Error("last frame should be the target view")
	}
	// Room 12 is 200×100 and centered at (200, 150).
	if !near(tr.To.K, 3.6) || !near(tr.To.X, 400-200*3.6) || !near(tr.To.Y, 300-150*3.6) {
		t.Errorf("zoom-to target = %+v", tr.To)
	}

	call(t, "GET", base, nil, &st)
	if st.Zoom != tr.To {
		t.Errorf("session view = %+v, want %+v", st.Zoom, tr.To)
	}

	if code := call(t, "POST", base+"/zoom-to", zoomToRequest{SeatID: 99, Width: 800, Height: 600}, nil); code != http.StatusNotFound {
		t.Errorf("zoom-to unknown seat status = %d, want 404", code)
	}
}

func TestServiceFloorViewIsReadOnly(t *testing.T) {
	srv, _, _ := newTestService(t)
	st := openSession(t, srv, 2, 0)
	base := srv.URL + "/api/sessions/" + st.ID

	if !st.ReadOnly || len(st.Rooms) != 1 || st.Rooms[0].ID != 12 {
		t.Fatalf("floor view state = %+v, want only placed room 12", st)
	}
	if code := call(t, "POST", base+"/pointer", pointerRequest{Type: "down", X: 190, Y: 190}, nil); code != http.StatusConflict {
		t.Errorf("pointer down status = %d, want 409", code)
	}
	if code := call(t, "POST", base+"/pointer", pointerRequest{Type: "wheel", X: 190, Y: 190, Factor: 2}, nil); code != http.StatusOK {
		t.Errorf("wheel status = %d, want 200", code)
	}
	if code := call(t, "POST", base+"/save", nil, nil); code != http.StatusConflict {
		t.Errorf("save status = %d, want 409", code)
	}
}

func TestServiceErrors(t *testing.T) {
	srv, _, sessions := newTestService(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"unknown room", "POST", "/api/sessions", createRequest{Floor: 2, RoomID: 99}, http.StatusBadGateway},
		{"negative floor", "POST", "/api/sessions", createRequest{Floor: -1, RoomID: 12}, http.StatusBadRequest},
		{"unknown field", "POST", "/api/sessions", map[string]any{"floor": 2, "room": 12}, http.StatusBadRequest},
		{"unknown session", "GET", "/api/sessions/nope", nil, http.StatusNotFound},
		{"delete unknown session", "DELETE", "/api/sessions/nope", nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := call(t, tt.method, srv.URL+tt.path, tt.body, nil); got != tt.want {
				t.Errorf("status = %d, want %d", got, tt.want)
			}
		})
	}
	if sessions.Len() != 0 {
		t.Errorf("failed opens left %d sessions", sessions.Len())
	}

	st := openSession(t, srv, 2, 12)
	base := srv.URL + "/api/sessions/" + st.ID
	if code := call(t, "POST", base+"/pointer", pointerRequest{Type: "hover"}, nil); code != http.StatusBadRequest {
		t.Errorf("unknown pointer type status = %d, want 400", code)
	}
	if code := call(t, "DELETE", base, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete status = %d", code)
	}
	if code := call(t, "GET", base, nil, nil); code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", code)
	}
}
