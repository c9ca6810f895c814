package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/persist"
	"github.com/matzehuels/seatmap/pkg/render/svg"
	"github.com/matzehuels/seatmap/pkg/scene"
	"github.com/matzehuels/seatmap/pkg/session"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

// transitionStep is the frame interval of zoom-to animations sent to
// browsers.
const transitionStep = time.Second / 60

// workspaceFactory creates the workspace of a new editor session.
type workspaceFactory func(notice.Notifier) *workspace.Workspace

// Handler serves the editor API. Every session owns one workspace; the
// browser sends pointer events and reads back the scene as SVG.
type Handler struct {
	newWorkspace workspaceFactory
	sessions     *session.Store
	transition   time.Duration
	logger       *log.Logger
}

// NewHandler returns an editor API handler.
func NewHandler(newWS workspaceFactory, sessions *session.Store, transition time.Duration, logger *log.Logger) *Handler {
	if transition <= 0 {
		transition = scene.DefaultTransitionDuration
	}
	return &Handler{newWorkspace: newWS, sessions: sessions, transition: transition, logger: logger}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		h.writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": h.sessions.Len()})
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.withSession(h.getState))
			r.Delete("/", h.deleteSession)
			r.Get("/scene.svg", h.withSession(h.getSVG))
			r.Post("/pointer", h.withSession(h.pointer))
			r.Post("/pan", h.withSession(h.pan))
			r.Post("/zoom", h.withSession(h.zoom))
			r.Post("/zoom-to", h.withSession(h.zoomTo))
			r.Post("/save", h.withSession(h.save))
			r.Get("/notices", h.withSession(h.listNotices))
			r.Delete("/notices/{noticeID}", h.withSession(h.dismissNotice))
		})
	})
	return r
}

// =============================================================================
// Request and response bodies
// =============================================================================

type createRequest struct {
	Floor  int   `json:"floor"`
	RoomID int64 `json:"roomId"`
}

type zoomJSON struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func toZoomJSON(z geom.Zoom) zoomJSON { return zoomJSON{K: z.K, X: z.X, Y: z.Y} }

type seatJSON struct {
	ID       int64    `json:"id"`
	Number   string   `json:"number"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Rotation float64  `json:"rotation"`
	Occupied bool     `json:"occupied"`
	Label    []string `json:"label"`
}

type roomJSON struct {
	ID     int64      `json:"id"`
	Number string     `json:"number"`
	Name   string     `json:"name"`
	X      float64    `json:"x"`
	Y      float64    `json:"y"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Seats  []seatJSON `json:"seats"`
}

type stateResponse struct {
	ID         string     `json:"id"`
	Floor      int        `json:"floor"`
	ReadOnly   bool       `json:"readOnly"`
	Background bool       `json:"background"`
	Zoom       zoomJSON   `json:"zoom"`
	Rooms      []roomJSON `json:"rooms"`
}

type pointerRequest struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor"`
}

type pointerResponse struct {
	Hit    string   `json:"hit,omitempty"`
	RoomID int64    `json:"roomId,omitempty"`
	SeatID int64    `json:"seatId,omitempty"`
	Click  bool     `json:"click,omitempty"`
	Zoom   zoomJSON `json:"zoom"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type zoomRequest struct {
	K float64 `json:"k"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type zoomToRequest struct {
	SeatID int64   `json:"seatId"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type zoomToResponse struct {
	From       zoomJSON   `json:"from"`
	To         zoomJSON   `json:"to"`
	DurationMS int64      `json:"durationMs"`
	Frames     []zoomJSON `json:"frames"`
}

type outcomeJSON struct {
	Entity persist.Entity `json:"entity"`
	ID     int64          `json:"id"`
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
}

type saveResponse struct {
	Written  int           `json:"written"`
	Failed   int           `json:"failed"`
	Outcomes []outcomeJSON `json:"outcomes"`
}

// =============================================================================
// Sessions
// =============================================================================

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !h.decode(w, r, &req) {
		return
	}

	notices := notice.NewRecorder()
	ws := h.newWorkspace(notices)
	// The load outlives the request only as long as the session does.
	m, err := ws.Open(r.Context(), req.Floor, req.RoomID)
	if err != nil {
		ws.Close()
		h.writeErr(w, err)
		return
	}

	sess := session.New(ws, notices)
	h.sessions.Add(sess)
	h.logger.Info("session opened", "session", sess.ID, "floor", m.Floor, "room", req.RoomID)

	h.writeJSON(w, http.StatusCreated, state(sess.ID, m))
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(chi.URLParam(r, "id")) {
		h.writeErr(w, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// sessionHandler handles a request against a locked, mounted session.
type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session, m *workspace.Mounted)

func (h *Handler) withSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			h.writeErr(w, err)
			return
		}
		sess.Lock()
		defer sess.Unlock()

		m := sess.Workspace.Current()
		if m == nil {
			h.writeErr(w, scene.ErrDetached)
			return
		}
		next(w, r, sess, m)
	}
}

func (h *Handler) getState(w http.ResponseWriter, _ *http.Request, sess *session.Session, m *workspace.Mounted) {
	h.writeJSON(w, http.StatusOK, state(sess.ID, m))
}

func (h *Handler) getSVG(w http.ResponseWriter, r *http.Request, _ *session.Session, m *workspace.Mounted) {
	var opts []svg.Option
	if m.ReadOnly() {
		opts = append(opts, svg.WithFloorView())
	}
	if r.URL.Query().Get("background") == "false" {
		opts = append(opts, svg.WithoutBackground())
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(svg.Render(m.Scene, opts...))
}

// =============================================================================
// Pointer and view
// =============================================================================

func (h *Handler) pointer(w http.ResponseWriter, r *http.Request, _ *session.Session, m *workspace.Mounted) {
	var req pointerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if m.ReadOnly() && req.Type != "wheel" {
		h.writeErr(w, errs.New(errs.ErrCodeUnsupported, "the floor view is read-only"))
		return
	}

	ctx := r.Context()
	p := geom.Pt(req.X, req.Y)
	var (
		resp pointerResponse
		hit  scene.Hit
		err  error
	)
	switch req.Type {
	case "down":
		hit, err = m.Dispatcher.PointerDown(ctx, p)
	case "move":
		err = m.Dispatcher.PointerMove(ctx, p)
	case "up":
		resp.Click, err = m.Dispatcher.PointerUp(ctx, p)
	case "click":
		hit, err = m.Dispatcher.Click(ctx, p)
		resp.Click = err == nil
	case "wheel":
		if req.Factor <= 0 {
			err = errs.New(errs.ErrCodeInvalidInput, "wheel factor must be positive")
			break
		}
		err = m.Dispatcher.Wheel(ctx, p, req.Factor)
	default:
		err = errs.New(errs.ErrCodeInvalidInput, "unknown pointer event %q", req.Type)
	}
	if err != nil {
		h.writeErr(w, err)
		return
	}

	if hit.Kind != scene.HitNone {
		resp.Hit = hit.Kind.String()
		resp.RoomID = hit.Room.ID
		if hit.Seat != nil {
			resp.SeatID = hit.Seat.ID
		}
	}
	resp.Zoom = toZoomJSON(m.Scene.Zoom())
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) pan(w http.ResponseWriter, r *http.Request, _ *session.Session, m *workspace.Mounted) {
	var req panRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := m.Scene.Pan(req.DX, req.DY); err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toZoomJSON(m.Scene.Zoom()))
}

func (h *Handler) zoom(w http.ResponseWriter, r *http.Request, _ *session.Session, m *workspace.Mounted) {
	var req zoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := m.Scene.ZoomAt(req.K, geom.Pt(req.X, req.Y)); err != nil {
		h.writeErr(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toZoomJSON(m.Scene.Zoom()))
}

// zoomTo centers the edited room, or one of its seats, and returns the
// animation frames. The session's view jumps to the last frame.
func (h *Handler) zoomTo(w http.ResponseWriter, r *http.Request, _ *session.Session, m *workspace.Mounted) {
	var req zoomToRequest
	if !h.decode(w, r, &req) {
		return
	}
	if m.ReadOnly() {
		h.writeErr(w, errs.New(errs.ErrCodeUnsupported, "the floor view has no room to zoom to"))
		return
	}

	var target editor.Draggable = m.Room
	if req.SeatID != 0 {
		seat, ok := m.Room.Seat(req.SeatID)
		if !ok {
			h.writeErr(w, errs.New(errs.ErrCodeNotFound, "seat %d is not in room %d", req.SeatID, m.Room.ID))
			return
		}
		target = seat
	}

	tr, err := m.Scene.ZoomTo(target, geom.Size{W: req.Width, H: req.Height})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	tr.Duration = h.transition
	frames := tr.Frames(transitionStep)
	if err := m.Scene.SetZoom(tr.To); err != nil {
		h.writeErr(w, err)
		return
	}

	resp := zoomToResponse{
		From:       toZoomJSON(tr.From),
		To:         toZoomJSON(tr.To),
		DurationMS: tr.Duration.Milliseconds(),
		Frames:     make([]zoomJSON, len(frames)),
	}
	for i, f := range frames {
		resp.Frames[i] = toZoomJSON(f)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Save and notices
// =============================================================================

func (h *Handler) save(w http.ResponseWriter, r *http.Request, sess *session.Session, _ *workspace.Mounted) {
	// A save runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(r.Context())
	report, err := sess.Workspace.Save(ctx)
	if err != nil {
		h.writeErr(w, err)
		return
	}

	resp := saveResponse{Written: report.Written(), Failed: len(report.Failed())}
	for _, o := range report.Outcomes() {
		oj := outcomeJSON{Entity: o.Entity, ID: o.ID, OK: o.OK()}
		if o.Err != nil {
			oj.Error = errs.UserMessage(o.Err)
		}
		resp.Outcomes = append(resp.Outcomes, oj)
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listNotices(w http.ResponseWriter, _ *http.Request, sess *session.Session, _ *workspace.Mounted) {
	type noticeJSON struct {
		ID      string    `json:"id"`
		Level   string    `json:"level"`
		Message string    `json:"message"`
		Expires time.Time `json:"expires"`
	}
	active := sess.Notices.Active()
	out := make([]noticeJSON, len(active))
	for i, n := range active {
		out[i] = noticeJSON{ID: n.ID, Level: n.Level.String(), Message: n.Message, Expires: n.Created.Add(n.TTL)}
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *Handler) dismissNotice(w http.ResponseWriter, r *http.Request, sess *session.Session, _ *workspace.Mounted) {
	if !sess.Notices.Dismiss(chi.URLParam(r, "noticeID")) {
		h.writeError(w, http.StatusNotFound, string(errs.ErrCodeNotFound), "notice not found", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Helpers
// =============================================================================

func state(id string, m *workspace.Mounted) stateResponse {
	resp := stateResponse{
		ID:         id,
		Floor:      m.Floor,
		ReadOnly:   m.ReadOnly(),
		Background: m.Scene.Background().Loaded(),
		Zoom:       toZoomJSON(m.Scene.Zoom()),
		Rooms:      make([]roomJSON, 0, len(m.Scene.Rooms())),
	}
	for _, r := range m.Scene.Rooms() {
		rect := r.Rect()
		rj := roomJSON{
			ID: r.ID, Number: r.Number, Name: r.Name,
			X: rect.X, Y: rect.Y, Width: rect.W, Height: rect.H,
			Seats: make([]seatJSON, 0, len(r.Seats())),
		}
		for _, s := range r.Seats() {
			t, sz := s.Translate(), s.Size()
			rj.Seats = append(rj.Seats, seatJSON{
				ID: s.ID, Number: s.Number,
				X: t.X, Y: t.Y, Width: sz.W, Height: sz.H,
				Rotation: s.Rotation(),
				Occupied: s.Occupied(),
				Label:    s.Label().Lines,
			})
		}
		resp.Rooms = append(resp.Rooms, rj)
	}
	return resp
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		h.writeError(w, http.StatusBadRequest, string(errs.ErrCodeInvalidInput), "invalid request body", map[string]any{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	body := map[string]any{"code": code, "message": msg}
	if len(details) > 0 {
		body["details"] = details
	}
	h.writeJSON(w, status, map[string]any{"error": body})
}

// writeErr maps an error code to an HTTP status.
func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidID, errs.ErrCodeMalformedTransform:
		status = http.StatusBadRequest
	case errs.ErrCodeNotFound:
		status = http.StatusNotFound
	case errs.ErrCodeDetached, errs.ErrCodeNoSession, errs.ErrCodeUnsupported:
		status = http.StatusConflict
	case errs.ErrCodeLoadFailed, errs.ErrCodeSaveFailed, errs.ErrCodeNetwork:
		status = http.StatusBadGateway
	case errs.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	case "":
		code = errs.ErrCodeInternal
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
	}
	h.writeError(w, status, string(code), errs.UserMessage(err), nil)
}
