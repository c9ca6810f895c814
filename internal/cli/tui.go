package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/seatmap/pkg/editor"
	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/notice"
	"github.com/matzehuels/seatmap/pkg/observability"
	"github.com/matzehuels/seatmap/pkg/persist"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

var (
	editorDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorModeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

const (
	nudgeStep     = 1.0  // units per arrow press
	nudgeStepFast = 10.0 // units per shift+arrow press
	panStep       = 50.0 // screen units per pan key
	zoomStep      = 1.2  // scale factor per zoom key
)

// editMode selects what the arrow keys do to the selection.
type editMode int

const (
	modeMove editMode = iota
	modeResize
)

func (m editMode) String() string {
	if m == modeResize {
		return "resize"
	}
	return "move"
}

// =============================================================================
// EditorModel - Interactive room editing
// =============================================================================

type (
	saveFunc func(ctx context.Context, snap persist.Snapshot) (persist.Report, error)
	savedMsg struct {
		report persist.Report
		edits  int // edit count when the snapshot was taken
	}
	saveErrMsg struct{ err error }
	noticeTick struct{}
)

// EditorModel is the bubbletea model for editing one room with the
// keyboard. Row 0 of the table is the room, rows 1..n its seats.
type EditorModel struct {
	ctx     context.Context
	mounted *workspace.Mounted
	notices *notice.Recorder
	save    saveFunc

	Cursor   int
	Mode     editMode
	Dirty    bool
	Saving   bool
	Viewport geom.Size
	Err      error

	edits int
}

// NewEditorModel returns a model editing m.Room.
func NewEditorModel(ctx context.Context, m *workspace.Mounted, notices *notice.Recorder, save saveFunc) EditorModel {
	return EditorModel{
		ctx:      ctx,
		mounted:  m,
		notices:  notices,
		save:     save,
		Viewport: geom.Size{W: defaultWidth, H: defaultHeight},
	}
}

func (m EditorModel) Init() tea.Cmd {
	return tickNotices()
}

func tickNotices() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return noticeTick{} })
}

func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.Viewport = geom.Size{W: float64(msg.Width), H: float64(msg.Height)}
	case savedMsg:
		m.Saving = false
		if len(msg.report.Failed()) == 0 && msg.edits == m.edits {
			m.Dirty = false
		}
	case saveErrMsg:
		m.Saving = false
		m.Err = msg.err
	case noticeTick:
		return m, tickNotices()
	}
	return m, nil
}

func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	room := m.mounted.Room
	m.Err = nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "tab":
		m.Cursor = (m.Cursor + 1) % (len(room.Seats()) + 1)
	case "shift+tab":
		n := len(room.Seats()) + 1
		m.Cursor = (m.Cursor + n - 1) % n
	case "m":
		if m.Mode == modeMove && m.Cursor == 0 {
			m.Mode = modeResize
		} else {
			m.Mode = modeMove
		}
	case "up", "down", "left", "right":
		m.Err = m.nudge(direction(msg.String()).Scale(nudgeStep))
	case "shift+up", "shift+down", "shift+left", "shift+right":
		m.Err = m.nudge(direction(strings.TrimPrefix(msg.String(), "shift+")).Scale(nudgeStepFast))
	case "r":
		m.Err = m.rotate()
	case "H", "J", "K", "L":
		d := direction(map[string]string{"H": "left", "J": "down", "K": "up", "L": "right"}[msg.String()])
		m.Err = m.mounted.Scene.Pan(-d.X*panStep, -d.Y*panStep)
	case "+", "=":
		m.Err = m.mounted.Scene.ZoomBy(zoomStep, m.center())
	case "-":
		m.Err = m.mounted.Scene.ZoomBy(1/zoomStep, m.center())
	case "z":
		m.Err = zoomToRoom(m.mounted, m.Viewport)
	case "0":
		m.Err = m.mounted.Scene.ApplyInitialView()
	case "s", "ctrl+s":
		if m.Saving {
			return m, nil
		}
		m.Saving = true
		return m, saveCmd(m.ctx, m.save, persist.TakeSnapshot(room), m.edits)
	}
	return m, nil
}

func direction(key string) geom.Point {
	switch key {
	case "up":
		return geom.Pt(0, -1)
	case "down":
		return geom.Pt(0, 1)
	case "left":
		return geom.Pt(-1, 0)
	case "right":
		return geom.Pt(1, 0)
	}
	return geom.Point{}
}

// selected returns the object under the cursor.
func (m EditorModel) selected() editor.Draggable {
	if m.Cursor == 0 {
		return m.mounted.Room
	}
	return m.mounted.Room.Seats()[m.Cursor-1]
}

// nudge runs a one-step gesture on the selection, so keyboard edits obey
// the same clamping as pointer drags.
func (m *EditorModel) nudge(delta geom.Point) error {
	var (
		s       *editor.Session
		pointer geom.Point
		bounds  geom.Rect
	)
	room := m.mounted.Room
	if m.Mode == modeResize && m.Cursor == 0 {
		corner := geom.Pt(room.Size().W, room.Size().H)
		s, pointer = editor.StartResize(room, corner), corner.Add(delta)
	} else {
		obj := m.selected()
		s, pointer = editor.StartDrag(obj, obj.Translate()), obj.Translate().Add(delta)
		bounds = m.mounted.Scene.Frame()
		if seat, ok := obj.(*editor.Seat); ok {
			bounds = seat.Container()
		}
	}
	observability.Editor().OnGestureStart(m.ctx, s.ID.String(), s.Gesture.String(), "keyboard")
	defer func() {
		s.End()
		observability.Editor().OnGestureEnd(m.ctx, s.ID.String(), s.Gesture.String(), s.Moves)
	}()
	if _, err := s.Move(pointer, bounds); err != nil {
		return err
	}
	m.edits++
	m.Dirty = true
	return nil
}

func (m *EditorModel) rotate() error {
	seat, ok := m.selected().(*editor.Seat)
	if !ok {
		return errs.New(errs.ErrCodeInvalidInput, "select a seat to rotate")
	}
	angle := seat.ToggleRotation()
	observability.Editor().OnRotate(m.ctx, seat.ID, angle)
	m.edits++
	m.Dirty = true
	return nil
}

func (m EditorModel) center() geom.Point {
	return geom.Pt(m.Viewport.W/2, m.Viewport.H/2)
}

// saveCmd writes snap off the update loop. It must not touch the live
// room, which keeps changing while the save runs.
func saveCmd(ctx context.Context, save saveFunc, snap persist.Snapshot, edits int) tea.Cmd {
	return func() tea.Msg {
		report, err := save(ctx, snap)
		if err != nil {
			return saveErrMsg{err}
		}
		return savedMsg{report: report, edits: edits}
	}
}

func (m EditorModel) View() string {
	var b strings.Builder
	room := m.mounted.Room

	title := fmt.Sprintf("Room %s", room.Number)
	if room.Name != "" {
		title += " · " + room.Name
	}
	if m.Dirty {
		title += " *"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(editorModeStyle.Render(m.Mode.String()))
	b.WriteString("\n")
	b.WriteString(editorDimStyle.Render("⇥ select  ←↑↓→ nudge (⇧ ×10)  m move/resize  r rotate  HJKL pan  +/- zoom  z zoom to room  s save  q quit"))
	b.WriteString("\n\n")

	b.WriteString(roomTable(room, m.Cursor))
	b.WriteString("\n")

	z := m.mounted.Scene.Zoom()
	b.WriteString(editorDimStyle.Render(fmt.Sprintf("  floor %d  view %s", m.mounted.Floor, z)))
	b.WriteString("\n")

	if m.Saving {
		b.WriteString("\n" + styleIconSpinner.Render("⠿") + " " + StyleDim.Render("Saving..."))
	}
	if m.Err != nil {
		b.WriteString("\n" + styleIconError.Render(iconError) + " " + m.Err.Error())
	}
	for _, n := range m.notices.Active() {
		icon := styleIconSuccess.Render(iconSuccess)
		if n.Level == notice.Error {
			icon = styleIconError.Render(iconError)
		}
		b.WriteString("\n" + icon + " " + n.Message)
	}
	return b.String()
}
