package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render/svg"
	"github.com/matzehuels/seatmap/pkg/workspace"
)

const (
	defaultWidth  = 1200 // default SVG viewport width
	defaultHeight = 800  // default SVG viewport height
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	floor        int
	room         int64
	output       string  // output file, "-" for stdout
	width        float64 // viewport width in pixels
	height       float64 // viewport height in pixels
	noBackground bool    // leave out the floor diagram
	zoomTo       bool    // center the view on the edited room
}

// renderCommand creates the render command. Without --room it renders the
// read-only floor view.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a floor or a room to SVG",
		Long: `Render loads a floor diagram and its rooms from the backend and writes the
editor's SVG. With --room the room's seats, labels and resize handle are
included; the result can be edited and written back with "seatmap save".`,
		Example: `  seatmap render --floor 2
  seatmap render --floor 2 --room 12 -o room-12.svg
  seatmap render --floor 1 --room 3 --zoom-to -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.floor, "floor", 0, "floor number (required)")
	cmd.Flags().Int64Var(&opts.room, "room", 0, "room to edit (default: read-only floor view)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default floor-N[-room-M].svg)`)
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "viewport width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "viewport height")
	cmd.Flags().BoolVar(&opts.noBackground, "no-background", false, "omit the floor diagram")
	cmd.Flags().BoolVar(&opts.zoomTo, "zoom-to", false, "center the view on the room")
	_ = cmd.MarkFlagRequired("floor")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	ws := c.newWorkspace(e, e.notices)
	defer ws.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading floor %d...", opts.floor))
	spinner.Start()
	prog := newProgress(logger)
	m, err := ws.Open(ctx, opts.floor, opts.room)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Mounted floor %d with %d rooms", m.Floor, len(m.Scene.Rooms())))

	for _, n := range e.notices.Active() {
		printNotice(n)
	}

	if opts.zoomTo && !m.ReadOnly() {
		if err := zoomToRoom(m, geom.Size{W: opts.width, H: opts.height}); err != nil {
			return err
		}
	}

	out := svg.Render(m.Scene, renderOptions(m, opts)...)

	if opts.output == "-" {
		_, err := os.Stdout.Write(out)
		return err
	}
	base := fmt.Sprintf("floor-%d", opts.floor)
	if !m.ReadOnly() {
		base = fmt.Sprintf("floor-%d-room-%d", opts.floor, opts.room)
	}
	path := outputPath(opts.output, base, ".svg")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	printSuccess("Rendered floor %d", opts.floor)
	printFile(path)
	if !m.ReadOnly() {
		printNextStep("Write edits back", "seatmap save "+path)
	}
	return nil
}

func renderOptions(m *workspace.Mounted, opts renderOpts) []svg.Option {
	o := []svg.Option{svg.WithSize(opts.width, opts.height)}
	if m.ReadOnly() {
		o = append(o, svg.WithFloorView())
	}
	if opts.noBackground {
		o = append(o, svg.WithoutBackground())
	}
	return o
}

// zoomToRoom jumps straight to the end of the zoom-to transition.
func zoomToRoom(m *workspace.Mounted, viewport geom.Size) error {
	tr, err := m.Scene.ZoomTo(m.Room, viewport)
	if err != nil {
		return err
	}
	return m.Scene.SetZoom(tr.To)
}
