package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/persist"
)

// saveCommand creates the save command, which writes the geometry found in
// an edited SVG back to the backend.
func (c *CLI) saveCommand() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "save <file.svg>",
		Short: "Write room and seat geometry from an SVG back to the backend",
		Long: `Save reads the rooms and seats of an SVG produced by "seatmap render" and
writes each room's position and size and each seat's position, size and
rotation to the backend. A failed write does not stop the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSave(cmd.Context(), args[0], dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the geometry without writing it")

	return cmd
}

func (c *CLI) runSave(ctx context.Context, path string, dryRun bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	rooms, err := persist.ReadSVG(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if len(rooms) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "%s contains no editable rooms", path)
	}

	if dryRun {
		for _, r := range rooms {
			fmt.Println(roomTable(r, -1))
		}
		return nil
	}

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	var failed int
	for _, r := range rooms {
		spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Saving room %d...", r.ID))
		spinner.Start()
		report := e.bridge.Save(ctx, r)
		spinner.StopWithReport(report)
		failed += len(report.Failed())
	}
	if failed > 0 {
		return errs.New(errs.ErrCodeSaveFailed, "%d writes failed", failed)
	}
	return nil
}
