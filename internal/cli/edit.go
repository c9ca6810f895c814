package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/seatmap/pkg/errors"
)

// editCommand creates the interactive editor command.
func (c *CLI) editCommand() *cobra.Command {
	var (
		floor int
		room  int64
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a room's layout in the terminal",
		Long: `Edit opens a room on its floor and lets you move and resize it and move and
rotate its seats with the keyboard. Edits are clamped the same way pointer
drags are: seats stay inside their room and rooms inside the floor frame.
Press s to write the geometry back.`,
		Example: `  seatmap edit --floor 2 --room 12`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEdit(cmd.Context(), floor, room)
		},
	}

	cmd.Flags().IntVar(&floor, "floor", 0, "floor number (required)")
	cmd.Flags().Int64Var(&room, "room", 0, "room to edit (required)")
	_ = cmd.MarkFlagRequired("floor")
	_ = cmd.MarkFlagRequired("room")

	return cmd
}

func (c *CLI) runEdit(ctx context.Context, floor int, roomID int64) error {
	if err := errs.ValidateID("room", roomID); err != nil {
		return err
	}

	e, err := c.newEnv(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	ws := c.newWorkspace(e, e.notices)
	defer ws.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Loading room %d on floor %d...", roomID, floor))
	spinner.Start()
	m, err := ws.Open(ctx, floor, roomID)
	spinner.Stop()
	if err != nil {
		return err
	}

	model := NewEditorModel(ctx, m, e.notices, ws.SaveSnapshot)
	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}

	if em, ok := final.(EditorModel); ok && em.Dirty {
		printWarning("Room %d has unsaved changes", roomID)
		printNextStep("Edit again", fmt.Sprintf("seatmap edit --floor %d --room %d", floor, roomID))
	}
	return nil
}
