package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
)

func newBoardCmd(app *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "board <project-id>",
		Short: "Show the project board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}

			interactive := app.IsInteractive != nil && app.IsInteractive()
			if watch && interactive {
				_, err := tea.NewProgram(newBoardView(app, pid), tea.WithAltScreen()).Run()
				return err
			}

			board, err := app.Boards.Board(ctx, pid, app.CallerID)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatBoard(board))
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Open the interactive board view")

	return cmd
}
