package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage sequenced activities",
	}

	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityCompleteCmd(app),
		newActivityReleaseCmd(app),
		newActivityReopenCmd(app),
		newActivityRemoveCmd(app),
	)

	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var scenarioID, description, responsible string
	var seq int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an activity in a scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// When fields are missing and stdin is a terminal, fall back to
			// the interactive form.
			if seq == 0 && app.IsInteractive != nil && app.IsInteractive() {
				var seqStr string
				if err := activityForm(&seqStr, &description, &responsible).Run(); err != nil {
					return err
				}
				v, err := strconv.Atoi(seqStr)
				if err != nil {
					return fmt.Errorf("invalid sequence number %q", seqStr)
				}
				seq = v
			}
			if seq <= 0 {
				return fmt.Errorf("a positive --seq is required")
			}

			a, err := app.Workflow.CreateActivity(ctx, scenarioID, seq, description, responsible, app.CallerID)
			if err != nil {
				return err
			}
			state := formatter.StatePill(a.State())
			fmt.Printf("Created activity #%d [%s] %s\n", a.SequenceNumber, a.ID[:8], state)
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioID, "scenario", "", "Scenario ID")
	cmd.Flags().IntVar(&seq, "seq", 0, "Sequence number")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible username")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var scenarioID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a scenario's activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			activities, err := app.Workflow.ListActivities(context.Background(), scenarioID)
			if err != nil {
				return err
			}
			if len(activities) == 0 {
				fmt.Println("No activities found.")
				return nil
			}
			fmt.Println(formatter.FormatActivityList(activities))
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioID, "scenario", "", "Scenario ID")
	_ = cmd.MarkFlagRequired("scenario")

	return cmd
}

func newActivityCompleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <activity-id>",
		Short: "Complete an activity, releasing its successor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Workflow.CompleteActivity(context.Background(), args[0], app.CallerID)
			if err != nil {
				return err
			}
			fmt.Printf("Completed activity #%d\n", result.Activity.SequenceNumber)
			if result.ReleasedNext != nil {
				fmt.Printf("Released activity #%d (%s)\n", result.ReleasedNext.SequenceNumber, result.ReleasedNext.Description)
			}
			return nil
		},
	}
}

func newActivityReleaseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "release <activity-id>",
		Short: "Release an activity out of sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Workflow.ReleaseActivity(context.Background(), args[0], app.CallerID)
			if err != nil {
				return err
			}
			if result.AlreadyReleased {
				fmt.Printf("Activity #%d was already released.\n", result.Activity.SequenceNumber)
				return nil
			}
			fmt.Printf("Released activity #%d\n", result.Activity.SequenceNumber)
			return nil
		},
	}
}

func newActivityReopenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <activity-id>",
		Short: "Clear an activity's completion, keeping it released",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Workflow.ReopenActivity(context.Background(), args[0], app.CallerID)
			if err != nil {
				return err
			}
			if !result.Reopened {
				fmt.Printf("Activity #%d was not completed; nothing to reopen.\n", result.Activity.SequenceNumber)
				return nil
			}
			fmt.Printf("Reopened activity #%d\n", result.Activity.SequenceNumber)
			return nil
		},
	}
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <activity-id>",
		Short: "Delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Workflow.DeleteActivity(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Activity deleted.")
			return nil
		},
	}
}
