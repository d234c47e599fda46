package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage phases",
	}

	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseRemoveCmd(app),
	)

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var projectID, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a phase in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			p, err := app.Projects.CreatePhase(ctx, pid, name, app.CallerID)
			if err != nil {
				return err
			}
			fmt.Printf("Created phase %s [%s]\n", p.Name, p.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPhaseRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <phase-id>",
		Short: "Delete a phase and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.DeletePhase(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Phase deleted.")
			return nil
		},
	}
}

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Manage scenarios",
	}

	cmd.AddCommand(
		newScenarioAddCmd(app),
		newScenarioRemoveCmd(app),
	)

	return cmd
}

func newScenarioAddCmd(app *App) *cobra.Command {
	var phaseID, name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a scenario in a phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := app.Projects.CreateScenario(context.Background(), phaseID, name, app.CallerID)
			if err != nil {
				return err
			}
			fmt.Printf("Created scenario %s [%s]\n", sc.Name, sc.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&phaseID, "phase", "", "Phase ID")
	cmd.Flags().StringVar(&name, "name", "", "Scenario name")
	_ = cmd.MarkFlagRequired("phase")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newScenarioRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <scenario-id>",
		Short: "Delete a scenario and its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Projects.DeleteScenario(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Scenario deleted.")
			return nil
		},
	}
}
