package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
	"github.com/stagegate/stagegate/internal/domain"
)

func newLessonCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lesson",
		Short: "Manage lessons-learned records",
	}

	cmd.AddCommand(
		newLessonAddCmd(app),
		newLessonListCmd(app),
		newLessonRemoveCmd(app),
	)

	return cmd
}

func newLessonAddCmd(app *App) *cobra.Command {
	var projectID, category, lessonType, description, recommendation, responsible string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a lesson learned",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			l := &domain.Lesson{
				ProjectID:      pid,
				Category:       category,
				Type:           lessonType,
				Description:    description,
				Recommendation: recommendation,
				Responsible:    responsible,
				Status:         "open",
			}
			if err := app.Records.CreateLesson(ctx, l, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Recorded lesson [%s]\n", l.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&lessonType, "type", "positive", "positive or negative")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&recommendation, "recommendation", "", "Recommendation for future projects")
	cmd.Flags().StringVar(&responsible, "responsible", "", "Responsible username")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newLessonListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			lessons, err := app.Records.ListLessons(ctx, pid)
			if err != nil {
				return err
			}
			if len(lessons) == 0 {
				fmt.Println("No lessons found.")
				return nil
			}
			fmt.Println(formatter.FormatLessonList(lessons))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newLessonRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <lesson-id>",
		Short: "Delete a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Records.DeleteLesson(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Lesson deleted.")
			return nil
		},
	}
}

func newChangeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "change",
		Short: "Manage change requests",
	}

	cmd.AddCommand(
		newChangeAddCmd(app),
		newChangeListCmd(app),
		newChangeRemoveCmd(app),
	)

	return cmd
}

func newChangeAddCmd(app *App) *cobra.Command {
	var projectID, requester, changeType, description, justification, priority string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Open a change request",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			c := &domain.ChangeRequest{
				ProjectID:     pid,
				Requester:     requester,
				ChangeType:    changeType,
				Description:   description,
				Justification: justification,
				Priority:      priority,
				Status:        "pending",
			}
			if err := app.Records.CreateChange(ctx, c, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Opened change request [%s]\n", c.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&requester, "requester", "", "Requester name")
	cmd.Flags().StringVar(&changeType, "type", "scope", "Change type")
	cmd.Flags().StringVar(&description, "desc", "", "Description")
	cmd.Flags().StringVar(&justification, "justification", "", "Justification")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("desc")

	return cmd
}

func newChangeListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's change requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			changes, err := app.Records.ListChanges(ctx, pid)
			if err != nil {
				return err
			}
			if len(changes) == 0 {
				fmt.Println("No change requests found.")
				return nil
			}
			fmt.Println(formatter.FormatChangeList(changes))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newChangeRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <change-id>",
		Short: "Delete a change request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Records.DeleteChange(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Change request deleted.")
			return nil
		},
	}
}
