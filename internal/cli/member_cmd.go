package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
)

func newMemberCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}

	cmd.AddCommand(
		newMemberAddCmd(app),
		newMemberListCmd(app),
		newMemberRemoveCmd(app),
		newMemberAssignCmd(app),
	)

	return cmd
}

func newMemberAddCmd(app *App) *cobra.Command {
	var projectID, username string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a user to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			u, err := app.Users.GetByUsername(ctx, username)
			if err != nil {
				return fmt.Errorf("resolving user %q: %w", username, err)
			}
			m, err := app.Members.AddMember(ctx, pid, u.ID, app.CallerID)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s to project (member %s)\n", username, m.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&username, "user", "", "Username to enroll")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newMemberListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project members and their profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			infos, err := app.Members.List(ctx, pid)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Println("No members found.")
				return nil
			}
			fmt.Println(formatter.FormatMemberList(infos))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newMemberRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <member-id>",
		Short: "Remove a member from their project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Members.RemoveMember(context.Background(), args[0], app.CallerID); err != nil {
				return err
			}
			fmt.Println("Member removed.")
			return nil
		},
	}

	return cmd
}

func newMemberAssignCmd(app *App) *cobra.Command {
	var projectID, memberID, profileName string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a profile to a member, replacing any current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}

			profiles, err := app.Permission.ListProfiles(ctx, pid)
			if err != nil {
				return err
			}
			var profileID string
			for _, p := range profiles {
				if p.Name == profileName {
					profileID = p.ID
					break
				}
			}
			if profileID == "" {
				return fmt.Errorf("profile not found: %q", profileName)
			}

			if err := app.Members.AssignProfile(ctx, pid, memberID, profileID, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Assigned profile %s\n", profileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&memberID, "member", "", "Member ID")
	cmd.Flags().StringVar(&profileName, "profile", "", "Profile name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("member")
	_ = cmd.MarkFlagRequired("profile")

	return cmd
}
