package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
	"github.com/stagegate/stagegate/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage capability profiles",
	}

	cmd.AddCommand(
		newProfileAddCmd(app),
		newProfileListCmd(app),
		newProfileShowCmd(app),
		newProfileEditCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func resolveProfile(ctx context.Context, app *App, projectID, name string) (*domain.Profile, error) {
	profiles, err := app.Permission.ListProfiles(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("profile not found: %q", name)
}

// flagsFromSelection builds a capability set with exactly the selected
// capabilities granted.
func flagsFromSelection(selected []domain.Capability) domain.CapabilitySet {
	flags := domain.DenyAllCapabilitySet()
	for _, c := range selected {
		flags[c] = true
	}
	return flags
}

func newProfileAddCmd(app *App) *cobra.Command {
	var projectID, name string
	var grants []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}

			var selected []domain.Capability
			if len(grants) > 0 {
				for _, g := range grants {
					selected = append(selected, domain.Capability(g))
				}
			} else if app.IsInteractive != nil && app.IsInteractive() {
				if err := capabilityForm(&selected).Run(); err != nil {
					return err
				}
			}

			p := &domain.Profile{
				ProjectID: pid,
				Name:      name,
				Flags:     flagsFromSelection(selected),
			}
			if err := app.Permission.CreateProfile(ctx, p, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Created profile %s with %d granted capabilities\n", p.Name, len(selected))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Profile name")
	cmd.Flags().StringSliceVar(&grants, "grant", nil, "Capability to grant (repeatable)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's profiles",
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
			fmt.Println(formatter.FormatProfileList(profiles))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProfileShowCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a profile's capability flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			p, err := resolveProfile(ctx, app, pid, args[0])
			if err != nil {
				return err
			}
			fmt.Println(formatter.RenderBox(p.Name, formatter.FormatCapabilities(p.Flags)))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProfileEditCmd(app *App) *cobra.Command {
	var projectID string
	var grants []string

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Replace a profile's granted capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			p, err := resolveProfile(ctx, app, pid, args[0])
			if err != nil {
				return err
			}

			var selected []domain.Capability
			if len(grants) > 0 {
				for _, g := range grants {
					selected = append(selected, domain.Capability(g))
				}
			} else if app.IsInteractive != nil && app.IsInteractive() {
				for _, c := range domain.AllCapabilities {
					if p.Flags.Has(c) {
						selected = append(selected, c)
					}
				}
				if err := capabilityForm(&selected).Run(); err != nil {
					return err
				}
			}

			p.Flags = flagsFromSelection(selected)
			if err := app.Permission.UpdateProfile(ctx, p, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Updated profile %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	cmd.Flags().StringSliceVar(&grants, "grant", nil, "Capability to grant (repeatable)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProfileRemoveCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete a custom profile, reassigning holders to Member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			pid, err := resolveProjectID(ctx, app, projectID)
			if err != nil {
				return err
			}
			p, err := resolveProfile(ctx, app, pid, args[0])
			if err != nil {
				return err
			}
			if err := app.Permission.DeleteProfile(ctx, p.ID, app.CallerID); err != nil {
				return err
			}
			fmt.Printf("Deleted profile %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project ID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
