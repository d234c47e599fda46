package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stagegate/stagegate/internal/cli/formatter"
	"github.com/stagegate/stagegate/internal/domain"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var username, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{Username: username, Email: email}
			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}
			fmt.Printf("Created user %s\n", u.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Unique username")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{
					formatter.TruncID(u.ID),
					formatter.Bold(u.Username),
					formatter.Dim(u.Email),
				})
			}
			fmt.Println(formatter.RenderBox("Users", formatter.RenderTable([]string{"ID", "USERNAME", "EMAIL"}, rows)))
			return nil
		},
	}
}
